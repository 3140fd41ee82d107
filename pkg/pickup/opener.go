package pickup

import (
	"fmt"
	"os/exec"
	"runtime"
)

// NopOpener performs no handoff. Used when the caller only wants the built
// link, e.g. the HTTP API returning it to the browser.
type NopOpener struct{}

func (NopOpener) Open(string) error { return nil }

// BrowserOpener opens the deep link with the local desktop's URL handler.
type BrowserOpener struct{}

func (BrowserOpener) Open(url string) error {
	var name string
	var args []string
	switch runtime.GOOS {
	case "darwin":
		name = "open"
		args = []string{url}
	case "windows":
		name = "rundll32"
		args = []string{"url.dll,FileProtocolHandler", url}
	default:
		name = "xdg-open"
		args = []string{url}
	}
	bin, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("%s not found in PATH: %w", name, err)
	}
	return exec.Command(bin, args...).Start()
}
