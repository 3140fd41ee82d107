package main

import (
	"github.com/skyexpress/courier/cmd"
)

func main() {
	cmd.Execute()
}
