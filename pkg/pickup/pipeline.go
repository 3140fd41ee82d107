// Package pickup orchestrates a pickup-request submission: validation,
// phone normalization, duplicate suppression, rate cooldown, message
// composition and the final handoff to the messaging deep link.
package pickup

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/skyexpress/courier/pkg/dedup"
	"github.com/skyexpress/courier/pkg/kv"
	"github.com/skyexpress/courier/pkg/message"
	"github.com/skyexpress/courier/pkg/phone"
)

const (
	defaultMessagingHost = "wa.me"
	defaultCooldown      = 3 * time.Second
	defaultSubmitDelay   = 650 * time.Millisecond
)

var (
	// ErrMissingFields means a required field was blank. No storage is
	// touched and no handoff happens.
	ErrMissingFields = errors.New("pickup: missing required fields")

	// ErrInvalidPhone means the phone input could not be normalized to a
	// dialable number.
	ErrInvalidPhone = errors.New("pickup: phone number is not dialable")

	// ErrDuplicate means an identical request was already handed off within
	// the duplicate window. This is a suppression, not a failure.
	ErrDuplicate = errors.New("pickup: identical request sent recently")

	// ErrCooldown means another handoff, identical or not, happened too
	// recently on this pipeline instance.
	ErrCooldown = errors.New("pickup: please wait before sending another request")

	// ErrBusy means a submission is already in flight on this pipeline.
	ErrBusy = errors.New("pickup: submission already in progress")

	// ErrHandoff means the external messaging link could not be opened.
	// The caller should surface the fallback phone number.
	ErrHandoff = errors.New("pickup: could not open messaging app")
)

// Clock abstracts time so tests can advance it instead of sleeping.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// Opener performs the external handoff with the fully built deep link.
type Opener interface {
	Open(url string) error
}

// Request is one pickup form submission. PhoneRaw is free text; Email and
// Notes are optional.
type Request struct {
	Name     string
	PhoneRaw string
	Email    string
	Address  string
	Service  string
	Notes    string
}

// Result reports a completed (or attempted) handoff.
type Result struct {
	URL         string
	Message     string
	Phone       string
	Fingerprint string
}

// Config wires a Pipeline. Zero values get sensible defaults; only Store
// is required.
type Config struct {
	Store  kv.Store
	Opener Opener
	Clock  Clock

	BusinessName   string
	BusinessNumber string // messaging identifier, digits without plus
	MessagingHost  string
	CountryCode    string
	FallbackPhone  string

	Cooldown        time.Duration // between any two handoffs
	DuplicateWindow time.Duration // between identical handoffs
	SubmitDelay     time.Duration // pause before opening the link
}

type Pipeline struct {
	cfg   Config
	guard *dedup.Guard

	mu          sync.Mutex
	busy        bool
	lastHandoff time.Time
}

func New(cfg Config) *Pipeline {
	if cfg.Store == nil {
		cfg.Store = kv.NewMemory()
	}
	if cfg.Clock == nil {
		cfg.Clock = systemClock{}
	}
	if cfg.Opener == nil {
		cfg.Opener = NopOpener{}
	}
	if cfg.MessagingHost == "" {
		cfg.MessagingHost = defaultMessagingHost
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = defaultCooldown
	}
	if cfg.SubmitDelay <= 0 {
		cfg.SubmitDelay = defaultSubmitDelay
	}
	guard := dedup.NewGuard(cfg.Store)
	guard.Clock = cfg.Clock
	if cfg.DuplicateWindow > 0 {
		guard.Window = cfg.DuplicateWindow
	}
	return &Pipeline{cfg: cfg, guard: guard}
}

// FallbackPhone is the published number callers should show when the
// handoff fails.
func (p *Pipeline) FallbackPhone() string { return p.cfg.FallbackPhone }

// Busy reports whether a submission is currently in flight.
func (p *Pipeline) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.busy
}

// Submit runs the full pipeline for one request. On ErrHandoff the returned
// Result is still populated so callers can offer the link for manual use.
// Whatever the outcome, the pipeline always ends idle again.
func (p *Pipeline) Submit(ctx context.Context, req Request) (*Result, error) {
	if missing := missingFields(req); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}

	dialable := phone.Normalize(req.PhoneRaw, p.cfg.CountryCode)
	if !phone.IsValidE164(dialable) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPhone, req.PhoneRaw)
	}

	msg := message.Compose(p.cfg.BusinessName, message.Request{
		Name:    strings.TrimSpace(req.Name),
		Phone:   dialable,
		Email:   strings.TrimSpace(req.Email),
		Address: strings.TrimSpace(req.Address),
		Service: req.Service,
		Notes:   strings.TrimSpace(req.Notes),
		Time:    p.cfg.Clock.Now().Format("02/01/2006, 15:04:05"),
	})
	hash := dedup.Fingerprint(msg)

	if !p.guard.MayProceed(ctx, hash) {
		return nil, ErrDuplicate
	}

	if err := p.begin(); err != nil {
		return nil, err
	}
	defer p.end()

	// Recorded before the handoff: a slow or failed open still counts
	// against the duplicate window.
	_ = p.guard.Record(ctx, hash)

	p.cfg.Clock.Sleep(p.cfg.SubmitDelay)

	res := &Result{
		URL:         p.HandoffURL(msg),
		Message:     msg,
		Phone:       dialable,
		Fingerprint: hash,
	}
	if err := p.cfg.Opener.Open(res.URL); err != nil {
		return res, fmt.Errorf("%w: %v", ErrHandoff, err)
	}
	return res, nil
}

// HandoffURL builds the messaging deep link carrying msg.
func (p *Pipeline) HandoffURL(msg string) string {
	return fmt.Sprintf("https://%s/%s?text=%s",
		p.cfg.MessagingHost, p.cfg.BusinessNumber, url.QueryEscape(msg))
}

// begin flips the pipeline to busy and enforces the per-instance cooldown
// between handoffs, identical or not.
func (p *Pipeline) begin() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.busy {
		return ErrBusy
	}
	now := p.cfg.Clock.Now()
	if !p.lastHandoff.IsZero() && now.Sub(p.lastHandoff) < p.cfg.Cooldown {
		return ErrCooldown
	}
	p.lastHandoff = now
	p.busy = true
	return nil
}

func (p *Pipeline) end() {
	p.mu.Lock()
	p.busy = false
	p.mu.Unlock()
}

func missingFields(req Request) []string {
	var missing []string
	if strings.TrimSpace(req.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(req.PhoneRaw) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(req.Address) == "" {
		missing = append(missing, "address")
	}
	if strings.TrimSpace(req.Service) == "" {
		missing = append(missing, "service")
	}
	return missing
}
