// Package dedup suppresses byte-identical resubmissions of a pickup request
// within a cooldown window. It is a UX nicety, not a security or idempotency
// boundary: every failure mode fails open so a storage problem never blocks
// a legitimate user.
package dedup

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/skyexpress/courier/pkg/kv"
)

const (
	// DefaultKey is the single record slot in the backing store.
	DefaultKey = "last_pickup"

	// DefaultWindow is how long an identical message stays blocked.
	DefaultWindow = 5 * time.Minute
)

// Clock lets tests advance simulated time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Record is the persisted signature of the most recent submission. It is
// overwritten on every successful handoff and never purged; a stale record
// simply falls outside the window.
type Record struct {
	Hash string `json:"hash"`
	TS   int64  `json:"ts"` // unix milliseconds
}

// Fingerprint returns a 32-bit FNV-1a digest of msg as lowercase hex.
// Collisions only risk a spurious "already sent" notice, so a short
// non-cryptographic hash is enough.
func Fingerprint(msg string) string {
	h := fnv.New32a()
	h.Write([]byte(msg))
	return fmt.Sprintf("%x", h.Sum32())
}

// Guard gates resubmission using a single record in a kv.Store.
type Guard struct {
	Store  kv.Store
	Key    string
	Window time.Duration
	Clock  Clock
}

func NewGuard(store kv.Store) *Guard {
	return &Guard{
		Store:  store,
		Key:    DefaultKey,
		Window: DefaultWindow,
		Clock:  systemClock{},
	}
}

// MayProceed reports whether a message with the given fingerprint may be
// submitted. Missing record, different hash, expired window, and any
// read or parse failure all permit the submission.
func (g *Guard) MayProceed(ctx context.Context, hash string) bool {
	raw, ok, err := g.Store.Get(ctx, g.Key)
	if err != nil || !ok {
		return true
	}
	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return true
	}
	age := g.Clock.Now().UnixMilli() - rec.TS
	if rec.Hash == hash && age < g.Window.Milliseconds() {
		return false
	}
	return true
}

// Record overwrites the stored signature with {hash, now}. Callers that
// want the original best-effort behavior ignore the returned error.
func (g *Guard) Record(ctx context.Context, hash string) error {
	raw, err := json.Marshal(Record{Hash: hash, TS: g.Clock.Now().UnixMilli()})
	if err != nil {
		return err
	}
	if err := g.Store.Set(ctx, g.Key, string(raw)); err != nil {
		return fmt.Errorf("record submission: %w", err)
	}
	return nil
}
