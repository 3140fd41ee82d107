// Package tracking persists the shipment tracking board: a mapping of
// tracking IDs to free-text status lines, stored as one JSON object under a
// single key so admin writes stay last-write-wins with no cross-field
// consistency to maintain.
package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/skyexpress/courier/pkg/kv"
)

// DefaultKey is the slot holding the whole tracking mapping.
const DefaultKey = "tracking_data"

// ErrEmptyField is returned by Save when id or status is blank after
// trimming.
var ErrEmptyField = errors.New("tracking: id and status must be non-empty")

// NormalizeID canonicalizes a tracking ID the way the admin enters it:
// trimmed and upper-cased. Lookups use the same form, so queries are
// case-insensitive from the visitor's point of view.
func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// Store reads and mutates the tracking mapping.
type Store struct {
	KV  kv.Store
	Key string
}

func NewStore(store kv.Store) *Store {
	return &Store{KV: store, Key: DefaultKey}
}

// Save sets the status for id, creating or overwriting the entry, and
// returns the normalized ID. A missing or corrupt mapping is treated as
// empty rather than an error.
func (s *Store) Save(ctx context.Context, id, status string) (string, error) {
	id = NormalizeID(id)
	status = strings.TrimSpace(status)
	if id == "" || status == "" {
		return "", ErrEmptyField
	}
	data := s.load(ctx)
	data[id] = status
	if err := s.write(ctx, data); err != nil {
		return "", err
	}
	return id, nil
}

// Delete removes id from the mapping. Deleting an absent ID is a no-op,
// but the mapping is still written back, matching overwrite semantics.
func (s *Store) Delete(ctx context.Context, id string) error {
	id = NormalizeID(id)
	data := s.load(ctx)
	delete(data, id)
	return s.write(ctx, data)
}

// Lookup returns the status for id and whether it exists. Read failures
// surface as not-found: the visitor sees the same "no record" state either
// way. The raw blob is probed with gjson so a lookup never pays for a full
// decode of the mapping.
func (s *Store) Lookup(ctx context.Context, id string) (string, bool) {
	id = NormalizeID(id)
	if id == "" {
		return "", false
	}
	raw, ok, err := s.KV.Get(ctx, s.Key)
	if err != nil || !ok {
		return "", false
	}
	res := gjson.Get(raw, escapePath(id))
	if !res.Exists() {
		return "", false
	}
	return res.String(), true
}

// List returns a copy of the whole mapping for the admin view.
func (s *Store) List(ctx context.Context) (map[string]string, error) {
	raw, ok, err := s.KV.Get(ctx, s.Key)
	if err != nil {
		return nil, fmt.Errorf("read tracking data: %w", err)
	}
	if !ok {
		return map[string]string{}, nil
	}
	var data map[string]string
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("decode tracking data: %w", err)
	}
	return data, nil
}

func (s *Store) load(ctx context.Context) map[string]string {
	data := map[string]string{}
	raw, ok, err := s.KV.Get(ctx, s.Key)
	if err != nil || !ok {
		return data
	}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return map[string]string{}
	}
	return data
}

func (s *Store) write(ctx context.Context, data map[string]string) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if err := s.KV.Set(ctx, s.Key, string(raw)); err != nil {
		return fmt.Errorf("write tracking data: %w", err)
	}
	return nil
}

// escapePath neutralizes gjson path syntax in user-entered IDs.
func escapePath(id string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)
	return r.Replace(id)
}
