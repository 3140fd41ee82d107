// Package message builds the human-readable pickup request text that gets
// handed off to the messaging app.
package message

import "strings"

const DefaultBusinessName = "SKY EXPRESS"

// Request carries the already-validated fields of a pickup request. Phone
// must be in dialable form; Time is the local timestamp string captured at
// composition.
type Request struct {
	Name    string
	Phone   string
	Email   string
	Address string
	Service string
	Notes   string
	Time    string
}

// Compose renders a request as newline-joined plain text with a fixed line
// order. Email and Notes are omitted when blank; Name, Service and Address
// fall back to "N/A". Output is deterministic for identical input, which
// the duplicate guard relies on.
func Compose(businessName string, r Request) string {
	if businessName == "" {
		businessName = DefaultBusinessName
	}
	lines := []string{
		businessName + " — Pickup Request",
		"Name: " + orNA(r.Name),
		"Phone: " + r.Phone,
	}
	if r.Email != "" {
		lines = append(lines, "Email: "+r.Email)
	}
	lines = append(lines,
		"Service: "+orNA(r.Service),
		"Address: "+orNA(r.Address),
	)
	if r.Notes != "" {
		lines = append(lines, "Notes: "+r.Notes)
	}
	lines = append(lines, "Time: "+r.Time)
	return strings.Join(lines, "\n")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
