package message

import (
	"strings"
	"testing"
)

func TestComposeFullRequest(t *testing.T) {
	got := Compose("", Request{
		Name:    "Asha",
		Phone:   "+919876543210",
		Email:   "asha@example.com",
		Address: "12 Harbor Road",
		Service: "Domestic",
		Notes:   "Fragile",
		Time:    "01/01/2026, 10:00:00",
	})

	want := strings.Join([]string{
		"SKY EXPRESS — Pickup Request",
		"Name: Asha",
		"Phone: +919876543210",
		"Email: asha@example.com",
		"Service: Domestic",
		"Address: 12 Harbor Road",
		"Notes: Fragile",
		"Time: 01/01/2026, 10:00:00",
	}, "\n")

	if got != want {
		t.Fatalf("unexpected message.\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestComposeOmitsOptionalLines(t *testing.T) {
	got := Compose("", Request{
		Name:    "Asha",
		Phone:   "+919876543210",
		Address: "12 Harbor Road",
		Service: "Domestic",
		Time:    "01/01/2026, 10:00:00",
	})

	if strings.Contains(got, "Email:") {
		t.Fatalf("blank email should be omitted:\n%s", got)
	}
	if strings.Contains(got, "Notes:") {
		t.Fatalf("blank notes should be omitted:\n%s", got)
	}
}

func TestComposePlaceholders(t *testing.T) {
	got := Compose("", Request{
		Phone: "+919876543210",
		Time:  "01/01/2026, 10:00:00",
	})

	for _, line := range []string{"Name: N/A", "Service: N/A", "Address: N/A"} {
		if !strings.Contains(got, line) {
			t.Fatalf("expected %q in:\n%s", line, got)
		}
	}
}

func TestComposeCustomBusinessName(t *testing.T) {
	got := Compose("ACME COURIER", Request{Phone: "+1234567", Time: "t"})
	if !strings.HasPrefix(got, "ACME COURIER — Pickup Request\n") {
		t.Fatalf("unexpected title line:\n%s", got)
	}
}

func TestComposeDeterministic(t *testing.T) {
	r := Request{Name: "A", Phone: "+1234567", Address: "X", Service: "Domestic", Time: "t"}
	if Compose("", r) != Compose("", r) {
		t.Fatal("Compose must be deterministic for identical input")
	}
}
