package phone

import "testing"

func TestNormalizeNationalNumbers(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"9876543210", "+919876543210"},
		{"98765 43210", "+919876543210"},
		{"(987) 654-3210", "+919876543210"},
		{"098765432109", "+9198765432109"},
		{"+14155550132", "+14155550132"},
		{"+1 (415) 555-0132", "+14155550132"},
		{"4155550132", "+914155550132"},
		{"1234567", "+1234567"},
	}
	for _, c := range cases {
		got := Normalize(c.in, "")
		if got != c.want {
			t.Fatalf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
		if !IsValidE164(got) {
			t.Fatalf("Normalize(%q) = %q, expected valid E.164", c.in, got)
		}
	}
}

func TestNormalizeCustomCountryCode(t *testing.T) {
	got := Normalize("9876543210", "44")
	if got != "+449876543210" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestNormalizeRejectsShortAndLongNumbers(t *testing.T) {
	for _, in := range []string{"12-34", "123456", "+12345678901234567890", "call me", ""} {
		got := Normalize(in, "")
		if IsValidE164(got) {
			t.Fatalf("Normalize(%q) = %q, expected invalid", in, got)
		}
	}
}

func TestIsValidE164(t *testing.T) {
	valid := []string{"+1234567", "+919876543210", "+123456789012345"}
	invalid := []string{"", "+123456", "+1234567890123456", "919876543210", "+91 98765"}
	for _, s := range valid {
		if !IsValidE164(s) {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	for _, s := range invalid {
		if IsValidE164(s) {
			t.Fatalf("expected %q to be invalid", s)
		}
	}
}
