package phone

import (
	"regexp"
	"strings"
)

// DefaultCountryCode is prefixed to national numbers that carry no country
// code of their own. The business operates in a single market, so one
// default is enough.
const DefaultCountryCode = "91"

var (
	nationalWithZero = regexp.MustCompile(`^0\d{9,}$`)
	tenDigits        = regexp.MustCompile(`^\d{10}$`)
	bareDigits       = regexp.MustCompile(`^\d{7,15}$`)
	nonDialable      = regexp.MustCompile(`[^\d+]`)
	e164             = regexp.MustCompile(`^\+\d{7,15}$`)

	formatting = strings.NewReplacer(" ", "", "(", "", ")", "", ".", "", "-", "")
)

// Normalize converts free-text phone input into a dialable international
// form on a best-effort basis. countryCode is used without a leading plus;
// pass "" for the default. The result is not guaranteed valid, callers
// must check with IsValidE164.
func Normalize(raw, countryCode string) string {
	if raw == "" {
		return ""
	}
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}
	s := formatting.Replace(strings.TrimSpace(raw))
	if nationalWithZero.MatchString(s) {
		s = "+" + countryCode + s[1:]
	}
	if tenDigits.MatchString(s) {
		s = "+" + countryCode + s
	}
	if !strings.HasPrefix(s, "+") && bareDigits.MatchString(s) {
		s = "+" + s
	}
	return nonDialable.ReplaceAllString(s, "")
}

// IsValidE164 reports whether s is a plus sign followed by 7 to 15 digits.
func IsValidE164(s string) bool {
	return e164.MatchString(s)
}
