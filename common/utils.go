package common

import (
	"strings"
	"time"
)

// StringOrNil returns the given string or nil when empty
func StringOrNil(str string) *string {
	if str == "" {
		return nil
	}
	return &str
}

// AddressesEqual compares two hex wallet addresses without regard to
// checksum casing
func AddressesEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// UnixTimeOrNil converts a unix timestamp to a *time.Time, treating zero as
// "never" (unset registry timestamps read back as 0)
func UnixTimeOrNil(ts int64) *time.Time {
	if ts == 0 {
		return nil
	}
	t := time.Unix(ts, 0).UTC()
	return &t
}
