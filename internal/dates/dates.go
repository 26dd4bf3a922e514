// Package dates implements date validation and the canonical
// active-date policy: the nearest upcoming date with known data, else
// the latest known past date, else today. Every optional date
// parameter in the service resolves through this policy.
package dates

import (
	"fmt"
	"sort"
	"time"
)

// ISOLayout is the wire format for all dates in the service
const ISOLayout = "2006-01-02"

// refZone anchors "today". NBA schedules key off US Eastern time.
var refZone = func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.UTC
	}
	return loc
}()

// Valid reports whether s is a well-formed ISO YYYY-MM-DD date
func Valid(s string) bool {
	_, err := time.Parse(ISOLayout, s)
	return err == nil
}

// Validate returns a caller-facing error for malformed dates
func Validate(s string) error {
	if !Valid(s) {
		return fmt.Errorf("invalid date %q: expected ISO format YYYY-MM-DD", s)
	}
	return nil
}

// Today returns the current date in the reference zone
func Today() string {
	return time.Now().In(refZone).Format(ISOLayout)
}

// ResolveActive picks the active date from the known prop-line dates:
// the earliest date >= today, else the latest known date, else today
// itself. Malformed entries in known are ignored.
func ResolveActive(known []string, today string) string {
	valid := make([]string, 0, len(known))
	for _, d := range known {
		if Valid(d) {
			valid = append(valid, d)
		}
	}
	if len(valid) == 0 {
		return today
	}
	sort.Strings(valid)

	// ISO dates sort lexicographically, so the first date >= today wins
	for _, d := range valid {
		if d >= today {
			return d
		}
	}
	return valid[len(valid)-1]
}
