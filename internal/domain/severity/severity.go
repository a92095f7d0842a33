package severity

import "strconv"

// Severity is a raw or known event severity. Lower non-zero codes are more severe.
type Severity int

// Known severities.
const (
	// Undefined marks an absent or out-of-range severity.
	Undefined Severity = 0
	// Critical is the most severe known value.
	Critical Severity = 1
	// Major is a serious condition that still allows operation.
	Major Severity = 250
	// Minor is a warning-level condition.
	Minor Severity = 500
	// Info is an informational event.
	Info Severity = 750
	// Max is the highest valid raw code.
	Max Severity = 999
)

// known lists the counted severities from the most to the least severe.
//
//nolint:gochecknoglobals // Read-only lookup table.
var known = [...]Severity{Critical, Major, Minor, Info}

// Known returns the four counted severities in severity order.
func Known() []Severity {
	out := make([]Severity, len(known))
	copy(out, known[:])

	return out
}

// Closest projects a raw code onto the nearest known severity.
// Codes outside [1, Max] are Undefined. When a code lies exactly between two
// known values the more severe one wins.
func Closest(raw int) Severity {
	if raw < int(Critical) || raw > int(Max) {
		return Undefined
	}

	best := known[0]
	bestDistance := distance(raw, best)

	for _, candidate := range known[1:] {
		// Strict comparison keeps the earlier, more severe candidate on ties.
		if d := distance(raw, candidate); d < bestDistance {
			best, bestDistance = candidate, d
		}
	}

	return best
}

// distance returns the absolute distance between a raw code and a known value.
func distance(raw int, s Severity) int {
	d := raw - int(s)
	if d < 0 {
		return -d
	}

	return d
}

// IsKnown reports whether s is one of the four counted severities.
func (s Severity) IsKnown() bool {
	return s.Rank() < len(known)
}

// Rank returns the position of s in severity order: 0 for Critical up to 3 for
// Info. Any other value, Undefined included, ranks 4.
func (s Severity) Rank() int {
	for i, k := range known {
		if s == k {
			return i
		}
	}

	return len(known)
}

// MoreSevere reports whether s ranks strictly above other.
func (s Severity) MoreSevere(other Severity) bool {
	return s.Rank() < other.Rank()
}

// String returns the lowercase severity name, or the raw code for unknown values.
func (s Severity) String() string {
	switch s {
	case Critical:
		return "critical"
	case Major:
		return "major"
	case Minor:
		return "minor"
	case Info:
		return "info"
	case Undefined:
		return "undefined"
	default:
		return strconv.Itoa(int(s))
	}
}
