package consensus

import "strings"

// Status is the ordinal verdict a judge assigns to one rubric item.
// Strict total order: absent < partial < present.
type Status string

const (
	StatusAbsent  Status = "absent"
	StatusPartial Status = "partial"
	StatusPresent Status = "present"
)

// NormalizeStatus maps a raw oracle verdict onto the ordinal set.
// "full" is a legacy alias for present; anything unrecognized collapses
// to partial so a malformed verdict never inflates or zeroes a score.
func NormalizeStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "absent":
		return StatusAbsent
	case "partial":
		return StatusPartial
	case "present", "full":
		return StatusPresent
	default:
		return StatusPartial
	}
}

// Rank returns the position of s in the ordinal order.
func (s Status) Rank() int {
	switch s {
	case StatusAbsent:
		return 0
	case StatusPresent:
		return 2
	default:
		return 1
	}
}

// Multiplier converts a verdict into fractional credit.
// The table is fixed: absent=0, partial=0.5, present=1.
func (s Status) Multiplier() float64 {
	switch s {
	case StatusAbsent:
		return 0.0
	case StatusPresent:
		return 1.0
	default:
		return 0.5
	}
}
