// Package fold tracks the fold status of a hinged device from its hinge
// angle and hall sensor readings.
package fold

// Status is the physical fold posture of the device.
type Status uint32

const (
	StatusUnknown Status = iota
	StatusExpand
	StatusFolded
	StatusHalfFold
	StatusExpandWithSecondExpand
	StatusExpandWithSecondHalfFolded
	StatusFoldedWithSecondExpand
	StatusFoldedWithSecondHalfFolded
	StatusHalfFoldWithSecondExpand
	StatusHalfFoldWithSecondHalfFolded
)

func (s Status) String() string {
	switch s {
	case StatusExpand:
		return "expand"
	case StatusFolded:
		return "folded"
	case StatusHalfFold:
		return "half_fold"
	case StatusExpandWithSecondExpand:
		return "expand_with_second_expand"
	case StatusExpandWithSecondHalfFolded:
		return "expand_with_second_half_folded"
	case StatusFoldedWithSecondExpand:
		return "folded_with_second_expand"
	case StatusFoldedWithSecondHalfFolded:
		return "folded_with_second_half_folded"
	case StatusHalfFoldWithSecondExpand:
		return "half_fold_with_second_expand"
	case StatusHalfFoldWithSecondHalfFolded:
		return "half_fold_with_second_half_folded"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Hall sensor readings.
const (
	HallFolded = 0
	HallOpen   = 1
	// HallUnchanged is passed to HandleTentChange to reuse the last reading.
	HallUnchanged = -1
)
