package fold

import "math"

// Reasons a sensor report is dropped before it reaches the state machine.
const (
	ReasonNegativeAngle   = "negative_angle"
	ReasonFoldedHallOpen  = "folded_angle_hall_open"
	ReasonInvalidPosture  = "invalid_posture"
	ReasonHallSwitchApp   = "hall_switch_app"
	ReasonTentModeIgnored = "tent_mode"
)

// Policy decides fold status from sensor readings. Implementations may keep
// state between calls; the Manager serialises every call under its lock.
type Policy interface {
	Name() string
	// FilterAngle returns the angle to evaluate for an angle report, or a
	// non-empty reason when the report must be dropped.
	FilterAngle(angle float64, hall int) (float64, string)
	// HallAngle returns the angle to evaluate for a hall report.
	HallAngle(angle float64, hall int) float64
	// Next returns the target status. hallSwitchApp selects the wider
	// half-fold band where the policy has one. matched is false when no
	// threshold applied and current was kept.
	Next(current Status, angle float64, hall int, hallSwitchApp bool) (next Status, matched bool)
	// ExitsTent reports whether a sensor event ends tent mode.
	ExitsTent(angle float64, hall int) bool
}

// Observer is implemented by policies that track sensor history. The
// Manager calls Observe before Next for every evaluated reading, but not for
// ComputeTargetState.
type Observer interface {
	Observe(angle float64, hall int)
}

// hallZeroInvalidPosture is the angle above which a closed hall reading
// contradicts the hinge sensor.
const hallZeroInvalidPosture = 170

// DualPolicy is the threshold policy of dual-display foldables.
type DualPolicy struct {
	th Thresholds
}

func NewDualPolicy(th Thresholds) *DualPolicy {
	return &DualPolicy{th: th}
}

func (p *DualPolicy) Name() string { return "dual" }

func (p *DualPolicy) Thresholds() Thresholds { return p.th }

func (p *DualPolicy) FilterAngle(angle float64, hall int) (float64, string) {
	if angle <= p.th.Folded && hall == HallOpen {
		return 0, ReasonFoldedHallOpen
	}
	if angle >= hallZeroInvalidPosture && hall == HallFolded {
		return 0, ReasonInvalidPosture
	}
	if angle < 0 {
		return 0, ReasonNegativeAngle
	}
	if hall == HallFolded {
		return 0, ""
	}
	return angle, ""
}

func (p *DualPolicy) HallAngle(angle float64, hall int) float64 {
	if hall == HallOpen {
		return p.th.HalfFoldedMin + 1
	}
	return angle
}

func (p *DualPolicy) Next(current Status, angle float64, _ int, hallSwitchApp bool) (Status, bool) {
	if angle >= p.th.Expand {
		return StatusExpand, true
	}
	if angle <= p.th.FoldedLower {
		return StatusFolded, true
	}
	lo := p.th.HalfFoldedMin
	if hallSwitchApp {
		lo = p.th.FoldedUpper
	}
	if angle >= lo && angle <= p.th.HalfFoldedMax {
		return StatusHalfFold, true
	}
	return current, false
}

func (p *DualPolicy) ExitsTent(angle float64, hall int) bool {
	return hall == HallFolded || angle > p.th.TentExitMax
}

const (
	smallerBoundary = iota
	largerBoundary
)

// AxisPolicy is the single-hinge policy driven by device config thresholds.
// It switches between a closing and an opening boundary set depending on
// the direction the hinge was last seen moving.
type AxisPolicy struct {
	th       AxisThresholds
	strategy int
}

func NewAxisPolicy(th AxisThresholds) *AxisPolicy {
	return &AxisPolicy{th: th, strategy: smallerBoundary}
}

func (p *AxisPolicy) Name() string { return "axis" }

func (p *AxisPolicy) Thresholds() AxisThresholds { return p.th }

func (p *AxisPolicy) FilterAngle(angle float64, _ int) (float64, string) {
	if angle < 0 {
		return 0, ReasonNegativeAngle
	}
	return angle, ""
}

func (p *AxisPolicy) HallAngle(angle float64, _ int) float64 {
	return angle
}

// Observe selects the closing boundaries when the hall reads folded and the
// opening ones once the hinge passes the larger boundary.
func (p *AxisPolicy) Observe(angle float64, hall int) {
	if hall == HallFolded {
		p.strategy = smallerBoundary
	} else if angle >= p.th.LargerBoundary {
		p.strategy = largerBoundary
	}
}

func (p *AxisPolicy) Next(current Status, angle float64, hall int, _ bool) (Status, bool) {
	if angle < 0 {
		return current, false
	}

	th := p.th
	if p.strategy == smallerBoundary {
		switch {
		case angle <= th.OpenHalfFoldedMin && hall == HallFolded:
			return StatusFolded, true
		case angle >= th.OpenHalfFoldedMin+th.HalfFoldedBuffer && hall == HallFolded:
			return StatusHalfFold, true
		case angle <= th.HalfFoldMax-th.HalfFoldedBuffer && hall == HallOpen:
			return StatusHalfFold, true
		case angle >= th.HalfFoldMax:
			return StatusExpand, true
		}
		return keepOrHalfFold(current)
	}

	switch {
	case hall == HallOpen && math.Abs(angle-th.OpenHalfFoldedMin) < 1e-3:
		return current, false
	case angle <= th.CloseHalfFoldedMin:
		return StatusFolded, true
	case angle > th.CloseHalfFoldedMin+th.HalfFoldedBuffer && angle <= th.HalfFoldMax-th.HalfFoldedBuffer:
		return StatusHalfFold, true
	case angle >= th.HalfFoldMax:
		return StatusExpand, true
	}
	return keepOrHalfFold(current)
}

func keepOrHalfFold(current Status) (Status, bool) {
	if current == StatusUnknown {
		return StatusHalfFold, false
	}
	return current, false
}

func (p *AxisPolicy) ExitsTent(angle float64, hall int) bool {
	return angle < 5 || angle > 175 || hall == HallFolded
}
