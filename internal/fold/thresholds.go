package fold

import "github.com/1broseidon/foldscreen/internal/config"

// Thresholds are the hinge angles, in degrees, used by the dual-display
// policy.
type Thresholds struct {
	Folded        float64
	Expand        float64
	HalfFoldedMax float64
	HalfFoldedMin float64
	FoldedLower   float64
	FoldedUpper   float64
	TentExitMax   float64
}

func DefaultThresholds() Thresholds {
	return ThresholdsFromSettings(config.FoldThresholds{})
}

// ThresholdsFromSettings applies the non-nil overrides to the defaults.
func ThresholdsFromSettings(o config.FoldThresholds) Thresholds {
	return Thresholds(o.Resolve())
}

// AxisThresholds drive the single-axis policy. They come from the device
// table's number nodes.
type AxisThresholds struct {
	HalfFoldMax        float64
	OpenHalfFoldedMin  float64
	CloseHalfFoldedMin float64
	HalfFoldedBuffer   float64
	LargerBoundary     float64
}

func DefaultAxisThresholds() AxisThresholds {
	return AxisThresholds{
		HalfFoldMax:        140,
		OpenHalfFoldedMin:  25,
		CloseHalfFoldedMin: 70,
		HalfFoldedBuffer:   10,
		LargerBoundary:     90,
	}
}

// AxisThresholdsFromTable reads the axis thresholds from t, keeping the
// defaults for entries the device config omits.
func AxisThresholdsFromTable(t *config.Table) AxisThresholds {
	def := DefaultAxisThresholds()
	get := func(name string, d float64) float64 {
		return float64(t.GetNumberConfigValue(name, uint32(d)))
	}
	return AxisThresholds{
		HalfFoldMax:        get(config.KeyHalfFoldMaxThreshold, def.HalfFoldMax),
		OpenHalfFoldedMin:  get(config.KeyOpenHalfFoldedMinThreshold, def.OpenHalfFoldedMin),
		CloseHalfFoldedMin: get(config.KeyCloseHalfFoldedMinThreshold, def.CloseHalfFoldedMin),
		HalfFoldedBuffer:   get(config.KeyHalfFoldedBuffer, def.HalfFoldedBuffer),
		LargerBoundary:     get(config.KeyLargerBoundaryForThreshold, def.LargerBoundary),
	}
}

// PolicyFromSettings builds the policy named by s.Policy. The axis policy
// reads its thresholds from the device table.
func PolicyFromSettings(s *config.Settings, t *config.Table) Policy {
	if s.Policy == config.PolicyAxis {
		return NewAxisPolicy(AxisThresholdsFromTable(t))
	}
	return NewDualPolicy(ThresholdsFromSettings(s.Thresholds))
}
