package config

import (
	"strconv"
	"strings"
)

// DisplayFlag is an optional typed attribute on a logical display entry.
type DisplayFlag struct {
	Type  string `json:"type"`
	Value int32  `json:"value"`
}

// DisplayConfig describes one <display> entry.
type DisplayConfig struct {
	PhysicalID uint64      `json:"physicalId"`
	LogicalID  uint64      `json:"logicalId"`
	Name       string      `json:"name"`
	DPI        int32       `json:"dpi"`
	Flag       DisplayFlag `json:"flag"`
	HasFlag    bool        `json:"hasFlag"`
}

// DisplayPhysicalResolution pairs a fold display mode with the panel size it
// runs at.
type DisplayPhysicalResolution struct {
	FoldDisplayMode FoldDisplayMode `json:"foldDisplayMode"`
	PhysicalWidth   uint32          `json:"physicalWidth"`
	PhysicalHeight  uint32          `json:"physicalHeight"`
}

// ScrollableParam holds scroll tuning values. They are kept verbatim because
// consumers forward them as opaque strings.
type ScrollableParam struct {
	VelocityScale string `json:"velocityScale"`
	Friction      string `json:"friction"`
}

// VelocityScaleFloat parses VelocityScale on demand.
func (p ScrollableParam) VelocityScaleFloat() (float64, bool) {
	return parseFloat(p.VelocityScale)
}

// FrictionFloat parses Friction on demand.
func (p ScrollableParam) FrictionFloat() (float64, bool) {
	return parseFloat(p.Friction)
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
