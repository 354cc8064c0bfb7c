package config

import (
	"fmt"
	"time"

	"github.com/1broseidon/foldscreen/internal/geometry"
)

// DeviceKind selects the fold hardware the daemon drives.
type DeviceKind string

const (
	DeviceNone             DeviceKind = "none"
	DeviceDual             DeviceKind = "dual"
	DeviceSinglePocketFold DeviceKind = "single_pocket_fold"
)

// IsFoldable reports whether the device has a hinge.
func (d DeviceKind) IsFoldable() bool {
	return d == DeviceDual || d == DeviceSinglePocketFold
}

const (
	PolicyDual = "dual"
	PolicyAxis = "axis"

	DisplaySourceX11    = "x11"
	DisplaySourceStatic = "static"
)

// Built-in dual-display fold thresholds, in degrees.
const (
	DefaultFoldedThreshold        = 85.0
	DefaultExpandThreshold        = 145.0
	DefaultHalfFoldedMaxThreshold = 135.0
	DefaultHalfFoldedMinThreshold = 85.0
	DefaultFoldedLowerThreshold   = 10.0
	DefaultFoldedUpperThreshold   = 20.0
	DefaultTentExitMaxThreshold   = 110.0
)

// ResolvedThresholds are the dual-display thresholds in effect.
type ResolvedThresholds struct {
	Folded        float64
	Expand        float64
	HalfFoldedMax float64
	HalfFoldedMin float64
	FoldedLower   float64
	FoldedUpper   float64
	TentExitMax   float64
}

// FoldThresholds overrides the dual-display fold thresholds, in degrees.
// Nil fields keep the built-in defaults.
type FoldThresholds struct {
	Folded        *float64 `yaml:"folded"`
	Expand        *float64 `yaml:"expand"`
	HalfFoldedMax *float64 `yaml:"half_folded_max"`
	HalfFoldedMin *float64 `yaml:"half_folded_min"`
	FoldedLower   *float64 `yaml:"folded_lower"`
	FoldedUpper   *float64 `yaml:"folded_upper"`
	TentExitMax   *float64 `yaml:"tent_exit_max"`
}

// Resolve applies the non-nil overrides to the built-in defaults.
func (o FoldThresholds) Resolve() ResolvedThresholds {
	r := ResolvedThresholds{
		Folded:        DefaultFoldedThreshold,
		Expand:        DefaultExpandThreshold,
		HalfFoldedMax: DefaultHalfFoldedMaxThreshold,
		HalfFoldedMin: DefaultHalfFoldedMinThreshold,
		FoldedLower:   DefaultFoldedLowerThreshold,
		FoldedUpper:   DefaultFoldedUpperThreshold,
		TentExitMax:   DefaultTentExitMaxThreshold,
	}
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&r.Folded, o.Folded)
	set(&r.Expand, o.Expand)
	set(&r.HalfFoldedMax, o.HalfFoldedMax)
	set(&r.HalfFoldedMin, o.HalfFoldedMin)
	set(&r.FoldedLower, o.FoldedLower)
	set(&r.FoldedUpper, o.FoldedUpper)
	set(&r.TentExitMax, o.TentExitMax)
	return r
}

// SensorSettings points the daemon at the files carrying sensor readings.
type SensorSettings struct {
	AnglePath    string        `yaml:"angle_path"`
	HallPath     string        `yaml:"hall_path"`
	TentPath     string        `yaml:"tent_path"`
	RotationPath string        `yaml:"rotation_path"`
	ScreenPath   string        `yaml:"screen_path"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// DisplaySettings selects where display geometry comes from.
type DisplaySettings struct {
	Source   string `yaml:"source"`
	ID       uint64 `yaml:"id"`
	Name     string `yaml:"name"`
	Width    uint32 `yaml:"width"`
	Height   uint32 `yaml:"height"`
	Rotation int    `yaml:"rotation"`
	// XDisplay overrides $DISPLAY for the X11 source.
	XDisplay     string        `yaml:"x_display"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

type HTTPSettings struct {
	// Listen is the status server address; empty disables the server.
	Listen string `yaml:"listen"`
}

// Settings configures the foldscreen daemon and CLI.
type Settings struct {
	XMLConfig  string          `yaml:"xml_config"`
	LogLevel   string          `yaml:"log_level"`
	LogFile    string          `yaml:"log_file"`
	Device     DeviceKind      `yaml:"device"`
	Policy     string          `yaml:"policy"`
	Thresholds FoldThresholds  `yaml:"thresholds"`
	Sensor     SensorSettings  `yaml:"sensor"`
	Display    DisplaySettings `yaml:"display"`
	HTTP       HTTPSettings    `yaml:"http"`
}

func DefaultSettings() *Settings {
	return &Settings{
		XMLConfig: DefaultXMLPath,
		LogLevel:  "info",
		Device:    DeviceDual,
		Policy:    PolicyDual,
		Sensor: SensorSettings{
			PollInterval: 500 * time.Millisecond,
		},
		Display: DisplaySettings{
			Source:       DisplaySourceX11,
			PollInterval: 2 * time.Second,
		},
		HTTP: HTTPSettings{
			Listen: "127.0.0.1:7878",
		},
	}
}

// DisplayRotation returns the configured static rotation.
func (s *Settings) DisplayRotation() geometry.Rotation {
	rot, err := geometry.RotationFromDegrees(s.Display.Rotation)
	if err != nil {
		return geometry.Rotation0
	}
	return rot
}

// NewTable builds an empty device table matching these settings.
func (s *Settings) NewTable(opts ...TableOption) *Table {
	base := []TableOption{
		WithSinglePocketFold(s.Device == DeviceSinglePocketFold),
		WithDefaultDisplayID(s.Display.ID),
	}
	return NewTable(append(base, opts...)...)
}

func (s *Settings) Validate() error {
	switch s.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	switch s.Device {
	case DeviceNone, DeviceDual, DeviceSinglePocketFold:
	default:
		return &ValidationError{Path: "device", Err: fmt.Errorf("device must be one of: none, dual, single_pocket_fold")}
	}
	switch s.Policy {
	case PolicyDual, PolicyAxis:
	default:
		return &ValidationError{Path: "policy", Err: fmt.Errorf("policy must be one of: dual, axis")}
	}
	if err := s.validateThresholds(); err != nil {
		return err
	}
	if s.Sensor.PollInterval < 0 {
		return &ValidationError{Path: "sensor.poll_interval", Err: fmt.Errorf("poll_interval must be >= 0")}
	}
	switch s.Display.Source {
	case DisplaySourceX11:
	case DisplaySourceStatic:
		if s.Display.Width == 0 || s.Display.Height == 0 {
			return &ValidationError{Path: "display", Err: fmt.Errorf("static display requires width and height")}
		}
	default:
		return &ValidationError{Path: "display.source", Err: fmt.Errorf("source must be one of: x11, static")}
	}
	if _, err := geometry.RotationFromDegrees(s.Display.Rotation); err != nil {
		return &ValidationError{Path: "display.rotation", Err: err}
	}
	if s.Display.PollInterval < 0 {
		return &ValidationError{Path: "display.poll_interval", Err: fmt.Errorf("poll_interval must be >= 0")}
	}
	return nil
}

func (s *Settings) validateThresholds() error {
	th := s.Thresholds
	fields := []struct {
		path string
		v    *float64
	}{
		{"folded", th.Folded},
		{"expand", th.Expand},
		{"half_folded_max", th.HalfFoldedMax},
		{"half_folded_min", th.HalfFoldedMin},
		{"folded_lower", th.FoldedLower},
		{"folded_upper", th.FoldedUpper},
		{"tent_exit_max", th.TentExitMax},
	}
	for _, f := range fields {
		if f.v != nil && (*f.v < 0 || *f.v > 180) {
			return &ValidationError{Path: "thresholds." + f.path, Err: fmt.Errorf("angle must be within [0, 180]")}
		}
	}

	// Ordering is checked on the effective values so a single override is
	// compared against the built-in default it sits next to.
	eff := th.Resolve()
	order := []struct {
		lower, upper       string
		lowerVal, upperVal float64
		lowerSet, upperSet bool
		strict             bool
	}{
		{"folded_lower", "folded_upper", eff.FoldedLower, eff.FoldedUpper, th.FoldedLower != nil, th.FoldedUpper != nil, false},
		{"half_folded_min", "half_folded_max", eff.HalfFoldedMin, eff.HalfFoldedMax, th.HalfFoldedMin != nil, th.HalfFoldedMax != nil, false},
		{"half_folded_max", "expand", eff.HalfFoldedMax, eff.Expand, th.HalfFoldedMax != nil, th.Expand != nil, true},
	}
	for _, o := range order {
		bad := o.lowerVal > o.upperVal || (o.strict && o.lowerVal == o.upperVal)
		if !bad {
			continue
		}
		path := o.lower
		if !o.lowerSet && o.upperSet {
			path = o.upper
		}
		rel := "must not exceed"
		if o.strict {
			rel = "must be below"
		}
		return &ValidationError{
			Path: "thresholds." + path,
			Err:  fmt.Errorf("%s (%g) %s %s (%g)", o.lower, o.lowerVal, rel, o.upper, o.upperVal),
		}
	}
	return nil
}
