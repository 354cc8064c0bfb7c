package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/foldscreen/internal/geometry"
)

func writeSettings(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultSettings_Valid(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestLoadSettingsFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadSettingsFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.File != "" {
		t.Fatalf("expected no file, got %q", res.File)
	}
	if res.Settings.XMLConfig != DefaultXMLPath {
		t.Fatalf("expected default xml path, got %q", res.Settings.XMLConfig)
	}
}

func TestLoadSettingsFromPath_EmptyFileUsesDefaults(t *testing.T) {
	res, err := LoadSettingsFromPath(writeSettings(t, "# empty\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Settings.Device != DeviceDual {
		t.Fatalf("expected default device, got %q", res.Settings.Device)
	}
}

func TestLoadSettingsFromPath_Overrides(t *testing.T) {
	data := strings.Join([]string{
		"device: single_pocket_fold",
		"policy: axis",
		"thresholds:",
		"  expand: 150",
		"sensor:",
		"  angle_path: /tmp/angle",
		"  poll_interval: 250ms",
		"display:",
		"  source: static",
		"  width: 1080",
		"  height: 2340",
		"  rotation: 90",
		"",
	}, "\n")
	res, err := LoadSettingsFromPath(writeSettings(t, data))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	s := res.Settings
	if s.Device != DeviceSinglePocketFold || s.Policy != PolicyAxis {
		t.Fatalf("unexpected device/policy %q %q", s.Device, s.Policy)
	}
	if s.Thresholds.Expand == nil || *s.Thresholds.Expand != 150 {
		t.Fatalf("expected expand override 150, got %v", s.Thresholds.Expand)
	}
	if s.Thresholds.Folded != nil {
		t.Fatalf("expected folded to stay unset")
	}
	if s.Sensor.PollInterval != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %v", s.Sensor.PollInterval)
	}
	if s.DisplayRotation() != geometry.Rotation90 {
		t.Fatalf("expected rotation 90, got %v", s.DisplayRotation())
	}
	if s.HTTP.Listen != DefaultSettings().HTTP.Listen {
		t.Fatalf("expected listen default to survive, got %q", s.HTTP.Listen)
	}
	if src, ok := res.Sources["display.width"]; !ok || src.Line != 10 {
		t.Fatalf("expected display.width source on line 10, got %+v", src)
	}
	if !s.NewTable().IsSinglePocketFold() {
		t.Fatalf("expected table built from settings to be pocket fold")
	}
}

func TestLoadSettingsFromPath_UnknownField(t *testing.T) {
	_, err := LoadSettingsFromPath(writeSettings(t, "bogus: 1\n"))
	if err == nil {
		t.Fatalf("expected unknown field to fail")
	}
}

func TestLoadSettingsFromPath_ValidationErrorHasSource(t *testing.T) {
	path := writeSettings(t, "log_level: info\ndevice: trifold\n")
	_, err := LoadSettingsFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "device" {
		t.Fatalf("expected path device, got %q", verr.Path)
	}
	if verr.Source.Kind != SourceFile || verr.Source.Line != 2 {
		t.Fatalf("expected file source on line 2, got %+v", verr.Source)
	}
	if !strings.Contains(err.Error(), ":2:") {
		t.Fatalf("expected line number in error, got %q", err.Error())
	}
}

func TestSettingsValidate(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	tests := []struct {
		name   string
		mutate func(*Settings)
		path   string
	}{
		{"log level", func(s *Settings) { s.LogLevel = "trace" }, "log_level"},
		{"policy", func(s *Settings) { s.Policy = "other" }, "policy"},
		{"threshold range", func(s *Settings) { s.Thresholds.Folded = f(200) }, "thresholds.folded"},
		{"folded band", func(s *Settings) { s.Thresholds.FoldedLower, s.Thresholds.FoldedUpper = f(30), f(20) }, "thresholds.folded_lower"},
		{"half max", func(s *Settings) { s.Thresholds.HalfFoldedMax, s.Thresholds.Expand = f(150), f(145) }, "thresholds.half_folded_max"},
		{"half max against default expand", func(s *Settings) { s.Thresholds.HalfFoldedMax = f(150) }, "thresholds.half_folded_max"},
		{"expand against default half max", func(s *Settings) { s.Thresholds.Expand = f(130) }, "thresholds.expand"},
		{"folded lower against default upper", func(s *Settings) { s.Thresholds.FoldedLower = f(30) }, "thresholds.folded_lower"},
		{"half band", func(s *Settings) { s.Thresholds.HalfFoldedMin = f(140) }, "thresholds.half_folded_min"},
		{"static size", func(s *Settings) { s.Display.Source = DisplaySourceStatic }, "display"},
		{"source", func(s *Settings) { s.Display.Source = "wayland" }, "display.source"},
		{"rotation", func(s *Settings) { s.Display.Rotation = 45 }, "display.rotation"},
		{"sensor poll", func(s *Settings) { s.Sensor.PollInterval = -time.Second }, "sensor.poll_interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(s)
			var verr *ValidationError
			if err := s.Validate(); !errors.As(err, &verr) || verr.Path != tt.path {
				t.Fatalf("expected validation error at %q, got %v", tt.path, err)
			}
		})
	}
}

func TestExplain(t *testing.T) {
	res, err := LoadSettingsFromPath(writeSettings(t, "log_level: debug\nthresholds:\n  expand: 150\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	v, src, err := Explain(res, "thresholds.expand")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if v != 150 || src.Kind != SourceFile || src.Line != 3 {
		t.Fatalf("unexpected value %v (%T) from %+v", v, v, src)
	}
	if got := FormatSource(src); !strings.HasSuffix(got, ":3:11") {
		t.Fatalf("unexpected formatted source %q", got)
	}

	v, src, err = Explain(res, "device")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if v != "dual" || FormatSource(src) != "default" {
		t.Fatalf("expected default device, got %v from %+v", v, src)
	}

	if _, _, err := Explain(res, "thresholds.nope"); err == nil {
		t.Fatalf("expected unknown path to fail")
	}
	if _, _, err := Explain(res, "device.kind"); err == nil {
		t.Fatalf("expected path below a scalar to fail")
	}
}

func TestSettingsValidate_ThresholdErrorsAreStable(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	s := DefaultSettings()
	s.Thresholds.Expand = f(-1)
	s.Thresholds.TentExitMax = f(400)
	s.Thresholds.FoldedUpper = f(181)
	for i := 0; i < 20; i++ {
		var verr *ValidationError
		if err := s.Validate(); !errors.As(err, &verr) || verr.Path != "thresholds.expand" {
			t.Fatalf("run %d: expected thresholds.expand, got %v", i, err)
		}
	}
}

func TestSettingsValidate_SingleThresholdOverride(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	s := DefaultSettings()
	s.Thresholds.Expand = f(170)
	s.Thresholds.HalfFoldedMax = f(150)
	if err := s.Validate(); err != nil {
		t.Fatalf("expected overrides consistent with the defaults to pass: %v", err)
	}
	got := s.Thresholds.Resolve()
	if got.Expand != 170 || got.HalfFoldedMax != 150 || got.HalfFoldedMin != DefaultHalfFoldedMinThreshold {
		t.Fatalf("unexpected resolved thresholds %+v", got)
	}
}
