package geometry

import "testing"

func TestParseRotation(t *testing.T) {
	cases := map[string]Rotation{
		"0":            Rotation0,
		"90":           Rotation90,
		" 180 ":        Rotation180,
		"ROTATION_270": Rotation270,
	}
	for in, want := range cases {
		got, err := ParseRotation(in)
		if err != nil {
			t.Fatalf("ParseRotation(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseRotation(%q) = %s, want %s", in, got, want)
		}
	}

	if _, err := ParseRotation("45"); err == nil {
		t.Fatalf("expected error for 45 degrees")
	}
	if _, err := ParseRotation("sideways"); err == nil {
		t.Fatalf("expected error for non-numeric rotation")
	}
}

func TestRotationIsHorizontal(t *testing.T) {
	if Rotation0.IsHorizontal() || Rotation180.IsHorizontal() {
		t.Fatalf("0 and 180 must not be horizontal")
	}
	if !Rotation90.IsHorizontal() || !Rotation270.IsHorizontal() {
		t.Fatalf("90 and 270 must be horizontal")
	}
}

func TestRotationInverse(t *testing.T) {
	pairs := map[Rotation]Rotation{
		Rotation0:   Rotation0,
		Rotation90:  Rotation270,
		Rotation180: Rotation180,
		Rotation270: Rotation90,
	}
	for r, want := range pairs {
		if got := r.Inverse(); got != want {
			t.Fatalf("%s.Inverse() = %s, want %s", r, got, want)
		}
	}
}

func TestConvertDeviceToDisplayRotation(t *testing.T) {
	// Portrait panel.
	const pw, ph = 1080, 2340
	if got := ConvertDeviceToDisplayRotation(DeviceRotationInvalid, Rotation180, pw, ph); got != Rotation180 {
		t.Fatalf("invalid device rotation should keep current, got %s", got)
	}
	portraitCases := map[DeviceRotation]Rotation{
		DeviceRotationPortrait:          Rotation0,
		DeviceRotationLandscape:         Rotation90,
		DeviceRotationPortraitInverted:  Rotation180,
		DeviceRotationLandscapeInverted: Rotation270,
	}
	for dev, want := range portraitCases {
		if got := ConvertDeviceToDisplayRotation(dev, Rotation0, pw, ph); got != want {
			t.Fatalf("portrait panel %s = %s, want %s", dev, got, want)
		}
	}

	// Landscape panel.
	landscapeCases := map[DeviceRotation]Rotation{
		DeviceRotationPortrait:          Rotation90,
		DeviceRotationLandscape:         Rotation0,
		DeviceRotationPortraitInverted:  Rotation270,
		DeviceRotationLandscapeInverted: Rotation180,
	}
	for dev, want := range landscapeCases {
		if got := ConvertDeviceToDisplayRotation(dev, Rotation0, ph, pw); got != want {
			t.Fatalf("landscape panel %s = %s, want %s", dev, got, want)
		}
	}
}
