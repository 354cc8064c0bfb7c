package x11

import (
	"testing"

	"github.com/BurntSushi/xgb/randr"

	"github.com/1broseidon/foldscreen/internal/geometry"
)

func TestRotationFromRandr(t *testing.T) {
	tests := []struct {
		mask uint16
		want geometry.Rotation
	}{
		{randr.RotationRotate0, geometry.Rotation0},
		{randr.RotationRotate90, geometry.Rotation270},
		{randr.RotationRotate180, geometry.Rotation180},
		{randr.RotationRotate270, geometry.Rotation90},
		{randr.RotationRotate90 | randr.RotationReflectX, geometry.Rotation270},
		{0, geometry.Rotation0},
	}
	for _, tt := range tests {
		if got := rotationFromRandr(tt.mask); got != tt.want {
			t.Fatalf("rotationFromRandr(%d) = %v, want %v", tt.mask, got, tt.want)
		}
	}
}

func TestPhysicalSize(t *testing.T) {
	if w, h := physicalSize(2340, 1080, geometry.Rotation90); w != 1080 || h != 2340 {
		t.Fatalf("expected 1080x2340, got %dx%d", w, h)
	}
	if w, h := physicalSize(1080, 2340, geometry.Rotation180); w != 1080 || h != 2340 {
		t.Fatalf("expected size unchanged at 180, got %dx%d", w, h)
	}
}
