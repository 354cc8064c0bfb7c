package geometry

import (
	"fmt"
	"strconv"
	"strings"
)

// Rotation is a clockwise software rotation step.
type Rotation uint32

const (
	Rotation0 Rotation = iota
	Rotation90
	Rotation180
	Rotation270
)

// String returns the rotation in degrees.
func (r Rotation) String() string {
	switch r {
	case Rotation0:
		return "0"
	case Rotation90:
		return "90"
	case Rotation180:
		return "180"
	case Rotation270:
		return "270"
	default:
		return "invalid"
	}
}

// Degrees returns the rotation angle.
func (r Rotation) Degrees() int {
	return int(r%4) * 90
}

// IsHorizontal reports whether the rotation swaps the panel's axes.
func (r Rotation) IsHorizontal() bool {
	return r == Rotation90 || r == Rotation270
}

// Inverse returns the rotation that undoes r.
func (r Rotation) Inverse() Rotation {
	return (4 - r%4) % 4
}

// RotationFromDegrees converts 0/90/180/270 into a Rotation.
func RotationFromDegrees(deg int) (Rotation, error) {
	switch deg {
	case 0:
		return Rotation0, nil
	case 90:
		return Rotation90, nil
	case 180:
		return Rotation180, nil
	case 270:
		return Rotation270, nil
	}
	return Rotation0, fmt.Errorf("unsupported rotation %d", deg)
}

// ParseRotation accepts "0", "90", "180", "270", optionally with a "rotation_"
// prefix as used in device config files.
func ParseRotation(s string) (Rotation, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "rotation_")
	deg, err := strconv.Atoi(s)
	if err != nil {
		return Rotation0, fmt.Errorf("invalid rotation %q", s)
	}
	return RotationFromDegrees(deg)
}

// DeviceRotation is the physical orientation reported by the gravity sensor.
type DeviceRotation int

const (
	DeviceRotationInvalid DeviceRotation = iota - 1
	DeviceRotationPortrait
	DeviceRotationLandscape
	DeviceRotationPortraitInverted
	DeviceRotationLandscapeInverted
)

func (d DeviceRotation) String() string {
	switch d {
	case DeviceRotationPortrait:
		return "portrait"
	case DeviceRotationLandscape:
		return "landscape"
	case DeviceRotationPortraitInverted:
		return "portrait_inverted"
	case DeviceRotationLandscapeInverted:
		return "landscape_inverted"
	default:
		return "invalid"
	}
}

// ConvertDeviceToDisplayRotation maps a device orientation onto the display
// rotation for a panel of the given physical size. An invalid device rotation
// keeps current.
func ConvertDeviceToDisplayRotation(dev DeviceRotation, current Rotation, width, height uint32) Rotation {
	portraitDefault := width < height
	switch dev {
	case DeviceRotationPortrait:
		if portraitDefault {
			return Rotation0
		}
		return Rotation90
	case DeviceRotationLandscape:
		if !portraitDefault {
			return Rotation0
		}
		return Rotation90
	case DeviceRotationPortraitInverted:
		if portraitDefault {
			return Rotation180
		}
		return Rotation270
	case DeviceRotationLandscapeInverted:
		if !portraitDefault {
			return Rotation180
		}
		return Rotation270
	default:
		return current
	}
}
