package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"

	"github.com/1broseidon/foldscreen/internal/geometry"
)

// Output is an active RandR output. Width and Height are the panel size
// before rotation.
type Output struct {
	ID       uint64
	Name     string
	X        int
	Y        int
	Width    uint32
	Height   uint32
	Rotation geometry.Rotation
	Primary  bool
}

// Outputs retrieves all active outputs using XRandR
func (c *Connection) Outputs() ([]Output, error) {
	conn := c.XUtil.Conn()
	resources, err := randr.GetScreenResources(conn, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var primary randr.Output
	if reply, err := randr.GetOutputPrimary(conn, c.Root).Reply(); err == nil {
		primary = reply.Output
	}

	var outputs []Output
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(conn, crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Output%d", i)
		if info, err := randr.GetOutputInfo(conn, crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(info.Name)
		}

		rot := rotationFromRandr(crtcInfo.Rotation)
		w, h := physicalSize(uint32(crtcInfo.Width), uint32(crtcInfo.Height), rot)
		outputs = append(outputs, Output{
			ID:       uint64(i),
			Name:     name,
			X:        int(crtcInfo.X),
			Y:        int(crtcInfo.Y),
			Width:    w,
			Height:   h,
			Rotation: rot,
			Primary:  primary != 0 && crtcInfo.Outputs[0] == primary,
		})
	}

	return outputs, nil
}

// rotationFromRandr converts a RandR rotation mask into a clockwise
// rotation. RandR rotates counter-clockwise; reflection bits are ignored.
func rotationFromRandr(mask uint16) geometry.Rotation {
	ccw := geometry.Rotation0
	switch {
	case mask&randr.RotationRotate90 != 0:
		ccw = geometry.Rotation90
	case mask&randr.RotationRotate180 != 0:
		ccw = geometry.Rotation180
	case mask&randr.RotationRotate270 != 0:
		ccw = geometry.Rotation270
	}
	return ccw.Inverse()
}

// physicalSize undoes the axis swap RandR applies to rotated CRTCs.
func physicalSize(w, h uint32, rot geometry.Rotation) (uint32, uint32) {
	return geometry.RotatedSize(w, h, rot)
}
