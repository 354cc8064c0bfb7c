package geometry

import "fmt"

// Rect is an axis-aligned rectangle in display pixels.
type Rect struct {
	PosX   int32  `json:"posX"`
	PosY   int32  `json:"posY"`
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// None is the uninitialized rect. Any rect with zero width and zero height
// compares as None.
var None = Rect{}

// IsNone reports whether r is the uninitialized sentinel.
func (r Rect) IsNone() bool {
	return r.Width == 0 && r.Height == 0
}

func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d %dx%d]", r.PosX, r.PosY, r.Width, r.Height)
}

// RectF is a floating point rectangle, used for compression areas.
type RectF struct {
	Left   float32 `json:"left"`
	Top    float32 `json:"top"`
	Width  float32 `json:"width"`
	Height float32 `json:"height"`
}

// IsValid reports whether r lies fully inside a screen of the given size.
func IsValid(r Rect, screenWidth, screenHeight uint32) bool {
	if r.IsNone() {
		return false
	}
	if r.PosX < 0 || r.PosY < 0 {
		return false
	}
	if r.Width > screenWidth || r.Height > screenHeight {
		return false
	}
	if int64(r.PosX)+int64(r.Width) > int64(screenWidth) {
		return false
	}
	if int64(r.PosY)+int64(r.Height) > int64(screenHeight) {
		return false
	}
	return true
}

// FilterValid returns the rects of in that pass IsValid, keeping their order.
func FilterValid(in []Rect, screenWidth, screenHeight uint32) []Rect {
	out := make([]Rect, 0, len(in))
	for _, r := range in {
		if IsValid(r, screenWidth, screenHeight) {
			out = append(out, r)
		}
	}
	return out
}

// RotateRect maps r from the unrotated coordinate space into the space of a
// display rotated by rot. width and height are the display size as seen at
// rot: for a W x H panel pass (H, W) for 90 and 270, (W, H) otherwise.
func RotateRect(r Rect, width, height uint32, rot Rotation) Rect {
	x, y := int64(r.PosX), int64(r.PosY)
	w, h := int64(r.Width), int64(r.Height)
	W, H := int64(width), int64(height)

	switch rot {
	case Rotation90:
		return Rect{PosX: int32(W - y - h), PosY: int32(x), Width: r.Height, Height: r.Width}
	case Rotation180:
		return Rect{PosX: int32(W - x - w), PosY: int32(H - y - h), Width: r.Width, Height: r.Height}
	case Rotation270:
		return Rect{PosX: int32(y), PosY: int32(H - x - w), Width: r.Height, Height: r.Width}
	default:
		return r
	}
}

// RotatedSize returns the size of a width x height panel as seen at rot.
func RotatedSize(width, height uint32, rot Rotation) (uint32, uint32) {
	if rot.IsHorizontal() {
		return height, width
	}
	return width, height
}
