// Package cutout derives the screen regions a window must avoid: the camera
// cutout rects and the curved waterfall bands along the panel edges.
package cutout

import (
	"log/slog"

	"github.com/1broseidon/foldscreen/internal/config"
	"github.com/1broseidon/foldscreen/internal/geometry"
	"github.com/1broseidon/foldscreen/internal/metrics"
)

// WaterfallAreas are the curved edge bands of a display, in the coordinate
// space of the rotated display. Absent bands are geometry.None.
type WaterfallAreas struct {
	Left   geometry.Rect `json:"left"`
	Top    geometry.Rect `json:"top"`
	Right  geometry.Rect `json:"right"`
	Bottom geometry.Rect `json:"bottom"`
}

// IsEmpty reports whether no band is present.
func (w WaterfallAreas) IsEmpty() bool {
	return w.Left.IsNone() && w.Top.IsNone() && w.Right.IsNone() && w.Bottom.IsNone()
}

// Info is the cutout description of one display at one rotation.
type Info struct {
	BoundaryRects []geometry.Rect `json:"boundaryRects"`
	Waterfall     WaterfallAreas  `json:"waterfall"`
}

// Empty reports whether the display has neither cutouts nor waterfall bands.
func (i Info) Empty() bool {
	return len(i.BoundaryRects) == 0 && i.Waterfall.IsEmpty()
}

// Controller computes cutout info from a device table.
type Controller struct {
	table   *config.Table
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Controller)

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

func NewController(table *config.Table, opts ...Option) *Controller {
	c := &Controller{
		table:  table,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Table returns the device table the controller reads.
func (c *Controller) Table() *config.Table {
	return c.table
}

// ResolveFoldMode returns the fold display mode for a panel size.
func (c *Controller) ResolveFoldMode(width, height uint32) config.FoldDisplayMode {
	return c.table.GetFoldDisplayMode(width, height)
}

// ComputeCutoutInfo returns the cutout rects and waterfall bands of a
// width x height panel shown at rot. Rects that do not fit the panel are
// dropped. On foldables in main or global-full mode the sub display cutout
// is used instead of the display's own.
func (c *Controller) ComputeCutoutInfo(displayID uint64, width, height uint32, rot geometry.Rotation, mode config.FoldDisplayMode, foldable bool) Info {
	var src []geometry.Rect
	if foldable && (mode == config.FoldDisplayModeMain || mode == config.FoldDisplayModeGlobalFull) {
		src = c.table.GetSubCutoutBoundary()
	} else {
		src = c.table.GetCutoutBoundary(displayID)
	}

	valid := geometry.FilterValid(src, width, height)
	if dropped := len(src) - len(valid); dropped > 0 {
		for _, r := range src {
			if !geometry.IsValid(r, width, height) {
				c.logger.Warn("dropping cutout rect outside display",
					"display", displayID, "rect", r.String(), "width", width, "height", height)
			}
		}
		c.metrics.RecordDroppedRects(dropped)
	}

	rw, rh := geometry.RotatedSize(width, height, rot)
	rects := make([]geometry.Rect, 0, len(valid))
	for _, r := range valid {
		rects = append(rects, geometry.RotateRect(r, rw, rh, rot))
	}

	return Info{
		BoundaryRects: rects,
		Waterfall:     c.ComputeWaterfallAreas(width, height, rot),
	}
}

// ComputeWaterfallAreas returns the curved edge bands of a width x height
// panel shown at rot. Boundary sizes are configured as left, top, right,
// bottom of the unrotated panel; a band wider than half the panel disables
// all bands.
func (c *Controller) ComputeWaterfallAreas(width, height uint32, rot geometry.Rotation) WaterfallAreas {
	if !c.table.IsWaterfallDisplay() {
		return WaterfallAreas{}
	}
	cfg := c.table.GetCurvedScreenBoundaryConfig()
	if len(cfg) == 0 {
		return WaterfallAreas{}
	}

	var b [4]uint32
	for i := 0; i < len(cfg) && i < 4; i++ {
		if cfg[i] > 0 {
			b[i] = uint32(cfg[i])
		}
	}
	left, top, right, bottom := b[0], b[1], b[2], b[3]
	if left == 0 && top == 0 && right == 0 && bottom == 0 {
		return WaterfallAreas{}
	}
	if left > width/2 || right > width/2 || top > height/2 || bottom > height/2 {
		c.logger.Warn("curved screen boundary exceeds half the display",
			"boundary", cfg, "width", width, "height", height)
		return WaterfallAreas{}
	}

	// Edge sizes as seen after rotation.
	var l, t, r, bo uint32
	switch rot {
	case geometry.Rotation90:
		l, t, r, bo = bottom, left, top, right
	case geometry.Rotation180:
		l, t, r, bo = right, bottom, left, top
	case geometry.Rotation270:
		l, t, r, bo = top, right, bottom, left
	default:
		l, t, r, bo = left, top, right, bottom
	}

	w, h := geometry.RotatedSize(width, height, rot)
	return WaterfallAreas{
		Left:   createWaterfallRect(0, 0, l, h),
		Top:    createWaterfallRect(0, 0, w, t),
		Right:  createWaterfallRect(int32(w-r), 0, r, h),
		Bottom: createWaterfallRect(0, int32(h-bo), w, bo),
	}
}

func createWaterfallRect(x, y int32, w, h uint32) geometry.Rect {
	if w == 0 || h == 0 {
		return geometry.None
	}
	return geometry.Rect{PosX: x, PosY: y, Width: w, Height: h}
}

// CalculateCurvedCompression returns the content area left in landscape
// once the compressed curved edges are removed from the left and right of
// the displayed panel. The zero rect means no compression applies.
func (c *Controller) CalculateCurvedCompression(width, height uint32, rot geometry.Rotation) geometry.RectF {
	if !rot.IsHorizontal() {
		return geometry.RectF{}
	}
	size := c.table.GetCurvedCompressionAreaInLandscape()
	if size == 0 {
		return geometry.RectF{}
	}
	w, h := geometry.RotatedSize(width, height, rot)
	if uint64(size)*2 >= uint64(w) {
		c.logger.Warn("curved compression covers the whole display", "size", size, "width", w)
		return geometry.RectF{}
	}
	return geometry.RectF{
		Left:   float32(size),
		Top:    0,
		Width:  float32(w - 2*size),
		Height: float32(h),
	}
}
