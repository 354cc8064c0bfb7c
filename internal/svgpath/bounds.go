// Package svgpath computes the integer bounding box of SVG path data.
package svgpath

import (
	"math"
	"strings"

	"github.com/tdewolff/canvas"

	"github.com/1broseidon/foldscreen/internal/geometry"
)

// snapEpsilon absorbs float noise from arc center and curve extremum
// solving before rounding out.
const snapEpsilon = 1e-9

// Bounds returns the tight bounding box of an SVG path, grown to integer
// coordinates. Unparsable paths, paths that do not start with a moveto and
// paths with an empty area yield geometry.None.
func Bounds(path string) geometry.Rect {
	path = strings.TrimSpace(path)
	if path == "" || (path[0] != 'M' && path[0] != 'm') {
		return geometry.None
	}
	p, err := canvas.ParseSVGPath(path)
	if err != nil {
		return geometry.None
	}
	return roundOut(p.Bounds())
}

func roundOut(r canvas.Rect) geometry.Rect {
	left := math.Floor(snap(r.X0))
	top := math.Floor(snap(r.Y0))
	right := math.Ceil(snap(r.X1))
	bottom := math.Ceil(snap(r.Y1))
	if !(right > left) || !(bottom > top) {
		return geometry.None
	}
	if left < math.MinInt32 || top < math.MinInt32 || right > math.MaxInt32 || bottom > math.MaxInt32 {
		return geometry.None
	}
	return geometry.Rect{
		PosX:   int32(left),
		PosY:   int32(top),
		Width:  uint32(right - left),
		Height: uint32(bottom - top),
	}
}

func snap(v float64) float64 {
	if r := math.Round(v); math.Abs(v-r) < snapEpsilon {
		return r
	}
	return v
}
