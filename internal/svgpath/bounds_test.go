package svgpath

import (
	"testing"

	"github.com/1broseidon/foldscreen/internal/geometry"
)

func TestBounds(t *testing.T) {
	cases := []struct {
		name string
		path string
		want geometry.Rect
	}{
		{"absolute square", "M 507,18 L 573,18 L 573,84 L 507,84 Z", geometry.Rect{PosX: 507, PosY: 18, Width: 66, Height: 66}},
		{"relative lines", "m10 10 h20 v30 h-20 z", geometry.Rect{PosX: 10, PosY: 10, Width: 20, Height: 30}},
		{"cubic extremum", "M0 0 C 0 100 100 100 100 0", geometry.Rect{PosX: 0, PosY: 0, Width: 100, Height: 75}},
		{"quadratic extremum", "M0 0 Q 50 100 100 0", geometry.Rect{PosX: 0, PosY: 0, Width: 100, Height: 50}},
		{"smooth cubic", "M0 0 C 0 40 40 40 40 0 S 80 -40 80 0", geometry.Rect{PosX: 0, PosY: -30, Width: 80, Height: 60}},
		{"arc", "M 0 50 A 50 50 0 0 1 100 50", geometry.Rect{PosX: 0, PosY: 0, Width: 100, Height: 50}},
		{"compact arc flags", "M0 50a50 50 0 01100 0", geometry.Rect{PosX: 0, PosY: 0, Width: 100, Height: 50}},
		{"round out", "M0.5 0.5 L 10.2 0.5 L 10.2 20.7", geometry.Rect{PosX: 0, PosY: 0, Width: 11, Height: 21}},
		{"compact numbers", "M1-2L3.5.5", geometry.Rect{PosX: 1, PosY: -2, Width: 3, Height: 3}},
		{"implicit lineto", "M 0 0 10 0 10 10", geometry.Rect{PosX: 0, PosY: 0, Width: 10, Height: 10}},
		{"surrounding whitespace", "\n  M 507,18 h66 v66 h-66 z  \n", geometry.Rect{PosX: 507, PosY: 18, Width: 66, Height: 66}},
		{"quarter arc", "M 100 0 A 100 100 0 0 1 0 100", geometry.Rect{PosX: 0, PosY: 0, Width: 100, Height: 100}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Bounds(tc.path); got != tc.want {
				t.Fatalf("Bounds(%q) = %v, want %v", tc.path, got, tc.want)
			}
		})
	}
}

func TestBounds_InvalidYieldsNone(t *testing.T) {
	paths := []string{
		"",
		"   ",
		"L 10 10",
		"10 10 L 20 20",
		"M 10 10 L x 20",
		"M 10",
		"M 0 0 A 5 5 0 2 1 10 10",
		"M 0 0 L 100 0",
		"M 5 5",
	}
	for _, p := range paths {
		if got := Bounds(p); !got.IsNone() {
			t.Fatalf("Bounds(%q) = %v, want None", p, got)
		}
	}
}
