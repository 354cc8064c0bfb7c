package platform

import (
	"testing"

	"github.com/1broseidon/foldscreen/internal/config"
	"github.com/1broseidon/foldscreen/internal/geometry"
)

func TestNewBackend_Static(t *testing.T) {
	b, err := NewBackend(config.DisplaySettings{
		Source:   config.DisplaySourceStatic,
		ID:       2,
		Width:    1080,
		Height:   2340,
		Rotation: 270,
	})
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	defer b.Close()

	displays, err := b.Displays()
	if err != nil {
		t.Fatalf("Displays: %v", err)
	}
	want := Display{ID: 2, Name: "static", Width: 1080, Height: 2340, Rotation: geometry.Rotation270, Primary: true}
	if len(displays) != 1 || displays[0] != want {
		t.Fatalf("expected %+v, got %+v", want, displays)
	}
}

func TestNewBackend_Errors(t *testing.T) {
	if _, err := NewBackend(config.DisplaySettings{Source: config.DisplaySourceStatic, Rotation: 45}); err == nil {
		t.Fatalf("expected invalid rotation to fail")
	}
	if _, err := NewBackend(config.DisplaySettings{Source: "wayland"}); err == nil {
		t.Fatalf("expected unknown source to fail")
	}
}
