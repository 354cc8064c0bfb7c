package platform

import (
	"errors"
	"fmt"

	"github.com/1broseidon/foldscreen/internal/config"
	"github.com/1broseidon/foldscreen/internal/geometry"
)

// ErrUnsupported is returned when a display source is not available on this
// platform.
var ErrUnsupported = errors.New("display source not supported on this platform")

// Display describes one panel. Width and Height are the unrotated panel
// size.
type Display struct {
	ID       uint64            `json:"id"`
	Name     string            `json:"name"`
	Width    uint32            `json:"width"`
	Height   uint32            `json:"height"`
	Rotation geometry.Rotation `json:"rotation"`
	Primary  bool              `json:"primary"`
}

// Backend reports the current display geometry.
type Backend interface {
	Displays() ([]Display, error)
	Close() error
}

// StaticBackend serves a fixed display, for hosts without a window system
// or for replaying a device profile.
type StaticBackend struct {
	Display Display
}

var _ Backend = (*StaticBackend)(nil)

func (b *StaticBackend) Displays() ([]Display, error) {
	return []Display{b.Display}, nil
}

func (b *StaticBackend) Close() error { return nil }

// NewBackend opens the backend selected by the display settings.
func NewBackend(s config.DisplaySettings) (Backend, error) {
	switch s.Source {
	case config.DisplaySourceStatic:
		rot, err := geometry.RotationFromDegrees(s.Rotation)
		if err != nil {
			return nil, err
		}
		name := s.Name
		if name == "" {
			name = "static"
		}
		return &StaticBackend{Display: Display{
			ID:       s.ID,
			Name:     name,
			Width:    s.Width,
			Height:   s.Height,
			Rotation: rot,
			Primary:  true,
		}}, nil
	case config.DisplaySourceX11, "":
		return newX11Backend(s.XDisplay)
	default:
		return nil, fmt.Errorf("unknown display source %q", s.Source)
	}
}
