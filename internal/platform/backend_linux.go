//go:build linux

package platform

import (
	"fmt"
	"sort"

	"github.com/1broseidon/foldscreen/internal/x11"
)

// LinuxBackend wraps an X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

func newX11Backend(display string) (Backend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Displays returns all active displays ordered by ID.
func (b *LinuxBackend) Displays() ([]Display, error) {
	outputs, err := b.conn.Outputs()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(outputs))
	for _, o := range outputs {
		displays = append(displays, Display{
			ID:       o.ID,
			Name:     o.Name,
			Width:    o.Width,
			Height:   o.Height,
			Rotation: o.Rotation,
			Primary:  o.Primary,
		})
	}
	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})
	return displays, nil
}

// Close closes the underlying X11 connection.
func (b *LinuxBackend) Close() error {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
	return nil
}
