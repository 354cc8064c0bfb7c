package daemon

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/1broseidon/foldscreen/internal/config"
	"github.com/1broseidon/foldscreen/internal/cutout"
	"github.com/1broseidon/foldscreen/internal/geometry"
	"github.com/1broseidon/foldscreen/internal/platform"
)

// DisplayState is the derived geometry of one display. Display carries the
// effective rotation, which follows the gravity sensor when the device table
// enables rotation with sensor.
type DisplayState struct {
	Display     platform.Display       `json:"display"`
	Mode        config.FoldDisplayMode `json:"mode"`
	Cutout      cutout.Info            `json:"cutout"`
	Compression geometry.RectF         `json:"compression"`
	UpdatedAt   time.Time              `json:"updatedAt"`

	// source is the display as the backend last reported it.
	source platform.Display
}

// MonitorConfig holds configuration for the display monitor.
type MonitorConfig struct {
	Interval time.Duration
	// Foldable selects the sub-panel cutout for the main fold modes.
	Foldable bool
	Logger   *slog.Logger
}

// DisplayMonitor polls the display backend and recomputes cutout info when a
// display's size or rotation changes.
type DisplayMonitor struct {
	interval time.Duration
	foldable bool
	backend  platform.Backend
	logger   *slog.Logger

	mu     sync.RWMutex
	ctrl   *cutout.Controller
	states map[uint64]DisplayState
	device geometry.DeviceRotation
}

func NewDisplayMonitor(cfg MonitorConfig, backend platform.Backend, ctrl *cutout.Controller) *DisplayMonitor {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DisplayMonitor{
		interval: interval,
		foldable: cfg.Foldable,
		backend:  backend,
		logger:   logger,
		ctrl:     ctrl,
		states:   make(map[uint64]DisplayState),
		device:   geometry.DeviceRotationInvalid,
	}
}

// Run polls until ctx is cancelled. The first poll happens immediately.
func (m *DisplayMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.logger.Info("display monitor started", "interval", m.interval)
	m.poll()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("display monitor stopped")
			return
		case <-ticker.C:
			m.poll()
		}
	}
}

// PollNow triggers an immediate poll.
func (m *DisplayMonitor) PollNow() {
	m.poll()
}

// SetController swaps the cutout controller, e.g. after the device table
// was reloaded, and recomputes every known display.
func (m *DisplayMonitor) SetController(ctrl *cutout.Controller) {
	m.mu.Lock()
	m.ctrl = ctrl
	m.recomputeAllLocked()
	m.mu.Unlock()
}

// HandleDeviceRotation records the gravity sensor orientation and recomputes
// every display when the device table enables rotation with sensor.
func (m *DisplayMonitor) HandleDeviceRotation(dev geometry.DeviceRotation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if dev == m.device {
		return
	}
	m.device = dev
	if !m.ctrl.Table().IsSupportRotateWithSensor() {
		m.logger.Debug("rotation with sensor disabled, ignoring device rotation", "rotation", dev.String())
		return
	}
	m.logger.Info("device rotation changed", "rotation", dev.String())
	m.recomputeAllLocked()
}

func (m *DisplayMonitor) recomputeAllLocked() {
	for id, st := range m.states {
		m.states[id] = m.computeLocked(st.source)
	}
}

func (m *DisplayMonitor) Controller() *cutout.Controller {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ctrl
}

// Displays returns the latest state of every display ordered by ID.
func (m *DisplayMonitor) Displays() []DisplayState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]DisplayState, 0, len(m.states))
	for _, st := range m.states {
		out = append(out, st)
	}
	slices.SortFunc(out, func(a, b DisplayState) int {
		switch {
		case a.Display.ID < b.Display.ID:
			return -1
		case a.Display.ID > b.Display.ID:
			return 1
		}
		return 0
	})
	return out
}

func (m *DisplayMonitor) poll() {
	defer func() {
		if err := recover(); err != nil {
			m.logger.Error("display monitor panic recovered", "error", err)
		}
	}()

	displays, err := m.backend.Displays()
	if err != nil {
		m.logger.Error("display monitor: failed to list displays", "error", err)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[uint64]bool, len(displays))
	for _, d := range displays {
		seen[d.ID] = true
		prev, ok := m.states[d.ID]
		if ok && sameGeometry(prev.source, d) {
			continue
		}
		st := m.computeLocked(d)
		m.states[d.ID] = st
		m.logger.Info("display geometry changed",
			"display", d.ID,
			"name", d.Name,
			"width", d.Width,
			"height", d.Height,
			"rotation", st.Display.Rotation.String(),
			"mode", st.Mode.String(),
			"cutouts", len(st.Cutout.BoundaryRects))
	}
	for id := range m.states {
		if !seen[id] {
			m.logger.Info("display removed", "display", id)
			delete(m.states, id)
		}
	}
}

func (m *DisplayMonitor) computeLocked(src platform.Display) DisplayState {
	d := src
	d.Rotation = m.effectiveRotationLocked(src)
	mode := m.ctrl.ResolveFoldMode(d.Width, d.Height)
	return DisplayState{
		Display:     d,
		source:      src,
		Mode:        mode,
		Cutout:      m.ctrl.ComputeCutoutInfo(d.ID, d.Width, d.Height, d.Rotation, mode, m.foldable),
		Compression: m.ctrl.CalculateCurvedCompression(d.Width, d.Height, d.Rotation),
		UpdatedAt:   time.Now(),
	}
}

// effectiveRotationLocked maps the sensor orientation onto a display rotation.
// The table's defaultDeviceRotationOffset, in degrees, is how far the sensor's
// zero is turned from the panel's. Without a valid reading the backend's
// rotation stands.
func (m *DisplayMonitor) effectiveRotationLocked(d platform.Display) geometry.Rotation {
	table := m.ctrl.Table()
	if m.device == geometry.DeviceRotationInvalid || !table.IsSupportRotateWithSensor() {
		return d.Rotation
	}
	offset, err := geometry.RotationFromDegrees(int(table.GetDefaultDeviceRotationOffset()))
	if err != nil {
		offset = geometry.Rotation0
	}
	dev := geometry.DeviceRotation((int(m.device) + 4 - int(offset)) % 4)
	return geometry.ConvertDeviceToDisplayRotation(dev, d.Rotation, d.Width, d.Height)
}

func sameGeometry(a, b platform.Display) bool {
	return a.Width == b.Width && a.Height == b.Height && a.Rotation == b.Rotation
}
