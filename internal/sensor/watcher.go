// Package sensor feeds hinge, hall and tent readings from sysfs-style files
// into the fold state machine, and gravity rotation into the display monitor.
package sensor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/1broseidon/foldscreen/internal/fold"
	"github.com/1broseidon/foldscreen/internal/geometry"
	"github.com/1broseidon/foldscreen/internal/metrics"
)

// ErrNoSensors is returned by Run when no sensor path is configured.
var ErrNoSensors = errors.New("no sensor paths configured")

// Handler receives sensor changes. *fold.Manager implements it.
type Handler interface {
	HandleAngleChange(angle float64, hall int)
	HandleHallChange(ctx context.Context, angle float64, hall int) error
	HandleTentChange(on bool, hall int)
}

// RotationHandler receives gravity sensor orientation changes.
type RotationHandler interface {
	HandleDeviceRotation(dev geometry.DeviceRotation)
}

// Config configures a Watcher. Empty paths are not watched.
type Config struct {
	AnglePath    string
	HallPath     string
	TentPath     string
	// RotationPath holds the gravity orientation: -1 invalid, 0 portrait,
	// 1 landscape, 2 portrait inverted, 3 landscape inverted.
	RotationPath string
	// Rotation receives RotationPath changes; the path is ignored when nil.
	Rotation     RotationHandler
	PollInterval time.Duration
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
}

// Watcher reads the sensor files when they change and dispatches new values.
// fsnotify catches writes to regular files; the poll ticker covers
// pseudo-files that never emit events.
type Watcher struct {
	cfg     Config
	handler Handler
	logger  *slog.Logger

	angle    float64
	hall     int
	tent     bool
	hasAngle bool
	hasHall  bool
	hasTent  bool

	rotation    geometry.DeviceRotation
	hasRotation bool
}

func NewWatcher(cfg Config, h Handler) *Watcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{
		cfg:      cfg,
		handler:  h,
		logger:   logger,
		hall:     fold.HallOpen,
		rotation: geometry.DeviceRotationInvalid,
	}
}

// Run watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	paths := w.paths()
	if len(paths) == 0 {
		return ErrNoSensors
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create sensor watcher: %w", err)
	}
	defer fw.Close()

	dirs := make(map[string]struct{})
	for _, p := range paths {
		dir := filepath.Dir(p)
		if _, ok := dirs[dir]; ok {
			continue
		}
		dirs[dir] = struct{}{}
		if err := fw.Add(dir); err != nil {
			w.logger.Warn("cannot watch sensor directory, relying on polling", "dir", dir, "error", err)
		}
	}

	var tick <-chan time.Time
	if w.cfg.PollInterval > 0 {
		ticker := time.NewTicker(w.cfg.PollInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	w.logger.Info("sensor watcher started", "paths", paths, "poll_interval", w.cfg.PollInterval)
	defer w.logger.Info("sensor watcher stopped")

	w.pollAll(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.readPath(ctx, ev.Name)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("sensor watcher error", "error", err)
		case <-tick:
			w.pollAll(ctx)
		}
	}
}

func (w *Watcher) paths() []string {
	var out []string
	rotationPath := w.cfg.RotationPath
	if w.cfg.Rotation == nil {
		rotationPath = ""
	}
	for _, p := range []string{w.cfg.HallPath, w.cfg.AnglePath, w.cfg.TentPath, rotationPath} {
		if p != "" {
			out = append(out, filepath.Clean(p))
		}
	}
	return out
}

// pollAll reads hall first so an angle read in the same pass sees it.
func (w *Watcher) pollAll(ctx context.Context) {
	for _, p := range w.paths() {
		w.readPath(ctx, p)
	}
}

func (w *Watcher) readPath(ctx context.Context, path string) {
	path = filepath.Clean(path)
	switch path {
	case filepath.Clean(w.cfg.HallPath):
		if v, ok := w.readInt(path); ok {
			w.updateHall(ctx, v)
		}
	case filepath.Clean(w.cfg.AnglePath):
		if v, ok := w.readFloat(path); ok {
			w.updateAngle(v)
		}
	case filepath.Clean(w.cfg.TentPath):
		if v, ok := w.readInt(path); ok {
			w.updateTent(v != 0)
		}
	case filepath.Clean(w.cfg.RotationPath):
		if w.cfg.Rotation == nil {
			return
		}
		if v, ok := w.readInt(path); ok {
			w.updateRotation(v)
		}
	}
}

func (w *Watcher) updateAngle(v float64) {
	if w.hasAngle && v == w.angle {
		return
	}
	w.angle, w.hasAngle = v, true
	w.logger.Debug("angle changed", "angle", v, "hall", w.hall)
	w.handler.HandleAngleChange(v, w.hall)
}

func (w *Watcher) updateHall(ctx context.Context, v int) {
	if v != fold.HallFolded && v != fold.HallOpen {
		w.logger.Warn("ignoring hall value", "value", v)
		w.cfg.Metrics.RecordIgnored("bad_hall_value")
		return
	}
	if w.hasHall && v == w.hall {
		return
	}
	w.hall, w.hasHall = v, true
	w.logger.Debug("hall changed", "angle", w.angle, "hall", v)
	if err := w.handler.HandleHallChange(ctx, w.angle, v); err != nil && ctx.Err() == nil {
		w.logger.Warn("hall change failed", "error", err)
	}
}

func (w *Watcher) updateTent(on bool) {
	if w.hasTent && on == w.tent {
		return
	}
	first := !w.hasTent
	w.tent, w.hasTent = on, true
	if first && !on {
		return
	}
	hall := fold.HallUnchanged
	if w.hasHall {
		hall = w.hall
	}
	w.logger.Debug("tent changed", "tent", on, "hall", hall)
	w.handler.HandleTentChange(on, hall)
}

func (w *Watcher) updateRotation(v int) {
	dev := geometry.DeviceRotation(v)
	if dev < geometry.DeviceRotationInvalid || dev > geometry.DeviceRotationLandscapeInverted {
		w.logger.Warn("ignoring rotation value", "value", v)
		w.cfg.Metrics.RecordIgnored("bad_rotation_value")
		return
	}
	if w.hasRotation && dev == w.rotation {
		return
	}
	w.rotation, w.hasRotation = dev, true
	w.logger.Debug("device rotation changed", "rotation", dev.String())
	w.cfg.Rotation.HandleDeviceRotation(dev)
}

func (w *Watcher) readInt(path string) (int, bool) {
	s, ok := w.read(path)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		w.logger.Warn("unparsable sensor value", "path", path, "value", s)
		w.cfg.Metrics.RecordIgnored("unparsable")
		return 0, false
	}
	return v, true
}

func (w *Watcher) readFloat(path string) (float64, bool) {
	s, ok := w.read(path)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		w.logger.Warn("unparsable sensor value", "path", path, "value", s)
		w.cfg.Metrics.RecordIgnored("unparsable")
		return 0, false
	}
	return v, true
}

func (w *Watcher) read(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			w.logger.Debug("failed to read sensor", "path", path, "error", err)
		}
		return "", false
	}
	s := strings.TrimSpace(string(data))
	if s == "" {
		return "", false
	}
	return s, true
}
