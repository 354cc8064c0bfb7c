// Package daemon runs the fold state machine against live sensors and keeps
// per-display cutout info current for the status API.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/1broseidon/foldscreen/internal/config"
	"github.com/1broseidon/foldscreen/internal/cutout"
	"github.com/1broseidon/foldscreen/internal/fold"
	"github.com/1broseidon/foldscreen/internal/metrics"
	"github.com/1broseidon/foldscreen/internal/platform"
	"github.com/1broseidon/foldscreen/internal/runtimepath"
	"github.com/1broseidon/foldscreen/internal/sensor"
)

// ErrAlreadyRunning is returned by Run when another daemon holds the lock.
var ErrAlreadyRunning = errors.New("another foldscreen daemon is already running")

const shutdownTimeout = 5 * time.Second

// Config holds the daemon dependencies. Only Settings is required.
type Config struct {
	Settings *config.Settings
	Logger   *slog.Logger
	// Registry receives the daemon metrics and backs /metrics. A fresh
	// registry is created when nil.
	Registry *prometheus.Registry
	// Backend overrides the display source selected by Settings.Display.
	Backend platform.Backend
}

// Daemon owns the long-running components.
type Daemon struct {
	settings *config.Settings
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	backend  platform.Backend

	apps    *fold.AppStateObserver
	fold    *fold.Manager
	monitor *DisplayMonitor
	server  *Server
}

// New builds every component from the settings. Nothing runs until Run.
func New(cfg Config) (*Daemon, error) {
	if cfg.Settings == nil {
		return nil, errors.New("settings are required")
	}
	d := &Daemon{
		settings: cfg.Settings,
		logger:   cfg.Logger,
		registry: cfg.Registry,
		backend:  cfg.Backend,
	}
	if d.logger == nil {
		d.logger = slog.New(slog.DiscardHandler)
	}
	if d.registry == nil {
		d.registry = prometheus.NewRegistry()
	}
	d.metrics = metrics.New(d.registry)

	table, err := d.loadTable()
	if err != nil {
		return nil, err
	}
	if d.backend == nil {
		d.backend, err = platform.NewBackend(d.settings.Display)
		if err != nil {
			return nil, fmt.Errorf("failed to open display source: %w", err)
		}
	}

	d.apps = fold.NewAppStateObserver()
	d.fold = fold.NewManager(fold.Options{
		Policy:         fold.PolicyFromSettings(d.settings, table),
		HallSwitchApps: table.GetHallSwitchApps(),
		Foreground:     d.apps,
		Power:          sensor.ScreenFile{Path: d.settings.Sensor.ScreenPath},
		Logger:         d.logger.With("component", "fold"),
		Metrics:        d.metrics,
	})

	foldable := d.settings.Device.IsFoldable()
	d.monitor = NewDisplayMonitor(MonitorConfig{
		Interval: d.settings.Display.PollInterval,
		Foldable: foldable,
		Logger:   d.logger.With("component", "display"),
	}, d.backend, d.newController(table))

	if d.settings.HTTP.Listen != "" {
		d.server, err = NewServer(ServerConfig{
			Fold:     d.fold,
			Monitor:  d.monitor,
			Apps:     d.apps,
			Foldable: foldable,
			Gatherer: d.registry,
			Logger:   d.logger.With("component", "http"),
		})
		if err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Daemon) Fold() *fold.Manager { return d.fold }

func (d *Daemon) Monitor() *DisplayMonitor { return d.monitor }

// Server returns the HTTP server, or nil when http.listen is empty.
func (d *Daemon) Server() *Server { return d.server }

// Run acquires the instance lock and runs the sensor watcher, the display
// monitor and the HTTP server until ctx is cancelled or one of them fails.
func (d *Daemon) Run(ctx context.Context) error {
	lock, err := acquireLock()
	if err != nil {
		return err
	}
	defer func() {
		_ = lock.Unlock()
	}()
	defer d.backend.Close()

	d.logger.Info("foldscreen daemon starting",
		"device", string(d.settings.Device),
		"policy", d.settings.Policy,
		"lock", lock.Path())

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		d.monitor.Run(ctx)
		return nil
	})

	s := d.settings.Sensor
	if s.AnglePath != "" || s.HallPath != "" || s.TentPath != "" || s.RotationPath != "" {
		w := sensor.NewWatcher(sensor.Config{
			AnglePath:    s.AnglePath,
			HallPath:     s.HallPath,
			TentPath:     s.TentPath,
			RotationPath: s.RotationPath,
			Rotation:     d.monitor,
			PollInterval: s.PollInterval,
			Logger:       d.logger.With("component", "sensor"),
			Metrics:      d.metrics,
		}, d.fold)
		g.Go(func() error {
			return w.Run(ctx)
		})
	} else {
		d.logger.Warn("no sensor paths configured, fold status will not change")
	}

	if d.server != nil {
		g.Go(func() error {
			return d.server.Start(d.settings.HTTP.Listen)
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return d.server.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	d.logger.Info("foldscreen daemon stopped")
	return err
}

// Reload re-reads the device table and recomputes cutout info. Fold
// thresholds and the hall-switch app list keep their startup values.
func (d *Daemon) Reload() error {
	table, err := d.loadTable()
	if err != nil {
		return err
	}
	d.monitor.SetController(d.newController(table))
	d.logger.Info("device config reloaded", "path", d.settings.XMLConfig)
	return nil
}

// loadTable reads the device XML. A missing file yields an empty table so
// the daemon can run on hosts without a device profile.
func (d *Daemon) loadTable() (*config.Table, error) {
	table := d.settings.NewTable(config.WithTableLogger(d.logger.With("component", "config")))
	if d.settings.XMLConfig == "" {
		return table, nil
	}
	if err := config.LoadXMLFile(d.settings.XMLConfig, table); err != nil {
		d.metrics.RecordConfigError("xml")
		if errors.Is(err, fs.ErrNotExist) {
			d.logger.Warn("device config not found, using an empty table", "path", d.settings.XMLConfig)
			return table, nil
		}
		return nil, err
	}
	return table, nil
}

func (d *Daemon) newController(table *config.Table) *cutout.Controller {
	return cutout.NewController(table,
		cutout.WithLogger(d.logger.With("component", "cutout")),
		cutout.WithMetrics(d.metrics))
}

// acquireLock takes the single-instance lock in the runtime directory.
func acquireLock() (*flock.Flock, error) {
	path, err := runtimepath.LockPath()
	if err != nil {
		return nil, err
	}
	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, ErrAlreadyRunning
	}
	return fl, nil
}
