package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/1broseidon/foldscreen/internal/daemon"
	"github.com/1broseidon/foldscreen/internal/logging"
)

func newDaemonCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the foldscreen daemon (foreground)",
		Long: `Run the fold state machine against the configured sensor files, poll the
display source for geometry changes and serve the status API.

SIGHUP reloads the device config XML. SIGINT and SIGTERM stop the daemon.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDaemon(cmd.Context(), opts)
		},
	}
}

func runDaemon(ctx context.Context, opts *rootOptions) error {
	res, err := opts.loadSettings()
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Config{
		Level:    res.Settings.LogLevel,
		FilePath: res.Settings.LogFile,
	})
	if err != nil {
		return err
	}
	defer logger.Close()

	if res.File != "" {
		logger.Info("settings loaded", "path", res.File)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	d, err := daemon.New(daemon.Config{
		Settings: res.Settings,
		Logger:   logger.Logger,
		Registry: reg,
	})
	if err != nil {
		logger.Error("failed to start daemon", "error", err)
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				logger.Info("received SIGHUP, reloading device config")
				if err := d.Reload(); err != nil {
					logger.Error("device config reload failed", "error", err)
				}
			}
		}
	}()

	err = d.Run(ctx)
	if errors.Is(err, daemon.ErrAlreadyRunning) {
		logger.Error("daemon already running")
	}
	return err
}
