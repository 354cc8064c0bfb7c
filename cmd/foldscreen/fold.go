package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/1broseidon/foldscreen/internal/fold"
)

// replayStep is the outcome of one replayed sensor event.
type replayStep struct {
	Event       string            `json:"event"`
	Status      fold.Status       `json:"status"`
	Transitions []fold.Transition `json:"transitions,omitempty"`
}

func newFoldCmd(opts *rootOptions) *cobra.Command {
	var foreground string
	cmd := &cobra.Command{
		Use:   "fold <event>...",
		Short: "Replay sensor events through the fold state machine",
		Long: `Replay a sequence of sensor events and print the fold status after each.

Events:
  <angle>:<hall>   hinge angle in degrees and hall reading (0 folded, 1 open)
  tent:on          enter tent mode
  tent:off         leave tent mode

A hall reading that differs from the previous one is delivered as a hall
change before the angle.

Examples:
  foldscreen fold 170:1 100:1 5:0
  foldscreen fold --foreground com.example.video 170:1 tent:on 150:1`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := opts.loadSettings()
			if err != nil {
				return err
			}
			logger, err := opts.newLogger(res.Settings, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer logger.Close()
			table, err := loadTable(res.Settings, logger)
			if err != nil {
				return err
			}

			apps := fold.NewAppStateObserver()
			if foreground != "" {
				apps.OnForegroundApplicationChanged(foreground, fold.AppStateForeground)
			}
			m := fold.NewManager(fold.Options{
				Policy:         fold.PolicyFromSettings(res.Settings, table),
				HallSwitchApps: table.GetHallSwitchApps(),
				Foreground:     apps,
				HallDebounce:   time.Nanosecond,
				Logger:         logger.Logger,
			})

			steps, err := replay(cmd.Context(), m, args)
			if err != nil {
				return err
			}

			asJSON, err := opts.wantJSON(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), steps)
			}
			w := cmd.OutOrStdout()
			for _, st := range steps {
				marker := " "
				if len(st.Transitions) > 0 {
					marker = "*"
				}
				fmt.Fprintf(w, "%s %-10s %s\n", marker, st.Event, st.Status)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&foreground, "foreground", "", "bundle name to report as the foreground application")
	return cmd
}

func replay(ctx context.Context, m *fold.Manager, events []string) ([]replayStep, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var pending []fold.Transition
	m.OnChange(func(t fold.Transition) {
		pending = append(pending, t)
	})

	lastHall := fold.HallOpen
	steps := make([]replayStep, 0, len(events))
	for _, ev := range events {
		pending = nil
		key, val, ok := strings.Cut(ev, ":")
		if !ok {
			return nil, fmt.Errorf("invalid event %q: expected <angle>:<hall> or tent:on|off", ev)
		}

		if key == "tent" {
			switch val {
			case "on":
				m.HandleTentChange(true, lastHall)
			case "off":
				m.HandleTentChange(false, fold.HallUnchanged)
			default:
				return nil, fmt.Errorf("invalid tent event %q", ev)
			}
		} else {
			angle, err := strconv.ParseFloat(key, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid angle in %q: %w", ev, err)
			}
			hall, err := strconv.Atoi(val)
			if err != nil || (hall != fold.HallFolded && hall != fold.HallOpen) {
				return nil, fmt.Errorf("invalid hall in %q: expected 0 or 1", ev)
			}
			if hall != lastHall {
				if err := m.HandleHallChange(ctx, angle, hall); err != nil {
					return nil, err
				}
				lastHall = hall
			}
			m.HandleAngleChange(angle, hall)
		}

		steps = append(steps, replayStep{
			Event:       ev,
			Status:      m.Status(),
			Transitions: pending,
		})
	}
	return steps, nil
}
