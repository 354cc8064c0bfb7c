package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/1broseidon/foldscreen/internal/config"
	"github.com/1broseidon/foldscreen/internal/cutout"
	"github.com/1broseidon/foldscreen/internal/geometry"
)

type cutoutResult struct {
	DisplayID   uint64                 `json:"displayId"`
	Width       uint32                 `json:"width"`
	Height      uint32                 `json:"height"`
	Rotation    int                    `json:"rotation"`
	Mode        config.FoldDisplayMode `json:"mode"`
	Cutout      cutout.Info            `json:"cutout"`
	Compression geometry.RectF         `json:"compression"`
}

func newCutoutCmd(opts *rootOptions) *cobra.Command {
	var (
		displayID uint64
		rotation  string
		modeName  string
	)
	cmd := &cobra.Command{
		Use:   "cutout <width> <height>",
		Short: "Compute the cutout and waterfall areas of a display",
		Long: `Compute the cutout rects and curved-edge bands of a display of the given
unrotated panel size, in the coordinate space of the rotated display.

Examples:
  # Portrait panel, no rotation
  foldscreen cutout 1080 2340

  # Same panel in landscape
  foldscreen cutout 1080 2340 --rotation 90

  # Rotation names from the device config are accepted too
  foldscreen cutout 1080 2340 --rotation rotation_270

  # Force the main fold display mode
  foldscreen cutout 1344 2772 --mode main`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, h, err := parseSize(args)
			if err != nil {
				return err
			}
			rot, err := geometry.ParseRotation(rotation)
			if err != nil {
				return err
			}

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
			ctrl := cutout.NewController(table, cutout.WithLogger(logger.Logger))

			mode := ctrl.ResolveFoldMode(w, h)
			if modeName != "" {
				if mode, err = parseMode(modeName); err != nil {
					return err
				}
			}

			out := cutoutResult{
				DisplayID:   displayID,
				Width:       w,
				Height:      h,
				Rotation:    rot.Degrees(),
				Mode:        mode,
				Cutout:      ctrl.ComputeCutoutInfo(displayID, w, h, rot, mode, res.Settings.Device.IsFoldable()),
				Compression: ctrl.CalculateCurvedCompression(w, h, rot),
			}
			asJSON, err := opts.wantJSON(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			printCutout(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&displayID, "display", 0, "display ID")
	cmd.Flags().StringVar(&rotation, "rotation", "0", "rotation in degrees: 0, 90, 180 or 270")
	cmd.Flags().StringVar(&modeName, "mode", "", "fold display mode (default: resolved from the panel size)")
	return cmd
}

func newModeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mode <width> <height>",
		Short: "Resolve the fold display mode of a panel size",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, h, err := parseSize(args)
			if err != nil {
				return err
			}
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
			mode := table.GetFoldDisplayMode(w, h)

			asJSON, err := opts.wantJSON(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"width": w, "height": h, "mode": mode})
			}
			fmt.Fprintln(cmd.OutOrStdout(), mode)
			return nil
		},
	}
}

func parseSize(args []string) (uint32, uint32, error) {
	w, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil || w == 0 {
		return 0, 0, fmt.Errorf("invalid width %q", args[0])
	}
	h, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil || h == 0 {
		return 0, 0, fmt.Errorf("invalid height %q", args[1])
	}
	return uint32(w), uint32(h), nil
}

func parseMode(name string) (config.FoldDisplayMode, error) {
	mode := config.ParseFoldDisplayMode(name)
	if mode == config.FoldDisplayModeUnknown && name != "unknown" {
		return mode, fmt.Errorf("unknown fold display mode %q", name)
	}
	return mode, nil
}

func printCutout(w io.Writer, r cutoutResult) {
	fmt.Fprintf(w, "display:     %d\n", r.DisplayID)
	fmt.Fprintf(w, "size:        %dx%d\n", r.Width, r.Height)
	fmt.Fprintf(w, "rotation:    %d\n", r.Rotation)
	fmt.Fprintf(w, "mode:        %s\n", r.Mode)
	if len(r.Cutout.BoundaryRects) == 0 {
		fmt.Fprintln(w, "cutouts:     none")
	}
	for i, rect := range r.Cutout.BoundaryRects {
		fmt.Fprintf(w, "cutout[%d]:   %s\n", i, rect)
	}
	wf := r.Cutout.Waterfall
	if wf.IsEmpty() {
		fmt.Fprintln(w, "waterfall:   none")
	} else {
		fmt.Fprintf(w, "waterfall:   left=%s top=%s right=%s bottom=%s\n", wf.Left, wf.Top, wf.Right, wf.Bottom)
	}
	if r.Compression != (geometry.RectF{}) {
		c := r.Compression
		fmt.Fprintf(w, "compression: [%g,%g %gx%g]\n", c.Left, c.Top, c.Width, c.Height)
	}
}
