package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/1broseidon/foldscreen/internal/config"
	"github.com/1broseidon/foldscreen/internal/logging"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	xmlPath    string
	logLevel   string
	output     string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "foldscreen",
		Short: "Fold state and display cutout daemon for foldable panels",
		Long: `foldscreen tracks the fold status of a hinged device from its hinge angle
and hall sensors, and derives the cutout and curved-edge regions of each
display from the device configuration.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "settings file (default: ~/.config/foldscreen/config.yaml)")
	pf.StringVar(&opts.xmlPath, "xml", "", "device config XML (overrides xml_config)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (overrides log_level)")
	pf.StringVarP(&opts.output, "output", "o", "auto", "output format: auto, text or json")

	cmd.AddCommand(
		newDaemonCmd(opts),
		newCutoutCmd(opts),
		newModeCmd(opts),
		newConfigCmd(opts),
		newFoldCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

// loadSettings reads the settings file and applies the flag overrides.
func (o *rootOptions) loadSettings() (*config.LoadResult, error) {
	var (
		res *config.LoadResult
		err error
	)
	if o.configPath == "" {
		res, err = config.LoadSettings()
	} else {
		res, err = config.LoadSettingsFromPath(o.configPath)
	}
	if err != nil {
		return nil, err
	}
	if o.xmlPath != "" {
		res.Settings.XMLConfig = o.xmlPath
	}
	if o.logLevel != "" {
		res.Settings.LogLevel = o.logLevel
	}
	return res, nil
}

// newLogger builds the logger of a one-shot command. Only the daemon writes
// to log_file.
func (o *rootOptions) newLogger(s *config.Settings, stderr io.Writer) (*logging.Logger, error) {
	return logging.New(logging.Config{
		Level:  s.LogLevel,
		Stderr: stderr,
	})
}

// loadTable reads the device XML named by the settings. A missing file
// yields an empty table, as in the daemon.
func loadTable(s *config.Settings, logger *logging.Logger) (*config.Table, error) {
	table := s.NewTable(config.WithTableLogger(logger.Logger))
	if s.XMLConfig == "" {
		return table, nil
	}
	if err := config.LoadXMLFile(s.XMLConfig, table); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("device config not found, using an empty table", "path", s.XMLConfig)
			return table, nil
		}
		return nil, err
	}
	return table, nil
}

// wantJSON resolves the output flag. Auto selects text on a terminal and
// JSON otherwise.
func (o *rootOptions) wantJSON(w io.Writer) (bool, error) {
	switch o.output {
	case "json":
		return true, nil
	case "text":
		return false, nil
	case "auto", "":
		f, ok := w.(*os.File)
		return !ok || !term.IsTerminal(int(f.Fd())), nil
	default:
		return false, fmt.Errorf("unknown output format %q", o.output)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
