package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/foldscreen/internal/config"
	"github.com/1broseidon/foldscreen/internal/geometry"
)

// tableDump is the JSON form of a parsed device table.
type tableDump struct {
	Path              string                                            `json:"path"`
	SinglePocketFold  bool                                              `json:"singlePocketFold"`
	Enables           map[string]bool                                   `json:"enables"`
	Numbers           map[string][]int                                  `json:"numbers"`
	Strings           map[string]string                                 `json:"strings"`
	StringLists       map[string][]string                               `json:"stringLists"`
	Displays          []config.DisplayConfig                            `json:"displays"`
	Resolutions       []config.DisplayPhysicalResolution                `json:"resolutions"`
	ScrollableParams  map[config.FoldDisplayMode]config.ScrollableParam `json:"scrollableParams"`
	CutoutBoundary    []geometry.Rect                                   `json:"cutoutBoundary"`
	SubCutoutBoundary []geometry.Rect                                   `json:"subCutoutBoundary"`
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the settings and the device config",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "validate",
			Short: "Validate the settings file and the device config",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				res, err := opts.loadSettings()
				if err != nil {
					return err
				}
				logger, err := opts.newLogger(res.Settings, cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				defer logger.Close()
				if _, err := loadTable(res.Settings, logger); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "config: ok")
				return nil
			},
		},
		&cobra.Command{
			Use:   "print",
			Short: "Print the effective settings as YAML",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				res, err := opts.loadSettings()
				if err != nil {
					return err
				}
				data, err := yaml.Marshal(res.Settings)
				if err != nil {
					return err
				}
				if res.File != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "# file: %s\n", res.File)
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			},
		},
		&cobra.Command{
			Use:   "explain <yaml.path>",
			Short: "Show a settings value and where it came from",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := opts.loadSettings()
				if err != nil {
					return err
				}
				value, src, err := config.Explain(res, args[0])
				if err != nil {
					return err
				}
				out, err := yaml.Marshal(value)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "path: %s\n", args[0])
				fmt.Fprintf(w, "source: %s\n", config.FormatSource(src))
				fmt.Fprintf(w, "value:\n%s", out)
				return nil
			},
		},
		&cobra.Command{
			Use:   "dump",
			Short: "Dump the parsed device config table as JSON",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
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
				return writeJSON(cmd.OutOrStdout(), dumpTable(res.Settings, table))
			},
		},
	)
	return cmd
}

func dumpTable(s *config.Settings, t *config.Table) tableDump {
	names := t.NumberConfigNames()
	numbers := make(map[string][]int, len(names))
	for _, name := range names {
		numbers[name] = t.GetNumberConfig(name)
	}
	return tableDump{
		Path:              s.XMLConfig,
		SinglePocketFold:  t.IsSinglePocketFold(),
		Enables:           t.GetEnableConfig(),
		Numbers:           numbers,
		Strings:           t.GetStringConfig(),
		StringLists:       t.GetStringListConfig(),
		Displays:          t.GetDisplays(),
		Resolutions:       t.GetPhysicalResolutions(),
		ScrollableParams:  t.GetScrollableParams(),
		CutoutBoundary:    t.GetCutoutBoundary(s.Display.ID),
		SubCutoutBoundary: t.GetSubCutoutBoundary(),
	}
}
