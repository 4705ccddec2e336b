package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"gesso/config"
)

// app carries state shared by all commands once flags are parsed.
type app struct {
	configPath string
	logLevel   string
	jsonOutput bool

	cfg    config.Config
	logger *slog.Logger
}

func defaultConfigPath() string {
	if s := os.Getenv("GESSO_CONFIG"); s != "" {
		return s
	}
	path, err := config.DefaultPath()
	if err != nil {
		return ""
	}
	return path
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "gesso <command>",
		Short: "Geometry core for diagram editing",
		Long: `Transform shapes, route connectors, hit-test and edit diagram files.

Examples:
  gesso edit diagram.json                          # Interactive terminal editor
  gesso route diagram.json --json                  # Print connector geometry
  gesso hit diagram.json 120 45                    # What is under a point
  gesso resize diagram.json sh-1 se 40 20 -w       # Resize and write back`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", defaultConfigPath(), "config file (TOML)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "output as JSON")

	root.AddGroup(
		&cobra.Group{ID: "geometry", Title: "Geometry:"},
		&cobra.Group{ID: "edit", Title: "Editing:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	// Geometry
	root.AddCommand(newRouteCmd(a))
	root.AddCommand(newHitCmd(a))
	root.AddCommand(newValidateCmd(a))

	// Editing
	root.AddCommand(newEditCmd(a))
	root.AddCommand(newMoveCmd(a))
	root.AddCommand(newResizeCmd(a))
	root.AddCommand(newRotateCmd(a))
	root.AddCommand(newAlignCmd(a))
	root.AddCommand(newDistributeCmd(a))

	// System
	root.AddCommand(newConfigCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = *cfg
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(a.logger)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
