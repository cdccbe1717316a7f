package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iburimskiy/wavy-background/internal/config"
	"github.com/iburimskiy/wavy-background/internal/logging"
)

var (
	// Global flags
	verbose    bool
	configPath string
	profile    string
	logFormat  string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "wavy",
	Short: "Animated wavy-line background",
	Long: `wavy renders an animated background of wavy lines. Small cubes travel
along every line; cubes close to each other are connected and closed
triples of connections are filled as translucent triangles.

Run without a subcommand to open a window.

Keys: L low power, R reduced motion, D diagnostics, O open config, Esc/Q quit.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath, profile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		format := cfg.Logging.Format
		if cmd.Flags().Changed("log-format") {
			format = logFormat
		}
		logger, err = logging.New(cfg.Logging.Level, format, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runWindow,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	pf.StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	pf.StringVarP(&profile, "profile", "p", "", "configuration profile (desktop, mobile, reduced-motion, low-power)")
	pf.StringVar(&logFormat, "log-format", "console", "log format (console, json)")

	addRunFlags(rootCmd)
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd, snapshotCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
