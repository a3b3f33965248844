package main

import (
	"github.com/spf13/cobra"

	"github.com/okian/energy-analytics/internal/config"
	"github.com/okian/energy-analytics/pkg/logger"
)

var (
	baseDir   string
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "energyctl",
	Short: "Tooling for the residential energy analytics dashboard",
	Long: `energyctl generates synthetic energy data, uploads CSV files to a running
dashboard and runs the forecast pipeline headlessly.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Init(logger.WithFormat(logFormat), logger.WithOutput(cmd.ErrOrStderr())); err != nil {
			return err
		}
		return logger.SetLevelString(logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseDir, "base-dir", "", "install directory holding data/ and models/ (default is the executable's directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text or json")
}

// resolvePaths returns the install paths for --base-dir.
func resolvePaths() (config.Paths, error) {
	cfg := config.New()
	cfg.BaseDir = baseDir
	return cfg.Paths()
}
