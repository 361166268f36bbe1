// Command goldfish estimates how fast a commander deck wins by playing it
// thousands of times against an abstract opponent model.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/magefree/goldfish/internal/config"
)

var version = "dev" // set via ldflags during build

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "goldfish",
		Short: "Deck power simulator for commander decks",
		Long: `goldfish plays a decklist solo many times against a probabilistic
opponent model and reports per-turn damage, board and mana curves, win
rates and win types.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML configuration file")

	rootCmd.AddCommand(
		newRunCmd(),
		newValidateCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// loadConfig reads the --config file, if any, with GOLDFISH_* overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	// Reports go to stdout; logs stay on stderr.
	zapCfg.OutputPaths = []string{"stderr"}

	return zapCfg.Build()
}
