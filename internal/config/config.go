// Package config loads simulation settings from an optional YAML file and
// GOLDFISH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g.
// GOLDFISH_SIMULATION_TRIALS=5000.
const EnvPrefix = "GOLDFISH"

// Config is the full configuration.
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Opponent   OpponentConfig   `mapstructure:"opponent"`
	Heuristic  HeuristicConfig  `mapstructure:"heuristic"`
	Engine     EngineConfig     `mapstructure:"engine"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// SimulationConfig controls the batch.
type SimulationConfig struct {
	MaxTurns      int    `mapstructure:"max_turns"`
	Trials        int    `mapstructure:"trials"`
	Seed          uint64 `mapstructure:"seed"`
	Workers       int    `mapstructure:"workers"`
	OpeningHand   int    `mapstructure:"opening_hand"`
	SkipFirstDraw bool   `mapstructure:"skip_first_draw"`
	Mulligan      bool   `mapstructure:"mulligan"`
}

// OpponentConfig parameterizes the opponent threat model.
type OpponentConfig struct {
	Count          int     `mapstructure:"count"`
	StartingLife   int     `mapstructure:"starting_life"`
	InitialPower   int     `mapstructure:"initial_power"`
	GrowthPerTurn  float64 `mapstructure:"growth_per_turn"`
	ThreatScale    float64 `mapstructure:"threat_scale"`
	BlockBase      float64 `mapstructure:"block_base"`
	BlockScale     float64 `mapstructure:"block_scale"`
	FlyerChance    float64 `mapstructure:"flyer_chance"`
	RemovalChance  float64 `mapstructure:"removal_chance"`
	WipeChance     float64 `mapstructure:"wipe_chance"`
	WipeBoardPower int     `mapstructure:"wipe_board_power"`
}

// HeuristicConfig tunes the sequencing heuristic.
type HeuristicConfig struct {
	HoldBackChance     float64 `mapstructure:"hold_back_chance"`
	HoldBackThreat     float64 `mapstructure:"hold_back_threat"`
	HoldBackBoardPower int     `mapstructure:"hold_back_board_power"`
	HighValueScore     float64 `mapstructure:"high_value_score"`
	LeftoverChance     float64 `mapstructure:"leftover_chance"`
	LeftoverActions    int     `mapstructure:"leftover_actions"`
}

// EngineConfig bounds the trial engine.
type EngineConfig struct {
	TriggerDepthLimit int `mapstructure:"trigger_depth_limit"`
	MaxMainActions    int `mapstructure:"max_main_actions"`
}

// LoggingConfig selects the logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads path (if non-empty), applies defaults and environment
// overrides, and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("simulation.max_turns", 10)
	v.SetDefault("simulation.trials", 1000)
	v.SetDefault("simulation.seed", 1)
	v.SetDefault("simulation.workers", 0)
	v.SetDefault("simulation.opening_hand", 7)
	v.SetDefault("simulation.skip_first_draw", true)
	v.SetDefault("simulation.mulligan", true)

	v.SetDefault("opponent.count", 3)
	v.SetDefault("opponent.starting_life", 40)
	v.SetDefault("opponent.initial_power", 0)
	v.SetDefault("opponent.growth_per_turn", 2.5)
	v.SetDefault("opponent.threat_scale", 20.0)
	v.SetDefault("opponent.block_base", 0.15)
	v.SetDefault("opponent.block_scale", 0.5)
	v.SetDefault("opponent.flyer_chance", 0.3)
	v.SetDefault("opponent.removal_chance", 0.12)
	v.SetDefault("opponent.wipe_chance", 0.08)
	v.SetDefault("opponent.wipe_board_power", 12)

	v.SetDefault("heuristic.hold_back_chance", 0.3)
	v.SetDefault("heuristic.hold_back_threat", 0.6)
	v.SetDefault("heuristic.hold_back_board_power", 10)
	v.SetDefault("heuristic.high_value_score", 8.0)
	v.SetDefault("heuristic.leftover_chance", 0.5)
	v.SetDefault("heuristic.leftover_actions", 3)

	v.SetDefault("engine.trigger_depth_limit", 64)
	v.SetDefault("engine.max_main_actions", 50)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Validate checks ranges. It reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	prob := func(name string, p float64) {
		check(p >= 0 && p <= 1, "%s must be in [0,1], got %v", name, p)
	}

	check(c.Simulation.MaxTurns > 0, "simulation.max_turns must be positive")
	check(c.Simulation.Trials > 0, "simulation.trials must be positive")
	check(c.Simulation.Workers >= 0, "simulation.workers must not be negative")
	check(c.Simulation.OpeningHand >= 0, "simulation.opening_hand must not be negative")

	check(c.Opponent.Count > 0, "opponent.count must be positive")
	check(c.Opponent.StartingLife > 0, "opponent.starting_life must be positive")
	check(c.Opponent.InitialPower >= 0, "opponent.initial_power must not be negative")
	check(c.Opponent.GrowthPerTurn >= 0, "opponent.growth_per_turn must not be negative")
	check(c.Opponent.ThreatScale > 0, "opponent.threat_scale must be positive")
	prob("opponent.block_base", c.Opponent.BlockBase)
	prob("opponent.block_scale", c.Opponent.BlockScale)
	prob("opponent.flyer_chance", c.Opponent.FlyerChance)
	prob("opponent.removal_chance", c.Opponent.RemovalChance)
	prob("opponent.wipe_chance", c.Opponent.WipeChance)

	prob("heuristic.hold_back_chance", c.Heuristic.HoldBackChance)
	prob("heuristic.hold_back_threat", c.Heuristic.HoldBackThreat)
	prob("heuristic.leftover_chance", c.Heuristic.LeftoverChance)
	check(c.Heuristic.LeftoverActions >= 0, "heuristic.leftover_actions must not be negative")

	check(c.Engine.TriggerDepthLimit > 0, "engine.trigger_depth_limit must be positive")
	check(c.Engine.MaxMainActions > 0, "engine.max_main_actions must be positive")

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q is not json or console", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
