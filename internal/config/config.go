package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/rules"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/metrics"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/scenario"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/strategy"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/trial"
)

// Config holds all configuration for the application
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Scenario   ScenarioConfig   `mapstructure:"scenario"`
	Deck       DeckConfig       `mapstructure:"deck"`
	Metrics    metrics.Options  `mapstructure:"metrics"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Server     ServerConfig     `mapstructure:"server"`
	Store      StoreConfig      `mapstructure:"store"`
}

// SimulationConfig holds the settings of a single experiment
type SimulationConfig struct {
	Name            string           `mapstructure:"name"`
	TrialCount      int              `mapstructure:"trial_count"`
	Seed            int64            `mapstructure:"seed"`
	Workers         int              `mapstructure:"workers"`
	Strategy        string           `mapstructure:"strategy"`
	StrategyOptions strategy.Options `mapstructure:"strategy_options"`
	MulliganPolicy  string           `mapstructure:"mulligan_policy"`

	TurnLimit       int    `mapstructure:"turn_limit"`
	OpeningHandSize int    `mapstructure:"opening_hand_size"`
	MulliganMax     int    `mapstructure:"mulligan_max"`
	MulliganRule    string `mapstructure:"mulligan_rule"`
	DrawPolicy      string `mapstructure:"draw_policy"`

	StopCondition   string `mapstructure:"stop_condition"`
	DamageThreshold int    `mapstructure:"damage_threshold"`
	PlayThreshold   int    `mapstructure:"play_threshold"`

	CheckInvariants  bool          `mapstructure:"check_invariants"`
	LogEvents        bool          `mapstructure:"log_events"`
	Progress         bool          `mapstructure:"progress"`
	ProgressInterval time.Duration `mapstructure:"progress_interval"`
}

// ScenarioConfig holds the sweep grid run around the simulation settings
type ScenarioConfig struct {
	Name        string           `mapstructure:"name"`
	SeedPolicy  string           `mapstructure:"seed_policy"`
	Parallelism int              `mapstructure:"parallelism"`
	Sweeps      []scenario.Sweep `mapstructure:"sweeps"`
}

// CardConfig declares one card and how many copies the deck runs
type CardConfig struct {
	Name     string   `mapstructure:"name"`
	Type     string   `mapstructure:"type"`
	Cost     string   `mapstructure:"cost"`
	Produces string   `mapstructure:"produces"`
	Damage   int      `mapstructure:"damage"`
	Tags     []string `mapstructure:"tags"`
	Count    int      `mapstructure:"count"`
}

// DeckConfig holds an inline deck list
type DeckConfig struct {
	Name       string       `mapstructure:"name"`
	Cards      []CardConfig `mapstructure:"cards"`
	Commanders []CardConfig `mapstructure:"commanders"`
	// LandSlot and FillerSlot name the cards resized by land_count sweeps
	LandSlot   string `mapstructure:"land_slot"`
	FillerSlot string `mapstructure:"filler_slot"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds gRPC server configuration
type ServerConfig struct {
	Host                  string `mapstructure:"host"`
	Port                  int    `mapstructure:"port"`
	EnableReflection      bool   `mapstructure:"enable_reflection"`
	GracefulShutdownDelay int    `mapstructure:"graceful_shutdown_delay"`
	// MaxTrials caps trial_count times grid points for one request
	MaxTrials int `mapstructure:"max_trials"`
}

// StoreConfig holds result store settings. An empty path disables the store.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	opts := strategy.DefaultOptions()
	m := metrics.DefaultOptions()

	// Simulation defaults
	v.SetDefault("simulation.name", "")
	v.SetDefault("simulation.trial_count", 1000)
	v.SetDefault("simulation.seed", 1)
	v.SetDefault("simulation.workers", 0)
	v.SetDefault("simulation.strategy", strategy.NameBaseline)
	v.SetDefault("simulation.mulligan_policy", "")
	v.SetDefault("simulation.strategy_options.min_lands", opts.MinLands)
	v.SetDefault("simulation.strategy_options.max_lands", opts.MaxLands)
	v.SetDefault("simulation.strategy_options.keep_after", opts.KeepAfter)
	v.SetDefault("simulation.strategy_options.sloppiness", opts.Sloppiness)
	v.SetDefault("simulation.strategy_options.commander_bonus", opts.CommanderBonus)
	v.SetDefault("simulation.strategy_options.combo_bonus", opts.ComboBonus)
	v.SetDefault("simulation.strategy_options.keep_probability", opts.KeepProbability)

	// Trial defaults
	v.SetDefault("simulation.turn_limit", 8)
	v.SetDefault("simulation.opening_hand_size", trial.DefaultOpeningHandSize)
	v.SetDefault("simulation.mulligan_max", 3)
	v.SetDefault("simulation.mulligan_rule", trial.RuleTraditional.String())
	v.SetDefault("simulation.draw_policy", trial.DrawPlay.String())
	v.SetDefault("simulation.stop_condition", rules.StopNone.String())
	v.SetDefault("simulation.damage_threshold", 0)
	v.SetDefault("simulation.play_threshold", 0)
	v.SetDefault("simulation.check_invariants", false)
	v.SetDefault("simulation.log_events", false)
	v.SetDefault("simulation.progress", false)
	v.SetDefault("simulation.progress_interval", "5s")

	// Scenario defaults
	v.SetDefault("scenario.name", "")
	v.SetDefault("scenario.seed_policy", scenario.SeedDerived.String())
	v.SetDefault("scenario.parallelism", 1)

	// Deck defaults
	v.SetDefault("deck.name", "")
	v.SetDefault("deck.land_slot", "")
	v.SetDefault("deck.filler_slot", "")

	// Metrics defaults
	v.SetDefault("metrics.checkpoint_turns", m.CheckpointTurns)
	v.SetDefault("metrics.flood_threshold", m.FloodThreshold)
	v.SetDefault("metrics.screw_threshold", m.ScrewThreshold)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 50061)
	v.SetDefault("server.enable_reflection", true)
	v.SetDefault("server.graceful_shutdown_delay", 5)
	v.SetDefault("server.max_trials", 1000000)

	// Store defaults
	v.SetDefault("store.path", "")
}

// newViper creates a viper instance with defaults and environment overrides
func newViper() *viper.Viper {
	nv := viper.New()
	setViperDefaults(nv)
	nv.SetEnvPrefix("GOLDFISH")
	nv.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	nv.AutomaticEnv()
	return nv
}

// Init initializes the configuration
func Init(configPath string) error {
	v = newViper()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/goldfish")
	}

	if err := v.ReadInConfig(); err != nil {
		if configPath != "" {
			return fmt.Errorf("error reading config file %s: %w", configPath, err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; use defaults
	}

	next := &Config{}
	if err := unmarshal(v, next); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := Validate(next); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	cfg = next
	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// Settings returns a snapshot of every resolved key as nested maps
func Settings() map[string]any {
	return GetViper().AllSettings()
}

// LoadEnvironmentConfig merges config.<env>.yaml over the loaded config
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	envFile := fmt.Sprintf("config.%s.yaml", env)
	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error merging environment config %s: %w", envFile, err)
		}
	}

	if err := unmarshal(v, cfg); err != nil {
		return fmt.Errorf("unable to decode merged config into struct: %w", err)
	}
	return nil
}

// Set allows runtime config updates
func Set(key string, value any) {
	v.Set(key, value)
	_ = unmarshal(v, cfg)
}

// GetString gets a string value from config
func GetString(key string) string {
	return v.GetString(key)
}

// GetInt gets an int value from config
func GetInt(key string) int {
	return v.GetInt(key)
}

// GetBool gets a bool value from config
func GetBool(key string) bool {
	return v.GetBool(key)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. A reloaded config
// that fails validation is dropped and the previous one kept.
func WatchConfig(logger zerolog.Logger, onChange func(*Config)) {
	watched := v
	watched.OnConfigChange(func(e fsnotify.Event) {
		next := &Config{}
		if err := unmarshal(watched, next); err != nil {
			logger.Error().Err(err).Str("file", e.Name).Msg("Failed to decode reloaded config")
			return
		}
		if err := Validate(next); err != nil {
			logger.Error().Err(err).Str("file", e.Name).Msg("Reloaded config is invalid, keeping previous")
			return
		}
		cfg = next
		logger.Info().Str("file", e.Name).Str("op", e.Op.String()).Msg("Config reloaded")
		if onChange != nil {
			onChange(next)
		}
	})
	watched.WatchConfig()
}

// Validate validates the configuration values. The deck and the grid are
// checked when they are built.
func Validate(c *Config) error {
	s := c.Simulation
	if s.TrialCount < 1 {
		return fmt.Errorf("simulation.trial_count must be at least 1")
	}
	if s.Workers < 0 {
		return fmt.Errorf("simulation.workers must be non-negative")
	}
	if _, ok := strategy.Lookup(s.Strategy); !ok {
		return fmt.Errorf("simulation.strategy %q is not registered (have %s)", s.Strategy, strings.Join(strategy.Names(), ", "))
	}
	if s.MulliganPolicy != "" {
		if _, err := strategy.ParseMulliganPolicy(s.MulliganPolicy); err != nil {
			return fmt.Errorf("simulation.mulligan_policy: %w", err)
		}
	}
	if s.TurnLimit < 1 {
		return fmt.Errorf("simulation.turn_limit must be at least 1")
	}
	if s.OpeningHandSize < 1 {
		return fmt.Errorf("simulation.opening_hand_size must be at least 1")
	}
	if s.MulliganMax < 0 {
		return fmt.Errorf("simulation.mulligan_max must be non-negative")
	}
	if _, err := trial.ParseMulliganRule(s.MulliganRule); err != nil {
		return fmt.Errorf("simulation.mulligan_rule: %w", err)
	}
	if _, err := trial.ParseDrawPolicy(s.DrawPolicy); err != nil {
		return fmt.Errorf("simulation.draw_policy: %w", err)
	}
	if _, err := rules.ParseStopCondition(s.StopCondition); err != nil {
		return fmt.Errorf("simulation.stop_condition: %w", err)
	}
	if s.StrategyOptions.Sloppiness < 0 || s.StrategyOptions.Sloppiness > 1 {
		return fmt.Errorf("simulation.strategy_options.sloppiness must be between 0 and 1")
	}
	if s.StrategyOptions.KeepProbability < 0 || s.StrategyOptions.KeepProbability > 1 {
		return fmt.Errorf("simulation.strategy_options.keep_probability must be between 0 and 1")
	}
	if s.ProgressInterval < 0 {
		return fmt.Errorf("simulation.progress_interval must be non-negative")
	}

	if _, err := scenario.ParseSeedPolicy(c.Scenario.SeedPolicy); err != nil {
		return fmt.Errorf("scenario.seed_policy: %w", err)
	}
	if c.Scenario.Parallelism < 0 {
		return fmt.Errorf("scenario.parallelism must be non-negative")
	}

	for _, turn := range c.Metrics.CheckpointTurns {
		if turn < 1 {
			return fmt.Errorf("metrics.checkpoint_turns must all be at least 1")
		}
	}
	if c.Metrics.FloodThreshold < 0 || c.Metrics.ScrewThreshold < 0 {
		return fmt.Errorf("metrics thresholds must be non-negative")
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Server.GracefulShutdownDelay < 0 {
		return fmt.Errorf("server.graceful_shutdown_delay must be non-negative")
	}
	if c.Server.MaxTrials < 1 {
		return fmt.Errorf("server.max_trials must be positive")
	}
	return nil
}
