package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/attribution/sensitivity"
	"github.com/katalvlaran/attribution/solver"
	"github.com/katalvlaran/attribution/uq"
)

// ErrInvalidConfig marks a Config that fails Validate; the wrapped message
// names the offending field.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config holds every tunable named in spec.md §6.
type Config struct {
	Alpha                   float64            `yaml:"alpha"`
	SessionGapSeconds       int                `yaml:"session_gap_seconds"`
	ShapleyExactMaxChannels int                `yaml:"shapley_exact_max_channels"`
	BootstrapB              int                `yaml:"bootstrap_b"`
	DirichletB              int                `yaml:"dirichlet_b"`
	DirichletPrior          float64            `yaml:"dirichlet_prior"`
	AlphaGrid               []float64          `yaml:"alpha_grid"`
	LambdaGrid              []float64          `yaml:"lambda_grid"`
	Seed                    int64              `yaml:"seed"`
	Weights                 map[string]float64 `yaml:"weights"`
}

// Default returns the engine's built-in defaults, matching every
// package's own DefaultX constant.
func Default() *Config {
	return &Config{
		Alpha:                   solver.DefaultAlpha,
		SessionGapSeconds:       2700,
		ShapleyExactMaxChannels: solver.DefaultShapleyMaxChannels,
		BootstrapB:              uq.DefaultB,
		DirichletB:              uq.DefaultB,
		DirichletPrior:          uq.DefaultDirichletPrior,
		AlphaGrid:               sensitivity.DefaultAlphaGrid,
		LambdaGrid:              sensitivity.DefaultLambdaGrid,
		Seed:                    0,
	}
}

// Load reads configuration from environment variables, optionally
// preceded by a .env file in the working directory. Values absent from
// the environment fall back to Default(). Grids and weight overrides are
// not representable as flat env vars — use FromYAML for those.
func Load() *Config {
	_ = godotenv.Load()

	cfg := Default()
	cfg.Alpha = getEnvFloat("ATTRIBUTION_ALPHA", cfg.Alpha)
	cfg.SessionGapSeconds = getEnvInt("ATTRIBUTION_SESSION_GAP_SECONDS", cfg.SessionGapSeconds)
	cfg.ShapleyExactMaxChannels = getEnvInt("ATTRIBUTION_SHAPLEY_MAX_CHANNELS", cfg.ShapleyExactMaxChannels)
	cfg.BootstrapB = getEnvInt("ATTRIBUTION_BOOTSTRAP_B", cfg.BootstrapB)
	cfg.DirichletB = getEnvInt("ATTRIBUTION_DIRICHLET_B", cfg.DirichletB)
	cfg.DirichletPrior = getEnvFloat("ATTRIBUTION_DIRICHLET_PRIOR", cfg.DirichletPrior)
	cfg.Seed = int64(getEnvInt("ATTRIBUTION_SEED", int(cfg.Seed)))

	return cfg
}

// FromYAML reads a full Config, including grids and weight overrides,
// from a YAML file via viper.
func FromYAML(path string) (*Config, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config.FromYAML(%q): %w", path, err)
	}

	var raw map[string]interface{}
	if err := vp.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("config.FromYAML(%q): %w", path, err)
	}

	spec, err := yaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("config.FromYAML(%q): %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(spec, cfg); err != nil {
		return nil, fmt.Errorf("config.FromYAML(%q): %w", path, err)
	}

	return cfg, nil
}

// Validate enforces the invariants SPEC_FULL.md §C.1 promises: alpha in
// [0,1], positive counts/guardrails, a non-negative Dirichlet prior, and
// strictly ascending grids.
func (c *Config) Validate() error {
	if c.Alpha < 0 || c.Alpha > 1 {
		return fmt.Errorf("alpha %g outside [0,1]: %w", c.Alpha, ErrInvalidConfig)
	}
	if c.SessionGapSeconds <= 0 {
		return fmt.Errorf("session_gap_seconds %d must be positive: %w", c.SessionGapSeconds, ErrInvalidConfig)
	}
	if c.ShapleyExactMaxChannels <= 0 {
		return fmt.Errorf("shapley_exact_max_channels %d must be positive: %w", c.ShapleyExactMaxChannels, ErrInvalidConfig)
	}
	if c.BootstrapB <= 0 {
		return fmt.Errorf("bootstrap_b %d must be positive: %w", c.BootstrapB, ErrInvalidConfig)
	}
	if c.DirichletB <= 0 {
		return fmt.Errorf("dirichlet_b %d must be positive: %w", c.DirichletB, ErrInvalidConfig)
	}
	if c.DirichletPrior < 0 {
		return fmt.Errorf("dirichlet_prior %g must be non-negative: %w", c.DirichletPrior, ErrInvalidConfig)
	}
	if err := validateAscending("alpha_grid", c.AlphaGrid); err != nil {
		return err
	}
	if err := validateAscending("lambda_grid", c.LambdaGrid); err != nil {
		return err
	}

	return nil
}

func validateAscending(name string, grid []float64) error {
	for i := 1; i < len(grid); i++ {
		if grid[i] <= grid[i-1] {
			return fmt.Errorf("%s is not strictly ascending at index %d (%g <= %g): %w", name, i, grid[i], grid[i-1], ErrInvalidConfig)
		}
	}

	return nil
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}

	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}

	return fallback
}

