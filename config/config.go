// Package config loads the experiment settings.
//
// Precedence, lowest to highest: built-in defaults, YAML file, environment
// variables (GDR_*, optionally from a .env file), command-line flags.
package config

import (
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/gdregression/pkg/errors"
	"github.com/YuminosukeSato/gdregression/pkg/log"
	"github.com/YuminosukeSato/gdregression/preprocessing"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults used by the driver.
const (
	DefaultAlpha   = 0.001
	DefaultEpochs  = 50000
	DefaultSeed    = 0
	DefaultDataset = "data/example.csv"
	DefaultOutDir  = "plots"
)

// DefaultExample is the raw feature row predicted after each experiment.
var DefaultExample = []float64{30, 31, 33.5}

// envFile is loaded into the environment by Load when it exists.
var envFile = ".env"

// Config holds everything a run needs.
type Config struct {
	Dataset   DatasetConfig   `yaml:"dataset"`
	Training  TrainingConfig  `yaml:"training"`
	Normalize NormalizeConfig `yaml:"normalize"`
	Output    OutputConfig    `yaml:"output"`
	Log       LogConfig       `yaml:"log"`

	// Example is predicted with each trained model, one value per sample
	// of the single feature.
	Example []float64 `yaml:"example"`
}

type DatasetConfig struct {
	Path         string `yaml:"path"`
	TargetColumn int    `yaml:"targetColumn"`
}

type TrainingConfig struct {
	Alpha            float64 `yaml:"alpha"`
	Epochs           int     `yaml:"epochs"`
	Seed             uint64  `yaml:"seed"`
	ProgressInterval int     `yaml:"progressInterval"`
}

type NormalizeConfig struct {
	Spread string `yaml:"spread"`
}

type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Plots  bool   `yaml:"plots"`
	Format string `yaml:"format"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Dataset: DatasetConfig{
			Path:         DefaultDataset,
			TargetColumn: -1,
		},
		Training: TrainingConfig{
			Alpha:  DefaultAlpha,
			Epochs: DefaultEpochs,
			Seed:   DefaultSeed,
		},
		Normalize: NormalizeConfig{Spread: "range"},
		Output: OutputConfig{
			Dir:    DefaultOutDir,
			Plots:  true,
			Format: "png",
		},
		Log:     LogConfig{Level: "info", Format: "console"},
		Example: append([]float64(nil), DefaultExample...),
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(err, "failed to read config file %s", path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "failed to parse config file %s", path)
		}
	}

	// a missing .env is fine, a malformed one is not
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, errors.Wrapf(err, "failed to load %s", envFile)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Dataset.Path = getEnvOrDefault("GDR_DATASET", c.Dataset.Path)
	c.Normalize.Spread = getEnvOrDefault("GDR_SPREAD", c.Normalize.Spread)
	c.Output.Dir = getEnvOrDefault("GDR_OUTPUT_DIR", c.Output.Dir)
	c.Output.Format = getEnvOrDefault("GDR_PLOT_FORMAT", c.Output.Format)
	c.Log.Level = getEnvOrDefault("GDR_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnvOrDefault("GDR_LOG_FORMAT", c.Log.Format)

	var err error
	if c.Training.Alpha, err = getFloatFromEnv("GDR_ALPHA", c.Training.Alpha); err != nil {
		return err
	}
	if c.Training.Epochs, err = getIntFromEnv("GDR_EPOCHS", c.Training.Epochs); err != nil {
		return err
	}
	if c.Training.Seed, err = getUintFromEnv("GDR_SEED", c.Training.Seed); err != nil {
		return err
	}
	if c.Output.Plots, err = getBoolFromEnv("GDR_PLOTS", c.Output.Plots); err != nil {
		return err
	}
	return nil
}

// Validate rejects settings the driver cannot run with.
func (c *Config) Validate() error {
	if c.Training.Alpha <= 0 {
		return errors.NewValidationError("training.alpha", "must be positive", c.Training.Alpha)
	}
	if c.Training.Epochs <= 0 {
		return errors.NewValidationError("training.epochs", "must be positive", c.Training.Epochs)
	}
	if strings.TrimSpace(c.Dataset.Path) == "" {
		return errors.NewValidationError("dataset.path", "must not be empty", c.Dataset.Path)
	}
	if _, err := preprocessing.ParseSpread(c.Normalize.Spread); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.NewValidationError("log.level", "must be debug, info, warn or error", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return errors.NewValidationError("log.format", "must be json or console", c.Log.Format)
	}
	switch strings.ToLower(c.Output.Format) {
	case "png", "svg", "pdf", "jpg", "jpeg", "eps", "tif", "tiff":
	default:
		return errors.NewValidationError("output.format", "unsupported plot format", c.Output.Format)
	}
	if len(c.Example) == 0 {
		return errors.NewValidationError("example", "must contain at least one value", c.Example)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getFloatFromEnv(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.NewValidationError(key, "not a number", value)
	}
	return f, nil
}

func getIntFromEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.NewValidationError(key, "not an integer", value)
	}
	return i, nil
}

func getUintFromEnv(key string, defaultValue uint64) (uint64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	u, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.NewValidationError(key, "not an unsigned integer", value)
	}
	return u, nil
}

func getBoolFromEnv(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.NewValidationError(key, "not a boolean", value)
	}
	return b, nil
}
