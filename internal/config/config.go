package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"vpd-analysis/internal/recommend"
	"vpd-analysis/internal/timeclass"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// DataDir is where dataset files (JSON days, sector workbooks) are
	// looked up when requests reference them by name.
	DataDir string `yaml:"data_dir"`

	// Workbook is the default sector workbook file, relative to DataDir
	// unless absolute.
	Workbook string `yaml:"workbook"`

	// ConfigStore is the path of the island assignment JSON document.
	ConfigStore string `yaml:"config_store"`

	// CacheTTL bounds how long loaded datasets and stored analysis
	// results stay cached, as a Go duration string ("5m"). "0" disables
	// expiry.
	CacheTTL string `yaml:"cache_ttl"`

	// DayNightConvention selects the day/night boundary rule:
	// "plant_cycle" (default) or "solar".
	DayNightConvention string `yaml:"day_night_convention"`

	Recommend RecommendConfig `yaml:"recommend"`
}

// RecommendConfig tunes the recommendation engine. Zero fields fall back to
// the engine defaults.
type RecommendConfig struct {
	TempStepC             float64 `yaml:"temp_step_c"`
	HumidityStepPct       float64 `yaml:"humidity_step_pct"`
	TempCostWPerC         float64 `yaml:"temp_cost_w_per_c"`
	HumidityCostWPerPct   float64 `yaml:"humidity_cost_w_per_pct"`
	ComfortHumidityMinPct float64 `yaml:"comfort_humidity_min_pct"`
	ComfortHumidityMaxPct float64 `yaml:"comfort_humidity_max_pct"`
	ComfortTempMinC       float64 `yaml:"comfort_temp_min_c"`
	ComfortTempMaxC       float64 `yaml:"comfort_temp_max_c"`
}

// Load reads, defaults and validates a config file.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads the config without defaulting or validating it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
	if c.ConfigStore == "" {
		c.ConfigStore = "./data/island_configs.json"
	}
	if c.CacheTTL == "" {
		c.CacheTTL = "5m"
	}
	if c.DayNightConvention == "" {
		c.DayNightConvention = string(timeclass.ConventionPlantCycle)
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if _, err := timeclass.New(timeclass.Convention(c.DayNightConvention)); err != nil {
		return fmt.Errorf("day_night_convention: %w", err)
	}
	if c.CacheTTL != "" {
		if _, err := time.ParseDuration(c.CacheTTL); err != nil {
			return fmt.Errorf("cache_ttl: %w", err)
		}
	}
	r := c.Recommend
	if r.TempStepC < 0 || r.HumidityStepPct < 0 {
		return errors.New("recommend steps must be >= 0")
	}
	if r.TempCostWPerC < 0 || r.HumidityCostWPerPct < 0 {
		return errors.New("recommend energy rates must be >= 0")
	}
	if r.ComfortHumidityMinPct != 0 && r.ComfortHumidityMaxPct != 0 &&
		r.ComfortHumidityMinPct > r.ComfortHumidityMaxPct {
		return errors.New("comfort humidity band inverted")
	}
	if r.ComfortTempMinC != 0 && r.ComfortTempMaxC != 0 &&
		r.ComfortTempMinC > r.ComfortTempMaxC {
		return errors.New("comfort temperature band inverted")
	}
	return nil
}

// TTL returns the parsed cache TTL. Invalid strings were rejected by
// Validate, so parse failures here fall back to zero (no expiry).
func (c *Config) TTL() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 0
	}
	return d
}

// Classifier builds the time classifier for the configured convention.
func (c *Config) Classifier() timeclass.Classifier {
	cl, err := timeclass.New(timeclass.Convention(c.DayNightConvention))
	if err != nil {
		// Validate rejects unknown conventions before this point.
		cl, _ = timeclass.New(timeclass.ConventionPlantCycle)
	}
	return cl
}

// RecommendParams converts the config block into engine params. Zero fields
// keep the engine defaults.
func (c *Config) RecommendParams() recommend.Params {
	r := c.Recommend
	return recommend.Params{
		TempStepC:             r.TempStepC,
		HumidityStepPct:       r.HumidityStepPct,
		TempCostWPerC:         r.TempCostWPerC,
		HumidityCostWPerPct:   r.HumidityCostWPerPct,
		ComfortHumidityMinPct: r.ComfortHumidityMinPct,
		ComfortHumidityMaxPct: r.ComfortHumidityMaxPct,
		ComfortTempMinC:       r.ComfortTempMinC,
		ComfortTempMaxC:       r.ComfortTempMaxC,
	}
}
