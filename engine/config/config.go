package config

import (
	"os"

	"github.com/memmaker/chunkstream/engine/util"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ResidentRadius int32    `yaml:"resident_radius"`
	Workers        int      `yaml:"workers"`
	Seed           int64    `yaml:"seed"`
	LoadsPerSecond float64  `yaml:"loads_per_second"`
	LoadBurst      int      `yaml:"load_burst"`
	DataDir        string   `yaml:"data_dir"`
	LogLevel       string   `yaml:"log_level"`
	LogCategories  []string `yaml:"log_categories"`
}

func Default() Config {
	return Config{
		ResidentRadius: 6,
		Workers:        4,
		Seed:           32,
		LoadsPerSecond: 0,
		LoadBurst:      16,
		DataDir:        "",
		LogLevel:       "info",
	}
}

// Load reads a YAML file on top of the defaults. Missing keys keep their default.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading config %s", path)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.ResidentRadius < 1 {
		return errors.Errorf("resident_radius must be at least 1, got %d", c.ResidentRadius)
	}
	if c.Workers < 1 {
		return errors.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.LoadsPerSecond < 0 {
		return errors.Errorf("loads_per_second must not be negative, got %v", c.LoadsPerSecond)
	}
	if c.LoadsPerSecond > 0 && c.LoadBurst < 1 {
		return errors.Errorf("load_burst must be at least 1 when loads are throttled, got %d", c.LoadBurst)
	}
	if _, err := util.ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := util.ParseLogCategories(c.LogCategories); err != nil {
		return err
	}
	return nil
}

// Limiter builds the insert throttle. Zero loads per second means unthrottled.
func (c Config) Limiter() *rate.Limiter {
	if c.LoadsPerSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(c.LoadsPerSecond), c.LoadBurst)
}

// Apply pushes the process-wide log settings.
func (c Config) Apply() error {
	lvl, err := util.ParseLogLevel(c.LogLevel)
	if err != nil {
		return err
	}
	categories, err := util.ParseLogCategories(c.LogCategories)
	if err != nil {
		return err
	}
	util.SetLogLevel(lvl)
	util.SetLogCategories(categories)
	return nil
}
