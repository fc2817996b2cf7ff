package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DataDir string        `yaml:"data_dir"`
	HTTP    HTTPConfig    `yaml:"http"`
	Logger  LoggerConfig  `yaml:"logger"`
	DayTick DayTickConfig `yaml:"day_tick"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type LoggerConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

type DayTickConfig struct {
	// Schedule is a cron expression in local time. The job only fast-paths
	// the reset pass; a missed tick is recovered on the next load.
	Schedule string `yaml:"schedule"`
}

func Default() Config {
	return Config{
		DataDir: "data",
		HTTP:    HTTPConfig{Addr: ":8686"},
		Logger:  LoggerConfig{Level: "info", Encoding: "console"},
		DayTick: DayTickConfig{Schedule: "1 0 * * *"},
	}
}

// Load reads the optional YAML config file, then applies .env and
// environment overrides on top of the defaults.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DAYTRACK_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("DAYTRACK_HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv("DAYTRACK_LOG_LEVEL"); v != "" {
		c.Logger.Level = v
	}
	if v := os.Getenv("DAYTRACK_LOG_ENCODING"); v != "" {
		c.Logger.Encoding = v
	}
	if v := os.Getenv("DAYTRACK_DAY_TICK_SCHEDULE"); v != "" {
		c.DayTick.Schedule = v
	}
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.DataDir == "" {
		c.DataDir = d.DataDir
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = d.HTTP.Addr
	}
	if c.Logger.Level == "" {
		c.Logger.Level = d.Logger.Level
	}
	if c.Logger.Encoding == "" {
		c.Logger.Encoding = d.Logger.Encoding
	}
	if c.DayTick.Schedule == "" {
		c.DayTick.Schedule = d.DayTick.Schedule
	}
}
