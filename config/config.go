package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"recipe-analysis/analysis"
)

type Server struct {
	Addr         string `yaml:"addr"`
	Mode         string `yaml:"mode"`
	TemplateGlob string `yaml:"template_glob"`
	StaticDir    string `yaml:"static_dir"`
}

type Database struct {
	DSN     string `yaml:"dsn"`
	RunsMax int    `yaml:"runs_max"`
}

type Log struct {
	Level string `yaml:"level"`
}

// Config is the service configuration. Values are resolved in order:
// defaults, YAML file, environment (a .env file is loaded first).
type Config struct {
	Server   Server           `yaml:"server"`
	Database Database         `yaml:"database"`
	Log      Log              `yaml:"log"`
	Analysis analysis.Options `yaml:"analysis"`
}

func Default() *Config {
	return &Config{
		Server: Server{
			Addr:         ":8090",
			Mode:         "release",
			TemplateGlob: "templates/*",
			StaticDir:    "./static",
		},
		Database: Database{
			DSN:     "file::memory:?cache=shared",
			RunsMax: 500,
		},
		Log:      Log{Level: "info"},
		Analysis: analysis.DefaultOptions(),
	}
}

// Load builds the configuration. An empty path skips the YAML file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setString overwrites dst with a non-empty environment value.
func setString[T ~string](key string, dst *T) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = T(v)
	}
}

func (c *Config) applyEnv() error {
	setString("RECIPE_ADDR", &c.Server.Addr)
	setString("RECIPE_GIN_MODE", &c.Server.Mode)
	setString("RECIPE_DB_DSN", &c.Database.DSN)
	setString("RECIPE_LOG_LEVEL", &c.Log.Level)
	setString("RECIPE_OUTLIER_STRATEGY", &c.Analysis.OutlierStrategy)
	setString("RECIPE_DRIFT_STRATEGY", &c.Analysis.DriftStrategy)
	setString("RECIPE_MODE", &c.Analysis.RecipeMode)

	if v, ok := os.LookupEnv("RECIPE_DRIFT_THRESHOLD"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RECIPE_DRIFT_THRESHOLD: %w", err)
		}
		c.Analysis.DriftThreshold = f
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is empty")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode %q is not one of debug, release, test", c.Server.Mode)
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn is empty")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if err := c.Analysis.Validate(); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	return nil
}

// Logger returns a logrus logger at the configured level.
func (c *Config) Logger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(c.Log.Level); err == nil {
		log.SetLevel(lvl)
	}
	return log
}
