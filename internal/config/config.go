package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// this is a pointer so that if someone attempts to use it before loading it will
// panic and force them to load it first.
// it is also private so that it cannot be modified after loading.
var _loaded *Config

// Config is the main configuration structure
type Config struct {
	Common Common `yaml:"common"`
}

// Load loads the configuration following proper precedence: defaults → config file → environment variables
func Load() {
	// Start with defaults
	_loaded = &defaultConfig

	configFile := os.Getenv("EXERTRACK_CONFIG_FILE")
	if configFile == "" {
		configFile = "exertrack.yaml"
	}

	if err := LoadFromFile(configFile); err != nil {
		log.Printf("Failed to load config file %s: %v, using defaults", configFile, err)
	}

	// Apply environment variable overrides (highest priority)
	ApplyEnvOverrides()
}

// LoadDefault loads the compiled-in defaults only. Intended for tests.
func LoadDefault() {
	config := defaultConfig
	_loaded = &config
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := defaultConfig

	// Merge YAML values over defaults
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	_loaded = &cfg
	return nil
}

// set sane defaults for all of the config options. when loading the config from
// the file, any options that are not set will be set to these defaults.
var defaultConfig = Config{
	Common: Common{
		Log: logConfig{
			Level:  "info",
			Format: "json",
		},
		Http: httpConfig{
			Host:            "0.0.0.0",
			Port:            3000,
			StaticDir:       "public",
			ShutdownTimeout: 10,
		},
		Postgres: postgresConfig{
			User:               "postgres",
			Password:           "postgres",
			Host:               "localhost",
			Port:               5432,
			Database:           "exertrack",
			MaxOpenConnections: 10,
		},
		Metrics: metricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	},
}

type Common struct {
	Log      logConfig      `yaml:"log"`
	Http     httpConfig     `yaml:"http"`
	Postgres postgresConfig `yaml:"postgres"`
	Metrics  metricsConfig  `yaml:"metrics"`
}

type logConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type httpConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	StaticDir       string `yaml:"static_dir"`
	ShutdownTimeout int    `yaml:"shutdown_timeout"`
}

type postgresConfig struct {
	User               string `yaml:"user"`
	Password           string `yaml:"password"`
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	Database           string `yaml:"database"`
	MaxOpenConnections int    `yaml:"max_open_connections"`
}

func (c postgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		url.QueryEscape(c.Database),
	)
}

type metricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// there should be a getter for each top level field in the config struct.
// these getters will panic if the config has not been loaded.

func Logger() logConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Log
}

func Http() httpConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Http
}

func Postgres() postgresConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Postgres
}

func Metrics() metricsConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Metrics
}

// Get returns the full configuration
func Get() *Config {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded
}

func ApplyEnvOverrides() {
	if _loaded == nil {
		return
	}

	if dbHost := os.Getenv("EXERTRACK_DB_HOST"); dbHost != "" {
		_loaded.Common.Postgres.Host = dbHost
	}
	if dbPort := os.Getenv("EXERTRACK_DB_PORT"); dbPort != "" {
		if port, err := strconv.Atoi(dbPort); err == nil {
			_loaded.Common.Postgres.Port = port
		}
	}
	if dbUser := os.Getenv("EXERTRACK_DB_USER"); dbUser != "" {
		_loaded.Common.Postgres.User = dbUser
	}
	if dbPassword := os.Getenv("EXERTRACK_DB_PASSWORD"); dbPassword != "" {
		_loaded.Common.Postgres.Password = dbPassword
	}
	if dbName := os.Getenv("EXERTRACK_DB_NAME"); dbName != "" {
		_loaded.Common.Postgres.Database = dbName
	}

	if httpHost := os.Getenv("EXERTRACK_HTTP_HOST"); httpHost != "" {
		_loaded.Common.Http.Host = httpHost
	}
	if httpPort := os.Getenv("EXERTRACK_HTTP_PORT"); httpPort != "" {
		if port, err := strconv.Atoi(httpPort); err == nil {
			_loaded.Common.Http.Port = port
		}
	}
	// bare PORT is honored when the prefixed variable is absent, for
	// platform deploys that only inject PORT
	if httpPort := os.Getenv("PORT"); httpPort != "" && os.Getenv("EXERTRACK_HTTP_PORT") == "" {
		if port, err := strconv.Atoi(httpPort); err == nil {
			_loaded.Common.Http.Port = port
		}
	}

	if logLevel := os.Getenv("EXERTRACK_LOG_LEVEL"); logLevel != "" {
		_loaded.Common.Log.Level = logLevel
	}
	if logFormat := os.Getenv("EXERTRACK_LOG_FORMAT"); logFormat != "" {
		_loaded.Common.Log.Format = logFormat
	}

	if metricsEnabled := os.Getenv("EXERTRACK_METRICS_ENABLED"); metricsEnabled != "" {
		if enabled, err := strconv.ParseBool(metricsEnabled); err == nil {
			_loaded.Common.Metrics.Enabled = enabled
		}
	}
}
