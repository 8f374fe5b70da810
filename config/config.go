// Package config holds the application configuration loaded through viper
// from a YAML file, RELIEF_* environment variables and command flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces the environment variables read by Load.
const EnvPrefix = "RELIEF"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the root configuration structure.
type Config struct {
	Logger       LoggerConfig       `mapstructure:"logger" yaml:"logger"`
	Server       ServerConfig       `mapstructure:"server" yaml:"server"`
	Metrics      MetricsConfig      `mapstructure:"metrics" yaml:"metrics"`
	Evacuation   EvacuationConfig   `mapstructure:"evacuation" yaml:"evacuation"`
	Distribution DistributionConfig `mapstructure:"distribution" yaml:"distribution"`
}

// ColorConfig names the console color of each log level.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"` // console or json
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"` // megabytes
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"` // days
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr" yaml:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// EvacuationConfig tunes automatic scheduling.
type EvacuationConfig struct {
	// Zones with priority at or above this value are scheduled by
	// coordinator.ScheduleUrgent.
	AutoScheduleThreshold int    `mapstructure:"auto_schedule_threshold" yaml:"auto_schedule_threshold"`
	DefaultTeam           string `mapstructure:"default_team" yaml:"default_team"`
}

// DistributionConfig names the root of every distribution tree.
type DistributionConfig struct {
	CenterLabel string `mapstructure:"center_label" yaml:"center_label"`
	CenterKey   string `mapstructure:"center_key" yaml:"center_key"`
}

// SetDefaults registers default values so the application runs without a
// config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "relief")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("evacuation.auto_schedule_threshold", 60)
	v.SetDefault("evacuation.default_team", "Equipo de Rescate")

	v.SetDefault("distribution.center_label", "Centro Principal")
	v.SetDefault("distribution.center_key", "centro")
}

// Default returns the configuration produced by SetDefaults alone.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Unmarshal(v)
	if err != nil {
		panic(err) // defaults always decode
	}

	return cfg
}

// Load reads file (optional) and the environment into v, applies defaults,
// and returns the validated configuration. A missing file is an error only
// when file is non-empty.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("relief")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	cfg, err := Unmarshal(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Unmarshal decodes v into a Config without validating it.
func Unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: logger.format must be console or json, got %q", ErrInvalidConfig, c.Logger.Format)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is empty", ErrInvalidConfig)
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("%w: metrics.path must start with /, got %q", ErrInvalidConfig, c.Metrics.Path)
	}
	if t := c.Evacuation.AutoScheduleThreshold; t < 0 || t > 100 {
		return fmt.Errorf("%w: evacuation.auto_schedule_threshold must be in [0,100], got %d", ErrInvalidConfig, t)
	}
	if c.Distribution.CenterKey == "" {
		return fmt.Errorf("%w: distribution.center_key is empty", ErrInvalidConfig)
	}

	return nil
}
