// Package config handles configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/melih/dockhook/internal/apperrors"
	"github.com/melih/dockhook/internal/core/domain"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. DOCKHOOK_SERVER_LISTEN.
const EnvPrefix = "DOCKHOOK"

// DefaultDockerHost is the daemon's default local control socket.
const DefaultDockerHost = "unix:///var/run/docker.sock"

// Config represents the application configuration
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Docker DockerConfig `mapstructure:"docker"`
	Log    LogConfig    `mapstructure:"log"`

	// ConfigFilePath stores the path to the loaded config file (not read from YAML)
	ConfigFilePath string `mapstructure:"-"`
}

// ServerConfig contains HTTP listener settings
type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

// DockerConfig contains Docker daemon settings
type DockerConfig struct {
	Host          string        `mapstructure:"host"`
	LookupTimeout time.Duration `mapstructure:"lookup_timeout"` // bounds list and ping
	Timeout       time.Duration `mapstructure:"timeout"`        // bounds start/stop/restart; 0 leaves it to the daemon
	Match         string        `mapstructure:"match"`          // fuzzy or exact
	PingOnStart   bool          `mapstructure:"ping_on_start"`
}

// LogConfig contains logger settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console or json
}

// MatchMode returns the parsed container match mode. Call after Validate.
func (d DockerConfig) MatchMode() domain.MatchMode {
	mode, err := domain.ParseMatchMode(d.Match)
	if err != nil {
		return domain.MatchFuzzy
	}
	return mode
}

// Load reads configuration from file, .env and environment variables.
// Values already set on v (e.g. bound CLI flags) take precedence.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	_ = godotenv.Load() // nolint:errcheck // .env file is optional

	if v == nil {
		v = viper.New()
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/dockhook")
		v.AddConfigPath("/etc/dockhook")
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			path := v.ConfigFileUsed()
			if path == "" {
				path = configPath
			}
			return nil, &apperrors.ConfigurationError{ConfigPath: path, Err: err}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &apperrors.ConfigurationError{ConfigPath: v.ConfigFileUsed(), Err: err}
	}
	cfg.ConfigFilePath = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.listen", "127.0.0.1:8080")

	if host := os.Getenv("DOCKER_HOST"); host != "" {
		v.SetDefault("docker.host", host)
	} else {
		v.SetDefault("docker.host", DefaultDockerHost)
	}
	v.SetDefault("docker.lookup_timeout", 30*time.Second)
	v.SetDefault("docker.timeout", time.Duration(0))
	v.SetDefault("docker.match", string(domain.MatchFuzzy))
	v.SetDefault("docker.ping_on_start", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Validate ensures all required fields are set and values are within valid ranges.
func (c *Config) Validate() error {
	fail := func(key string, err error) error {
		return &apperrors.ConfigurationError{ConfigPath: c.ConfigFilePath, Key: key, Err: err}
	}

	if strings.TrimSpace(c.Server.Listen) == "" {
		return fail("server.listen", errors.New("listen address is required"))
	}
	if strings.TrimSpace(c.Docker.Host) == "" {
		return fail("docker.host", errors.New("docker host is required"))
	}
	if c.Docker.LookupTimeout <= 0 {
		return fail("docker.lookup_timeout", fmt.Errorf("must be positive, got %s", c.Docker.LookupTimeout))
	}
	if c.Docker.Timeout < 0 {
		return fail("docker.timeout", fmt.Errorf("must not be negative, got %s", c.Docker.Timeout))
	}
	if _, err := domain.ParseMatchMode(c.Docker.Match); err != nil {
		return fail("docker.match", err)
	}

	switch strings.ToLower(c.Log.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "disabled":
	default:
		return fail("log.level", fmt.Errorf("unknown level %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return fail("log.format", fmt.Errorf("unknown format %q", c.Log.Format))
	}
	return nil
}
