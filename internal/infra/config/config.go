// Package config provides configuration loading from YAML files.
package config

import (
	"net"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	MPD       MPDConfig       `yaml:"mpd"`
	Log       LogConfig       `yaml:"log"`
	Discovery DiscoveryConfig `yaml:"discovery"`
}

// MPDConfig represents the connection to the MPD server.
type MPDConfig struct {
	Addr    string        `yaml:"addr" default:"localhost:6600" validate:"required,hostname_port|startswith=/"`
	Timeout time.Duration `yaml:"timeout" default:"5s" validate:"gt=0"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	Level  string `yaml:"level" default:"warn" validate:"oneof=debug info warn warning error"`
	Output string `yaml:"output" default:"stderr"`
}

// DiscoveryConfig represents mDNS discovery configuration.
type DiscoveryConfig struct {
	Service string        `yaml:"service" default:"_mpd._tcp" validate:"required"`
	Domain  string        `yaml:"domain" default:"local"`
	Timeout time.Duration `yaml:"timeout" default:"3s" validate:"gt=0"`
}

// Load loads configuration from a YAML file.
// A missing file is not an error: defaults and environment variables apply.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, errors.Wrap(err, "failed to parse config file")
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv applies MPD_HOST and MPD_PORT, the variables other MPD clients read.
// MPD_HOST may be a unix socket path.
func (c *Config) overrideFromEnv() {
	host := os.Getenv("MPD_HOST")
	port := os.Getenv("MPD_PORT")
	if host == "" && port == "" {
		return
	}
	if len(host) > 0 && host[0] == '/' {
		c.MPD.Addr = host
		return
	}

	curHost, curPort := "localhost", "6600"
	if c.MPD.Addr != "" {
		if h, p, err := net.SplitHostPort(c.MPD.Addr); err == nil {
			curHost, curPort = h, p
		}
	}
	if host != "" {
		curHost = host
	}
	if port != "" {
		curPort = port
	}
	c.MPD.Addr = net.JoinHostPort(curHost, curPort)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}
