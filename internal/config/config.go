// Package config resolves runtime settings from flags, environment, and an
// optional config file, in that precedence order.
package config

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	envPrefix   = "LINKDECK"
	defaultUser = "dev-user-123"
)

// Config is the resolved runtime configuration.
type Config struct {
	Endpoint string `json:"endpoint" mapstructure:"endpoint"`
	UserID   string `json:"userId" mapstructure:"userId"`
	DataDir  string `json:"dataDir" mapstructure:"dataDir"`
	Debug    bool   `json:"debug" mapstructure:"debug"`
}

// Load reads the config file if one exists and applies $LINKDECK_* overrides.
// A missing file is not an error; defaults cover everything.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("linkdeck")
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	dataDir, err := defaultDataDir()
	if err != nil {
		return Config{}, err
	}
	v.SetDefault("endpoint", "")
	v.SetDefault("userId", defaultUser)
	v.SetDefault("dataDir", dataDir)
	v.SetDefault("debug", false)

	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "linkdeck"))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SessionDir is where durable viewing-session records live.
func (c Config) SessionDir() string {
	return filepath.Join(c.DataDir, "sessions")
}

// DatabasePath is the local SQLite store used when no endpoint is set.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "linkdeck.db")
}

// Local reports whether the local backend serves persistence.
func (c Config) Local() bool {
	return c.Endpoint == ""
}

func defaultDataDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".linkdeck"), nil
}
