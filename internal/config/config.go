package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the shared configuration for the dashboard CLI and the dev
// labeling service. Values come from labelboard.yaml, LABELBOARD_* env
// variables, or defaults, in that order of precedence; command-line flags
// override all of them.
type Config struct {
	Backend BackendConfig `mapstructure:"backend"`
	Export  ExportConfig  `mapstructure:"export"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Service ServiceConfig `mapstructure:"service"`
}

type BackendConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	TimeoutSec int    `mapstructure:"timeout_sec"`
}

type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

type CacheConfig struct {
	Path     string `mapstructure:"path"`
	Disabled bool   `mapstructure:"disabled"`
}

type ServiceConfig struct {
	Addr string `mapstructure:"addr"`
}

func (c BackendConfig) Timeout() time.Duration {
	if c.TimeoutSec <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.TimeoutSec) * time.Second
}

// Load reads configuration from path, or from ./labelboard.yaml when path is
// empty. A missing config file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("labelboard")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("LABELBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.base_url", "http://127.0.0.1:8080")
	v.SetDefault("backend.timeout_sec", 5)
	v.SetDefault("export.dir", ".")
	v.SetDefault("cache.path", "labelboard.db")
	v.SetDefault("cache.disabled", false)
	v.SetDefault("service.addr", ":8080")
}
