package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Sidecar describes the backend process launched before the first request.
type Sidecar struct {
	// Command is the program to start (SIDECAR_COMMAND, default: node)
	Command string `mapstructure:"command"`
	// Args are passed after the program name
	Args []string `mapstructure:"args"`
	// Dir is the child's working directory; empty means it inherits ours
	Dir string `mapstructure:"dir"`
	// StartupDelay is how long the triggering request waits after the spawn
	StartupDelay time.Duration `mapstructure:"startup_delay"`
	// ProbeURL, when set, is a websocket endpoint dialed once after the
	// delay to log whether the sidecar answered
	ProbeURL string `mapstructure:"probe_url"`
}

// Config holds all settings for the launcher.
type Config struct {
	Host      string  `mapstructure:"host"`
	Port      int     `mapstructure:"port"`
	StaticDir string  `mapstructure:"static_dir"`
	IndexFile string  `mapstructure:"index_file"`
	Sidecar   Sidecar `mapstructure:"sidecar"`
}

// Load resolves settings from, lowest precedence first: built-in defaults,
// an optional launchpad.yaml in the working directory, environment
// variables, and the given flags. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 5000)
	v.SetDefault("static_dir", "public")
	v.SetDefault("index_file", "index.html")
	v.SetDefault("sidecar.command", "node")
	v.SetDefault("sidecar.args", []string{"server.js"})
	v.SetDefault("sidecar.dir", "")
	v.SetDefault("sidecar.startup_delay", 5*time.Second)
	v.SetDefault("sidecar.probe_url", "")

	// PORT keeps its bare name; hosting platforms inject it.
	_ = v.BindEnv("port", "PORT")
	_ = v.BindEnv("static_dir", "STATIC_DIR")
	_ = v.BindEnv("sidecar.command", "SIDECAR_COMMAND")

	v.SetConfigName("launchpad")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		bind := func(key, name string) {
			if f := flags.Lookup(name); f != nil {
				_ = v.BindPFlag(key, f)
			}
		}
		bind("port", "port")
		bind("static_dir", "static-dir")
		bind("index_file", "index-file")
		bind("sidecar.command", "sidecar")
		bind("sidecar.dir", "sidecar-dir")
		bind("sidecar.startup_delay", "startup-delay")
		bind("sidecar.probe_url", "probe-url")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
