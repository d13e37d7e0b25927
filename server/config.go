package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the server settings
type Config struct {
	Addr          string        `mapstructure:"addr"`
	ClientDir     string        `mapstructure:"clientDir"`
	DBPath        string        `mapstructure:"dbPath"`
	LogLevel      string        `mapstructure:"logLevel"`
	TickRate      int           `mapstructure:"tickRate"`
	BroadcastRate int           `mapstructure:"broadcastRate"`
	TuningFile    string        `mapstructure:"tuningFile"`
	TokenSecret   string        `mapstructure:"tokenSecret"`
	TokenTTL      time.Duration `mapstructure:"tokenTTL"`
	MaxSessions   int           `mapstructure:"maxSessions"`
	PublicURL     string        `mapstructure:"publicURL"`
}

// LoadConfig reads spacewars.yaml from configDir (when present) on top of
// the defaults. SPACEWARS_* environment variables override both.
func LoadConfig(configDir string) (Config, error) {
	v := viper.New()

	v.SetDefault("addr", ":8080")
	v.SetDefault("clientDir", "../client")
	v.SetDefault("dbPath", "spacewars.db")
	v.SetDefault("logLevel", "info")
	v.SetDefault("tickRate", 60)
	v.SetDefault("broadcastRate", 30)
	v.SetDefault("tuningFile", "")
	v.SetDefault("tokenSecret", "")
	v.SetDefault("tokenTTL", "168h")
	v.SetDefault("maxSessions", 100)
	v.SetDefault("publicURL", "")

	v.SetEnvPrefix("SPACEWARS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("spacewars")
	v.SetConfigType("yaml")
	if configDir != "" {
		v.AddConfigPath(configDir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with
func (c Config) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("config: tickRate must be positive, got %d", c.TickRate)
	}
	if c.BroadcastRate <= 0 || c.BroadcastRate > c.TickRate {
		return fmt.Errorf("config: broadcastRate must be in 1..%d, got %d", c.TickRate, c.BroadcastRate)
	}
	if c.MaxSessions <= 0 {
		return fmt.Errorf("config: maxSessions must be positive, got %d", c.MaxSessions)
	}
	return nil
}

// TickDuration is the wall time between simulation ticks
func (c Config) TickDuration() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// BroadcastEvery is how many ticks pass between state frames
func (c Config) BroadcastEvery() uint64 {
	return uint64(c.TickRate / c.BroadcastRate)
}
