package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Scheduling SchedulingConfig `mapstructure:"scheduling"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

// JWTConfig defines JWT specific configuration. Tokens are issued by the
// identity service; this service only verifies them, so the secret is the
// single shared value we need.
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// SchedulingConfig tunes schedule generation.
type SchedulingConfig struct {
	// DefaultBreakMin is the fallback rest gap between sessions when a
	// trainer profile doesn't set one.
	DefaultBreakMin int `mapstructure:"default_break_min"`
	// SlotTTLGrace is how long after a slot's end time Mongo keeps the
	// document before the TTL monitor removes it.
	SlotTTLGrace time.Duration `mapstructure:"slot_ttl_grace"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Environment variables override the file, with nested keys flattened:
	// server.address -> SERVER_ADDRESS, scheduling.slot_ttl_grace -> SCHEDULING_SLOT_TTL_GRACE.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "pt_marketplace")
	viper.SetDefault("jwt.expiration", "1h")
	viper.SetDefault("scheduling.default_break_min", 0)
	viper.SetDefault("scheduling.slot_ttl_grace", "1h")

	err = viper.ReadInConfig()
	// A missing config file is fine; env vars and defaults carry the service.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	// Duration strings ("1h", "90m") unmarshal straight into time.Duration fields.
	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	return config, nil
}
