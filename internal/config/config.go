package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	Tax    TaxConfig    `mapstructure:"tax"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Port        string `mapstructure:"port"`
	MaxUploadMB int64  `mapstructure:"max_upload_mb"`
}

// LogConfig selects the zap preset: "production" or "development".
type LogConfig struct {
	Mode string `mapstructure:"mode"`
}

// TaxConfig points to the default scheme table used when a request brings none.
type TaxConfig struct {
	SchemesFile string `mapstructure:"schemes_file"`
}

// Load reads configuration from file and env. Env var overrides use prefix FISCAL_, and
// FISCAL_CONFIG names an optional YAML file.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("server.port", "8084")
	v.SetDefault("server.max_upload_mb", 32)
	v.SetDefault("log.mode", "production")
	v.SetDefault("tax.schemes_file", "")

	v.SetConfigType("yaml")
	if cfgPath := os.Getenv("FISCAL_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", cfgPath, err)
		}
	}

	v.SetEnvPrefix("FISCAL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// MaxUploadBytes is the multipart memory limit derived from MaxUploadMB.
func (s ServerConfig) MaxUploadBytes() int64 {
	return s.MaxUploadMB << 20
}
