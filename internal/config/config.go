// Package config loads application configuration from config.yaml and
// APPRAISE_* environment variables, and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration. Model weights,
// registry contents, and the feature schema are deployment-time inputs;
// only the decision thresholds are runtime-tunable.
type Config struct {
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Registry    RegistryConfig    `yaml:"registry" mapstructure:"registry"`
	Models      ModelsConfig      `yaml:"models" mapstructure:"models"`
	Collectible CollectibleConfig `yaml:"collectible" mapstructure:"collectible"`
	Decision    DecisionConfig    `yaml:"decision" mapstructure:"decision"`
	Batch       BatchConfig       `yaml:"batch" mapstructure:"batch"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the optional appraisal-history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // "sqlite" or "postgres"
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// RegistryConfig locates the famous-creator registry file.
type RegistryConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ModelsConfig locates the pre-fitted model artifacts.
type ModelsConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// CollectibleConfig tunes the override engine.
type CollectibleConfig struct {
	// HighValueMultiplier is the boundary at or above which an override
	// suppresses the slow-velocity review penalty. Empirically tuned.
	HighValueMultiplier float64 `yaml:"high_value_multiplier" mapstructure:"high_value_multiplier"`
}

// DecisionConfig selects the default threshold profile.
type DecisionConfig struct {
	DefaultProfile string `yaml:"default_profile" mapstructure:"default_profile"`
}

// BatchConfig configures concurrent batch scoring.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port          int     `yaml:"port" mapstructure:"port"`
	RatePerSecond float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst     int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("APPRAISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "appraise.db")
	v.SetDefault("registry.path", "configs/famous_people.yaml")
	v.SetDefault("models.dir", "configs/models")
	v.SetDefault("collectible.high_value_multiplier", 10.0)
	v.SetDefault("decision.default_profile", "balanced")
	v.SetDefault("batch.concurrency", 8)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_per_second", 25)
	v.SetDefault("server.rate_burst", 50)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
