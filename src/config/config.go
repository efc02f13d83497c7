package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Service   ServiceConfig   `mapstructure:"service"`
	Backend   BackendConfig   `mapstructure:"backend"`
	Security  SecurityConfig  `mapstructure:"security"`
	Workflow  WorkflowConfig  `mapstructure:"workflow"`
	Pricing   PricingConfig   `mapstructure:"pricing"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Databases DatabasesConfig `mapstructure:"databases"`
}

type ServiceConfig struct {
	Port             string        `mapstructure:"port"`
	LogLevel         string        `mapstructure:"logLevel"`
	LogFile          string        `mapstructure:"logFile"`
	SessionTTL       time.Duration `mapstructure:"sessionTTL"`
	SessionSweepCron string        `mapstructure:"sessionSweepCron"`
}

type BackendConfig struct {
	BaseURL      string        `mapstructure:"baseUrl"`
	Timeout      time.Duration `mapstructure:"timeout"`
	ServiceToken string        `mapstructure:"serviceToken"`
}

type PINMode string

const (
	PINModeLocal  PINMode = "local"
	PINModeRemote PINMode = "remote"
)

type SecurityConfig struct {
	PINMode     PINMode `mapstructure:"pinMode"`
	PIN         string  `mapstructure:"pin"`
	PINSecretID string  `mapstructure:"pinSecretId"`
	AWSRegion   string  `mapstructure:"awsRegion"`
}

type WorkflowConfig struct {
	// Asset types traded in whole units only. Every other type accepts 0.01 steps.
	WholeUnitTypes []string `mapstructure:"wholeUnitTypes"`
}

type PricingConfig struct {
	MaxConcurrency int           `mapstructure:"maxConcurrency"`
	CacheTTL       time.Duration `mapstructure:"cacheTTL"`
}

type CatalogConfig struct {
	RefreshCron string        `mapstructure:"refreshCron"`
	CacheTTL    time.Duration `mapstructure:"cacheTTL"`
}

type MetricsConfig struct {
	CategoryMapFile string `mapstructure:"categoryMapFile"`
}

type DatabasesConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
	TLS      bool   `mapstructure:"tls"`
}

// Enabled reports whether a redis host was configured.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

// setDefaults registers every key. Viper only maps environment variables onto keys it
// knows about when unmarshalling.
func setDefaults(v *viper.Viper) {
	v.SetDefault("service.port", "8000")
	v.SetDefault("service.logLevel", "info")
	v.SetDefault("service.logFile", "")
	v.SetDefault("service.sessionTTL", 12*time.Hour)
	v.SetDefault("service.sessionSweepCron", "@every 10m")
	v.SetDefault("backend.baseUrl", "")
	v.SetDefault("backend.timeout", 30*time.Second)
	v.SetDefault("backend.serviceToken", "")
	v.SetDefault("security.pinMode", string(PINModeRemote))
	v.SetDefault("security.pin", "")
	v.SetDefault("security.pinSecretId", "")
	v.SetDefault("security.awsRegion", "us-east-1")
	v.SetDefault("workflow.wholeUnitTypes", []string{"Stock"})
	v.SetDefault("pricing.maxConcurrency", 8)
	v.SetDefault("pricing.cacheTTL", time.Minute)
	v.SetDefault("catalog.refreshCron", "")
	v.SetDefault("catalog.cacheTTL", 5*time.Minute)
	v.SetDefault("metrics.categoryMapFile", "")
	v.SetDefault("databases.redis.host", "")
	v.SetDefault("databases.redis.port", "6379")
	v.SetDefault("databases.redis.username", "")
	v.SetDefault("databases.redis.password", "")
	v.SetDefault("databases.redis.database", 0)
	v.SetDefault("databases.redis.tls", false)
}

// LoadConfig reads appsettings.yaml from path and merges appsettings.<env>.yaml on top of it
// when env is set. A .env file next to the settings is loaded first so that PORTFOLIO_*
// variables can override any key.
func LoadConfig(path string, env string) (*Config, error) {
	var cfg Config

	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AddConfigPath(path)
	v.SetConfigName("appsettings")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("PORTFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	if env != "" {
		v.SetConfigName("appsettings." + env)
		if err := v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that have no sensible default.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return errors.New("backend.baseUrl is required")
	}
	switch c.Security.PINMode {
	case PINModeRemote:
	case PINModeLocal:
		if c.Security.PIN == "" && c.Security.PINSecretID == "" {
			return errors.New("security.pin or security.pinSecretId is required when pinMode is local")
		}
	default:
		return fmt.Errorf("unknown security.pinMode %q", c.Security.PINMode)
	}
	return nil
}
