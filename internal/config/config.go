package config

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DefaultQRTokenTTL = 2 * time.Minute
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Redis    *RedisConfig    `mapstructure:"redis"`
	QR       *QRConfig       `mapstructure:"qr"`
	Metrics  *MetricsConfig  `mapstructure:"metrics"`

	v *viper.Viper
}

type APIConfig struct {
	Environment        string        `mapstructure:"environment"`
	Port               string        `mapstructure:"port"`
	BaseURL            string        `mapstructure:"base_url"`
	JWTSigningKey      string        `mapstructure:"jwt_signing_key"`
	AccessTokenTTL     time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL    time.Duration `mapstructure:"refresh_token_ttl"`
	AllowedCORSDomains []string      `mapstructure:"allowed_cors_domains"`
	MenuPublicRead     bool          `mapstructure:"menu_public_read"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host        string `mapstructure:"host"`
	Port        string `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	DB          string `mapstructure:"db"`
	SSLMode     string `mapstructure:"sslmode"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

func (c *PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DB, c.SSLMode,
	)
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type QRConfig struct {
	TokenTTL time.Duration `mapstructure:"token_ttl"`

	ttl atomic.Int64
}

// TTL returns the lifetime of newly issued QR tokens. It is safe to call
// while the config file is being reloaded.
func (c *QRConfig) TTL() time.Duration {
	if d := time.Duration(c.ttl.Load()); d > 0 {
		return d
	}
	return DefaultQRTokenTTL
}

func (c *QRConfig) SetTTL(d time.Duration) {
	if d <= 0 {
		d = DefaultQRTokenTTL
	}
	c.ttl.Store(int64(d))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", EnvDevelopment)
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.base_url", "localhost:8080")
	v.SetDefault("api.jwt_signing_key", "")
	v.SetDefault("api.access_token_ttl", "30m")
	v.SetDefault("api.refresh_token_ttl", "24h")
	v.SetDefault("api.allowed_cors_domains", []string{})
	v.SetDefault("api.menu_public_read", true)

	v.SetDefault("gin.mode", "debug")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.db", "canteen")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.auto_migrate", false)

	v.SetDefault("redis.url", "")

	v.SetDefault("qr.token_ttl", DefaultQRTokenTTL.String())

	v.SetDefault("metrics.enabled", true)
}

// Load reads the YAML file at path and overlays environment variables, so
// API_PORT overrides api.port.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	conf := &AppConfig{v: v}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	if conf.API.JWTSigningKey == "" {
		return nil, fmt.Errorf("api.jwt_signing_key is required")
	}
	conf.QR.SetTTL(conf.QR.TokenTTL)

	return conf, nil
}

// Watch reloads the QR token TTL whenever the config file changes. Other
// settings need a restart.
func (c *AppConfig) Watch() {
	if c.v == nil {
		return
	}

	c.v.OnConfigChange(func(e fsnotify.Event) {
		ttl := c.v.GetDuration("qr.token_ttl")
		c.QR.SetTTL(ttl)
		zap.L().Info("config reloaded",
			zap.String("file", e.Name),
			zap.Duration("qr_token_ttl", c.QR.TTL()),
		)
	})
	c.v.WatchConfig()
}
