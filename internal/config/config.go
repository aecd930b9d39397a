// Package config provides application configuration loaded from an optional
// configs/config.yaml, a .env file and environment variables (highest priority).
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	App      AppConfig      `mapstructure:"app"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Mail     MailConfig     `mapstructure:"mail"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // seconds
}

// DatabaseConfig holds connection settings. Driver is "postgres" or "sqlite";
// for sqlite, DBName is the file path.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	Debug    bool   `mapstructure:"debug"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev         bool   `mapstructure:"dev"`
	Migrations  bool   `mapstructure:"migrations"`
	Seed        bool   `mapstructure:"seed"`
	LogLevel    string `mapstructure:"log_level"`
	FrontendURL string `mapstructure:"frontend_url"`
	APIURL      string `mapstructure:"api_url"`
}

// AuthConfig holds token signing settings.
type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	ResetTTL   time.Duration `mapstructure:"reset_ttl"`
	TokenStore string        `mapstructure:"token_store"`
}

// RedisConfig enables the shared submission guard when Addr is set.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StorageConfig selects where quote logos and project images go.
// An empty Endpoint keeps uploads in memory (development only).
type StorageConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	PublicURL string `mapstructure:"public_url"`
}

// MailConfig holds SMTP settings. An empty Host logs mails instead of sending.
type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	TLS      bool   `mapstructure:"tls"`
}

// DSN returns the PostgreSQL connection string in key=value format.
func (d DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.DBName
	}
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// MigrateURL returns the PostgreSQL connection string in URL format,
// as expected by golang-migrate.
func (d DatabaseConfig) MigrateURL() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

var defaults = map[string]any{
	"server.port":          "8080",
	"server.read_timeout":  15,
	"server.write_timeout": 30,
	"server.idle_timeout":  60,

	"database.driver":   "postgres",
	"database.host":     "localhost",
	"database.port":     5432,
	"database.user":     "offermaster",
	"database.password": "offermaster",
	"database.dbname":   "offermaster",
	"database.sslmode":  "disable",

	"app.dev":          true,
	"app.log_level":    "info",
	"app.frontend_url": "http://localhost:5173",
	"app.api_url":      "http://localhost:8080",

	"auth.jwt_secret":  "devjwtsecret",
	"auth.token_ttl":   24 * time.Hour,
	"auth.reset_ttl":   time.Hour,
	"auth.token_store": "",

	"storage.bucket": "offermaster",

	"mail.port": 587,
	"mail.from": "noreply@offermaster.local",
	"mail.tls":  true,
}

var envBindings = map[string]string{
	"server.port":          "PORT",
	"server.read_timeout":  "SERVER_READ_TIMEOUT",
	"server.write_timeout": "SERVER_WRITE_TIMEOUT",
	"server.idle_timeout":  "SERVER_IDLE_TIMEOUT",

	"database.driver":   "DB_DRIVER",
	"database.url":      "DATABASE_URL",
	"database.host":     "DB_HOST",
	"database.port":     "DB_PORT",
	"database.user":     "DB_USER",
	"database.password": "DB_PASSWORD",
	"database.dbname":   "DB_NAME",
	"database.sslmode":  "DB_SSLMODE",
	"database.debug":    "DB_DEBUG",

	"app.dev":          "DEV",
	"app.migrations":   "MIGRATIONS",
	"app.seed":         "DB_SEED",
	"app.log_level":    "LOG_LEVEL",
	"app.frontend_url": "FRONTEND_URL",
	"app.api_url":      "OFFERMASTER_API_URL",

	"auth.jwt_secret":  "JWT_SECRET",
	"auth.token_ttl":   "JWT_TTL",
	"auth.reset_ttl":   "RESET_TOKEN_TTL",
	"auth.token_store": "OFFERMASTER_TOKEN_FILE",

	"redis.addr":     "REDIS_ADDR",
	"redis.password": "REDIS_PASSWORD",
	"redis.db":       "REDIS_DB",

	"storage.endpoint":   "MINIO_ENDPOINT",
	"storage.access_key": "MINIO_ACCESS_KEY",
	"storage.secret_key": "MINIO_SECRET_KEY",
	"storage.bucket":     "MINIO_BUCKET",
	"storage.use_ssl":    "MINIO_USE_SSL",
	"storage.public_url": "MINIO_PUBLIC_URL",

	"mail.host":     "SMTP_HOST",
	"mail.port":     "SMTP_PORT",
	"mail.username": "SMTP_USERNAME",
	"mail.password": "SMTP_PASSWORD",
	"mail.from":     "SMTP_FROM",
	"mail.tls":      "SMTP_TLS",
}

// Load reads configuration. It uses sensible defaults for local development.
// configPaths are searched for config.yaml; when empty, ./configs and . are used.
func Load(configPaths ...string) (*Config, error) {
	// Missing .env is fine: production injects the environment directly.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(configPaths) == 0 {
		configPaths = []string{"./configs", "."}
	}
	for _, p := range configPaths {
		v.AddConfigPath(p)
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	for k, env := range envBindings {
		if err := v.BindEnv(k, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
