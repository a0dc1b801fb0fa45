// Package config loads runtime settings from the environment (and an optional .env file).
package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// PlaceholderAPIKey is the value shipped in the sample .env; it counts as "not configured".
const PlaceholderAPIKey = "sk-ant-xxxxx"

type Config struct {
	Port      string
	GinMode   string
	StaticDir string

	AdminPassword string
	CookieSecure  bool

	DatabaseURL string

	ClickHouse ClickHouseConfig
	Chat       ChatConfig
	Log        LogConfig

	AllowedOrigins []string
	TrustedProxies []string
}

type ClickHouseConfig struct {
	Host       string
	NativePort int
	Database   string
	Username   string
	Password   string
}

// Enabled reports whether a ClickHouse mirror should be opened.
func (c ClickHouseConfig) Enabled() bool {
	return c.Host != "" && c.NativePort != 0 && c.Database != ""
}

type ChatConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxTokens  int
	Timeout    time.Duration
	RateLimit  int
	RateWindow time.Duration
}

// HasCredential reports whether a real completion API key is configured.
func (c ChatConfig) HasCredential() bool {
	return c.APIKey != "" && c.APIKey != PlaceholderAPIKey
}

type LogConfig struct {
	Level      string
	File       string
	MaxSize    int
	MaxBackups int
	MaxAge     int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "3000")
	v.SetDefault("gin_mode", "")
	v.SetDefault("database_url", "data/visits.db")
	v.SetDefault("cookie_secure", false)

	v.SetDefault("anthropic_base_url", "https://api.anthropic.com")
	v.SetDefault("anthropic_model", "claude-sonnet-4-20250514")
	v.SetDefault("anthropic_max_tokens", 500)
	v.SetDefault("chat_timeout", "60s")
	v.SetDefault("chat_rate_limit", 50)
	v.SetDefault("chat_rate_window", "15m")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_max_size_mb", 50)
	v.SetDefault("log_max_backups", 5)
	v.SetDefault("log_max_age_days", 30)
}

// Load reads .env (if present) and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.WithError(err).Debug("No .env file loaded")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Port:          v.GetString("port"),
		GinMode:       v.GetString("gin_mode"),
		StaticDir:     v.GetString("static_dir"),
		AdminPassword: v.GetString("admin_password"),
		CookieSecure:  v.GetBool("cookie_secure"),
		DatabaseURL:   v.GetString("database_url"),
		ClickHouse: ClickHouseConfig{
			Host:       v.GetString("clickhouse_host"),
			NativePort: v.GetInt("clickhouse_native_port"),
			Database:   v.GetString("clickhouse_db_name"),
			Username:   v.GetString("clickhouse_username"),
			Password:   v.GetString("clickhouse_password"),
		},
		Chat: ChatConfig{
			APIKey:     v.GetString("anthropic_api_key"),
			BaseURL:    strings.TrimRight(v.GetString("anthropic_base_url"), "/"),
			Model:      v.GetString("anthropic_model"),
			MaxTokens:  v.GetInt("anthropic_max_tokens"),
			Timeout:    v.GetDuration("chat_timeout"),
			RateLimit:  v.GetInt("chat_rate_limit"),
			RateWindow: v.GetDuration("chat_rate_window"),
		},
		Log: LogConfig{
			Level:      v.GetString("log_level"),
			File:       v.GetString("log_file"),
			MaxSize:    v.GetInt("log_max_size_mb"),
			MaxBackups: v.GetInt("log_max_backups"),
			MaxAge:     v.GetInt("log_max_age_days"),
		},
		AllowedOrigins: splitList(v.GetString("fe_origin")),
		TrustedProxies: splitList(v.GetString("trusted_proxies")),
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
