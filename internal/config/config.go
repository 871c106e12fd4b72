package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Auth      AuthConfig      `mapstructure:"auth"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Supabase  SupabaseConfig  `mapstructure:"supabase"`
	Queue     QueueConfig     `mapstructure:"queue"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Render    RenderConfig    `mapstructure:"render"`
	Relay     RelayConfig     `mapstructure:"relay"`
	Mail      MailConfig      `mapstructure:"mail"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Delivery  DeliveryConfig  `mapstructure:"delivery"`
	Reaper    ReaperConfig    `mapstructure:"reaper"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// AuthConfig holds API key authentication settings.
type AuthConfig struct {
	APIKeys []string `mapstructure:"api_keys"`
}

// CORSConfig holds CORS policy settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SupabaseConfig holds Supabase project settings.
type SupabaseConfig struct {
	URL        string `mapstructure:"url"`
	ServiceKey string `mapstructure:"service_key"`
}

// QueueConfig holds async queue settings.
type QueueConfig struct {
	Concurrency int `mapstructure:"concurrency"`
	MaxRetry    int `mapstructure:"max_retry"`
}

// StorageConfig holds artifact storage settings. Uploaded templates and
// packaged archives live under Dir, keyed by batch ID. The server and the
// worker must share this directory (same host or volume).
type StorageConfig struct {
	Dir string `mapstructure:"dir"`
}

// RenderConfig holds certificate rendering settings.
type RenderConfig struct {
	// FontPath points to an optional TTF file embedded into drawn
	// certificates. When missing or unreadable the renderer falls back to
	// the built-in Helvetica and logs the fallback.
	FontPath    string  `mapstructure:"font_path"`
	NameSize    float64 `mapstructure:"name_size"`
	TeamSize    float64 `mapstructure:"team_size"`
	MessageSize float64 `mapstructure:"message_size"`
	MinPDFBytes int     `mapstructure:"min_pdf_bytes"`
}

// RelayConfig holds settings for reaching the mail relay and for the relay
// server itself.
type RelayConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Port    int    `mapstructure:"port"`
}

// MailConfig holds outbound mail settings used by the relay.
type MailConfig struct {
	Provider    string `mapstructure:"provider"` // "smtp" or "resend"
	APIKey      string `mapstructure:"api_key"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	AuditLog    string `mapstructure:"audit_log"`
}

// SMTPConfig holds SMTP transport settings.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// DeliveryConfig holds per-recipient delivery throttle settings.
type DeliveryConfig struct {
	MaxPerHour int `mapstructure:"max_per_hour"`
}

// ReaperConfig holds stale batch reaper settings (durations as seconds for
// YAML/env compat).
type ReaperConfig struct {
	IntervalSec       int `mapstructure:"interval_sec"`
	StaleThresholdSec int `mapstructure:"stale_threshold_sec"`
	BatchSize         int `mapstructure:"batch_size"`
}

// Load reads configuration from config.yaml and environment variables.
// Environment variables use the CERTIGEN_ prefix and underscore separators.
// Example: CERTIGEN_SERVER_PORT overrides server.port in config.yaml.
func Load() (*Config, error) {
	v := viper.New()

	// Config file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Load .env file if it exists
	_ = godotenv.Load()

	// Environment variable settings
	v.SetEnvPrefix("CERTIGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("rate_limit.requests_per_second", 10)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("queue.concurrency", 1)
	v.SetDefault("queue.max_retry", 3)
	v.SetDefault("storage.dir", "artifacts")
	v.SetDefault("render.font_path", "")
	v.SetDefault("render.name_size", 35)
	v.SetDefault("render.team_size", 18)
	v.SetDefault("render.message_size", 12)
	v.SetDefault("render.min_pdf_bytes", 512)
	v.SetDefault("relay.base_url", "http://localhost:3000")
	v.SetDefault("relay.port", 3000)
	v.SetDefault("mail.provider", "smtp")
	v.SetDefault("mail.from_name", "Constancias")
	v.SetDefault("mail.audit_log", "envios.log")
	v.SetDefault("smtp.host", "localhost")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("delivery.max_per_hour", 10)
	v.SetDefault("reaper.interval_sec", 300)        // 5 minutes
	v.SetDefault("reaper.stale_threshold_sec", 600) // 10 minutes
	v.SetDefault("reaper.batch_size", 20)

	// Read config file (optional — env vars can provide everything)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Handle comma-separated API keys from env var
	if apiKeysStr := v.GetString("auth.api_keys"); apiKeysStr != "" && len(cfg.Auth.APIKeys) == 0 {
		keys := strings.Split(apiKeysStr, ",")
		for i := range keys {
			keys[i] = strings.TrimSpace(keys[i])
		}
		cfg.Auth.APIKeys = keys
	}

	return &cfg, nil
}
