package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the client CLI and the dev backend read at startup.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Session  SessionConfig  `mapstructure:"session"`
	Poll     PollConfig     `mapstructure:"poll"`
	Live     LiveConfig     `mapstructure:"live"`
	Errors   ErrorsConfig   `mapstructure:"errors"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Debug    bool           `mapstructure:"debug"`
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SessionConfig struct {
	DBPath        string        `mapstructure:"db_path"`
	TTL           time.Duration `mapstructure:"ttl"`
	RefreshWindow time.Duration `mapstructure:"refresh_window"`
	CheckInterval time.Duration `mapstructure:"check_interval"`
}

// PollConfig holds the fixed refresh interval of each live screen
type PollConfig struct {
	Kitchen  time.Duration `mapstructure:"kitchen"`
	Waiter   time.Duration `mapstructure:"waiter"`
	Tracking time.Duration `mapstructure:"tracking"`
	History  time.Duration `mapstructure:"history"`
}

// LiveConfig enables the push channel; an empty AMQPURL leaves screens on polling only.
type LiveConfig struct {
	AMQPURL  string `mapstructure:"amqp_url"`
	Exchange string `mapstructure:"exchange"`
}

type ErrorsConfig struct {
	Sink         string   `mapstructure:"sink"` // none | kafka | amqp
	KafkaBrokers []string `mapstructure:"kafka_brokers"`
	KafkaTopic   string   `mapstructure:"kafka_topic"`
	AMQPURL      string   `mapstructure:"amqp_url"`
	AMQPExchange string   `mapstructure:"amqp_exchange"`
}

type ServerConfig struct {
	Port      string `mapstructure:"port"`
	JWTSecret string `mapstructure:"jwt_secret"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // sqlite | postgres | mysql
	DSN    string `mapstructure:"dsn"`
}

// EnvPrefix namespaces environment overrides, e.g. MENUCARD_API_BASE_URL
const EnvPrefix = "MENUCARD"

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("session.db_path", "menucard_session.db")
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.refresh_window", 10*time.Minute)
	v.SetDefault("session.check_interval", time.Minute)
	v.SetDefault("poll.kitchen", 5*time.Second)
	v.SetDefault("poll.waiter", 10*time.Second)
	v.SetDefault("poll.tracking", 15*time.Second)
	v.SetDefault("poll.history", 30*time.Second)
	v.SetDefault("live.amqp_url", "")
	v.SetDefault("live.exchange", "order_updates_fanout")
	v.SetDefault("errors.sink", "none")
	v.SetDefault("errors.kafka_brokers", []string{"127.0.0.1:9092"})
	v.SetDefault("errors.kafka_topic", "client-errors")
	v.SetDefault("errors.amqp_url", "")
	v.SetDefault("errors.amqp_exchange", "client_errors")
	v.SetDefault("server.port", getEnv("PORT", "8080"))
	v.SetDefault("server.jwt_secret", "menucard_dev_secret")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "menucard.db")
	v.SetDefault("debug", false)
}

// Load reads config.yaml (from . or ./config) and the environment. A missing
// config file is fine: defaults and env overrides apply.
func Load() (*Config, error) {
	// It's okay if .env doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if path := os.Getenv(EnvPrefix + "_CONFIG"); path != "" {
		v.SetConfigFile(path)
	}
	return load(v)
}

// LoadFile reads the given YAML file, used by tests and the --config flag.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the client cannot run with
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("config: api.base_url is required")
	}
	durations := map[string]time.Duration{
		"api.timeout":            c.API.Timeout,
		"session.ttl":            c.Session.TTL,
		"session.check_interval": c.Session.CheckInterval,
		"poll.kitchen":           c.Poll.Kitchen,
		"poll.waiter":            c.Poll.Waiter,
		"poll.tracking":          c.Poll.Tracking,
		"poll.history":           c.Poll.History,
	}
	for key, d := range durations {
		if d <= 0 {
			return fmt.Errorf("config: %s must be positive, got %s", key, d)
		}
	}
	if c.Session.RefreshWindow < 0 || c.Session.RefreshWindow >= c.Session.TTL {
		return fmt.Errorf("config: session.refresh_window must be within [0, ttl)")
	}
	switch c.Errors.Sink {
	case "", "none", "kafka", "amqp":
	default:
		return fmt.Errorf("config: unknown errors.sink %q", c.Errors.Sink)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
