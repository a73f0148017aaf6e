package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServiceID string

	HTTPPort int

	DatabaseURL  string
	RedisURL     string
	KafkaBrokers []string

	KafkaTopicCartUpdated string
	KafkaRequiredAcks     string

	MaxDBConns    int32
	DBConnMaxIdle time.Duration
	DBConnMaxLife time.Duration

	TaxRate    float64
	SessionTTL time.Duration
	SignInPath string
}

type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL           string   `yaml:"postgres_url"`
		RedisURL              string   `yaml:"redis_url"`
		KafkaBrokers          []string `yaml:"kafka_brokers"`
		KafkaTopicCartUpdated string   `yaml:"kafka_topic_cart_updated"`
		KafkaRequiredAcks     string   `yaml:"kafka_required_acks"`
	} `yaml:"dependencies"`
	Cart struct {
		TaxRate        float64 `yaml:"tax_rate"`
		SessionTTLMins int     `yaml:"session_ttl_minutes"`
		SignInPath     string  `yaml:"sign_in_path"`
	} `yaml:"cart"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:             "storefront-cart",
		HTTPPort:              8080,
		MaxDBConns:            20,
		DBConnMaxIdle:         15 * time.Minute,
		DBConnMaxLife:         time.Hour,
		KafkaTopicCartUpdated: "cart.updated",
		KafkaRequiredAcks:     "all",
		TaxRate:               0.08,
		SessionTTL:            30 * time.Minute,
		SignInPath:            "/auth/sign-in",
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if len(f.Dependencies.KafkaBrokers) > 0 {
			cfg.KafkaBrokers = trimNonEmpty(f.Dependencies.KafkaBrokers)
		}
		if f.Dependencies.KafkaTopicCartUpdated != "" {
			cfg.KafkaTopicCartUpdated = f.Dependencies.KafkaTopicCartUpdated
		}
		if f.Dependencies.KafkaRequiredAcks != "" {
			cfg.KafkaRequiredAcks = f.Dependencies.KafkaRequiredAcks
		}
		if f.Cart.TaxRate > 0 {
			cfg.TaxRate = f.Cart.TaxRate
		}
		if f.Cart.SessionTTLMins > 0 {
			cfg.SessionTTL = time.Duration(f.Cart.SessionTTLMins) * time.Minute
		}
		if f.Cart.SignInPath != "" {
			cfg.SignInPath = f.Cart.SignInPath
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.KafkaTopicCartUpdated = envOrDefault("KAFKA_TOPIC_CART_UPDATED", cfg.KafkaTopicCartUpdated)
	cfg.KafkaRequiredAcks = envOrDefault("KAFKA_REQUIRED_ACKS", cfg.KafkaRequiredAcks)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))
	cfg.DBConnMaxIdle = time.Duration(envInt("DB_CONN_MAX_IDLE_MINUTES", int(cfg.DBConnMaxIdle.Minutes()))) * time.Minute
	cfg.DBConnMaxLife = time.Duration(envInt("DB_CONN_MAX_LIFE_MINUTES", int(cfg.DBConnMaxLife.Minutes()))) * time.Minute
	cfg.SessionTTL = time.Duration(envInt("SESSION_TTL_MINUTES", int(cfg.SessionTTL.Minutes()))) * time.Minute
	cfg.SignInPath = envOrDefault("SIGN_IN_PATH", cfg.SignInPath)

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}
	return cfg, nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envCSV(name string, fallback []string) []string {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	return trimNonEmpty(strings.Split(raw, ","))
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
