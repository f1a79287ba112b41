// Package config loads per-service configuration with viper. Values come
// from an optional config.yaml next to the binary and from environment
// variables (HRMS_DB_HOST, HRMS_KAFKA_BROKERS, ...), env taking precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config carries every setting the service binaries need. Each binary reads
// only the sections relevant to it.
type Config struct {
	HTTPPort int    `mapstructure:"http_port"`
	LogLevel string `mapstructure:"log_level"`

	DBHost     string `mapstructure:"db_host"`
	DBPort     int    `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`
	DBSSLMode  string `mapstructure:"db_sslmode"`

	MongoURI      string `mapstructure:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database"`

	KafkaBrokers []string `mapstructure:"kafka_brokers"`

	JWTSecret     string        `mapstructure:"jwt_secret"`
	JWTIssuer     string        `mapstructure:"jwt_issuer"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	ActivationTTL time.Duration `mapstructure:"activation_ttl"`
	ActivationURL string        `mapstructure:"activation_url"`

	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	SMTPUser string `mapstructure:"smtp_user"`
	SMTPPass string `mapstructure:"smtp_pass"`
	MailFrom string `mapstructure:"mail_from"`
}

// Load reads configuration for the named service. The service name selects
// the default HTTP port so the eight binaries can run side by side without
// any configuration at all during development.
func Load(service string) (*Config, error) {
	v := viper.New()

	v.SetDefault("http_port", defaultPort(service))
	v.SetDefault("log_level", "info")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 5432)
	v.SetDefault("db_user", "hrms")
	v.SetDefault("db_password", "hrms")
	v.SetDefault("db_name", "hrms_"+service)
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("mongo_database", "hrms_"+service)
	v.SetDefault("kafka_brokers", []string{"localhost:9092"})
	v.SetDefault("jwt_secret", "change-me")
	v.SetDefault("jwt_issuer", "hrms-auth")
	v.SetDefault("session_ttl", 15*time.Minute)
	v.SetDefault("activation_ttl", 24*time.Hour)
	v.SetDefault("activation_url", "http://localhost:9100/api/v1/auth/activate")
	v.SetDefault("smtp_host", "localhost")
	v.SetDefault("smtp_port", 25)
	v.SetDefault("mail_from", "no-reply@hrms.local")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		// Missing file is fine, defaults plus env cover it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("HRMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func defaultPort(service string) int {
	ports := map[string]int{
		"auth":     9100,
		"admin":    9101,
		"employee": 9102,
		"manager":  9103,
		"guest":    9104,
		"company":  9105,
		"user":     9106,
		"mail":     9107,
	}
	if p, ok := ports[service]; ok {
		return p
	}
	return 9100
}
