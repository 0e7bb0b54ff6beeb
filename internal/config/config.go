package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Store struct {
		Driver      string `yaml:"driver" env:"STORE_DRIVER"`
		SnapshotDir string `yaml:"snapshot_dir" env:"STORE_SNAPSHOT_DIR"`
	} `yaml:"store"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`

	SQLite struct {
		Path string `yaml:"path" env:"SQLITE_PATH"`
	} `yaml:"sqlite"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Institution struct {
		EmailDomain        string   `yaml:"email_domain" env:"INSTITUTION_EMAIL_DOMAIN"`
		LegacyEmailDomains []string `yaml:"legacy_email_domains" env:"INSTITUTION_LEGACY_EMAIL_DOMAINS"`
	} `yaml:"institution"`

	Documents struct {
		MaxCount     int `yaml:"max_count" env:"DOCUMENTS_MAX_COUNT"`
		MaxBytes     int `yaml:"max_bytes" env:"DOCUMENTS_MAX_BYTES"`
		MaxDimension int `yaml:"max_dimension" env:"DOCUMENTS_MAX_DIMENSION"`
		MaxPixels    int `yaml:"max_pixels" env:"DOCUMENTS_MAX_PIXELS"`
	} `yaml:"documents"`

	Notifications struct {
		Driver       string `yaml:"driver" env:"NOTIFY_DRIVER"`
		AMQPURL      string `yaml:"amqp_url" env:"NOTIFY_AMQP_URL"`
		AMQPQueue    string `yaml:"amqp_queue" env:"NOTIFY_AMQP_QUEUE"`
		KafkaBrokers string `yaml:"kafka_brokers" env:"NOTIFY_KAFKA_BROKERS"`
		KafkaTopic   string `yaml:"kafka_topic" env:"NOTIFY_KAFKA_TOPIC"`
	} `yaml:"notifications"`

	Seed struct {
		OnStartup bool `yaml:"on_startup" env:"SEED_ON_STARTUP"`
	} `yaml:"seed"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// A missing file is fine, defaults and env still apply
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	config.Store.Driver = StoreMemory

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "eventsphere"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"

	config.Redis.Addr = "localhost:6379"

	config.SQLite.Path = "eventsphere.db"

	config.JWT.AccessTokenExpiration = "24h"
	config.JWT.Issuer = "eventsphere.app"

	config.Institution.EmailDomain = "@klu.ac.in"
	config.Institution.LegacyEmailDomains = []string{"@college.edu"}

	config.Documents.MaxCount = 5
	config.Documents.MaxBytes = 5 << 20
	config.Documents.MaxDimension = 1600
	config.Documents.MaxPixels = 25_000_000

	config.Notifications.Driver = "log"
	config.Notifications.AMQPQueue = "eventsphere.notifications"
	config.Notifications.KafkaTopic = "eventsphere.notifications"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Store.Driver {
	case StoreMemory, StoreRedis, StorePostgres, StoreSQLite:
	default:
		return fmt.Errorf("unknown store driver %q", config.Store.Driver)
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	if !strings.HasPrefix(config.Institution.EmailDomain, "@") {
		return fmt.Errorf("institution email domain must start with '@'")
	}

	switch config.Notifications.Driver {
	case "log", "none", "":
	case "amqp":
		if config.Notifications.AMQPURL == "" {
			return fmt.Errorf("amqp_url is required for the amqp notification driver")
		}
	case "kafka":
		if config.Notifications.KafkaBrokers == "" {
			return fmt.Errorf("kafka_brokers is required for the kafka notification driver")
		}
	default:
		return fmt.Errorf("unknown notification driver %q", config.Notifications.Driver)
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// KafkaBrokerList splits the comma separated broker setting
func (c *Config) KafkaBrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(c.Notifications.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
