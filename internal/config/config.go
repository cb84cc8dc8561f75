package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Views    ViewsConfig    `mapstructure:"views"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

type StorageConfig struct {
	// Dir is the root directory for attachment blobs, created on first use.
	Dir string `mapstructure:"dir"`
	// BaseURL is prepended to stored names when building download URLs.
	BaseURL string `mapstructure:"base_url"`
	// StoreTimeout bounds each blob write; a timed-out write counts as a
	// failure for compensating cleanup.
	StoreTimeout time.Duration `mapstructure:"store_timeout"`
}

type ViewsConfig struct {
	FlushInterval time.Duration `mapstructure:"flush_interval"` // Default: 60s
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type AuthConfig struct {
	// Secret signs and verifies the HS256 bearer tokens required on
	// mutating endpoints.
	Secret string `mapstructure:"secret"`
}

// Load reads configuration from environment variables and config files.
// Environment variables override file values. Prefix: ARDA_NOTICE_
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", "8091")
	v.SetDefault("server.env", "development")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "arda_notice")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "password")
	v.SetDefault("storage.dir", "./data/attachments")
	v.SetDefault("storage.base_url", "http://localhost:8091")
	v.SetDefault("storage.store_timeout", "30s")
	v.SetDefault("views.flush_interval", "60s")
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "notice-events")
	v.SetDefault("auth.secret", "dev-secret")

	// Environment variables (e.g. DATABASE_HOST -> database.host)
	v.SetEnvPrefix("ARDA_NOTICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Also support simple env vars without prefix for Docker Compose convenience
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.name", "DB_NAME")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("storage.dir", "ATTACHMENT_DIR")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("auth.secret", "AUTH_SECRET")
	v.BindEnv("server.port", "PORT")

	// Try loading config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // Not required

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return "host=" + d.Host +
		" port=" + strconv.Itoa(d.Port) +
		" dbname=" + d.Name +
		" user=" + d.User +
		" password=" + d.Password +
		" sslmode=disable"
}
