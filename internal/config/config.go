package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Supabase  SupabaseConfig  `yaml:"supabase"`
	Database  DatabaseConfig  `yaml:"database"`
	Storage   StorageConfig   `yaml:"storage"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         int      `yaml:"port"`
	BasePath     string   `yaml:"base_path"`
	AllowOrigins []string `yaml:"allow_origins"`
}

// SupabaseConfig contains the hosted backend credentials
type SupabaseConfig struct {
	URL        string `yaml:"url"`
	AnonKey    string `yaml:"anon_key"`
	ServiceKey string `yaml:"service_key"`
}

// DatabaseConfig selects the key-value store backend.
// "supabase" talks to the hosted PostgREST endpoint; "mysql" and
// "postgres" keep the same kv_store table on a self-hosted database.
type DatabaseConfig struct {
	Type     string         `yaml:"type"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// MySQLConfig contains MySQL connection settings
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// PostgresConfig contains PostgreSQL connection settings
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// StorageConfig selects the object storage backend for uploaded images
type StorageConfig struct {
	Driver string   `yaml:"driver"`
	Bucket string   `yaml:"bucket"`
	S3     S3Config `yaml:"s3"`
}

// S3Config contains S3-compatible storage settings
type S3Config struct {
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// ReconcileConfig controls the partial-failure sweep job
type ReconcileConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cron    string `yaml:"cron"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Filename   string `yaml:"filename"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8084,
			BasePath:     "/api/v1",
			AllowOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Type: "supabase",
		},
		Storage: StorageConfig{
			Driver: "supabase",
			Bucket: "property-images",
		},
		Reconcile: ReconcileConfig{
			Enabled: true,
			Cron:    "*/5 * * * *",
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// LoadConfig loads configuration from a YAML file, layering environment
// variables (including a local .env) on top.
func LoadConfig(filepath string) (*Config, error) {
	_ = godotenv.Load()

	config := DefaultConfig()

	if _, err := os.Stat(filepath); err == nil {
		data, err := os.ReadFile(filepath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.applyEnv()
	return config, nil
}

func (c *Config) applyEnv() {
	c.Supabase.URL = getEnv("SUPABASE_URL", c.Supabase.URL)
	c.Supabase.AnonKey = getEnv("SUPABASE_ANON_KEY", c.Supabase.AnonKey)
	c.Supabase.ServiceKey = getEnv("SUPABASE_SERVICE_KEY", c.Supabase.ServiceKey)

	c.Database.Type = getEnv("DB_TYPE", c.Database.Type)
	c.Database.MySQL.Host = getEnv("DB_HOST", c.Database.MySQL.Host)
	c.Database.MySQL.User = getEnv("DB_USER", c.Database.MySQL.User)
	c.Database.MySQL.Password = getEnv("DB_PASSWORD", c.Database.MySQL.Password)
	c.Database.MySQL.Database = getEnv("DB_NAME", c.Database.MySQL.Database)
	c.Database.Postgres.Host = getEnv("DB_HOST", c.Database.Postgres.Host)
	c.Database.Postgres.User = getEnv("DB_USER", c.Database.Postgres.User)
	c.Database.Postgres.Password = getEnv("DB_PASSWORD", c.Database.Postgres.Password)
	c.Database.Postgres.Database = getEnv("DB_NAME", c.Database.Postgres.Database)

	c.Storage.Driver = getEnv("STORAGE_DRIVER", c.Storage.Driver)
	c.Storage.Bucket = getEnv("STORAGE_BUCKET", c.Storage.Bucket)
	c.Storage.S3.Region = getEnv("S3_REGION", c.Storage.S3.Region)
	c.Storage.S3.Endpoint = getEnv("S3_ENDPOINT", c.Storage.S3.Endpoint)
	c.Storage.S3.AccessKeyID = getEnv("S3_ACCESS_KEY_ID", c.Storage.S3.AccessKeyID)
	c.Storage.S3.SecretAccessKey = getEnv("S3_SECRET_ACCESS_KEY", c.Storage.S3.SecretAccessKey)

	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)

	c.Server.Port = getEnvInt("PORT", c.Server.Port)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
