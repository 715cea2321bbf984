package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full application configuration tree.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"db"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Storage      StorageConfig      `mapstructure:"storage"`
	Organization OrganizationConfig `mapstructure:"organization"`
	Notification NotificationConfig `mapstructure:"notification"`
	RateLimit    RateLimitConfig    `mapstructure:"ratelimit"`
	Log          LogConfig          `mapstructure:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `mapstructure:"port"`
	// PublicBaseURL is the externally reachable frontend base used in
	// QR payloads and public links, not the bind address.
	PublicBaseURL string     `mapstructure:"public_base_url"`
	CORS          CORSConfig `mapstructure:"cors"`
}

// CORSConfig holds cross-origin settings.
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig holds PostgreSQL settings.
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
}

// DSN builds the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig holds Redis settings. An empty Addr disables Redis and
// everything that depends on it (rate limiting).
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StorageConfig holds MinIO object-storage settings for incident
// attachments. An empty Endpoint disables attachment uploads.
type StorageConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// OrganizationConfig identifies the top-level organization. Headquarters-level
// incidents and the public headquarters lookup resolve against these values.
type OrganizationConfig struct {
	Name             string  `mapstructure:"name"`
	HeadquartersCode string  `mapstructure:"headquarters_code"`
	Address          string  `mapstructure:"address"`
	City             string  `mapstructure:"city"`
	State            string  `mapstructure:"state"`
	Country          string  `mapstructure:"country"`
	PostalCode       string  `mapstructure:"postal_code"`
	Phone            string  `mapstructure:"phone"`
	Email            string  `mapstructure:"email"`
	Latitude         float64 `mapstructure:"latitude"`
	Longitude        float64 `mapstructure:"longitude"`
}

// NotificationConfig routes incident-creation notifications.
type NotificationConfig struct {
	ParentCompanyEmail string `mapstructure:"parent_company_email"`
	ParentCompanyName  string `mapstructure:"parent_company_name"`
	Enabled            bool   `mapstructure:"enabled"`
}

// RateLimitConfig throttles the unauthenticated surface.
type RateLimitConfig struct {
	PublicPerMinute int `mapstructure:"public_per_minute"`
	ReportPerMinute int `mapstructure:"report_per_minute"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment.
// Precedence: environment variables > config file > defaults.
func Load(path string) (*Config, error) {
	// A local .env is a development convenience; absence is fine.
	_ = godotenv.Load()

	v := viper.New()

	// ── defaults ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.public_base_url", "http://localhost:3000")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:3000"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "hexa_safety")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Asia/Kolkata")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.bucket", "incident-attachments")
	v.SetDefault("storage.use_ssl", false)

	v.SetDefault("organization.name", "Hexa Climate")
	v.SetDefault("organization.headquarters_code", "HEXA_HQ")
	v.SetDefault("organization.address", "Hexa Climate Headquarters, Gurugram")
	v.SetDefault("organization.city", "Gurugram")
	v.SetDefault("organization.state", "Haryana")
	v.SetDefault("organization.country", "India")
	v.SetDefault("organization.postal_code", "122001")
	v.SetDefault("organization.phone", "9660027799")
	v.SetDefault("organization.email", "info@hexaclimate.com")
	v.SetDefault("organization.latitude", 28.4595)
	v.SetDefault("organization.longitude", 77.0266)

	v.SetDefault("notification.parent_company_email", "info@hexaclimate.com")
	v.SetDefault("notification.parent_company_name", "Hexa Climate Safety Team")
	v.SetDefault("notification.enabled", true)

	v.SetDefault("ratelimit.public_per_minute", 60)
	v.SetDefault("ratelimit.report_per_minute", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// ── config file ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── environment ──
	v.SetEnvPrefix("HEXA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		// No file: defaults plus environment.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the process cannot run without.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config validation: server.port must be between 1 and 65535")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("config validation: db.name must not be empty")
	}
	if c.Organization.Name == "" {
		return fmt.Errorf("config validation: organization.name must not be empty")
	}
	if c.Organization.HeadquartersCode == "" {
		return fmt.Errorf("config validation: organization.headquarters_code must not be empty")
	}
	if c.Notification.Enabled && c.Notification.ParentCompanyEmail == "" {
		return fmt.Errorf("config validation: notification.parent_company_email required when notifications are enabled")
	}
	return nil
}
