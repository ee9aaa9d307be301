package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	StateStoreRedis  = "redis"
	StateStoreMemory = "memory"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Storage      StorageConfig
	Match        MatchConfig
	Logging      LoggingConfig
	GeminiAPIKey string
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	AccessSecret    string
	AccessExpiryMin int
	// ExternalSecret verifies identity provider tokens. Empty disables
	// external sign in.
	ExternalSecret string
	ExternalIssuer string
}

// StorageConfig selects the backends. Type covers users, sessions, profiles,
// swipes and matches; StateStore covers onboarding drafts and device
// session state.
type StorageConfig struct {
	Type              string
	StateStore        string
	StateTTLHours     int
	SessionCleanupMin int
}

type MatchConfig struct {
	Probability float64
}

type LoggingConfig struct {
	Level string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("JWT_ACCESS_EXPIRY_MIN", 7*24*60)
	v.SetDefault("STORAGE_TYPE", StoragePostgres)
	v.SetDefault("STATE_STORE", StateStoreRedis)
	v.SetDefault("STATE_TTL_HOURS", 30*24)
	v.SetDefault("SESSION_CLEANUP_MIN", 60)
	v.SetDefault("MATCH_PROBABILITY", 0.3)
	v.SetDefault("LOG_LEVEL", "info")
}

// Load loads configuration from environment variables or .env file
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	// Try to read from .env file, but don't fail if it doesn't exist
	_ = v.ReadInConfig()

	config := &Config{
		Server: ServerConfig{
			Host:         v.GetString("SERVER_HOST"),
			Port:         v.GetInt("SERVER_PORT"),
			Env:          v.GetString("ENV"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			AccessSecret:    v.GetString("JWT_ACCESS_SECRET"),
			AccessExpiryMin: v.GetInt("JWT_ACCESS_EXPIRY_MIN"),
			ExternalSecret:  v.GetString("EXTERNAL_AUTH_SECRET"),
			ExternalIssuer:  v.GetString("EXTERNAL_AUTH_ISSUER"),
		},
		Storage: StorageConfig{
			Type:              v.GetString("STORAGE_TYPE"),
			StateStore:        v.GetString("STATE_STORE"),
			StateTTLHours:     v.GetInt("STATE_TTL_HOURS"),
			SessionCleanupMin: v.GetInt("SESSION_CLEANUP_MIN"),
		},
		Match: MatchConfig{
			Probability: v.GetFloat64("MATCH_PROBABILITY"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		GeminiAPIKey: v.GetString("GEMINI_API_KEY"),
	}

	// Validate critical configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates critical configuration values
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case StoragePostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("database name is required")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown storage type %q", c.Storage.Type)
	}
	switch c.Storage.StateStore {
	case StateStoreRedis:
		if c.Redis.Host == "" {
			return fmt.Errorf("redis host is required")
		}
	case StateStoreMemory:
	default:
		return fmt.Errorf("unknown state store %q", c.Storage.StateStore)
	}
	if c.JWT.AccessSecret == "" {
		return fmt.Errorf("JWT access secret is required")
	}
	if len(c.JWT.AccessSecret) < 32 {
		return fmt.Errorf("JWT access secret must be at least 32 characters")
	}
	if c.JWT.AccessExpiryMin <= 0 {
		return fmt.Errorf("JWT access expiry must be positive")
	}
	if c.JWT.ExternalSecret != "" && len(c.JWT.ExternalSecret) < 32 {
		return fmt.Errorf("external auth secret must be at least 32 characters")
	}
	if c.Match.Probability < 0 || c.Match.Probability > 1 {
		return fmt.Errorf("match probability must be within [0, 1], got %v", c.Match.Probability)
	}
	return nil
}

func (c *JWTConfig) AccessTTL() time.Duration {
	return time.Duration(c.AccessExpiryMin) * time.Minute
}

func (c *StorageConfig) StateTTL() time.Duration {
	return time.Duration(c.StateTTLHours) * time.Hour
}

func (c *StorageConfig) SessionCleanupInterval() time.Duration {
	return time.Duration(c.SessionCleanupMin) * time.Minute
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetAddr returns Redis address
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
