package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the full application configuration, loaded from environment
// variables with development defaults.
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	Auth          AuthConfig
	DefaultTenant DefaultTenantConfig
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port    string
	BaseURL string
}

// DatabaseConfig configures the Postgres connection.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN renders the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// RedisConfig configures the ephemeral session store connection.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Address renders the host:port address.
func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// AuthConfig configures token issuance.
type AuthConfig struct {
	JWTSecret       string
	Issuer          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	OAuthTimeout    time.Duration
}

// DefaultTenantConfig is the synthetic tenant used when no domain matches.
type DefaultTenantConfig struct {
	Domain       string
	Provider     string
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	UserinfoURL  string
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			BaseURL: getEnv("BASE_URL", "http://localhost:8080"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "texam"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "texam"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("JWT_SECRET", "dev-only-secret"),
			Issuer:          getEnv("JWT_ISSUER", "texam"),
			AccessTokenTTL:  getEnvDuration("ACCESS_TOKEN_TTL", time.Hour),
			RefreshTokenTTL: getEnvDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour),
			OAuthTimeout:    getEnvDuration("OAUTH_TIMEOUT", 10*time.Second),
		},
		DefaultTenant: DefaultTenantConfig{
			Domain:       getEnv("DEFAULT_TENANT_DOMAIN", "default"),
			Provider:     getEnv("DEFAULT_TENANT_PROVIDER", "default"),
			ClientID:     getEnv("DEFAULT_TENANT_CLIENT_ID", ""),
			ClientSecret: getEnv("DEFAULT_TENANT_CLIENT_SECRET", ""),
			AuthURL:      getEnv("DEFAULT_TENANT_AUTH_URL", ""),
			TokenURL:     getEnv("DEFAULT_TENANT_TOKEN_URL", ""),
			UserinfoURL:  getEnv("DEFAULT_TENANT_USERINFO_URL", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
