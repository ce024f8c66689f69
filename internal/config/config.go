package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the configuration settings for the geolocation gateway.
//
// Fields:
// - Env: The current environment (local, development, production).
// - HealthPort: The port for the monitoring server (/healthz, /metrics).
// - HTTPPort: The port for the geolocation API.
// - Provider: Geocoding provider selection and limits.
// - RateLimit: Per-identity token bucket settings.
// - Cache: Result cache backend and TTLs.
type Config struct {
	Env        string          // Env is the current environment: local, development, production.
	HealthPort int             // HealthPort is the monitoring server port.
	HTTPPort   int             // HTTPPort is the API server port.
	Provider   ProviderConfig  // Provider configures the geocoding provider.
	RateLimit  RateLimitConfig // RateLimit configures per-identity admission.
	Cache      CacheConfig     // Cache configures the result cache.
}

// ProviderConfig selects and tunes the geocoding provider.
type ProviderConfig struct {
	Type    string        // Type is the provider type: google or google-rest.
	APIKey  string        // APIKey is the provider API key.
	Timeout time.Duration // Timeout bounds a single provider call.
	QPS     int           // QPS is the client side request rate towards the provider.
}

// RateLimitConfig describes the token bucket given to every caller identity.
type RateLimitConfig struct {
	Capacity int           // Capacity is the number of requests per window.
	Window   time.Duration // Window is the time needed to refill a bucket completely.
	IdleTTL  time.Duration // IdleTTL is how long an unused bucket is kept.
}

// CacheConfig selects the cache backend and the TTL of every result kind.
type CacheConfig struct {
	Backend        string        // Backend is memory, redis or postgres.
	ValidationTTL  time.Duration // ValidationTTL is the lifetime of address validations.
	CoordinatesTTL time.Duration // CoordinatesTTL is the lifetime of geocoded coordinates.
	NearbyTTL      time.Duration // NearbyTTL is the lifetime of nearby searches.
	SweepInterval  time.Duration // SweepInterval is how often expired entries are purged.
	Redis          RedisConfig
	Database       PostgresConfig
}

// RedisConfig holds the connection settings of the redis cache backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// MustLoad reads the optional .env file and the environment and returns the configuration.
// It panics when a value cannot be parsed.
func MustLoad() *Config {
	_ = godotenv.Load(setDefaultEnv("COMPASS_ENV_FILE", ".env"))

	return &Config{
		Env:        setDefaultEnv("COMPASS_ENV", "production"),
		HealthPort: mustInt("COMPASS_HEALTH_PORT", "8080", "port for monitoring server"),
		HTTPPort:   mustInt("COMPASS_HTTP_PORT", "8081", "port for API server"),
		Provider: ProviderConfig{
			Type:    setDefaultEnv("COMPASS_PROVIDER_TYPE", "google"),
			APIKey:  os.Getenv("COMPASS_PROVIDER_KEY"),
			Timeout: mustDuration("COMPASS_PROVIDER_TIMEOUT", "5s", "provider timeout"),
			QPS:     mustInt("COMPASS_PROVIDER_QPS", "50", "provider rate"),
		},
		RateLimit: RateLimitConfig{
			Capacity: mustInt("COMPASS_RATE_CAPACITY", "5", "rate limit capacity"),
			Window:   mustDuration("COMPASS_RATE_WINDOW", "1m", "rate limit window"),
			IdleTTL:  mustDuration("COMPASS_RATE_IDLE_TTL", "10m", "rate limit idle ttl"),
		},
		Cache: CacheConfig{
			Backend:        setDefaultEnv("COMPASS_CACHE_BACKEND", "memory"),
			ValidationTTL:  mustDuration("COMPASS_CACHE_VALIDATION_TTL", "24h", "validation cache ttl"),
			CoordinatesTTL: mustDuration("COMPASS_CACHE_COORDINATES_TTL", "24h", "coordinates cache ttl"),
			NearbyTTL:      mustDuration("COMPASS_CACHE_NEARBY_TTL", "1h", "nearby cache ttl"),
			SweepInterval:  mustDuration("COMPASS_CACHE_SWEEP_INTERVAL", "1m", "cache sweep interval"),
			Redis: RedisConfig{
				Addr:     setDefaultEnv("REDIS_ADDR", "localhost:6379"),
				Password: os.Getenv("REDIS_PASSWORD"),
				DB:       mustInt("REDIS_DB", "0", "redis database"),
			},
			Database: PostgresConfig{
				Host:     os.Getenv("DB_HOST"),
				Port:     setDefaultEnv("DB_PORT", "5432"),
				User:     os.Getenv("DB_USERNAME"),
				Password: os.Getenv("DB_PASSWORD"),
				Name:     os.Getenv("DB_NAME"),
			},
		},
	}
}

func mustInt(key, override, what string) int {
	value, err := strconv.Atoi(setDefaultEnv(key, override))
	if err != nil {
		panic("failed to parse " + what + " from configuration, must be an integer")
	}

	return value
}

func mustDuration(key, override, what string) time.Duration {
	value, err := time.ParseDuration(setDefaultEnv(key, override))
	if err != nil {
		panic("failed to parse " + what + " from configuration")
	}

	return value
}

func setDefaultEnv(key, override string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = override
	}

	return value
}
