package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	Telemetry TelemetryConfig

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBPath            string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	Cache     CacheConfig
	RateLimit RateLimitConfig
	Seed      SeedConfig
}

// TelemetryConfig covers logging, metrics and tracing. The OTEL_* names
// follow the OpenTelemetry SDK conventions.
type TelemetryConfig struct {
	LogLevel          string
	LogFormat         string
	MetricsEnabled    bool
	OtelEnabled       bool
	OtelEndpoint      string
	OtelProtocol      string
	OtelSamplingRatio float64
}

// CacheConfig controls the search result cache. An empty RedisAddr keeps
// the cache in process memory.
type CacheConfig struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTLSeconds    int
}

// RateLimitConfig throttles uploads per client and serializes imports of
// the same sheet. It needs Redis; RedisAddr falls back to the cache's.
type RateLimitConfig struct {
	Enabled              bool
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	UploadRate           float64
	UploadBurst          int
	ImportLockTTLSeconds int
}

type SeedConfig struct {
	Enabled bool
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:           getenv("APP_SERVICE", "geodata"),
		AppVersion:        getenv("APP_VERSION", "0.1.0"),
		Environment:       getenv("ENVIRONMENT", "development"),
		HTTPAddr:          getenv("HTTP_ADDR", ":8080"),
		Telemetry: TelemetryConfig{
			LogLevel:          strings.ToLower(getenv("LOG_LEVEL", "info")),
			LogFormat:         strings.ToLower(getenv("LOG_FORMAT", "json")),
			MetricsEnabled:    getenvBool("METRICS_ENABLED", true),
			OtelEnabled:       getenvBool("OTEL_ENABLED", false),
			OtelEndpoint:      getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			OtelProtocol:      strings.ToLower(getenv("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL", getenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"))),
			OtelSamplingRatio: getenvFloat("OTEL_SAMPLING_RATIO", 0.1),
		},
		DBType:            strings.ToLower(getenv("DATABASE_TYPE", "postgres")),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "geodata"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBPath:            getenv("DATABASE_PATH", "geodata.db"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 20),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),
		Cache: CacheConfig{
			Enabled:       getenvBool("SEARCH_CACHE_ENABLED", false),
			RedisAddr:     strings.TrimSpace(getenv("SEARCH_CACHE_REDIS_ADDR", "")),
			RedisPassword: strings.TrimSpace(getenv("SEARCH_CACHE_REDIS_PASSWORD", "")),
			RedisDB:       getenvInt("SEARCH_CACHE_REDIS_DB", 0),
			TTLSeconds:    getenvInt("SEARCH_CACHE_TTL_SECONDS", 60),
		},
		RateLimit: RateLimitConfig{
			Enabled:              getenvBool("RATE_LIMIT_ENABLED", false),
			RedisAddr:            strings.TrimSpace(getenv("RATE_LIMIT_REDIS_ADDR", getenv("SEARCH_CACHE_REDIS_ADDR", ""))),
			RedisPassword:        strings.TrimSpace(getenv("RATE_LIMIT_REDIS_PASSWORD", getenv("SEARCH_CACHE_REDIS_PASSWORD", ""))),
			RedisDB:              getenvInt("RATE_LIMIT_REDIS_DB", 0),
			UploadRate:           getenvFloat("RATE_LIMIT_UPLOAD_RATE", 0.2),
			UploadBurst:          getenvInt("RATE_LIMIT_UPLOAD_BURST", 5),
			ImportLockTTLSeconds: getenvInt("RATE_LIMIT_IMPORT_LOCK_TTL_SECONDS", 300),
		},
		Seed: SeedConfig{
			Enabled: getenvBool("SEED_ENABLED", false),
		},
	}
}

// FromViper loads the environment configuration and applies every key that
// is set on v. Keys mirror the environment names in lower dotted form, for
// example "database.type".
func FromViper(v *viper.Viper) Config {
	cfg := Load()
	if v == nil {
		return cfg
	}

	setString(v, "http.addr", &cfg.HTTPAddr)
	setString(v, "log.level", &cfg.Telemetry.LogLevel)
	setString(v, "log.format", &cfg.Telemetry.LogFormat)
	setString(v, "database.type", &cfg.DBType)
	setString(v, "database.host", &cfg.DBHost)
	setString(v, "database.port", &cfg.DBPort)
	setString(v, "database.name", &cfg.DBName)
	setString(v, "database.user", &cfg.DBUser)
	setString(v, "database.password", &cfg.DBPassword)
	setString(v, "database.sslmode", &cfg.DBSSLMode)
	setString(v, "database.path", &cfg.DBPath)
	if v.IsSet("cache.enabled") {
		cfg.Cache.Enabled = v.GetBool("cache.enabled")
	}
	setString(v, "cache.redis_addr", &cfg.Cache.RedisAddr)
	if v.IsSet("rate_limit.enabled") {
		cfg.RateLimit.Enabled = v.GetBool("rate_limit.enabled")
	}
	setString(v, "rate_limit.redis_addr", &cfg.RateLimit.RedisAddr)
	if v.IsSet("seed.enabled") {
		cfg.Seed.Enabled = v.GetBool("seed.enabled")
	}

	cfg.DBType = strings.ToLower(cfg.DBType)
	cfg.Telemetry.LogLevel = strings.ToLower(cfg.Telemetry.LogLevel)
	return cfg
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

func setString(v *viper.Viper, key string, dst *string) {
	if !v.IsSet(key) {
		return
	}
	if value := strings.TrimSpace(v.GetString(key)); value != "" {
		*dst = value
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
