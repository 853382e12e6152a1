package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig
	DB          DBConfig
	Redis       RedisConfig
	JWT         JWTConfig
	RabbitMQ    RabbitMQConfig
	Lifecycle   LifecycleConfig
	LiveSession LiveSessionConfig
	Cache       CacheConfig
	RateLimit   RateLimitConfig
}

type AppConfig struct {
	Port         string
	Env          string
	LogLevel     string
	MapperStrict bool
}

type DBConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
	SeedData    bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

type RabbitMQConfig struct {
	URL      string
	Exchange string
}

// LifecycleConfig selects how request status transitions are validated.
// "strict" rejects transitions out of terminal states and non-successor
// targets; "permissive" overwrites unconditionally.
type LifecycleConfig struct {
	Policy string
}

// LiveSessionConfig selects whether an assistant may hold more than one open
// availability window. "allow_multiple" or "single_active".
type LiveSessionConfig struct {
	Policy string
}

type CacheConfig struct {
	OpenRequestsTTL time.Duration
	SessionTTL      time.Duration
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	LifecyclePolicyStrict     = "strict"
	LifecyclePolicyPermissive = "permissive"

	LivePolicyAllowMultiple = "allow_multiple"
	LivePolicySingleActive  = "single_active"
)

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	// A missing .env is fine; everything can come from the environment.
	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, err
		}
	}

	accessExpiry, err := time.ParseDuration(v.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 24 * time.Hour
	}

	env := strings.ToLower(v.GetString("APP_ENV"))

	config := &Config{
		App: AppConfig{
			Port:         v.GetString("APP_PORT"),
			Env:          env,
			LogLevel:     v.GetString("LOG_LEVEL"),
			MapperStrict: v.GetBool("MAPPER_STRICT") || env == EnvDevelopment,
		},
		DB: DBConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			Name:        v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSLMODE"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
			SeedData:    v.GetBool("DB_SEED"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       v.GetString("JWT_SECRET"),
			AccessExpiry: accessExpiry,
		},
		RabbitMQ: RabbitMQConfig{
			URL:      v.GetString("RABBITMQ_URL"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
		},
		Lifecycle: LifecycleConfig{
			Policy: normalizePolicy(v.GetString("LIFECYCLE_POLICY"), LifecyclePolicyStrict, LifecyclePolicyPermissive),
		},
		LiveSession: LiveSessionConfig{
			Policy: normalizePolicy(v.GetString("LIVE_SESSION_POLICY"), LivePolicySingleActive, LivePolicyAllowMultiple),
		},
		Cache: CacheConfig{
			OpenRequestsTTL: v.GetDuration("OPEN_REQUESTS_CACHE_TTL"),
			SessionTTL:      v.GetDuration("SESSION_CACHE_TTL"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", EnvProduction)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("RABBITMQ_EXCHANGE", "health_concierge.events")
	v.SetDefault("LIFECYCLE_POLICY", LifecyclePolicyStrict)
	v.SetDefault("LIVE_SESSION_POLICY", LivePolicySingleActive)
	v.SetDefault("OPEN_REQUESTS_CACHE_TTL", "15s")
	v.SetDefault("SESSION_CACHE_TTL", "30m")
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
}

// normalizePolicy returns value if it is one of the allowed policies and
// fallback otherwise.
func normalizePolicy(value, fallback string, allowed ...string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == fallback {
		return value
	}
	for _, a := range allowed {
		if value == a {
			return value
		}
	}
	return fallback
}
