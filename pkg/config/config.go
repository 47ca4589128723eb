package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	Upstream UpstreamConfig
	CORS     CORSConfig
	Log      LogConfig
	Engine   EngineConfig
	Snapshot SnapshotConfig
	Resync   ResyncConfig
	Export   ExportConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// UpstreamConfig points at the authoritative schedule store.
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// EngineConfig tunes the scheduling engine.
type EngineConfig struct {
	SlotMinutes          int
	SuggestionWindowMins int
	MaxSuggestions       int
	IndexCacheSize       int
	DefaultStartTime     string
	DefaultEndTime       string
}

// SnapshotConfig governs planner snapshot caching.
type SnapshotConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// ResyncConfig controls the background retry of unsynced writes.
type ResyncConfig struct {
	Enabled    bool
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
}

// ExportConfig gates the schedule export endpoints.
type ExportConfig struct {
	Enabled       bool
	Dir           string
	SigningSecret string
	LinkTTL       time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Upstream = UpstreamConfig{
		BaseURL: strings.TrimRight(v.GetString("UPSTREAM_BASE_URL"), "/"),
		Timeout: parseDuration(v.GetString("UPSTREAM_TIMEOUT"), 5*time.Second),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Engine = EngineConfig{
		SlotMinutes:          v.GetInt("ENGINE_SLOT_MINUTES"),
		SuggestionWindowMins: v.GetInt("ENGINE_SUGGESTION_WINDOW_MINUTES"),
		MaxSuggestions:       v.GetInt("ENGINE_MAX_SUGGESTIONS"),
		IndexCacheSize:       v.GetInt("ENGINE_INDEX_CACHE_SIZE"),
		DefaultStartTime:     v.GetString("ENGINE_DEFAULT_START_TIME"),
		DefaultEndTime:       v.GetString("ENGINE_DEFAULT_END_TIME"),
	}

	cfg.Snapshot = SnapshotConfig{
		CacheEnabled: v.GetBool("SNAPSHOT_CACHE_ENABLED"),
		CacheTTL:     parseDuration(v.GetString("SNAPSHOT_CACHE_TTL"), 30*time.Second),
	}

	cfg.Resync = ResyncConfig{
		Enabled:    v.GetBool("RESYNC_ENABLED"),
		Workers:    v.GetInt("RESYNC_WORKERS"),
		MaxRetries: v.GetInt("RESYNC_MAX_RETRIES"),
		RetryDelay: parseDuration(v.GetString("RESYNC_RETRY_DELAY"), 30*time.Second),
	}

	cfg.Export = ExportConfig{
		Enabled:       v.GetBool("ENABLE_EXPORT"),
		Dir:           v.GetString("EXPORT_DIR"),
		SigningSecret: v.GetString("EXPORT_SIGNING_SECRET"),
		LinkTTL:       parseDuration(v.GetString("EXPORT_LINK_TTL"), 24*time.Hour),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "study_scheduler")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("UPSTREAM_BASE_URL", "http://localhost:3000")
	v.SetDefault("UPSTREAM_TIMEOUT", "5s")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENGINE_SLOT_MINUTES", 30)
	v.SetDefault("ENGINE_SUGGESTION_WINDOW_MINUTES", 120)
	v.SetDefault("ENGINE_MAX_SUGGESTIONS", 3)
	v.SetDefault("ENGINE_INDEX_CACHE_SIZE", 50)
	v.SetDefault("ENGINE_DEFAULT_START_TIME", "09:00")
	v.SetDefault("ENGINE_DEFAULT_END_TIME", "15:00")

	v.SetDefault("SNAPSHOT_CACHE_ENABLED", true)
	v.SetDefault("SNAPSHOT_CACHE_TTL", "30s")

	v.SetDefault("RESYNC_ENABLED", true)
	v.SetDefault("RESYNC_WORKERS", 1)
	v.SetDefault("RESYNC_MAX_RETRIES", 3)
	v.SetDefault("RESYNC_RETRY_DELAY", "30s")

	v.SetDefault("ENABLE_EXPORT", true)
	v.SetDefault("EXPORT_DIR", "./exports")
	v.SetDefault("EXPORT_SIGNING_SECRET", "change-me")
	v.SetDefault("EXPORT_LINK_TTL", "24h")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
