package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the process-wide configuration, loaded once at startup.
type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Scheduler SchedulerConfig
	Cache     CacheConfig
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

// JWTConfig holds the pre-shared secret verifying the service-bearer token
// on the generation-trigger endpoints; this process never mints tokens
// itself, so there is no expiry/refresh configuration here.
type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CacheConfig governs the conflict-query memoization layer.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// SchedulerConfig carries every tunable of spec.md §3 and §5, plus the
// term this deployment generates for.
type SchedulerConfig struct {
	ActiveTermID string

	Weeks               int
	DaysPerWeek         int
	PeriodsPerDay       int
	MaxPerDayGlobal     int
	PreferDistribution  string
	AvoidWindows        bool
	PrioritizeFaculty   bool
	RespectTeacherPrefs bool
	OptimizeRoomUsage   bool

	MaxGenerationTime   time.Duration
	MaxIterations       int
	InitialTemperature  float64
	CoolingRate         float64
	Seed                int64
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
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
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

	cfg.JWT = JWTConfig{Secret: v.GetString("JWT_SECRET")}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_CONFLICT_CACHE"),
		TTL:     parseDuration(v.GetString("CONFLICT_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Scheduler = SchedulerConfig{
		ActiveTermID:        v.GetString("SCHEDULER_TERM_ID"),
		Weeks:               v.GetInt("SCHEDULER_WEEKS"),
		DaysPerWeek:         v.GetInt("SCHEDULER_DAYS_PER_WEEK"),
		PeriodsPerDay:       v.GetInt("SCHEDULER_PERIODS_PER_DAY"),
		MaxPerDayGlobal:     v.GetInt("SCHEDULER_MAX_PER_DAY"),
		PreferDistribution:  v.GetString("SCHEDULER_PREFER_DISTRIBUTION"),
		AvoidWindows:        v.GetBool("SCHEDULER_AVOID_WINDOWS"),
		PrioritizeFaculty:   v.GetBool("SCHEDULER_PRIORITIZE_FACULTY"),
		RespectTeacherPrefs: v.GetBool("SCHEDULER_RESPECT_TEACHER_PREFS"),
		OptimizeRoomUsage:   v.GetBool("SCHEDULER_OPTIMIZE_ROOM_USAGE"),
		MaxGenerationTime:   parseDuration(v.GetString("SCHEDULER_MAX_GENERATION_TIME"), 45*time.Second),
		MaxIterations:       v.GetInt("SCHEDULER_MAX_ITERATIONS"),
		InitialTemperature:  v.GetFloat64("SCHEDULER_INITIAL_TEMPERATURE"),
		CoolingRate:         v.GetFloat64("SCHEDULER_COOLING_RATE"),
		Seed:                v.GetInt64("SCHEDULER_SEED"),
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
	v.SetDefault("DB_NAME", "timetable_core")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_CONFLICT_CACHE", false)
	v.SetDefault("CONFLICT_CACHE_TTL", "10m")

	v.SetDefault("SCHEDULER_TERM_ID", "")
	v.SetDefault("SCHEDULER_WEEKS", 16)
	v.SetDefault("SCHEDULER_DAYS_PER_WEEK", 5)
	v.SetDefault("SCHEDULER_PERIODS_PER_DAY", 8)
	v.SetDefault("SCHEDULER_MAX_PER_DAY", 6)
	v.SetDefault("SCHEDULER_PREFER_DISTRIBUTION", "balanced")
	v.SetDefault("SCHEDULER_AVOID_WINDOWS", true)
	v.SetDefault("SCHEDULER_PRIORITIZE_FACULTY", true)
	v.SetDefault("SCHEDULER_RESPECT_TEACHER_PREFS", true)
	v.SetDefault("SCHEDULER_OPTIMIZE_ROOM_USAGE", true)
	v.SetDefault("SCHEDULER_MAX_GENERATION_TIME", "45s")
	v.SetDefault("SCHEDULER_MAX_ITERATIONS", 1500)
	v.SetDefault("SCHEDULER_INITIAL_TEMPERATURE", 1.0)
	v.SetDefault("SCHEDULER_COOLING_RATE", 0.99)
	v.SetDefault("SCHEDULER_SEED", 0)
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
