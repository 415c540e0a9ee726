package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

const (
	GuardMemory = "memory"
	GuardRedis  = "redis"
)

type Config struct {
	App     AppConfig
	API     APIConfig
	Session SessionConfig
	Booking BookingConfig
	Redis   RedisConfig
}

type AppConfig struct {
	Port     string
	Env      string
	Timezone string
	LogLevel string
}

// APIConfig points at the remote practice API
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SessionConfig struct {
	TTL time.Duration
}

type BookingConfig struct {
	Guard   string
	KeyTTL  time.Duration
	LockTTL time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Location resolves the practice time zone, falling back to UTC
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_TIMEZONE", "America/Sao_Paulo")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("API_BASE_URL", "http://localhost:3000")
	v.SetDefault("API_TIMEOUT", "15s")
	v.SetDefault("SESSION_TTL", "30m")
	v.SetDefault("BOOKING_GUARD", GuardMemory)
	v.SetDefault("BOOKING_KEY_TTL", "24h")
	v.SetDefault("BOOKING_LOCK_TTL", "30s")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
}

func LoadConfig() (*Config, error) {
	return Load(".env")
}

// Load reads path plus the environment. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	guard := strings.ToLower(v.GetString("BOOKING_GUARD"))
	if guard != GuardRedis {
		guard = GuardMemory
	}

	config := &Config{
		App: AppConfig{
			Port:     v.GetString("APP_PORT"),
			Env:      v.GetString("APP_ENV"),
			Timezone: v.GetString("APP_TIMEZONE"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
			Timeout: v.GetDuration("API_TIMEOUT"),
		},
		Session: SessionConfig{
			TTL: v.GetDuration("SESSION_TTL"),
		},
		Booking: BookingConfig{
			Guard:   guard,
			KeyTTL:  v.GetDuration("BOOKING_KEY_TTL"),
			LockTTL: v.GetDuration("BOOKING_LOCK_TTL"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
	}

	return config, nil
}
