package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	NSQ      NSQConfig
	Jobs     JobsConfig
	Logger   LoggerConfig
	// RefreshCooldown throttles pull-to-refresh requests per user.
	RefreshCooldown time.Duration
}

type AppConfig struct {
	Name        string
	Environment string
	Timezone    string
}

type ServerConfig struct {
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Path     string
	LogLevel string
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type NSQConfig struct {
	Addr string
}

type JobsConfig struct {
	DeletionSweepSpec string
}

type LoggerConfig struct {
	Level  string
	Format string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "food-truck-api")
	v.SetDefault("APP_ENV", "local")
	v.SetDefault("APP_TIMEZONE", "Local")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("DB_PATH", "food_trucks.db")
	v.SetDefault("DB_LOG_LEVEL", "warn")
	v.SetDefault("JWT_SECRET", "food_truck_super_secret_2024")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "food-truck-api")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("NSQ_ADDR", "")
	v.SetDefault("DELETION_SWEEP_SPEC", "@every 1m")
	v.SetDefault("REFRESH_COOLDOWN", "30s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// Load reads configuration from the environment. In the local environment a
// .env file at envPath is loaded first when present.
func Load(envPath string) *Config {
	if strings.EqualFold(getEnv("APP_ENV", "local"), "local") {
		if err := godotenv.Load(envPath); err != nil {
			log.Println("no env file loaded:", err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Name:        v.GetString("APP_NAME"),
			Environment: v.GetString("APP_ENV"),
			Timezone:    v.GetString("APP_TIMEZONE"),
		},
		Server: ServerConfig{
			Port:            v.GetString("SERVER_PORT"),
			GinMode:         v.GetString("GIN_MODE"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Path:     v.GetString("DB_PATH"),
			LogLevel: v.GetString("DB_LOG_LEVEL"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("JWT_SECRET"),
			Expiration: v.GetDuration("JWT_EXPIRATION"),
			Issuer:     v.GetString("JWT_ISSUER"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		NSQ:             NSQConfig{Addr: v.GetString("NSQ_ADDR")},
		Jobs:            JobsConfig{DeletionSweepSpec: v.GetString("DELETION_SWEEP_SPEC")},
		Logger:          LoggerConfig{Level: v.GetString("LOG_LEVEL"), Format: v.GetString("LOG_FORMAT")},
		RefreshCooldown: v.GetDuration("REFRESH_COOLDOWN"),
	}
}

// Location resolves the configured timezone, falling back to time.Local.
func (c *Config) Location() *time.Location {
	if c.App.Timezone == "" || strings.EqualFold(c.App.Timezone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		log.Printf("unknown APP_TIMEZONE %q, using local time", c.App.Timezone)
		return time.Local
	}
	return loc
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
