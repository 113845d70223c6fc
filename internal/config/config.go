package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries all runtime settings, loaded from the environment once at
// startup.
type Config struct {
	Server   Server
	Database Database
	App      App
}

type Server struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type Database struct {
	DSN string
}

type App struct {
	Dev           bool
	Migrations    bool
	Seed          bool
	UploadDir     string
	ActorCacheTTL time.Duration
}

// Load reads configuration from environment variables with dev defaults.
func Load() Config {
	return Config{
		Server: Server{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  time.Duration(getEnvInt("READ_TIMEOUT_SECONDS", 15)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("WRITE_TIMEOUT_SECONDS", 30)) * time.Second,
			IdleTimeout:  time.Duration(getEnvInt("IDLE_TIMEOUT_SECONDS", 60)) * time.Second,
		},
		Database: Database{
			DSN: getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=faculty_records port=5432 sslmode=disable"),
		},
		App: App{
			Dev:           getEnvBool("DEV", false),
			Migrations:    getEnvBool("MIGRATIONS", false),
			Seed:          getEnvBool("DB_SEED", true),
			UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
			ActorCacheTTL: time.Duration(getEnvInt("ACTOR_CACHE_TTL_SECONDS", 60)) * time.Second,
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
