package config

import (
	"time"

	"github.com/MartinEBravo/duech-go/internal/pkg/env"
)

type Config struct {
	AuthSecret string
	DB         dbConfig
	Http       httpConfig
	RateLimit  rateLimitConfig
}

type dbConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type httpConfig struct {
	ListenAddr      string
	IdleTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type rateLimitConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	Limit    int
	Window   time.Duration
}

func FromEnv() Config {
	return Config{
		AuthSecret: env.RequireString("AUTH_SECRET"),
		DB: dbConfig{
			Host:     env.String("DB_HOST", "localhost"),
			Port:     env.String("DB_PORT", "5432"),
			User:     env.String("DB_USER", "postgres"),
			Password: env.String("DB_PASSWORD", "password"),
			Name:     env.String("DB_NAME", "duech"),
		},
		Http: httpConfig{
			ListenAddr:      env.String("HTTP_LISTEN_ADDR", ":8080"),
			IdleTimeout:     env.Duration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			ReadTimeout:     env.Duration("HTTP_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    env.Duration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: env.Duration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		RateLimit: rateLimitConfig{
			Enabled:  env.Bool("RATE_LIMIT_ENABLED", false),
			Host:     env.String("REDIS_HOST", "localhost"),
			Port:     env.String("REDIS_PORT", "6379"),
			Password: env.String("REDIS_PASSWORD", ""),
			DB:       env.Int("REDIS_DB", 0),
			Limit:    env.Int("RATE_LIMIT_REQUESTS", 60),
			Window:   env.Duration("RATE_LIMIT_WINDOW", time.Minute),
		},
	}
}
