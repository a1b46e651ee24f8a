// Package config loads process settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env         string `env:"ENV" env-default:"local"`
	Port        string `env:"PORT" env-default:"3000"`
	DatabaseURL string `env:"DATABASE_URL" env-required:"true"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" env-default:"true"`

	Session
	Uploads
	Payments
	Redis
	S3
	Admin
}

type Session struct {
	JWTSecret      string        `env:"JWT_SECRET" env-required:"true"`
	TTL            time.Duration `env:"SESSION_TTL" env-default:"24h"`
	CookieSecure   bool          `env:"COOKIE_SECURE" env-default:"false"`
	CSRFExpiration time.Duration `env:"CSRF_EXPIRATION" env-default:"1h"`
	LoginRateLimit int           `env:"LOGIN_RATE_LIMIT" env-default:"10"`
}

type Uploads struct {
	Dir      string `env:"UPLOAD_DIR" env-default:"uploads"`
	MaxBytes int    `env:"MAX_UPLOAD_BYTES" env-default:"2097152"`
}

type Payments struct {
	MinAmount int64 `env:"MIN_PAYMENT_AMOUNT" env-default:"500"`
}

// Redis is optional; an empty address keeps anti-forgery tokens and rate
// limit counters in process memory.
type Redis struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

// S3 is optional; an empty bucket stores screenshots under Uploads.Dir.
type S3 struct {
	Bucket string `env:"S3_BUCKET"`
	Region string `env:"S3_REGION"`
	Prefix string `env:"S3_PREFIX" env-default:"screenshots/"`
}

// Admin seeds the first administrator when none exists.
type Admin struct {
	Username string `env:"ADMIN_USERNAME"`
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	const op = "config.Load"

	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.DatabaseURL == "" || cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%s: DATABASE_URL and JWT_SECRET must not be empty", op)
	}
	return &cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func (a Admin) Enabled() bool {
	return a.Username != "" && a.Email != "" && a.Password != ""
}
