package main

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	Environment string `mapstructure:"ENVIRONMENT"`
	Version     string `mapstructure:"VERSION"`

	DatabaseURL      string        `mapstructure:"DATABASE_URL"`
	DatabaseName     string        `mapstructure:"DATABASE_NAME"`
	DBMaxOpenConns   int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns   int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxIdleTime    time.Duration `mapstructure:"DB_MAX_IDLE_TIME"`
	MigrationsSource string        `mapstructure:"MIGRATIONS_SOURCE"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	JWTTTL    time.Duration `mapstructure:"JWT_TTL"`

	RateLimitEnabled bool    `mapstructure:"LIMITER_ENABLED"`
	RateLimitRPS     float64 `mapstructure:"LIMITER_RPS"`
	RateLimitBurst   int     `mapstructure:"LIMITER_BURST"`

	TrustedOrigins []string `mapstructure:"CORS_TRUSTED_ORIGINS"`

	RabbitMQURL string `mapstructure:"RABBITMQ_URL"`

	MailHost     string `mapstructure:"MAIL_HOST"`
	MailPort     int    `mapstructure:"MAIL_PORT"`
	MailUser     string `mapstructure:"MAIL_USER"`
	MailPassword string `mapstructure:"MAIL_PASSWORD"`
	MailSender   string `mapstructure:"MAIL_SENDER"`

	TLSCertFile string `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile  string `mapstructure:"TLS_KEY_FILE"`
}

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL must be set")
	ErrMissingJWTSecret   = errors.New("JWT_SECRET must be set")
)

var configDefaults = map[string]any{
	"PORT":              ":8080",
	"ENVIRONMENT":       "development",
	"VERSION":           "1.0.0",
	"DB_MAX_OPEN_CONNS": 25,
	"DB_MAX_IDLE_CONNS": 25,
	"DB_MAX_IDLE_TIME":  "15m",
	"JWT_TTL":           "1h",
	"LIMITER_ENABLED":   true,
	"LIMITER_RPS":       2,
	"LIMITER_BURST":     4,
	"MAIL_PORT":         587,
}

var configKeys = []string{
	"DATABASE_URL", "DATABASE_NAME", "MIGRATIONS_SOURCE", "JWT_SECRET",
	"CORS_TRUSTED_ORIGINS", "RABBITMQ_URL",
	"MAIL_HOST", "MAIL_USER", "MAIL_PASSWORD", "MAIL_SENDER",
	"TLS_CERT_FILE", "TLS_KEY_FILE",
}

// loadConfig reads the environment, seeded from the .env file at path when it exists. A
// missing database url or signing secret is an error.
func loadConfig(path string) (*Config, error) {
	if path != "" {
		err := godotenv.Load(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	v := viper.New()

	for key, value := range configDefaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}

	if config.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	return &config, nil
}
