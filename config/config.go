package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port          string   `env:"PORT" envDefault:"5000"`
	MongoURI      string   `env:"MONGOURI,notEmpty"`
	DBName        string   `env:"DB" envDefault:"hostel_pg_finder"`
	Origins       []string `env:"ORIGIN" envSeparator:","`
	JWTKey        string   `env:"JWT_KEY,notEmpty"`
	RedisAddr     string   `env:"REDIS_ADD"`
	RedisPassword string   `env:"REDIS_PASS"`
	CloudinaryURL string   `env:"CLOUDINARY_URL"`
	AppEnv        string   `env:"APP_ENV" envDefault:"development"`
	LogLevel      string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string   `env:"LOG_FORMAT" envDefault:"json"`
}

func (c Config) Development() bool {
	return c.AppEnv == "development"
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	origins := cfg.Origins[:0]
	for _, o := range cfg.Origins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	cfg.Origins = origins
	return cfg, nil
}
