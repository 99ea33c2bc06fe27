package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	Postgres struct {
		URL string `env:"DATABASE_URL,required"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Auth struct {
		JWTSecret  string        `env:"JWT_SECRET,required"`
		AccessTTL  time.Duration `env:"ACCESS_TTL" envDefault:"1h"`
		RefreshTTL time.Duration `env:"REFRESH_TTL" envDefault:"120h"`
		NonceTTL   time.Duration `env:"NONCE_TTL" envDefault:"5m"`
	}

	Solana struct {
		// RPCURL is optional; with no endpoint configured donation
		// transactions are credited without on-chain confirmation.
		RPCURL string `env:"SOLANA_RPC_URL" envDefault:""`
	}
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		// Missing .env is fine; in production the variables are set directly.
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}
