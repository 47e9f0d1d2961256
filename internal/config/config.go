package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/aleixpv/fortuna/internal/auth"
)

type Config struct {
	ServerPort string `env:"SERVER_PORT" env-default:"8080"`

	DBHost     string `env:"DB_HOST" env-default:"localhost"`
	DBPort     string `env:"DB_PORT" env-default:"5432"`
	DBUser     string `env:"DB_USER" env-default:"fortuna"`
	DBPassword string `env:"DB_PASSWORD" env-default:"fortuna_dev_password"`
	DBName     string `env:"DB_NAME" env-default:"fortuna"`

	RedisAddr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" env-default:""`
	RedisDB       int    `env:"REDIS_DB" env-default:"0"`

	JWTSecret string        `env:"JWT_SECRET" env-default:"dev-secret-change-me"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" env-default:"1h"`

	CookieSecure bool `env:"COOKIE_SECURE" env-default:"false"`

	UploadDir     string `env:"UPLOAD_DIR" env-default:"uploads"`
	MigrationsDir string `env:"MIGRATIONS_DIR" env-default:"migrations"`

	// argon2id work factor
	HashTime     uint32 `env:"HASH_TIME" env-default:"1"`
	HashMemoryKB uint32 `env:"HASH_MEMORY_KB" env-default:"65536"`
	HashThreads  uint8  `env:"HASH_THREADS" env-default:"4"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	return &cfg, nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func (c *Config) HashParams() auth.HashParams {
	return auth.HashParams{
		Time:     c.HashTime,
		MemoryKB: c.HashMemoryKB,
		Threads:  c.HashThreads,
	}
}
