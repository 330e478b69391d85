package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `env:"ENV"       env-default:"local"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	ServerAddr   string        `env:"SERVER_ADDR"        env-default:":8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT"  env-default:"10s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT"  env-default:"60s"`

	DatabaseURL string `env:"DATABASE_URL" env-default:"game_shop.db"`

	JWTSecret        string `env:"JWT_SECRET"         env-required:"true"`
	JWTRefreshSecret string `env:"JWT_REFRESH_SECRET" env-required:"true"`
	CookieSecure     bool   `env:"COOKIE_SECURE"      env-default:"false"`

	SessionTTL time.Duration `env:"SESSION_TTL" env-default:"168h"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" env-separator:","`

	ESURL      string `env:"ES_URL"`
	ESUser     string `env:"ES_USER"`
	ESPassword string `env:"ES_PASSWORD"`
	ESIndex    string `env:"ES_INDEX" env-default:"games"`

	Seed bool `env:"SEED" env-default:"true"`
}

// Load reads an optional dotenv file into the process environment and then
// parses the environment into Config.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			log.Printf("notice: %s not loaded: %v, using process environment", envFile, err)
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if err := requireNonEmpty(cfg.JWTSecret, "JWT_SECRET"); err != nil {
		return nil, err
	}
	if err := requireNonEmpty(cfg.JWTRefreshSecret, "JWT_REFRESH_SECRET"); err != nil {
		return nil, err
	}
	cfg.KafkaBrokers = CSV(strings.Join(cfg.KafkaBrokers, ","))

	return &cfg, nil
}

func (c *Config) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 }

func (c *Config) SearchEnabled() bool { return c.ESURL != "" }

// CSV splits a comma separated list and drops blank entries.
func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
