package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env                string
	Port               string
	GinMode            string
	DBDriver           string
	DatabaseURL        string
	JWTSecret          []byte
	SessionTTL         time.Duration
	RedisURL           string
	KafkaBrokers       []string
	KafkaTopic         string
	AllowedOrigins     []string
	LoginRatePerMinute int
	SeedOnStart        bool
}

// Load reads configuration from the environment, after an optional .env file
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:                getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		GinMode:            os.Getenv("GIN_MODE"),
		DBDriver:           getEnv("DB_DRIVER", "sqlite"),
		DatabaseURL:        getEnv("DATABASE_URL", "food_ordering.db"),
		JWTSecret:          []byte(getEnv("JWT_SECRET", "food_ordering_dev_secret")),
		SessionTTL:         getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		RedisURL:           os.Getenv("REDIS_URL"),
		KafkaBrokers:       splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "order-events"),
		AllowedOrigins:     splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		LoginRatePerMinute: getEnvAsInt("LOGIN_RATE_PER_MINUTE", 20),
		SeedOnStart:        getEnv("SEED_ON_START", "false") == "true",
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(strings.TrimSuffix(part, "/")); part != "" {
			out = append(out, part)
		}
	}
	return out
}
