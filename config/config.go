package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP/WebSocket server settings (spec §6.4).
type ServerConfig struct {
	Port               string
	Env                string // NODE_ENV: "development" | "production" | "test"
	WSPublicURL        string // NEXT_PUBLIC_WS_URL
	CORSAllowedOrigins []string
	ReadTimeout        int
	WriteTimeout       int
}

// StoreConfig holds the single-file JSON persistence settings (spec §4.1).
type StoreConfig struct {
	FilePath string
}

// RedisConfig holds Redis connection settings, used only by the rate
// limiter. Addr empty means "no redis": the limiter falls back to an
// in-process fixed-window counter.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds JWT validation settings for the Gateway's optional HTTP
// auth surface. It is never consulted on the join_room WebSocket path.
type JWTConfig struct {
	Secret      string
	ExpireHours int
}

// RateLimitConfig holds the inbound wire-event limiter parameters. Burst is
// the number of events a socket may send per one-second window;
// EventsPerSecond is not read by the limiter.
type RateLimitConfig struct {
	EventsPerSecond int
	Burst           int
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	readTimeout, _ := strconv.Atoi(getEnv("READ_TIMEOUT_SEC", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("WRITE_TIMEOUT_SEC", "30"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	jwtExpire, _ := strconv.Atoi(getEnv("JWT_EXPIRE_HOURS", "24"))

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			Env:                getEnv("NODE_ENV", "development"),
			WSPublicURL:        getEnv("NEXT_PUBLIC_WS_URL", "ws://localhost:8080/ws"),
			CORSAllowedOrigins: splitTrim(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
			ReadTimeout:        readTimeout,
			WriteTimeout:       writeTimeout,
		},
		Store: StoreConfig{
			FilePath: getEnv("STORE_FILE_PATH", "data/db.json"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "change-me-in-production"),
			ExpireHours: jwtExpire,
		},
		RateLimit: RateLimitConfig{
			EventsPerSecond: getEnvInt("RATE_LIMIT_EVENTS_PER_SEC", 10),
			Burst:           getEnvInt("RATE_LIMIT_BURST", 20),
		},
	}
	return cfg, nil
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func splitTrim(s, sep string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(s, sep) {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
