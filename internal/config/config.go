package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DatabaseURL string
	DBDriver    string

	JWTSecret   []byte
	JWTValidity time.Duration

	OAuthClientID     string
	OAuthClientSecret string

	CORSOrigins []string

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	TokenRateLimit float64
	TokenRateBurst int
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "catalog"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBDriver:    EnvDefault("DB_DRIVER", "pgx"),

		JWTSecret:   []byte(os.Getenv("JWT_SECRET")),
		JWTValidity: EnvDurationDefault("JWT_VALIDITY", 24*time.Hour),

		OAuthClientID:     EnvDefault("OAUTH_CLIENT_ID", "dscatalog"),
		OAuthClientSecret: EnvDefault("OAUTH_CLIENT_SECRET", "dscatalog123"),

		CORSOrigins: CSVDefault(os.Getenv("CORS_ORIGINS"), []string{"*"}),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),

		TokenRateLimit: EnvFloatDefault("TOKEN_RATE_LIMIT", 5),
		TokenRateBurst: EnvIntDefault("TOKEN_RATE_BURST", 10),
	}
}

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
	return out
}

func CSVDefault(v string, def []string) []string {
	if out := CSV(v); len(out) > 0 {
		return out
	}
	return def
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvFloatDefault(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// EnvDurationDefault accepts Go durations ("24h") or plain seconds ("86400").
func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}
