package configs

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	StoreDriver string
	DBSource    string
	MongoURI    string
	MongoDB     string

	FBServiceKey    string
	FBCredentials   string
	AuthMode        string
	JWTSecret       string
	StripeSecret    string
	SiteDomain      string
	PriorityFee     int64
	PriorityFeeCurr string

	AllowStatusRegression bool
	RequestTimeout        time.Duration
	PaymentRateLimit      float64
	SchedulerSpec         string
	LogLevel              slog.Level
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file loaded", "error", err)
	}

	return &Config{
		Port:                  getEnv("PORT", "8000"),
		StoreDriver:           strings.ToLower(getEnv("STORE_DRIVER", "sqlite")),
		DBSource:              getEnv("DB_SOURCE", "civicreport.db"),
		MongoURI:              getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:               getEnv("MONGO_DB", "CivicReport_db"),
		FBServiceKey:          os.Getenv("FB_SERVICE_KEY"),
		FBCredentials:         os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		AuthMode:              strings.ToLower(getEnv("AUTH_MODE", "firebase")),
		JWTSecret:             os.Getenv("JWT_SECRET_KEY"),
		StripeSecret:          os.Getenv("STRIPE_SECRET"),
		SiteDomain:            strings.TrimRight(getEnv("SITE_DOMAIN", "http://localhost:5173"), "/"),
		PriorityFee:           getInt64("PRIORITY_FEE_CENTS", 100),
		PriorityFeeCurr:       strings.ToLower(getEnv("PRIORITY_FEE_CURRENCY", "usd")),
		AllowStatusRegression: getBool("ALLOW_STATUS_REGRESSION", false),
		RequestTimeout:        getDuration("REQUEST_TIMEOUT", 15*time.Second),
		PaymentRateLimit:      getFloat("PAYMENT_RATE_LIMIT", 10),
		SchedulerSpec:         getEnv("SCHEDULER_SPEC", "0 */5 * * * *"),
		LogLevel:              getLevel("LOG_LEVEL", slog.LevelInfo),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("invalid integer in env, using default", "key", key, "value", v)
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		slog.Warn("invalid number in env, using default", "key", key, "value", v)
		return fallback
	}
	return f
}

func getBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid boolean in env, using default", "key", key, "value", v)
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration in env, using default", "key", key, "value", v)
		return fallback
	}
	return d
}

func getLevel(key string, fallback slog.Level) slog.Level {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		slog.Warn("invalid log level in env, using default", "key", key, "value", v)
		return fallback
	}
	return level
}
