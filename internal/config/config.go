package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"tasktracker/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string
	PublicURL   string // base URL used in confirmation links
	DevMode     bool   // sign-ups are confirmed immediately

	SessionTTL   time.Duration
	CookieSecure bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CORSOrigins []string

	APIRateLimit   int
	APIRateWindow  time.Duration
	AuthRateLimit  int
	AuthRateWindow time.Duration

	LogLevel string
	LogJSON  bool
	LogFile  string
	GinMode  string
}

// Load reads .env (if present) and the process environment. Missing required
// keys are fatal.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	return cfg
}

// FromEnv builds a Config from a lookup function such as os.Getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	dbURL := getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	jwtSecret := getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}

	port := getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	publicURL := strings.TrimRight(getenv("PUBLIC_URL"), "/")
	if publicURL == "" {
		publicURL = "http://localhost:" + port
	}

	var origins []string
	for _, o := range strings.Split(getenv("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return &Config{
		AppPort:     port,
		DatabaseURL: dbURL,
		JWTSecret:   jwtSecret,
		PublicURL:   publicURL,
		DevMode:     getenv("DEV_MODE") == "true",

		SessionTTL:   time.Duration(intOr(getenv("SESSION_TTL_HOURS"), 24)) * time.Hour,
		CookieSecure: getenv("COOKIE_SECURE") == "true",

		RedisAddr:     getenv("REDIS_ADDR"),
		RedisPassword: getenv("REDIS_PASSWORD"),
		RedisDB:       intOr(getenv("REDIS_DB"), 0),

		CORSOrigins: origins,

		APIRateLimit:   intOr(getenv("API_RATE_LIMIT"), 120),
		APIRateWindow:  time.Duration(intOr(getenv("API_RATE_WINDOW_SECONDS"), 60)) * time.Second,
		AuthRateLimit:  intOr(getenv("AUTH_RATE_LIMIT"), 5),
		AuthRateWindow: time.Duration(intOr(getenv("AUTH_RATE_WINDOW_SECONDS"), 60)) * time.Second,

		LogLevel: strOr(getenv("LOG_LEVEL"), "info"),
		LogJSON:  getenv("LOG_JSON") == "true",
		LogFile:  getenv("LOG_FILE"),
		GinMode:  getenv("GIN_MODE"),
	}, nil
}

// intOr parses a non-negative integer, falling back to def.
func intOr(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return def
	}
	return n
}

func strOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
