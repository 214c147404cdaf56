package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Default user agent sent on every upstream request. The portal serves an
// error page to clients that do not look like a desktop browser.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36"

type Config struct {
	Port                 int
	BaseURL              string // upstream portal base, no trailing slash
	UserAgent            string
	RewarmSeconds        int // session freshness window
	TimeoutSeconds       int // per-request upstream timeout
	SessionIdleSeconds   int // evict session entries idle longer than this
	PlaceholderThreshold float64
	Detector             string // "mean" or "luma"
	DBPath               string
	LogDirectory         string
	StaticDir            string
	RateLimit            int // requests per minute per client IP, 0 disables
	CORSOrigins          []string
}

func Load() *Config {
	return &Config{
		Port:                 getEnvAsInt("PORT", 9000),
		BaseURL:              strings.TrimRight(getEnv("BMA_BASE", "http://www.bmatraffic.com"), "/"),
		UserAgent:            getEnv("BMA_UA", defaultUserAgent),
		RewarmSeconds:        getEnvAsInt("REWARM_SECONDS", 25),
		TimeoutSeconds:       getEnvAsInt("TIMEOUT", 10),
		SessionIdleSeconds:   getEnvAsInt("SESSION_IDLE_SECONDS", 250), // 10x the rewarm window
		PlaceholderThreshold: getEnvAsFloat("PLACEHOLDER_THRESHOLD", 250),
		Detector:             getEnv("DETECTOR", "mean"),
		DBPath:               getEnv("DB_PATH", filepath.Join(".", "data", "cctv.db")),
		LogDirectory:         getEnv("LOG_DIR", filepath.Join(".", "logs")),
		StaticDir:            getEnv("STATIC_DIR", filepath.Join(".", "static")),
		RateLimit:            getEnvAsInt("RATE_LIMIT", 120),
		CORSOrigins:          getEnvAsList("CORS_ORIGINS", []string{"*"}), // tighten later
	}
}

// Rewarm returns the session freshness window as a duration.
func (c *Config) Rewarm() time.Duration {
	return time.Duration(c.RewarmSeconds) * time.Second
}

// Timeout returns the per-request upstream timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SessionIdle returns how long an untouched camera session survives before
// the sweep drops it.
func (c *Config) SessionIdle() time.Duration {
	return time.Duration(c.SessionIdleSeconds) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
