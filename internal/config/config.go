package config

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Port                 string
	APIBaseURL           string
	APITimeoutSeconds    int
	DatabaseURL          string
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	QueryCacheTTLSeconds int
	SessionSecret        string
	SessionTTLMinutes    int
	CookieSecure         bool
	LogLevel             string
	LogFormat            string
	LoginRatePerMinute   int
}

// Load reads the environment, falling back to an optional .env file in the
// working directory.
func Load() Config {
	return load(".env")
}

func load(envFile string) Config {
	v := viper.New()
	v.AutomaticEnv()
	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			log.WithError(err).Debug("no .env file, using process environment")
		}
	}

	v.SetDefault("PORT", "8080")
	v.SetDefault("API_BASE_URL", "http://127.0.0.1:8000/api")
	v.SetDefault("API_TIMEOUT_SECONDS", 15)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("QUERY_CACHE_TTL_SECONDS", 30)
	v.SetDefault("SESSION_TTL_MINUTES", 480)
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("LOGIN_RATE_PER_MINUTE", 10)

	cfg := Config{
		Port:                 v.GetString("PORT"),
		APIBaseURL:           strings.TrimSpace(v.GetString("API_BASE_URL")),
		APITimeoutSeconds:    atLeast(v.GetInt("API_TIMEOUT_SECONDS"), 1, 15),
		DatabaseURL:          strings.TrimSpace(v.GetString("DATABASE_URL")),
		RedisAddr:            strings.TrimSpace(v.GetString("REDIS_ADDR")),
		RedisPassword:        v.GetString("REDIS_PASSWORD"),
		RedisDB:              v.GetInt("REDIS_DB"),
		QueryCacheTTLSeconds: atLeast(v.GetInt("QUERY_CACHE_TTL_SECONDS"), 1, 30),
		SessionSecret:        strings.TrimSpace(v.GetString("SESSION_SECRET")),
		SessionTTLMinutes:    atLeast(v.GetInt("SESSION_TTL_MINUTES"), 1, 480),
		CookieSecure:         v.GetBool("COOKIE_SECURE"),
		LogLevel:             strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:            strings.ToLower(v.GetString("LOG_FORMAT")),
		LoginRatePerMinute:   atLeast(v.GetInt("LOGIN_RATE_PER_MINUTE"), 1, 10),
	}

	return cfg
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

// ConfigureLogging applies LOG_LEVEL and LOG_FORMAT to the standard logrus
// logger.
func (c Config) ConfigureLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if c.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
		return
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}

func atLeast(val int, min int, fallback int) int {
	if val < min {
		return fallback
	}
	return val
}
