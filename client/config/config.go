package config

import (
	"os"
	"strconv"
	"time"

	"videoDubber/language"
)

type Config struct {
	ServiceURL     string
	TargetLanguage string
	RequestTimeout time.Duration
	Debug          bool
}

// Load reads the client settings from the environment. The status poll
// interval is fixed and deliberately absent here.
func Load() *Config {
	return &Config{
		ServiceURL:     getEnv("DUBBER_URL", "http://localhost:5000"),
		TargetLanguage: getEnv("DUBBER_TARGET_LANGUAGE", language.DefaultTarget),
		RequestTimeout: time.Duration(getEnvAsInt64("REQUEST_TIMEOUT_SECONDS", 0)) * time.Second,
		Debug:          getEnv("DUBBER_DEBUG", "") != "",
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}
