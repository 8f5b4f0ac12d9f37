// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"strconv"
)

// Defaults for validation behaviour.
const (
	DefaultWorkersValue        = 4
	DefaultPartialListMaxValue = 20
	DefaultSuiteCacheItems     = 64
)

// Config holds all configuration for datavet.
type Config struct {
	ConfDir    string // DATAVET_CONF_DIR, default "conf"
	DataDir    string // DATAVET_DATA_DIR, default "data"
	ProjectDir string // DATAVET_PROJECT_DIR, default "." (project scaffold goes to <dir>/datavet)

	StrictMode      bool // DATAVET_STRICT, default true: failed validations abort the run
	ValidateWorkers int  // DATAVET_WORKERS, default 4
	PartialListMax  int  // DATAVET_PARTIAL_LIST_MAX, default 20 (cap on partial_unexpected_list)
	SuiteCacheItems int  // DATAVET_SUITE_CACHE_ITEMS, default 64

	// Logging configuration
	LogLevel      string // DATAVET_LOG_LEVEL, default "info"
	LogFile       string // DATAVET_LOG_FILE, default "" (stderr only)
	LogJSON       bool   // DATAVET_LOG_JSON, default false
	LogMaxSizeMB  int    // DATAVET_LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // DATAVET_LOG_MAX_BACKUPS, default 3
	LogMaxAgeDays int    // DATAVET_LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // DATAVET_LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		ConfDir:    getEnvString("DATAVET_CONF_DIR", "conf"),
		DataDir:    getEnvString("DATAVET_DATA_DIR", "data"),
		ProjectDir: getEnvString("DATAVET_PROJECT_DIR", "."),

		StrictMode:      getEnvBool("DATAVET_STRICT", true),
		ValidateWorkers: getEnvInt("DATAVET_WORKERS", DefaultWorkersValue),
		PartialListMax:  getEnvInt("DATAVET_PARTIAL_LIST_MAX", DefaultPartialListMaxValue),
		SuiteCacheItems: getEnvInt("DATAVET_SUITE_CACHE_ITEMS", DefaultSuiteCacheItems),

		LogLevel:      getEnvString("DATAVET_LOG_LEVEL", "info"),
		LogFile:       getEnvString("DATAVET_LOG_FILE", ""),
		LogJSON:       getEnvBool("DATAVET_LOG_JSON", false),
		LogMaxSizeMB:  getEnvInt("DATAVET_LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("DATAVET_LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays: getEnvInt("DATAVET_LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("DATAVET_LOG_COMPRESS", true),
	}
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
