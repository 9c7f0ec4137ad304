// Package config reads typed settings from environment variables.
//
// Every getter falls back to its default when the variable is unset or
// empty. A value that is set but unparseable also falls back, with a
// warning, so a typo in one knob does not stop the server; callers validate
// the final values with the Validate* helpers.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnvString returns the value of an environment variable or the default value if not set.
//
// Example:
//
//	port := GetEnvString("PORT", "8080")
func GetEnvString(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

// GetEnvInt returns the value of an environment variable as an integer.
//
// Example:
//
//	limit := GetEnvInt("OGP_RATE_LIMIT", 30)
func GetEnvInt(key string, defaultValue int) int {
	valueStr := GetEnvString(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		warnInvalid(key, valueStr, strconv.Itoa(defaultValue), err)
		return defaultValue
	}
	return value
}

// GetEnvBool returns the value of an environment variable as a boolean.
// strconv.ParseBool spellings are accepted, plus yes/no and on/off.
//
// Example:
//
//	enabled := GetEnvBool("TRACING_ENABLED", false)
func GetEnvBool(key string, defaultValue bool) bool {
	valueStr := GetEnvString(key, "")
	if valueStr == "" {
		return defaultValue
	}

	switch strings.ToLower(valueStr) {
	case "yes", "on":
		return true
	case "no", "off":
		return false
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		warnInvalid(key, valueStr, strconv.FormatBool(defaultValue), err)
		return defaultValue
	}
	return value
}

// GetEnvDuration returns the value of an environment variable as a time.Duration.
// A Go duration ("30s", "1m30s") is expected; a bare integer is read as seconds.
//
// Example:
//
//	timeout := GetEnvDuration("GAS_TIMEOUT", 20*time.Second)
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := GetEnvString(key, "")
	if valueStr == "" {
		return defaultValue
	}

	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		warnInvalid(key, valueStr, defaultValue.String(), err)
		return defaultValue
	}
	return value
}

// GetEnvStringList returns a comma-separated list of strings from an environment variable.
// Values are trimmed and empty entries dropped; an all-empty list yields the default.
//
// Example:
//
//	origins := GetEnvStringList("CORS_ALLOWED_ORIGINS", nil)
//	// CORS_ALLOWED_ORIGINS="http://localhost:3000, https://bento.example.com"
//	// Result: ["http://localhost:3000", "https://bento.example.com"]
func GetEnvStringList(key string, defaultValue []string) []string {
	valueStr := GetEnvString(key, "")
	if valueStr == "" {
		return defaultValue
	}

	var result []string
	for _, part := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}

func warnInvalid(key, value, defaultValue string, err error) {
	slog.Warn("invalid value for environment variable, using default",
		slog.String("key", key),
		slog.String("value", value),
		slog.String("default", defaultValue),
		slog.String("error", err.Error()))
}
