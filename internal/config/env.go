// Package config loads pipeline settings from the environment, optionally
// seeded from a .env file. Data paths, the similarity threshold and the
// Postgres sink are all configured here so runs are reproducible from one
// file.
package config

import (
	"os"
	"strconv"
	"strings"
)

// LoadEnv seeds the process environment from the first .env file found in the
// working directory or its parents. Variables already set win.
func LoadEnv() {
	for _, envPath := range []string{".env", "../.env", "../../.env"} {
		data, err := os.ReadFile(envPath)
		if err != nil {
			continue
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}
			key := strings.TrimSpace(parts[0])
			if os.Getenv(key) == "" {
				os.Setenv(key, strings.TrimSpace(parts[1]))
			}
		}
		return
	}
}

// GetEnv gets an environment variable with a default.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvFloat gets a float environment variable with a default.
func GetEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// GetEnvBool gets a boolean environment variable with a default.
func GetEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return defaultValue
}
