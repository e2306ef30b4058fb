// Package config reads runtime settings from the environment. A .env file in
// the working directory, when present, fills in variables that are not set.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const minSecretKeyLength = 32

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type Config struct {
	SecretKey         string
	DBPath            string
	Port              string
	DefaultLanguage   string
	CookieSecure      bool
	ProfileAPIURL     string
	ProfileAPIToken   string
	ProfileAPITimeout time.Duration
	LogLevel          string
	LogFormat         string
}

// Load reads envFiles (".env" when none is given) and then the process
// environment. Missing env files are not an error.
func Load(envFiles ...string) (Config, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return Config{}, err
	}
	return FromLookup(os.Getenv)
}

// FromLookup builds the configuration from getenv without touching files.
func FromLookup(getenv func(string) string) (Config, error) {
	secretKey, err := resolveSecretKey(getenv("SECRET_KEY"))
	if err != nil {
		return Config{}, err
	}
	port, err := resolvePort(getenv("PORT"))
	if err != nil {
		return Config{}, err
	}
	cookieSecure, err := parseBool("COOKIE_SECURE", getenv("COOKIE_SECURE"), false)
	if err != nil {
		return Config{}, err
	}
	timeout, err := parseDuration("PROFILE_API_TIMEOUT", getenv("PROFILE_API_TIMEOUT"), 10*time.Second)
	if err != nil {
		return Config{}, err
	}

	return Config{
		SecretKey:         secretKey,
		DBPath:            withDefault(getenv("DB_PATH"), filepath.Join("data", "nestwell.db")),
		Port:              port,
		DefaultLanguage:   withDefault(getenv("DEFAULT_LANGUAGE"), "en"),
		CookieSecure:      cookieSecure,
		ProfileAPIURL:     withDefault(getenv("PROFILE_API_URL"), "http://localhost:8000"),
		ProfileAPIToken:   strings.TrimSpace(getenv("PROFILE_API_TOKEN")),
		ProfileAPITimeout: timeout,
		LogLevel:          withDefault(getenv("LOG_LEVEL"), "info"),
		LogFormat:         withDefault(getenv("LOG_FORMAT"), "text"),
	}, nil
}

// DatabaseOnly reads the settings the operator commands need. It does not
// require a secret key.
func DatabaseOnly(envFiles ...string) (string, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return "", err
	}
	return withDefault(os.Getenv("DB_PATH"), filepath.Join("data", "nestwell.db")), nil
}

func loadEnvFiles(envFiles []string) error {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

func resolveSecretKey(raw string) (string, error) {
	secretKey := strings.TrimSpace(raw)
	if secretKey == "" {
		return "", errors.New("SECRET_KEY is required")
	}
	if _, insecure := insecureSecretKeys[strings.ToLower(secretKey)]; insecure {
		return "", errors.New("SECRET_KEY uses an insecure placeholder value")
	}
	if len(secretKey) < minSecretKeyLength {
		return "", fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return secretKey, nil
}

func resolvePort(raw string) (string, error) {
	port := strings.TrimSpace(raw)
	if port == "" {
		return "8080", nil
	}
	value, err := strconv.Atoi(port)
	if err != nil || value < 1 || value > 65535 {
		return "", fmt.Errorf("PORT must be a number between 1 and 65535, got %q", raw)
	}
	return strconv.Itoa(value), nil
}

func parseBool(key string, raw string, fallback bool) (bool, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, raw)
	}
	return value, nil
}

func parseDuration(key string, raw string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, raw)
	}
	return value, nil
}

func withDefault(raw string, fallback string) string {
	if value := strings.TrimSpace(raw); value != "" {
		return value
	}
	return fallback
}
