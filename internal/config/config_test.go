package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validSecret = "0123456789abcdef0123456789abcdef"

func lookupFrom(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestResolveSecretKey(t *testing.T) {
	for _, raw := range []string{"", "  ", "change_me_in_production", "replace_with_at_least_32_random_characters", "too-short-secret"} {
		if _, err := resolveSecretKey(raw); err == nil {
			t.Fatalf("expected error for SECRET_KEY %q", raw)
		}
	}

	secret, err := resolveSecretKey(" " + validSecret + " ")
	if err != nil {
		t.Fatalf("expected valid secret, got error: %v", err)
	}
	if secret != validSecret {
		t.Fatalf("expected %q, got %q", validSecret, secret)
	}
}

func TestResolvePort(t *testing.T) {
	port, err := resolvePort("")
	if err != nil || port != "8080" {
		t.Fatalf("expected default port 8080, got %q (%v)", port, err)
	}

	port, err = resolvePort("9090")
	if err != nil || port != "9090" {
		t.Fatalf("expected port 9090, got %q (%v)", port, err)
	}

	for _, raw := range []string{"0", "70000", "not-a-number", "-1"} {
		if _, err := resolvePort(raw); err == nil {
			t.Fatalf("expected invalid port %q to fail", raw)
		}
	}
}

func TestFromLookupDefaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{"SECRET_KEY": validSecret}))
	if err != nil {
		t.Fatalf("FromLookup() unexpected error: %v", err)
	}

	if cfg.DBPath != filepath.Join("data", "nestwell.db") {
		t.Fatalf("unexpected default DB path %q", cfg.DBPath)
	}
	if cfg.Port != "8080" || cfg.DefaultLanguage != "en" || cfg.CookieSecure {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
	if cfg.ProfileAPIURL != "http://localhost:8000" || cfg.ProfileAPITimeout != 10*time.Second {
		t.Fatalf("unexpected profile API defaults: %#v", cfg)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Fatalf("unexpected log defaults: %#v", cfg)
	}
}

func TestFromLookupOverrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"SECRET_KEY":          validSecret,
		"DB_PATH":             "/tmp/n.db",
		"PORT":                "3000",
		"DEFAULT_LANGUAGE":    "ru",
		"COOKIE_SECURE":       "true",
		"PROFILE_API_URL":     "https://profiles.example.com",
		"PROFILE_API_TOKEN":   " svc-token ",
		"PROFILE_API_TIMEOUT": "2500ms",
		"LOG_LEVEL":           "debug",
		"LOG_FORMAT":          "json",
	}))
	if err != nil {
		t.Fatalf("FromLookup() unexpected error: %v", err)
	}

	want := Config{
		SecretKey:         validSecret,
		DBPath:            "/tmp/n.db",
		Port:              "3000",
		DefaultLanguage:   "ru",
		CookieSecure:      true,
		ProfileAPIURL:     "https://profiles.example.com",
		ProfileAPIToken:   "svc-token",
		ProfileAPITimeout: 2500 * time.Millisecond,
		LogLevel:          "debug",
		LogFormat:         "json",
	}
	if cfg != want {
		t.Fatalf("FromLookup() = %#v, want %#v", cfg, want)
	}
}

func TestFromLookupRejectsInvalidValues(t *testing.T) {
	tests := map[string]map[string]string{
		"missing secret":   {},
		"bad cookie flag":  {"SECRET_KEY": validSecret, "COOKIE_SECURE": "maybe"},
		"bad timeout":      {"SECRET_KEY": validSecret, "PROFILE_API_TIMEOUT": "soon"},
		"negative timeout": {"SECRET_KEY": validSecret, "PROFILE_API_TIMEOUT": "-1s"},
		"bad port":         {"SECRET_KEY": validSecret, "PORT": "http"},
	}
	for name, values := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := FromLookup(lookupFrom(values)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	os.Unsetenv("SECRET_KEY")
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")

	envFile := filepath.Join(t.TempDir(), "test.env")
	content := "SECRET_KEY=" + validSecret + "\nPORT=7070\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.SecretKey != validSecret || cfg.Port != "7070" {
		t.Fatalf("expected values from env file, got %#v", cfg)
	}
}

func TestLoadIgnoresMissingEnvFile(t *testing.T) {
	t.Setenv("SECRET_KEY", validSecret)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("expected missing env file to be ignored, got %v", err)
	}
}
