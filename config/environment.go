package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Environment struct {
	IsDevelopment bool
	Domain        string
	CookieSecure  bool

	BackendURL     string
	BackendTimeout time.Duration
	Port           string
	BackendPort    string
	AllowedOrigins []string
	SessionIdleTTL time.Duration
	DatabaseURL    string
}

// Load reads the environment. It is called after godotenv has had a chance
// to populate the process environment.
func Load() (Environment, error) {
	// Get domain from environment variable
	domain := os.Getenv("COOKIE_DOMAIN")

	// If no domain is set, we're in development
	isDev := domain == ""
	if isDev {
		domain = "localhost"
	}

	env := Environment{
		IsDevelopment:  isDev,
		Domain:         domain,
		CookieSecure:   !isDev,
		BackendURL:     strings.TrimRight(getenv("BACKEND_URL", "http://localhost:3000"), "/"),
		Port:           getenv("PORT", "8080"),
		BackendPort:    getenv("BACKEND_PORT", "3000"),
		AllowedOrigins: splitList(getenv("ALLOWED_ORIGINS", "http://localhost:8080")),
		DatabaseURL:    getenv("DB_URL", "file:studybuddy.db"),
	}

	var err error
	if env.BackendTimeout, err = parseDuration("BACKEND_TIMEOUT", "0"); err != nil {
		return Environment{}, err
	}
	if env.SessionIdleTTL, err = parseDuration("SESSION_IDLE_TTL", "30m"); err != nil {
		return Environment{}, err
	}
	return env, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	raw := getenv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, raw)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
