package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"COOKIE_DOMAIN", "BACKEND_URL", "BACKEND_TIMEOUT", "PORT", "BACKEND_PORT", "ALLOWED_ORIGINS", "SESSION_IDLE_TTL", "DB_URL"} {
		t.Setenv(key, "")
	}

	env, err := Load()
	require.NoError(t, err)

	assert.True(t, env.IsDevelopment)
	assert.Equal(t, "localhost", env.Domain)
	assert.False(t, env.CookieSecure)
	assert.Equal(t, "http://localhost:3000", env.BackendURL)
	assert.Equal(t, time.Duration(0), env.BackendTimeout)
	assert.Equal(t, "8080", env.Port)
	assert.Equal(t, []string{"http://localhost:8080"}, env.AllowedOrigins)
	assert.Equal(t, 30*time.Minute, env.SessionIdleTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("COOKIE_DOMAIN", "study.example.com")
	t.Setenv("BACKEND_URL", "https://api.example.com/")
	t.Setenv("BACKEND_TIMEOUT", "15s")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("SESSION_IDLE_TTL", "5m")

	env, err := Load()
	require.NoError(t, err)

	assert.False(t, env.IsDevelopment)
	assert.True(t, env.CookieSecure)
	assert.Equal(t, "https://api.example.com", env.BackendURL)
	assert.Equal(t, 15*time.Second, env.BackendTimeout)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, env.AllowedOrigins)
	assert.Equal(t, 5*time.Minute, env.SessionIdleTTL)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("SESSION_IDLE_TTL", "soon")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_IDLE_TTL")
}
