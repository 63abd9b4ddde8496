package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 24, cfg.JWTExpiry)
	assert.Equal(t, 7, cfg.RefreshExpiry)
	assert.Equal(t, 15, cfg.LoginTokenTTL)
	assert.Equal(t, 587, cfg.SMTPPort)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("JWT_EXPIRY", "2")
	t.Setenv("SMTP_USE_TLS", "true")
	t.Setenv("LOGIN_TOKEN_TTL", "not-a-number")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2, cfg.JWTExpiry)
	assert.True(t, cfg.SMTPUseTLS)
	// invalid int falls back to the default
	assert.Equal(t, 15, cfg.LoginTokenTTL)
}
