package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWarnOnPlaceholders(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("GATEWAY_KEY_SECRET", "")

	log, hook := test.NewNullLogger()
	cfg, err := Load(log)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.StaffTTL)
	assert.Equal(t, "INR", cfg.Gateway.Currency)
	assert.False(t, cfg.IsProdLike())

	warned := map[string]bool{}
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warned[e.Data["key"].(string)] = true
		}
	}
	assert.True(t, warned["JWT_SECRET"])
	assert.True(t, warned["GATEWAY_KEY_SECRET"])
}

func TestLoadRejectsPlaceholdersInProd(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadProdWithSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "release")
	t.Setenv("JWT_SECRET", "s1")
	t.Setenv("OTP_PEPPER", "s2")
	t.Setenv("GATEWAY_KEY_SECRET", "s3")
	t.Setenv("OTP_DEV_CONSOLE", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.True(t, cfg.IsProdLike())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("OTP_TTL", "five minutes")

	_, err := Load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OTP_TTL")
}
