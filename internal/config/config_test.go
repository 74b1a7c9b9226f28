package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	defaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 168*time.Hour, cfg.SessionTTL)
	assert.Equal(t, time.Hour, cfg.ResetTokenTTL)
	assert.False(t, cfg.MailEnabled)
	assert.Equal(t, MailTransportSMTP, cfg.MailTransport)
	assert.Equal(t, devSessionSecret, cfg.SessionSecret)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.CloudinaryConfigured())
	assert.Empty(t, cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.MailTimeout)
}

func TestFromViper_ProductionRequiresSessionSecret(t *testing.T) {
	_, err := FromViper(newViper(map[string]any{"ENV": "production"}))
	assert.ErrorIs(t, err, ErrMissingSessionSecret)

	cfg, err := FromViper(newViper(map[string]any{"ENV": "Production", "SESSION_SECRET": "s3cret", "BASE_URL": "https://inkwell.dev"}))
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.CookieSecure)
}

func TestFromViper_BaseURL(t *testing.T) {
	_, err := FromViper(newViper(map[string]any{"ENV": "production", "SESSION_SECRET": "s3cret"}))
	assert.ErrorIs(t, err, ErrMissingBaseURL)

	cfg, err := FromViper(newViper(map[string]any{"BASE_URL": "https://inkwell.dev/"}))
	require.NoError(t, err)
	assert.Equal(t, "https://inkwell.dev", cfg.BaseURL)
}

func TestFromViper_AllowedOrigins(t *testing.T) {
	cfg, err := FromViper(newViper(map[string]any{
		"ALLOWED_ORIGINS": "https://inkwell.dev, https://www.inkwell.dev,,https://INKWELL.dev",
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://inkwell.dev", "https://www.inkwell.dev"}, cfg.AllowedOrigins)
}

func TestFromViper_Durations(t *testing.T) {
	cfg, err := FromViper(newViper(map[string]any{"RESET_TOKEN_TTL": "30m", "SESSION_TTL": "2h"}))
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.ResetTokenTTL)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)

	_, err = FromViper(newViper(map[string]any{"RESET_TOKEN_TTL": "0s"}))
	assert.Error(t, err)
}

func TestFromViper_RejectsUnknownMailTransport(t *testing.T) {
	_, err := FromViper(newViper(map[string]any{"MAIL_TRANSPORT": "pigeon"}))
	assert.Error(t, err)
}
