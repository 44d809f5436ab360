package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, "data/fintrack.db", cfg.Database.Path)
	assert.Equal(t, 24, cfg.Auth.TokenTTLHours)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "statements", cfg.Storage.KeyPrefix)
	assert.Equal(t, "info", cfg.Log.Level)

	// no baked-in secret: startup must refuse until one is configured
	assert.Empty(t, cfg.Auth.JWTSecret)
}
