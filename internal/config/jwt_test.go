package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig(t *testing.T) {
	tests := []struct {
		name      string
		secret    string
		hours     int
		wantHours int
		wantErr   string
	}{
		{name: "default expiration", secret: "0123456789abcdef", hours: 0, wantHours: 24},
		{name: "custom expiration", secret: "0123456789abcdef", hours: 12, wantHours: 12},
		{name: "negative expiration uses default", secret: "0123456789abcdef", hours: -3, wantHours: 24},
		{name: "empty secret", secret: "", hours: 24, wantErr: "required"},
		{name: "short secret", secret: "short", hours: 24, wantErr: "at least 16"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewJWTConfig(tt.secret, tt.hours)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.secret, cfg.Secret)
			assert.Equal(t, tt.wantHours, cfg.ExpirationHours)
		})
	}
}

func TestConfig_JWT(t *testing.T) {
	cfg := validConfig()
	cfg.Server.JWTSecret = "server-secret-1234"
	cfg.Server.TokenExpirationHours = 6

	jwtCfg, err := cfg.JWT()
	require.NoError(t, err)
	assert.Equal(t, "server-secret-1234", jwtCfg.Secret)
	assert.Equal(t, 6, jwtCfg.ExpirationHours)
}
