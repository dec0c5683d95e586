package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfig_resolveSecret(t *testing.T) {
	tests := []struct {
		name       string
		cfg        Config
		wantSecret string
		wantErr    bool
	}{
		{
			name:       "explicit secret kept",
			cfg:        Config{Env: EnvProduction, Auth: Auth{Secret: "s3cr3t"}},
			wantSecret: "s3cr3t",
		},
		{
			name:       "development fallback",
			cfg:        Config{Env: EnvDevelopment},
			wantSecret: defaultJWTSecret,
		},
		{
			name:    "production requires secret",
			cfg:     Config{Env: EnvProduction},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.resolveSecret()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantSecret, tt.cfg.Auth.Secret)
		})
	}
}
