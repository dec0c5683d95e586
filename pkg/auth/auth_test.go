package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/Astemirdum/lending-service/pkg/auth"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_IssueParse(t *testing.T) {
	t.Parallel()
	id := auth.Identity{ID: "2b1f6a3e-7b8e-4d0f-9a55-2f9f2b0c6d11", Email: "john@example.com"}

	tests := []struct {
		name    string
		issuer  *auth.TokenManager
		parser  *auth.TokenManager
		mutate  func(string) string
		wantErr bool
	}{
		{
			name:   "ok. 30 days",
			issuer: auth.NewTokenManager("secret", 30*24*time.Hour),
			parser: auth.NewTokenManager("secret", 30*24*time.Hour),
		},
		{
			name:   "ok. no expiry",
			issuer: auth.NewTokenManager("secret", 0),
			parser: auth.NewTokenManager("secret", 0),
		},
		{
			name:    "err. expired",
			issuer:  auth.NewTokenManager("secret", -time.Hour),
			parser:  auth.NewTokenManager("secret", time.Hour),
			wantErr: true,
		},
		{
			name:    "err. other secret",
			issuer:  auth.NewTokenManager("secret", time.Hour),
			parser:  auth.NewTokenManager("another", time.Hour),
			wantErr: true,
		},
		{
			name:    "err. malformed",
			issuer:  auth.NewTokenManager("secret", time.Hour),
			parser:  auth.NewTokenManager("secret", time.Hour),
			mutate:  func(s string) string { return s[:len(s)-4] + "abcd" },
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			token, err := tt.issuer.Issue(id)
			require.NoError(t, err)
			if tt.mutate != nil {
				token = tt.mutate(token)
			}

			got, err := tt.parser.Parse(token)
			if tt.wantErr {
				require.ErrorIs(t, err, auth.ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			require.Equal(t, id, got)
		})
	}
}

func TestAuthContext(t *testing.T) {
	_, ok := auth.FromContext(context.Background())
	require.False(t, ok)

	id := auth.Identity{ID: "1", Email: "a@b.c"}
	got, ok := auth.FromContext(auth.SetAuthContext(context.Background(), id))
	require.True(t, ok)
	require.Equal(t, id, got)
}
