package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
)

type Claims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller attached to a request context.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type ctxKey int

const identityKey ctxKey = iota + 1

func SetAuthContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

var ErrInvalidToken = errors.New("invalid token")

type TokenManager struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokenManager signs HS256 tokens. A zero ttl issues tokens without expiry.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		key: []byte(secret),
		ttl: ttl,
		now: time.Now,
	}
}

func (m *TokenManager) Issue(id Identity) (string, error) {
	now := m.now()
	claims := &Claims{
		ID:    id.ID,
		Email: id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if m.ttl != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.key)
	if err != nil {
		return "", errors.Wrap(err, "token.SignedString")
	}
	return signed, nil
}

// Parse verifies signature and expiry. Every failure is reported as ErrInvalidToken.
func (m *TokenManager) Parse(tokenStr string) (Identity, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.key, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, errors.Wrapf(ErrInvalidToken, "%v", err)
	}
	if claims.ID == "" {
		return Identity{}, errors.Wrap(ErrInvalidToken, "empty subject")
	}
	return Identity{ID: claims.ID, Email: claims.Email}, nil
}
