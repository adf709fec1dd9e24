package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenCarriesRole(t *testing.T) {
	svc := NewHMACService("access-secret", "refresh-secret", time.Minute, time.Hour)
	p := Principal{UserID: uuid.New(), Email: "dana@example.com", Role: "manager"}

	tok, err := svc.GenerateAccessToken(p)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, p.UserID, claims.UserID)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.False(t, svc.IsRefreshToken(claims))
}

func TestRefreshToken(t *testing.T) {
	svc := NewHMACService("access-secret", "refresh-secret", time.Minute, time.Hour)
	id := uuid.New()

	tok, err := svc.GenerateRefreshToken(id)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(tok)
	require.NoError(t, err)
	assert.True(t, svc.IsRefreshToken(claims))
	assert.Empty(t, claims.Role)
}

func TestExpiredToken(t *testing.T) {
	svc := NewHMACService("access-secret", "refresh-secret", time.Minute, time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issued }

	tok, err := svc.GenerateAccessToken(Principal{UserID: uuid.New()})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestForeignSecretRejected(t *testing.T) {
	a := NewHMACService("a", "b", time.Minute, time.Hour)
	other := NewHMACService("x", "y", time.Minute, time.Hour)

	tok, err := other.GenerateAccessToken(Principal{UserID: uuid.New()})
	require.NoError(t, err)

	_, err = a.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
