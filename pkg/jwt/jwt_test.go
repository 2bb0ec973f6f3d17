package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyToken_RoundTrip(t *testing.T) {
	m := NewManager("secret", "authenticated")

	token, err := m.GenerateToken("user-1", time.Minute)
	require.NoError(t, err)

	claims, err := m.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
}

func TestVerifyToken_Expired(t *testing.T) {
	m := NewManager("secret", "")

	token, err := m.GenerateToken("user-1", -time.Minute)
	require.NoError(t, err)

	_, err = m.VerifyToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	token, err := NewManager("one", "").GenerateToken("user-1", time.Minute)
	require.NoError(t, err)

	_, err = NewManager("two", "").VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_WrongAudience(t *testing.T) {
	token, err := NewManager("secret", "anon").GenerateToken("user-1", time.Minute)
	require.NoError(t, err)

	_, err = NewManager("secret", "authenticated").VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_MissingSubject(t *testing.T) {
	raw := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Minute)),
	})
	token, err := raw.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewManager("secret", "").VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_RejectsNoneAlg(t *testing.T) {
	raw := gojwt.NewWithClaims(gojwt.SigningMethodNone, gojwt.RegisteredClaims{Subject: "user-1"})
	token, err := raw.SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewManager("secret", "").VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
