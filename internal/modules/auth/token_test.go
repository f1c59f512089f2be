package auth

import (
	"testing"
	"time"

	"github.com/georgemunganga/marketplace-backend/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestGenerateAndParseToken(t *testing.T) {
	id := uuid.New()
	token, err := GenerateToken(id, testSecret, time.Hour)
	require.NoError(t, err)

	got, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken(uuid.New(), testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, testSecret)
	require.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken(uuid.New(), testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, []byte("other"))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.NewString()},
	})
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)

	_, err = ParseToken(signed, testSecret)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_BadSubject(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "not-a-uuid"},
	})
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)

	_, err = ParseToken(signed, testSecret)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}
