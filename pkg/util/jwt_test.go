package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestGenerateTokenPair(t *testing.T) {
	pair, err := GenerateTokenPair(42, "fan@example.com", "user", testSecret, time.Hour, 24*time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := ValidateToken(pair.AccessToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "fan@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.Empty(t, claims.Purpose)

	_, err = ValidateToken(pair.RefreshToken, testSecret)
	assert.NoError(t, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	pair, err := GenerateTokenPair(1, "fan@example.com", "user", testSecret, time.Hour, time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(pair.AccessToken, "other-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	pair, err := GenerateTokenPair(1, "fan@example.com", "user", testSecret, -time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(pair.AccessToken, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := ValidateToken("not.a.token", testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRestoreToken_Purpose(t *testing.T) {
	restore, err := GenerateRestoreToken(7, "gone@example.com", testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateRestoreToken(restore, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, PurposeAccountRestore, claims.Purpose)

	// A restore token must never pass as a session token.
	_, err = ValidateToken(restore, testSecret)
	assert.ErrorIs(t, err, ErrWrongPurpose)
}

func TestValidateRestoreToken_RejectsSessionToken(t *testing.T) {
	pair, err := GenerateTokenPair(7, "fan@example.com", "user", testSecret, time.Hour, time.Hour)
	require.NoError(t, err)

	_, err = ValidateRestoreToken(pair.AccessToken, testSecret)
	assert.ErrorIs(t, err, ErrWrongPurpose)
}
