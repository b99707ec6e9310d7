package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biniyam93/A-Mesob-Chatbot/internal/config"
)

func TestJWTRoundTrip(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	token, err := GenerateJWT("42")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "42", subject)
}

func TestValidateJWTRejectsTampering(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	token, err := GenerateJWT("42")
	require.NoError(t, err)

	_, err = ValidateJWT(token + "x")
	assert.Error(t, err)

	config.AppConfig.JWTSecret = "a-different-secret"
	_, err = ValidateJWT(token)
	assert.Error(t, err, "a token signed under another secret is rejected")
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	_, err := ValidateJWT("not-a-token")
	assert.Error(t, err)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, CheckPasswordHash("hunter2", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
	assert.False(t, CheckPasswordHash("hunter2", "not-a-hash"))
}
