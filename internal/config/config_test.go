package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("JWT_SECRET", "test-secret")

	LoadConfig()

	assert.Equal(t, "mesob_chatbot.db", AppConfig.DatabaseURL)
	assert.Equal(t, "8080", AppConfig.HTTPPort)
	assert.Equal(t, 2000, AppConfig.ChunkSize)
	assert.Equal(t, 200, AppConfig.ChunkOverlap)
	assert.Nil(t, AppConfig.AdminUsers)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("CHUNK_SIZE", "500")
	t.Setenv("CHUNK_OVERLAP", "50")
	t.Setenv("ADMIN_USERS", "root, ops ,")

	LoadConfig()

	assert.Equal(t, 500, AppConfig.ChunkSize)
	assert.Equal(t, 50, AppConfig.ChunkOverlap)
	require.Equal(t, []string{"root", "ops"}, AppConfig.AdminUsers)

	assert.True(t, IsAdminUser("root"))
	assert.True(t, IsAdminUser("ops"))
	assert.False(t, IsAdminUser("alice"))
}

func TestGetEnvAsIntIgnoresGarbage(t *testing.T) {
	t.Setenv("SOME_INT", "not-a-number")
	assert.Equal(t, 7, getEnvAsInt("SOME_INT", 7))
}
