package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("STORAGE", StorageLocal)
	t.Setenv("SIGN", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, 80, cfg.Port)
	assert.Equal(t, ":80", cfg.Addr())
	assert.Equal(t, StorageLocal, cfg.Storage)
	assert.Equal(t, "./database/conferences.json", cfg.LocalDBPath)
	assert.Equal(t, 8*time.Hour, cfg.TokenTTL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("PORT", "8080")
	t.Setenv("MONGODB_CONNSTRING", "mongodb://localhost:27017")
	t.Setenv("MONGODB_DATABASE", "mun")
	t.Setenv("SIGN", "secret")
	t.Setenv("TOKEN_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, StorageMongo, cfg.Storage)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "mun", cfg.MongoDatabase)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
}

func TestLoadRejectsIncompleteConfig(t *testing.T) {
	tests := []struct {
		description string
		env         map[string]string
	}{
		{"mongo without connection string", map[string]string{"SIGN": "secret"}},
		{"missing signing key", map[string]string{"STORAGE": StorageLocal}},
		{"unknown storage", map[string]string{"STORAGE": "redis", "SIGN": "secret"}},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			t.Setenv("ENV", "test")
			t.Setenv("STORAGE", "")
			t.Setenv("SIGN", "")
			t.Setenv("MONGODB_CONNSTRING", "")
			for k, v := range test.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestGetSecret(t *testing.T) {
	t.Setenv("CONFERENCE_TEST_SECRET", "value")

	val, err := GetSecret("CONFERENCE_TEST_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "value", val)

	_, err = GetSecret("CONFERENCE_TEST_SECRET_MISSING")
	assert.Error(t, err)
}
