package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, "projects", cfg.Store.Collection)
	assert.Equal(t, "artifacts/price_model.json", cfg.Model.Path)
	assert.Equal(t, 50, cfg.Model.Epochs)
	assert.Equal(t, int64(42), cfg.Model.Seed)
	assert.Equal(t, "firebase_credentials.json", cfg.Firebase.CredentialsPath)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("TRAIN_EPOCHS", "5")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, 5, cfg.Model.Epochs)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
}

func TestLoad_InvalidIntegerFallsBack(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("TRAIN_EPOCHS", "many")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Model.Epochs)
}

func TestValidate(t *testing.T) {
	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "mongo")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mongo")
	})

	t.Run("postgres needs a DSN", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "postgres")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_DSN")
	})

	t.Run("epochs must be positive", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "memory")
		t.Setenv("TRAIN_EPOCHS", "0")
		_, err := Load()
		require.Error(t, err)
	})
}
