package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, "game_shop.db", cfg.DatabaseURL)
	assert.Equal(t, 168*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "games", cfg.ESIndex)
	assert.True(t, cfg.Seed)
	assert.False(t, cfg.KafkaEnabled())
	assert.False(t, cfg.SearchEnabled())
}

func TestLoad_MissingSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "")

	_, err := Load("")
	require.Error(t, err)
}

func TestLoad_BlankSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "  ")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_REFRESH_SECRET")

	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")

	_, err = Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_DotEnvFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "")
	t.Setenv("KAFKA_BROKERS", "")

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "JWT_SECRET=a\nJWT_REFRESH_SECRET=b\nKAFKA_BROKERS= k1:9092, ,k2:9092\nES_URL=http://es:9200\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// godotenv never overrides variables that are already set, so unset the
	// ones t.Setenv registered.
	for _, k := range []string{"JWT_SECRET", "JWT_REFRESH_SECRET", "KAFKA_BROKERS"} {
		require.NoError(t, os.Unsetenv(k))
	}
	t.Cleanup(func() { _ = os.Unsetenv("ES_URL") })

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "a", cfg.JWTSecret)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.SearchEnabled())
}

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Nil(t, CSV(" , "))
	assert.Equal(t, []string{"a", "b"}, CSV("a, b,"))
}
