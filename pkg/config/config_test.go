package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "MONGO_DB", "S3_BUCKET", "S3_USE_SSL", "VAPID_SUBJECT"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "carebridge", cfg.MongoDatabase)
	assert.Equal(t, "carebridge-attachments", cfg.S3Bucket)
	assert.True(t, cfg.S3UseSSL)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MONGO_DB", "carebridge_test")
	t.Setenv("POSTGRES_CONN_STR", "host=localhost user=cb dbname=cb_test")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("S3_USE_SSL", "false")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "carebridge_test", cfg.MongoDatabase)
	assert.Equal(t, "host=localhost user=cb dbname=cb_test", cfg.PostgresConnStr)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.False(t, cfg.S3UseSSL)
}
