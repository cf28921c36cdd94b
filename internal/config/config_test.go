package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFillsDefaults(t *testing.T) {
	path := writeConfig(t, "jwt_secret: s3cret\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, defaultPort, cfg.Port)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, defaultBucket, cfg.Storage.Bucket)
	assert.Equal(t, defaultHeroFolder, cfg.Storage.Folders.Hero)
	assert.Equal(t, defaultImagesFolder, cfg.Storage.Folders.Images)
	assert.Equal(t, defaultDocumentsFolder, cfg.Storage.Folders.Documents)
	assert.Equal(t, defaultDevelopersFolder, cfg.Storage.Folders.Developers)
}

func TestLoadRejectsBadPort(t *testing.T) {
	path := writeConfig(t, "port: 99999\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestDatabaseDSNValue(t *testing.T) {
	explicit := DatabaseConfig{DSN: "host=db user=u password=p dbname=x port=5432 sslmode=require"}
	assert.Equal(t, explicit.DSN, explicit.DSNValue())

	built := DatabaseConfig{Host: "db.internal", Port: 5433, User: "re", Password: "pw", Name: "estate"}
	assert.Equal(t,
		"host=db.internal user=re password=pw dbname=estate port=5433 sslmode=disable",
		built.DSNValue())
}

func TestRedisURLValue(t *testing.T) {
	assert.Equal(t, "redis://cache:6379", RedisConfig{URL: "cache:6379"}.URLValue())
	assert.Equal(t, "redis://localhost:6379/0", RedisConfig{}.URLValue())
	assert.Equal(t, "redis://host:6380/2", RedisConfig{Host: "host", Port: 6380, DB: 2}.URLValue())
}
