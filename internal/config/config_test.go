package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, StorageMemory, cfg.Server.Storage)
	assert.True(t, cfg.Server.Seed)
	assert.Equal(t, "http://localhost:8080", cfg.Client.ServerURL)
	assert.Equal(t, 10*time.Second, cfg.Client.Timeout.Std())
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	doc := `
server:
  addr: ":9090"
  storage: sqlite
  sqlite_path: /tmp/board.db
  seed: false
client:
  server_url: http://board.local:9090
  timeout: 5s
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, StorageSQLite, cfg.Server.Storage)
	assert.Equal(t, "/tmp/board.db", cfg.Server.SQLitePath)
	assert.False(t, cfg.Server.Seed)
	assert.Equal(t, "http://board.local:9090", cfg.Client.ServerURL)
	assert.Equal(t, 5*time.Second, cfg.Client.Timeout.Std())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Server.Storage = "redis"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Server.Storage = StorageS3
	assert.Error(t, cfg.Validate(), "s3 without endpoint/bucket must fail")
	cfg.Server.S3.Endpoint = "http://localhost:9000"
	cfg.Server.S3.Bucket = "kanbo"
	assert.NoError(t, cfg.Validate())

	cfg = Default()
	cfg.Client.Timeout = 0
	assert.Error(t, cfg.Validate())
}
