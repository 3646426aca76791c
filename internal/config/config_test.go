package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
env: prod
storage_path: storage/students.db
http_server:
  address: 0.0.0.0:5000
workout_service:
  base_url: http://workouts:5001
  timeout: 3s
postal_service:
  rate_limit: 2
  burst: 4
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "storage/students.db", cfg.StoragePath)
	assert.Equal(t, "0.0.0.0:5000", cfg.Addr)
	assert.Equal(t, 10*time.Second, cfg.HTTPServer.Timeout)
	assert.Equal(t, "http://workouts:5001", cfg.WorkoutService.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.WorkoutService.Timeout)
	assert.Equal(t, 10*time.Second, cfg.PostalService.Timeout)
	assert.Equal(t, 2.0, cfg.PostalService.RateLimit)
	assert.Equal(t, 4, cfg.PostalService.Burst)
	assert.Equal(t, "database/academias.json", cfg.GymsDataset)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
storage_path: storage/students.db
workout_service:
  base_url: http://workouts:5001
`)
	t.Setenv("WORKOUT_BASE_URL", "http://host.docker.internal:5001")
	t.Setenv("STORAGE_PATH", "/data/students.db")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://host.docker.internal:5001", cfg.WorkoutService.BaseURL)
	assert.Equal(t, "/data/students.db", cfg.StoragePath)
	assert.Equal(t, "dev", cfg.Env)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("missing workout service", func(t *testing.T) {
		_, err := Load(writeConfig(t, "storage_path: storage/students.db\n"))
		assert.Error(t, err)
	})
}
