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
	t.Setenv("SNOWDAY_RESORTS_FILE", "does/not/exist.yaml")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "data/snowday.db", cfg.DBPath)
	assert.Equal(t, 3, cfg.FetchMaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.FetchBaseDelay)
	assert.Equal(t, 30*time.Minute, cfg.RefreshInterval)
	assert.True(t, cfg.SchedulerEnabled)
	assert.True(t, cfg.WeatherFallbackEnabled)
	assert.Empty(t, cfg.OllamaURL)

	// Missing resorts file falls back to the built-in set.
	require.Len(t, cfg.Resorts, 3)
	assert.Equal(t, "alpine_peak", cfg.Resorts[0].ID)

	assert.Equal(t, 50.0, cfg.Scoring.BaseScore)
	assert.Equal(t, 18.0, cfg.Scoring.BaseDepthFloor)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SNOWDAY_RESORTS_FILE", "does/not/exist.yaml")
	t.Setenv("SNOWDAY_HTTP_ADDR", ":9999")
	t.Setenv("SNOWDAY_LOG_LEVEL", "debug")
	t.Setenv("SNOWDAY_FETCH_MAX_ATTEMPTS", "5")
	t.Setenv("SNOWDAY_REFRESH_INTERVAL", "10m")
	t.Setenv("SNOWDAY_SCHEDULER_ENABLED", "false")
	t.Setenv("SNOWDAY_OLLAMA_URL", "http://localhost:11434")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5, cfg.FetchMaxAttempts)
	assert.Equal(t, 10*time.Minute, cfg.RefreshInterval)
	assert.False(t, cfg.SchedulerEnabled)
	assert.Equal(t, "http://localhost:11434", cfg.OllamaURL)
}

func TestLoad_ScoringOverrides(t *testing.T) {
	t.Setenv("SNOWDAY_RESORTS_FILE", "does/not/exist.yaml")
	t.Setenv("SNOWDAY_SCORING_BASE_SCORE", "40")
	t.Setenv("SNOWDAY_SCORING_POWDER_BONUS", "20")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 40.0, cfg.Scoring.BaseScore)
	assert.Equal(t, 20.0, cfg.Scoring.PowderBonus)
	// Untouched coefficients keep their defaults.
	assert.Equal(t, 15.0, cfg.Scoring.IcyPenalty)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"SNOWDAY_REFRESH_INTERVAL":   "soon",
		"SNOWDAY_FETCH_MAX_ATTEMPTS": "many",
		"SNOWDAY_SCORING_BASE_SCORE": "high",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("SNOWDAY_RESORTS_FILE", "does/not/exist.yaml")
			t.Setenv(key, value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_InvalidScoringRange(t *testing.T) {
	t.Setenv("SNOWDAY_RESORTS_FILE", "does/not/exist.yaml")
	t.Setenv("SNOWDAY_SCORING_MIN_SCORE", "100")
	t.Setenv("SNOWDAY_SCORING_MAX_SCORE", "50")

	_, err := Load()
	require.Error(t, err)
}

func writeResortsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resorts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ResortsFile(t *testing.T) {
	path := writeResortsFile(t, `
resorts:
  - id: nordic_glen
    name: Nordic Glen
    state: QC
    report_url: https://nordicglen.example.com/conditions
    format: tables
    schema: metric
    latitude: 46.8
    longitude: -71.2
    selectors:
      base: "div#depth"
`)
	t.Setenv("SNOWDAY_RESORTS_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	require.Len(t, cfg.Resorts, 1)
	r := cfg.Resorts[0]
	assert.Equal(t, "nordic_glen", r.ID)
	assert.Equal(t, "Nordic Glen", r.Name)
	assert.Equal(t, "tables", r.Format)
	assert.Equal(t, "metric", r.Schema)
	require.NotNil(t, r.Latitude)
	assert.Equal(t, 46.8, *r.Latitude)
	assert.Equal(t, "div#depth", r.Selectors["base"])
}

func TestLoad_ResortsFileValidation(t *testing.T) {
	t.Run("missing id", func(t *testing.T) {
		path := writeResortsFile(t, `
resorts:
  - name: Nameless
    report_url: https://example.com
`)
		t.Setenv("SNOWDAY_RESORTS_FILE", path)

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing id")
	})

	t.Run("missing report url", func(t *testing.T) {
		path := writeResortsFile(t, `
resorts:
  - id: ghost_mountain
    name: Ghost Mountain
`)
		t.Setenv("SNOWDAY_RESORTS_FILE", path)

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing report_url")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeResortsFile(t, "resorts: [")
		t.Setenv("SNOWDAY_RESORTS_FILE", path)

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("empty resort list", func(t *testing.T) {
		path := writeResortsFile(t, "resorts: []")
		t.Setenv("SNOWDAY_RESORTS_FILE", path)

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no resorts configured")
	})
}
