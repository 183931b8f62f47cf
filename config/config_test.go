package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/citytraffic/core/prediction"
)

//nolint:gocyclo
func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `server:
  address: ":9000"
  allowed_origins: ["http://localhost:5173"]
model:
  path: "/tmp/models/traffic.json.gz"
training:
  source: "csv"
  csv_path: "data.csv"
  n_estimators: 50
  max_depth: 6
map:
  disable_jitter: true
  locations:
    - name: "Center"
      lat: 43.2
      lng: 76.9
metrics:
  prometheus_enabled: true
logging:
  level: "debug"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"server.address", cfg.Server.Address, ":9000"},
		{"server.allowed_origins", cfg.Server.AllowedOrigins[0], "http://localhost:5173"},
		{"model.path", cfg.Model.Path, "/tmp/models/traffic.json.gz"},
		{"training.source", cfg.Training.Source, "csv"},
		{"training.csv_path", cfg.Training.CSVPath, "data.csv"},
		{"training.n_estimators", cfg.Training.NEstimators, 50},
		{"training.max_depth", *cfg.Training.MaxDepth, 6},
		{"training.seed", cfg.Training.Seed, uint64(42)},
		{"map.disable_jitter", cfg.Map.DisableJitter, true},
		{"map.locations", len(cfg.Map.Locations), 1},
		{"metrics.prometheus_enabled", cfg.Metrics.PrometheusEnabled, true},
		{"metrics.prometheus_port", cfg.Metrics.PrometheusPort, ":9100"},
		{"logging.level", cfg.Logging.Level, "debug"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
	assert.Equal(t, 6, cfg.Training.Options().Forest.MaxDepth)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.Server.Address)
	assert.Equal(t, "ml_models/traffic_model.json.gz", cfg.Model.Path)
	assert.Equal(t, "synthetic", cfg.Training.Source)
	assert.Equal(t, prediction.DefaultLocations, cfg.Map.Locations)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TRAFFIC_SERVER__ADDRESS", ":7000")
	t.Setenv("TRAFFIC_MODEL__PATH", "env/model.json.gz")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Address)
	assert.Equal(t, "env/model.json.gz", cfg.Model.Path)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	bad := map[string]string{
		"source.yaml":  "training:\n  source: database\n",
		"level.yaml":   "logging:\n  level: loud\n",
		"depth.yaml":   "training:\n  max_depth: -1\n",
		"influx.yaml":  "metrics:\n  influx_enabled: true\n",
		"coords.yaml":  "map:\n  locations:\n    - name: x\n      lat: 120\n      lng: 0\n",
		"format.toml":  "x = 1\n",
		"fraction.yml": "training:\n  test_fraction: 1.5\n",
	}
	for name, body := range bad {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		_, err := Load(path)
		assert.Error(t, err, name)
	}
}

func TestTrainingOptionsDepthPerSource(t *testing.T) {
	c := TrainingConfig{Source: "synthetic"}
	c.SetDefaults()
	assert.Equal(t, DefaultSyntheticMaxDepth, c.Options().Forest.MaxDepth)
	c.Source = "csv"
	assert.Equal(t, DefaultCSVMaxDepth, c.Options().Forest.MaxDepth)
	zero := 0
	c.Source = "synthetic"
	c.MaxDepth = &zero
	assert.Equal(t, 0, c.Options().Forest.MaxDepth)
	assert.Equal(t, 100, c.Options().Forest.NEstimators)
	assert.Equal(t, 0.2, c.Options().TestFraction)
}
