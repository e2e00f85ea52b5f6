package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/reconcile"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "Tally", cfg.App.Name)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.Empty(t, cfg.Server.JWTSecret)
	assert.Equal(t, "postgres://postgres:@localhost:5432/tally?sslmode=disable", cfg.ConnectionString())
	assert.Equal(t, database.Pool{MaxOpenConns: 25, MaxIdleConns: 5, ConnMaxLifetime: 5 * time.Minute}, cfg.Pool())

	table, err := cfg.ReconcileTable()
	require.NoError(t, err)

	assert.Equal(t, reconcile.DefaultThresholds(), table.Thresholds)
	assert.Equal(t, reconcile.DefaultWeights(), table.Weights)
}

func TestLoad_ThresholdsFromEnv(t *testing.T) {
	t.Setenv("RECONCILE_AUTO_LINK_THRESHOLD", "120")
	t.Setenv("RECONCILE_CONFIRM_THRESHOLD", "600")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	table, err := cfg.ReconcileTable()
	require.NoError(t, err)

	assert.Equal(t, reconcile.Thresholds{AutoLink: 120, Confirm: 600}, table.Thresholds)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoad_InvertedThresholds(t *testing.T) {
	t.Setenv("RECONCILE_AUTO_LINK_THRESHOLD", "700")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestReconcileTable_WeightsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte("weights:\n  description: 80\nthresholds:\n  confirm: 450\n"), 0o600))

	t.Setenv("RECONCILE_WEIGHTS_FILE", path)

	cfg, err := config.Load()
	require.NoError(t, err)

	table, err := cfg.ReconcileTable()
	require.NoError(t, err)

	assert.InDelta(t, 80, table.Weights.Description, 1e-9)
	assert.InDelta(t, 1000, table.Weights.OverdueBase, 1e-9)
	assert.InDelta(t, 450, table.Thresholds.Confirm, 1e-9)
	assert.InDelta(t, 80, table.Thresholds.AutoLink, 1e-9)
}

func TestReconcileTable_MissingFile(t *testing.T) {
	t.Setenv("RECONCILE_WEIGHTS_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := config.Load()
	require.NoError(t, err)

	_, err = cfg.ReconcileTable()
	assert.Error(t, err)
}
