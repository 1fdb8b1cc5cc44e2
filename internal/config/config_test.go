package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_CreatesTemplateOnFirstRun(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "created template")

	_, statErr := os.Stat(filepath.Join(dir, "config.toml"))
	assert.NoError(t, statErr, "template config written")

	// Second run picks up the template.
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 50.0, cfg.Selection.IVHighThreshold)
	assert.Equal(t, 25.0, cfg.Selection.IVLowThreshold)
	assert.Equal(t, 25.0, cfg.Selection.MinCreditPct)
	assert.Equal(t, 3, cfg.Selection.DTETolerance)
	assert.Equal(t, 0.30, cfg.Scoring.POPWeight)
	assert.Equal(t, 0.05, cfg.Scoring.WidthEfficiencyWeight)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	content := "[selection]\niv_high_threshold = 60.0\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 60.0, cfg.Selection.IVHighThreshold)
	assert.Equal(t, 25.0, cfg.Selection.IVLowThreshold, "unset keys fall back to defaults")
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(""), 0o644))

	t.Setenv("ADVISOR_DB_PATH", "/tmp/override.db")
	t.Setenv("ADVISOR_LOG_LEVEL", "debug")
	t.Setenv("ADVISOR_SERVER_PORT", "9090")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	dir := t.TempDir()
	content := "[selection]\niv_low_threshold = 80.0\niv_high_threshold = 50.0\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "iv_low_threshold must not exceed")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Selection: SelectionConfig{
				IVHighThreshold:   50,
				IVLowThreshold:    25,
				ATMThresholdPct:   2,
				MinCreditPct:      25,
				WidthLowPriceMax:  5,
				WidthMidPrice:     5,
				WidthHighPriceMax: 10,
				WidthTolerancePct: 0.2,
			},
			Scoring: ScoringConfig{
				POPWeight:             0.3,
				RiskRewardWeight:      0.3,
				CreditWeight:          0.25,
				LiquidityWeight:       0.1,
				WidthEfficiencyWeight: 0.05,
			},
			Server: ServerConfig{Host: "127.0.0.1", Port: 8080},
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("iv threshold out of range", func(t *testing.T) {
		cfg := valid()
		cfg.Selection.IVHighThreshold = 150
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative weight rejected", func(t *testing.T) {
		cfg := valid()
		cfg.Scoring.CreditWeight = -0.1
		assert.Error(t, cfg.Validate())
	})

	t.Run("weight above one rejected", func(t *testing.T) {
		cfg := valid()
		cfg.Scoring.POPWeight = 1.5
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad port rejected", func(t *testing.T) {
		cfg := valid()
		cfg.Server.Port = 70000
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero width ceiling rejected", func(t *testing.T) {
		cfg := valid()
		cfg.Selection.WidthLowPriceMax = 0
		assert.Error(t, cfg.Validate())
	})
}
