package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/config"
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/errors"
)

func TestLoad(t *testing.T) {
	tempDir := t.TempDir()

	configContent := []byte(`
sample_interval = 2
quality_interval = 3
target_frame_time = 33.33
sample_window = 30
total_budget_mb = 128
texture_budget_mb = 50
audio_budget_mb = 16
low_power_level = 0.25
critical_level = 0.05
log_level = "debug"
telemetry = true
telemetry_db = "/path/to/telemetry.db"
`)
	configPath := filepath.Join(tempDir, "perfgovd.toml")
	require.NoError(t, os.WriteFile(configPath, configContent, 0o600))

	t.Setenv("PERFGOVD_CONFIG", configPath)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.SampleInterval, "Expected SampleInterval 2")
	assert.Equal(t, 3, cfg.QualityInterval, "Expected QualityInterval 3")
	assert.InDelta(t, 33.33, cfg.TargetFrameTime, 0.001, "Expected TargetFrameTime 33.33")
	assert.Equal(t, 30, cfg.SampleWindow, "Expected SampleWindow 30")
	assert.Equal(t, 128, cfg.TotalBudgetMB, "Expected TotalBudgetMB 128")
	assert.Equal(t, 50, cfg.TextureBudgetMB, "Expected TextureBudgetMB 50")
	assert.InDelta(t, 0.25, cfg.LowPowerLevel, 0.001, "Expected LowPowerLevel 0.25")
	assert.InDelta(t, 0.05, cfg.CriticalLevel, 0.001, "Expected CriticalLevel 0.05")
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel debug")
	assert.True(t, cfg.Telemetry, "Expected Telemetry true")
	assert.Equal(t, "/path/to/telemetry.db", cfg.TelemetryDB, "Expected TelemetryDB /path/to/telemetry.db")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PERFGOVD_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := config.Load()
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, 5, cfg.SampleInterval, "Expected default SampleInterval 5")
	assert.Equal(t, 5, cfg.QualityInterval, "Expected default QualityInterval 5")
	assert.Equal(t, 10, cfg.BatteryInterval, "Expected default BatteryInterval 10")
	assert.Equal(t, 30, cfg.SnapshotInterval, "Expected default SnapshotInterval 30")
	assert.Equal(t, 1800, cfg.GCFrameInterval, "Expected default GCFrameInterval 1800")
	assert.InDelta(t, 16.67, cfg.TargetFrameTime, 0.001, "Expected default TargetFrameTime 16.67")
	assert.Equal(t, 60, cfg.SampleWindow, "Expected default SampleWindow 60")
	assert.Equal(t, 120, cfg.HistorySize, "Expected default HistorySize 120")
	assert.InDelta(t, 25.0, cfg.AmbientTemp, 0.001, "Expected default AmbientTemp 25")
	assert.InDelta(t, 0.2, cfg.LowPowerLevel, 0.001, "Expected default LowPowerLevel 0.2")
	assert.InDelta(t, 0.1, cfg.CriticalLevel, 0.001, "Expected default CriticalLevel 0.1")
	assert.False(t, cfg.Monitor, "Expected default Monitor false")
	assert.False(t, cfg.Telemetry, "Expected default Telemetry false")
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel, "Expected default LogLevel info")
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	tempDir := t.TempDir()

	configContent := []byte(`
This is not a valid TOML file
`)
	configPath := filepath.Join(tempDir, "perfgovd.toml")
	require.NoError(t, os.WriteFile(configPath, configContent, 0o600))

	t.Setenv("PERFGOVD_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read config file")
}

func TestInvalidLogLevel(t *testing.T) {
	tempDir := t.TempDir()

	configContent := []byte(`
log_level = "invalid"
`)
	configPath := filepath.Join(tempDir, "perfgovd.toml")
	require.NoError(t, os.WriteFile(configPath, configContent, 0o600))

	t.Setenv("PERFGOVD_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)

	var domainErr errors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, errors.ErrInvalidLogLevel, domainErr.Code())
}

func TestInvalidBudgetSplit(t *testing.T) {
	tempDir := t.TempDir()

	configContent := []byte(`
total_budget_mb = 64
texture_budget_mb = 50
audio_budget_mb = 32
`)
	configPath := filepath.Join(tempDir, "perfgovd.toml")
	require.NoError(t, os.WriteFile(configPath, configContent, 0o600))

	t.Setenv("PERFGOVD_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceed total budget")
}

func TestInvalidBatteryThresholds(t *testing.T) {
	tempDir := t.TempDir()

	// Critical threshold above the low-power threshold is rejected.
	configContent := []byte(`
low_power_level = 0.1
critical_level = 0.2
`)
	configPath := filepath.Join(tempDir, "perfgovd.toml")
	require.NoError(t, os.WriteFile(configPath, configContent, 0o600))

	t.Setenv("PERFGOVD_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)
}

func TestLogLevelFlag(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	t.Setenv("PERFGOVD_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	os.Args = []string{"cmd", "--log-level", "debug"}

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel to be set by flag")
}
