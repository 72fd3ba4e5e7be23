package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/shift-pay-engine/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shiftpay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 4, cfg.Recalc.Workers)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  dbPath: /tmp/roster.db
  readTimeout: 5s
logging:
  env: prod
  level: warn
recalc:
  workers: 2
  interval: 30s
  batch: 50
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/tmp/roster.db", cfg.Server.DBPath)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout, "unset keys keep defaults")
	assert.Equal(t, "prod", cfg.Logging.Env)
	assert.Equal(t, 30*time.Second, cfg.Recalc.Interval)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")
	t.Setenv("SHIFTPAY_PORT", "7070")
	t.Setenv("SHIFTPAY_DB", ":memory:")
	t.Setenv("SHIFTPAY_RATES", "rates.yaml")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, ":memory:", cfg.Server.DBPath)
	assert.Equal(t, "rates.yaml", cfg.Rates.File)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{"port out of range", "server:\n  port: 70000\n", nil},
		{"unknown env", "logging:\n  env: staging\n", nil},
		{"zero workers", "recalc:\n  workers: 0\n", nil},
		{"unknown pay cycle", "payroll:\n  cycle: daily\n", nil},
		{"bad anchor", "payroll:\n  anchor: 6/1/2025\n", nil},
		{"bad yaml", "server: [", nil},
		{"bad port env", "", map[string]string{"SHIFTPAY_PORT": "eighty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestPayrollConfig_PeriodConfig(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	pc, err := cfg.Payroll.PeriodConfig()
	require.NoError(t, err)
	assert.Equal(t, "fortnightly", string(pc.Type))
	assert.Equal(t, "2025-01-06", pc.Anchor.String())

	_, err = config.PayrollConfig{Cycle: "weekly"}.PeriodConfig()
	assert.Error(t, err, "weekly cycles need an anchor")

	pc, err = config.PayrollConfig{Cycle: "monthly"}.PeriodConfig()
	require.NoError(t, err)
	assert.True(t, pc.Anchor.IsZero())
}
