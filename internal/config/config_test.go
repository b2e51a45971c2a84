package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, int32(20), cfg.Database.MaxConns)
	assert.Equal(t, "0.02", cfg.Fees.CommissionRate.String())
	assert.Equal(t, "0.3", cfg.Fees.ProcessorFeeFixed.String())
	assert.True(t, cfg.Fees.DefaultTaxRate.IsZero())
	assert.False(t, cfg.Midtrans.Enabled())
	assert.Equal(t, "@every 1m", cfg.Refunds.SweepSchedule)
	assert.Equal(t, 5*time.Minute, cfg.Refunds.RunTimeout)
}

func TestLoad_FromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORAGE", "MEMORY")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("DEFAULT_TAX_RATE", "0.0725")
	t.Setenv("MIDTRANS_SERVER_KEY", "SB-Mid-server-abc")
	t.Setenv("MIDTRANS_PRODUCTION", "true")
	t.Setenv("REFUND_QUEUE_SIZE", "8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "0.0725", cfg.Fees.Rates().TaxRate.String())
	assert.True(t, cfg.Midtrans.Enabled())
	assert.True(t, cfg.Midtrans.Production)
	assert.Equal(t, 8, cfg.Refunds.QueueSize)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"unknown storage", "STORAGE", "sqlite"},
		{"unknown level", "LOG_LEVEL", "verbose"},
		{"tax rate not a number", "DEFAULT_TAX_RATE", "seven"},
		{"tax rate above half", "DEFAULT_TAX_RATE", "0.6"},
		{"commission of one", "COMMISSION_RATE", "1"},
		{"queue size zero", "REFUND_QUEUE_SIZE", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
