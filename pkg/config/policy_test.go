package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPolicy_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	p, err := LoadPolicy("")
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, p.CancellationWindow)
	assert.Equal(t, 2, p.ApprovalQuorum)
	assert.True(t, p.DefaultCommissionRate.Equal(decimal.NewFromInt(2)))
	assert.True(t, p.DefaultCancellationFee.Equal(decimal.NewFromInt(10)))
	assert.True(t, p.DefaultCancellationEnabled)
	assert.Equal(t, 1, p.MinNumber)
	assert.Equal(t, 50, p.MaxNumber)
	assert.Equal(t, "@every 1m", p.ReconcileSchedule)
}

func TestLoadPolicy_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settlement.yaml")
	content := `
cancellation:
  window: 20m
  fee_percentage: "12.5"
  fee_enabled: false
approval:
  quorum: 3
commission:
  default_percentage: "1.5"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	p, err := LoadPolicy(path)
	require.NoError(t, err)

	assert.Equal(t, 20*time.Minute, p.CancellationWindow)
	assert.True(t, p.DefaultCancellationFee.Equal(decimal.RequireFromString("12.5")))
	assert.False(t, p.DefaultCancellationEnabled)
	assert.Equal(t, 3, p.ApprovalQuorum)
	assert.True(t, p.DefaultCommissionRate.Equal(decimal.RequireFromString("1.5")))
}

func TestLoadPolicy_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SETTLEMENT_APPROVAL_QUORUM", "4")

	p, err := LoadPolicy("")
	require.NoError(t, err)
	assert.Equal(t, 4, p.ApprovalQuorum)
}

func TestLoadPolicy_MissingExplicitFile(t *testing.T) {
	_, err := LoadPolicy(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadPolicy_InvalidQuorum(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SETTLEMENT_APPROVAL_QUORUM", "0")

	_, err := LoadPolicy("")
	assert.Error(t, err)
}
