package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Policy holds the business rules of the settlement core. Values come from
// settlement.yaml when present, SETTLEMENT_* env vars, then defaults.
type Policy struct {
	CancellationWindow         time.Duration
	DefaultCancellationFee     decimal.Decimal
	DefaultCancellationEnabled bool
	DefaultCommissionRate      decimal.Decimal
	ApprovalQuorum             int
	MinNumber                  int
	MaxNumber                  int
	ReconcileSchedule          string
	SettingsCacheTTL           time.Duration
}

func DefaultPolicy() *Policy {
	return &Policy{
		CancellationWindow:         15 * time.Minute,
		DefaultCancellationFee:     decimal.NewFromInt(10),
		DefaultCancellationEnabled: true,
		DefaultCommissionRate:      decimal.NewFromInt(2),
		ApprovalQuorum:             2,
		MinNumber:                  1,
		MaxNumber:                  50,
		ReconcileSchedule:          "@every 1m",
		SettingsCacheTTL:           30 * time.Second,
	}
}

// LoadPolicy reads the policy file. An empty path searches for settlement.yaml
// in . and ./config; a missing file there is not an error.
func LoadPolicy(path string) (*Policy, error) {
	def := DefaultPolicy()

	v := viper.New()
	v.SetDefault("cancellation.window", def.CancellationWindow)
	v.SetDefault("cancellation.fee_percentage", def.DefaultCancellationFee.String())
	v.SetDefault("cancellation.fee_enabled", def.DefaultCancellationEnabled)
	v.SetDefault("commission.default_percentage", def.DefaultCommissionRate.String())
	v.SetDefault("approval.quorum", def.ApprovalQuorum)
	v.SetDefault("selection.min_number", def.MinNumber)
	v.SetDefault("selection.max_number", def.MaxNumber)
	v.SetDefault("reconcile.schedule", def.ReconcileSchedule)
	v.SetDefault("settings.cache_ttl", def.SettingsCacheTTL)

	v.SetEnvPrefix("SETTLEMENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("settlement")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read policy file: %w", err)
		}
	}

	feePct, err := decimal.NewFromString(v.GetString("cancellation.fee_percentage"))
	if err != nil {
		return nil, fmt.Errorf("invalid cancellation.fee_percentage: %w", err)
	}
	commission, err := decimal.NewFromString(v.GetString("commission.default_percentage"))
	if err != nil {
		return nil, fmt.Errorf("invalid commission.default_percentage: %w", err)
	}

	p := &Policy{
		CancellationWindow:         v.GetDuration("cancellation.window"),
		DefaultCancellationFee:     feePct,
		DefaultCancellationEnabled: v.GetBool("cancellation.fee_enabled"),
		DefaultCommissionRate:      commission,
		ApprovalQuorum:             v.GetInt("approval.quorum"),
		MinNumber:                  v.GetInt("selection.min_number"),
		MaxNumber:                  v.GetInt("selection.max_number"),
		ReconcileSchedule:          v.GetString("reconcile.schedule"),
		SettingsCacheTTL:           v.GetDuration("settings.cache_ttl"),
	}

	if p.ApprovalQuorum < 1 {
		return nil, fmt.Errorf("approval.quorum must be at least 1, got %d", p.ApprovalQuorum)
	}
	if p.MinNumber < 1 || p.MaxNumber < p.MinNumber {
		return nil, fmt.Errorf("invalid selection range [%d,%d]", p.MinNumber, p.MaxNumber)
	}
	return p, nil
}
