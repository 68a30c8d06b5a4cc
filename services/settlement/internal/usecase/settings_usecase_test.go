package usecase

import (
	"context"
	"testing"

	"lotto-settlement/services/settlement/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_DefaultsWhenUnset(t *testing.T) {
	f := newFixture(t)
	uc := NewSettingsUseCase(f.store, nil, f.policy, f.log)
	ctx := context.Background()

	rates := uc.CommissionRates(ctx)
	assert.True(t, rates.Rate(dec("0"), entity.StaffTransferRateKey).Equal(dec("2")))
	assert.True(t, rates.Rate(dec("0"), entity.LottoSubmissionRateKey).Equal(dec("2")))

	fee := uc.CancellationFee(ctx)
	assert.True(t, fee.Percentage.Equal(dec("10")))
	assert.True(t, fee.Enabled)
}

func TestSettings_Update(t *testing.T) {
	f := newFixture(t)
	uc := NewSettingsUseCase(f.store, nil, f.policy, f.log)
	ctx := context.Background()
	admin := entity.Actor{ID: "admin-1", Role: entity.RoleAdmin}

	_, err := uc.UpdateCommissionRates(ctx, admin, entity.CommissionRates{
		entity.StaffTransferRateKey:    dec("3"),
		entity.AgentToStaff.RateKey(): dec("1.25"),
	})
	require.NoError(t, err)

	rates := uc.CommissionRates(ctx)
	assert.True(t, rates.Rate(dec("2"), entity.AgentToStaff.RateKey(), entity.StaffTransferRateKey).Equal(dec("1.25")))
	assert.True(t, rates.Rate(dec("2"), entity.StaffToAgent.RateKey(), entity.StaffTransferRateKey).Equal(dec("3")))

	_, err = uc.UpdateCancellationFee(ctx, admin, entity.CancellationFee{Percentage: dec("5"), Enabled: false})
	require.NoError(t, err)
	fee := uc.CancellationFee(ctx)
	assert.True(t, fee.Percentage.Equal(dec("5")))
	assert.False(t, fee.Enabled)
}

func TestSettings_UpdateRejections(t *testing.T) {
	f := newFixture(t)
	uc := NewSettingsUseCase(f.store, nil, f.policy, f.log)
	ctx := context.Background()
	admin := entity.Actor{ID: "admin-1", Role: entity.RoleAdmin}
	manager := entity.Actor{ID: "manager-1", Role: entity.RoleManager}

	_, err := uc.UpdateCommissionRates(ctx, manager, entity.CommissionRates{"staff_transfer": dec("1")})
	assert.ErrorIs(t, err, entity.ErrUnauthorized)

	_, err = uc.UpdateCommissionRates(ctx, admin, entity.CommissionRates{})
	assert.ErrorIs(t, err, entity.ErrInvalidSetting)

	_, err = uc.UpdateCommissionRates(ctx, admin, entity.CommissionRates{"staff_transfer": dec("120")})
	assert.ErrorIs(t, err, entity.ErrInvalidSetting)

	_, err = uc.UpdateCancellationFee(ctx, admin, entity.CancellationFee{Percentage: dec("-1"), Enabled: true})
	assert.ErrorIs(t, err, entity.ErrInvalidSetting)

	assert.True(t, uc.CancellationFee(ctx).Percentage.Equal(dec("10")))
}

func TestSettings_FeedTransfers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	settings := NewSettingsUseCase(f.store, nil, f.policy, f.log)
	admin := entity.Actor{ID: "admin-1", Role: entity.RoleAdmin}
	_, err := settings.UpdateCommissionRates(ctx, admin, entity.CommissionRates{entity.StaffTransferRateKey: dec("10")})
	require.NoError(t, err)

	uc := NewTransferUseCase(f.store, settings, f.policy, f.log)
	quote, err := uc.Quote(ctx, entity.AgentToStaff, dec("50"))
	require.NoError(t, err)
	assert.True(t, quote.Fee.Equal(dec("5")))
	assert.True(t, quote.TotalDebit.Equal(dec("55")))
}
