package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"lotto-settlement/pkg/config"
	"lotto-settlement/pkg/logger"
	"lotto-settlement/services/settlement/internal/entity"
	"lotto-settlement/services/settlement/internal/repo/persistent"

	"github.com/redis/go-redis/v9"
)

const (
	SettingCommissionRates = "commission_rates"
	SettingCancellationFee = "cancellation_fee"
)

// SettingsUseCase owns the commission and cancellation-fee records. Reads
// never fail: a missing record or a store error yields the policy default.
type SettingsUseCase interface {
	CommissionRateProvider
	CancellationFeeProvider
	UpdateCommissionRates(ctx context.Context, actor entity.Actor, rates entity.CommissionRates) (entity.CommissionRates, error)
	UpdateCancellationFee(ctx context.Context, actor entity.Actor, fee entity.CancellationFee) (entity.CancellationFee, error)
}

type settingsUseCase struct {
	store       persistent.Store
	redisClient *redis.Client
	policy      *config.Policy
	logger      *logger.Logger
}

// NewSettingsUseCase builds the settings usecase. redisClient may be nil, in
// which case every read goes to the store.
func NewSettingsUseCase(store persistent.Store, redisClient *redis.Client, policy *config.Policy, logger *logger.Logger) SettingsUseCase {
	return &settingsUseCase{
		store:       store,
		redisClient: redisClient,
		policy:      policy,
		logger:      logger,
	}
}

func (uc *settingsUseCase) CommissionRates(ctx context.Context) entity.CommissionRates {
	rates := entity.CommissionRates{}
	if !uc.load(ctx, SettingCommissionRates, &rates) {
		return uc.defaultRates()
	}
	return rates
}

func (uc *settingsUseCase) CancellationFee(ctx context.Context) entity.CancellationFee {
	var fee entity.CancellationFee
	if !uc.load(ctx, SettingCancellationFee, &fee) {
		return entity.CancellationFee{
			Percentage: uc.policy.DefaultCancellationFee,
			Enabled:    uc.policy.DefaultCancellationEnabled,
		}
	}
	return fee
}

func (uc *settingsUseCase) UpdateCommissionRates(ctx context.Context, actor entity.Actor, rates entity.CommissionRates) (entity.CommissionRates, error) {
	if err := actor.Require(entity.CapManageSettings); err != nil {
		return nil, err
	}
	if len(rates) == 0 {
		return nil, entity.ErrInvalidSetting.With("commission table is empty")
	}
	if err := rates.Validate(); err != nil {
		return nil, err
	}
	if err := uc.save(ctx, SettingCommissionRates, rates, actor.ID); err != nil {
		return nil, err
	}
	uc.logger.Info("Commission rates updated by %s", actor.ID)
	return rates, nil
}

func (uc *settingsUseCase) UpdateCancellationFee(ctx context.Context, actor entity.Actor, fee entity.CancellationFee) (entity.CancellationFee, error) {
	if err := actor.Require(entity.CapManageSettings); err != nil {
		return entity.CancellationFee{}, err
	}
	if err := fee.Validate(); err != nil {
		return entity.CancellationFee{}, err
	}
	if err := uc.save(ctx, SettingCancellationFee, fee, actor.ID); err != nil {
		return entity.CancellationFee{}, err
	}
	uc.logger.Info("Cancellation fee updated by %s: %s%% enabled=%t", actor.ID, fee.Percentage.String(), fee.Enabled)
	return fee, nil
}

func (uc *settingsUseCase) defaultRates() entity.CommissionRates {
	return entity.CommissionRates{
		entity.StaffTransferRateKey:   uc.policy.DefaultCommissionRate,
		entity.LottoSubmissionRateKey: uc.policy.DefaultCommissionRate,
	}
}

// load reads key from the cache, then the store. It reports false when the
// caller should use the default.
func (uc *settingsUseCase) load(ctx context.Context, key string, out interface{}) bool {
	if uc.redisClient != nil {
		cached, err := uc.redisClient.Get(ctx, cacheKey(key)).Bytes()
		if err == nil && json.Unmarshal(cached, out) == nil {
			return true
		}
		if err != nil && !errors.Is(err, redis.Nil) {
			uc.logger.Warn("Failed to read %s from cache: %v", key, err)
		}
	}

	if err := uc.store.Repos(ctx).Settings.Get(key, out); err != nil {
		if !errors.Is(err, persistent.ErrSettingNotFound) {
			uc.logger.Warn("Failed to read %s, using default: %v", key, err)
		}
		return false
	}

	if uc.redisClient != nil {
		if data, err := json.Marshal(out); err == nil {
			if err := uc.redisClient.Set(ctx, cacheKey(key), data, uc.policy.SettingsCacheTTL).Err(); err != nil {
				uc.logger.Warn("Failed to cache %s: %v", key, err)
			}
		}
	}
	return true
}

func (uc *settingsUseCase) save(ctx context.Context, key string, value interface{}, updatedBy string) error {
	if err := uc.store.Repos(ctx).Settings.Put(key, value, updatedBy); err != nil {
		return fail(uc.logger, "save "+key, err)
	}
	if uc.redisClient != nil {
		if err := uc.redisClient.Del(ctx, cacheKey(key)).Err(); err != nil {
			uc.logger.Warn("Failed to invalidate cached %s: %v", key, err)
		}
	}
	return nil
}

func cacheKey(key string) string {
	return fmt.Sprintf("settings:%s", key)
}
