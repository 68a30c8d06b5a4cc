package usecase

import (
	"context"
	"time"

	"lotto-settlement/pkg/config"
	"lotto-settlement/pkg/logger"
	"lotto-settlement/services/settlement/internal/entity"
	"lotto-settlement/services/settlement/internal/repo/persistent"
)

// LottoUseCase is the lotto catalog. Every read reconciles status against the
// clock and writes the advanced status back.
type LottoUseCase interface {
	Create(ctx context.Context, actor entity.Actor, input entity.LottoInput) (*entity.Lotto, error)
	Get(ctx context.Context, id string) (*entity.Lotto, error)
	List(ctx context.Context) ([]*entity.Lotto, error)
	Update(ctx context.Context, actor entity.Actor, id string, patch entity.LottoPatch) (*entity.Lotto, error)
	Delete(ctx context.Context, actor entity.Actor, id string) error
	SetEnabled(ctx context.Context, actor entity.Actor, id string, enabled bool) (*entity.Lotto, error)
	// ReconcileAll advances every open lotto and returns how many changed.
	ReconcileAll(ctx context.Context) (int, error)
}

type lottoUseCase struct {
	store  persistent.Store
	policy *config.Policy
	logger *logger.Logger
	now    func() time.Time
}

func NewLottoUseCase(store persistent.Store, policy *config.Policy, logger *logger.Logger) LottoUseCase {
	return &lottoUseCase{
		store:  store,
		policy: policy,
		logger: logger,
		now:    time.Now,
	}
}

func (uc *lottoUseCase) Create(ctx context.Context, actor entity.Actor, input entity.LottoInput) (*entity.Lotto, error) {
	if err := actor.Require(entity.CapManageLottos); err != nil {
		return nil, err
	}

	lotto := &entity.Lotto{
		EventName:       input.EventName,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		TicketPrice:     input.TicketPrice,
		Currency:        input.Currency,
		Frequency:       input.Frequency,
		NumbersToSelect: input.NumbersToSelect,
		GridsPerTicket:  input.GridsPerTicket,
		IsEnabled:       true,
		CreatedBy:       actor.ID,
	}
	if lotto.GridsPerTicket == 0 {
		lotto.GridsPerTicket = 1
	}
	if err := entity.ValidateLotto(lotto, uc.policy.MinNumber, uc.policy.MaxNumber); err != nil {
		return nil, err
	}
	lotto.Status = entity.StatusAt(lotto.StartDate, lotto.EndDate, uc.now())

	if err := uc.store.Repos(ctx).Lottos.Create(lotto); err != nil {
		return nil, fail(uc.logger, "create lotto", err)
	}
	uc.logger.Info("Lotto %s (%s) created by %s, status=%s", lotto.ID, lotto.EventName, actor.ID, lotto.Status)
	return lotto, nil
}

func (uc *lottoUseCase) Get(ctx context.Context, id string) (*entity.Lotto, error) {
	lotto, err := uc.store.Repos(ctx).Lottos.Get(id)
	if err != nil {
		return nil, fail(uc.logger, "get lotto", err)
	}
	return uc.reconcile(ctx, lotto), nil
}

func (uc *lottoUseCase) List(ctx context.Context) ([]*entity.Lotto, error) {
	lottos, err := uc.store.Repos(ctx).Lottos.List()
	if err != nil {
		return nil, fail(uc.logger, "list lottos", err)
	}
	for i, lotto := range lottos {
		lottos[i] = uc.reconcile(ctx, lotto)
	}
	return lottos, nil
}

func (uc *lottoUseCase) Update(ctx context.Context, actor entity.Actor, id string, patch entity.LottoPatch) (*entity.Lotto, error) {
	if err := actor.Require(entity.CapManageLottos); err != nil {
		return nil, err
	}

	var updated *entity.Lotto
	err := uc.store.Atomic(ctx, func(r persistent.Repositories) error {
		lotto, err := r.Lottos.Get(id)
		if err != nil {
			return err
		}
		now := uc.now()
		current, _ := entity.Reconcile(*lotto, now)
		if current.Status != entity.LottoPending {
			return entity.ErrNotEditable.With("lotto is %s", current.Status)
		}

		patch.Apply(&current)
		if err := entity.ValidateLotto(&current, uc.policy.MinNumber, uc.policy.MaxNumber); err != nil {
			return err
		}
		current.Status = entity.StatusAt(current.StartDate, current.EndDate, now)
		if err := r.Lottos.Update(&current); err != nil {
			return err
		}
		updated = &current
		return nil
	})
	if err != nil {
		return nil, fail(uc.logger, "update lotto", err)
	}
	return updated, nil
}

func (uc *lottoUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if err := actor.Require(entity.CapManageLottos); err != nil {
		return err
	}

	err := uc.store.Atomic(ctx, func(r persistent.Repositories) error {
		lotto, err := r.Lottos.Get(id)
		if err != nil {
			return err
		}
		current, _ := entity.Reconcile(*lotto, uc.now())
		if current.Status != entity.LottoPending {
			return entity.ErrNotEditable.With("lotto is %s", current.Status)
		}
		count, err := r.Participations.CountByLotto(id)
		if err != nil {
			return err
		}
		if count > 0 {
			return entity.ErrHasParticipations.With("%d participations", count)
		}
		return r.Lottos.Delete(id)
	})
	if err != nil {
		return fail(uc.logger, "delete lotto", err)
	}
	uc.logger.Info("Lotto %s deleted by %s", id, actor.ID)
	return nil
}

func (uc *lottoUseCase) SetEnabled(ctx context.Context, actor entity.Actor, id string, enabled bool) (*entity.Lotto, error) {
	if err := actor.Require(entity.CapManageLottos); err != nil {
		return nil, err
	}

	var updated *entity.Lotto
	err := uc.store.Atomic(ctx, func(r persistent.Repositories) error {
		lotto, err := r.Lottos.Get(id)
		if err != nil {
			return err
		}
		current, _ := entity.Reconcile(*lotto, uc.now())
		current.IsEnabled = enabled
		if err := r.Lottos.Update(&current); err != nil {
			return err
		}
		updated = &current
		return nil
	})
	if err != nil {
		return nil, fail(uc.logger, "toggle lotto", err)
	}
	return updated, nil
}

func (uc *lottoUseCase) ReconcileAll(ctx context.Context) (int, error) {
	lottos, err := uc.store.Repos(ctx).Lottos.ListOpen()
	if err != nil {
		return 0, fail(uc.logger, "list open lottos", err)
	}
	changed := 0
	for _, lotto := range lottos {
		if reconciled := uc.reconcile(ctx, lotto); reconciled.Status != lotto.Status {
			changed++
		}
	}
	return changed, nil
}

// reconcile returns lotto with its status advanced to now. The advanced
// status is written back; a failed write is logged and the reconciled value
// is still returned, since the next read retries it.
func (uc *lottoUseCase) reconcile(ctx context.Context, lotto *entity.Lotto) *entity.Lotto {
	now := uc.now()
	next, changed := entity.Reconcile(*lotto, now)
	if !changed {
		return lotto
	}

	err := uc.store.Atomic(ctx, func(r persistent.Repositories) error {
		stored, err := r.Lottos.Get(lotto.ID)
		if err != nil {
			return err
		}
		fresh, changed := entity.Reconcile(*stored, now)
		if !changed {
			next = fresh
			return nil
		}
		if err := r.Lottos.Update(&fresh); err != nil {
			return err
		}
		next = fresh
		return nil
	})
	if err != nil {
		uc.logger.Warn("Failed to persist status %s for lotto %s: %v", next.Status, lotto.ID, err)
	}
	return &next
}
