package internal

import (
	"context"
	"fmt"
	"time"

	"lotto-settlement/pkg/logger"
	"lotto-settlement/pkg/queue"
	"lotto-settlement/services/settlement/internal/entity"
	"lotto-settlement/services/settlement/internal/usecase"

	"github.com/robfig/cron/v3"
)

const sweepTimeout = 30 * time.Second

// startWorkers schedules the lotto status sweep and, when a queue is
// connected, opens wallets for newly registered users.
func (a *App) startWorkers(wallets usecase.WalletUseCase, lottos usecase.LottoUseCase) error {
	a.scheduler = cron.New()
	if _, err := a.scheduler.AddFunc(a.policy.ReconcileSchedule, reconcileJob(lottos, a.log)); err != nil {
		return fmt.Errorf("invalid reconcile schedule %q: %w", a.policy.ReconcileSchedule, err)
	}
	a.scheduler.Start()
	a.log.Info("Lotto status sweep scheduled: %s", a.policy.ReconcileSchedule)

	if a.queueClient == nil {
		a.log.Warn("Queue unavailable, wallets open only on demand")
		return nil
	}
	return a.queueClient.Consume(queue.WalletQueueName, provisionWallets(wallets, a.log))
}

func reconcileJob(lottos usecase.LottoUseCase, log *logger.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()

		changed, err := lottos.ReconcileAll(ctx)
		if err != nil {
			log.Error("Lotto status sweep failed: %v", err)
			return
		}
		if changed > 0 {
			log.Info("Lotto status sweep advanced %d lottos", changed)
		}
	}
}

// provisionWallets handles user_registered tasks. Business rejections drop the
// task; infrastructure errors requeue it once.
func provisionWallets(wallets usecase.WalletUseCase, log *logger.Logger) func(task map[string]interface{}) error {
	return func(task map[string]interface{}) error {
		userID, _ := task["user_id"].(string)
		if userID == "" {
			log.Warn("Dropping user_registered task without user_id: %+v", task)
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()

		opened, err := wallets.OpenWallets(ctx, userID)
		if entity.KindOf(err) != "" {
			log.Warn("Dropping user_registered task for %s: %v", userID, err)
			return nil
		}
		if err != nil {
			return fmt.Errorf("open wallets for %s: %w", userID, err)
		}
		log.Info("Opened %d wallets for user %s", len(opened), userID)
		return nil
	}
}
