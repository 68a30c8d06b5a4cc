package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"lotto-settlement/pkg/logger"
	"lotto-settlement/pkg/queue"
	"lotto-settlement/services/settlement/internal/entity"
)

// EventPublisher sends notification tasks. *queue.Client satisfies it.
type EventPublisher interface {
	Publish(routingKey string, task map[string]interface{}) error
}

// ArchiveStore keeps a copy of committed prize results. *s3.Client satisfies it.
type ArchiveStore interface {
	UploadFile(key string, body io.Reader, contentType string) (string, error)
}

// CommissionRateProvider returns the current commission table, never failing.
type CommissionRateProvider interface {
	CommissionRates(ctx context.Context) entity.CommissionRates
}

// CancellationFeeProvider returns the current cancellation fee, never failing.
type CancellationFeeProvider interface {
	CancellationFee(ctx context.Context) entity.CancellationFee
}

// Notification task types.
const (
	EventApprovalRequested = "approval_requested"
	EventApprovalDecided   = "approval_decided"
	EventPrizesCalculated  = "prizes_calculated"
	EventPrizeRunFailed    = "prize_run_failed"
)

// notify publishes a notification task. Delivery is best effort: the
// business operation already committed.
func notify(publisher EventPublisher, log *logger.Logger, event string, fields map[string]interface{}) {
	if publisher == nil {
		return
	}
	task := map[string]interface{}{
		"type":       event,
		"created_at": time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range fields {
		task[k] = v
	}
	if err := publisher.Publish(queue.RoutingKeyNotification, task); err != nil {
		log.Warn("Failed to publish %s notification: %v", event, err)
	}
}

// fail passes business rejections through untouched; anything else is an
// infrastructure failure and is logged and wrapped.
func fail(log *logger.Logger, action string, err error) error {
	if entity.KindOf(err) != "" {
		return err
	}
	log.Error("Failed to %s: %v", action, err)
	return fmt.Errorf("failed to %s: %w", action, err)
}
