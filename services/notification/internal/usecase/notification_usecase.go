package usecase

import (
	"context"
	"fmt"
	"time"

	"lotto-settlement/pkg/logger"
	"lotto-settlement/services/notification/internal/entity"
	"lotto-settlement/services/notification/internal/repo/persistent"

	"github.com/redis/go-redis/v9"
)

type NotificationUseCase interface {
	GetNotifications(ctx context.Context, userID string, limit, offset int) ([]entity.Notification, int64, error)
	Subscribe(ctx context.Context, userID string) *redis.PubSub
	// HandleTask turns one settlement event into inbox notifications.
	HandleTask(task map[string]interface{}) error
}

type notificationUseCase struct {
	notificationRepo persistent.NotificationRepository
	inboxRepo        persistent.InboxRepository
	logger           *logger.Logger
	now              func() time.Time
}

func NewNotificationUseCase(notificationRepo persistent.NotificationRepository, inboxRepo persistent.InboxRepository, logger *logger.Logger) NotificationUseCase {
	return &notificationUseCase{
		notificationRepo: notificationRepo,
		inboxRepo:        inboxRepo,
		logger:           logger,
		now:              time.Now,
	}
}

func (uc *notificationUseCase) GetNotifications(ctx context.Context, userID string, limit, offset int) ([]entity.Notification, int64, error) {
	return uc.inboxRepo.List(ctx, userID, limit, offset)
}

func (uc *notificationUseCase) Subscribe(ctx context.Context, userID string) *redis.PubSub {
	return uc.inboxRepo.Subscribe(ctx, userID)
}

func (uc *notificationUseCase) HandleTask(task map[string]interface{}) error {
	eventType := stringField(task, "type")
	uc.logger.Info("[NOTIFICATION HANDLER] Processing task: type=%s", eventType)

	switch eventType {
	case entity.EventApprovalRequested:
		return uc.handleApprovalRequested(task)
	case entity.EventApprovalDecided:
		return uc.handleApprovalDecided(task)
	case entity.EventPrizesCalculated:
		return uc.handlePrizesCalculated(task)
	case entity.EventPrizeRunFailed:
		return uc.handlePrizeRunFailed(task)
	default:
		return fmt.Errorf("unknown notification type: %q", eventType)
	}
}

func (uc *notificationUseCase) handleApprovalRequested(task map[string]interface{}) error {
	requestedBy := stringField(task, "requested_by")
	recipients, err := uc.notificationRepo.GetUserIDsByRole(entity.RoleManager, entity.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to load approvers: %w", err)
	}

	message := fmt.Sprintf("%s asked for prize approval on lotto %s", uc.displayName(requestedBy), stringField(task, "lotto_id"))
	return uc.deliver(without(recipients, requestedBy), "Approval requested", message, task)
}

func (uc *notificationUseCase) handleApprovalDecided(task map[string]interface{}) error {
	var recipients []string
	if requestedBy := stringField(task, "requested_by"); requestedBy != "" {
		recipients = []string{requestedBy}
	} else {
		ids, err := uc.notificationRepo.GetUserIDsByRole(entity.RoleManager, entity.RoleAdmin)
		if err != nil {
			return fmt.Errorf("failed to load approvers: %w", err)
		}
		recipients = ids
	}

	message := fmt.Sprintf("Approval request %s for lotto %s was %s",
		stringField(task, "request_id"), stringField(task, "lotto_id"), stringField(task, "status"))
	return uc.deliver(recipients, "Approval decided", message, task)
}

func (uc *notificationUseCase) handlePrizesCalculated(task map[string]interface{}) error {
	recipients, err := uc.notificationRepo.GetUserIDsByRole(entity.RoleManager, entity.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to load recipients: %w", err)
	}

	message := fmt.Sprintf("Prizes for lotto %s calculated: %v winners, total payout %s",
		stringField(task, "lotto_id"), task["winners"], stringField(task, "total_payout"))
	return uc.deliver(recipients, "Prizes calculated", message, task)
}

func (uc *notificationUseCase) handlePrizeRunFailed(task map[string]interface{}) error {
	recipients, err := uc.notificationRepo.GetUserIDsByRole(entity.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to load admins: %w", err)
	}

	message := fmt.Sprintf("Prize calculation for lotto %s failed: %s",
		stringField(task, "lotto_id"), stringField(task, "error"))
	return uc.deliver(recipients, "Prize calculation failed", message, task)
}

// deliver pushes one notification per recipient and fails only when every
// push failed.
func (uc *notificationUseCase) deliver(recipients []string, title, message string, task map[string]interface{}) error {
	if len(recipients) == 0 {
		uc.logger.Warn("[NOTIFICATION HANDLER] No recipients for %s", stringField(task, "type"))
		return nil
	}

	ctx := context.Background()
	data := payload(task)
	createdAt := uc.now().UTC().Format(time.RFC3339)

	sent := 0
	var lastErr error
	for _, userID := range recipients {
		notification := &entity.Notification{
			UserID:    userID,
			Title:     title,
			Message:   message,
			Type:      stringField(task, "type"),
			Data:      data,
			CreatedAt: createdAt,
		}
		if err := uc.inboxRepo.Push(ctx, notification); err != nil {
			uc.logger.Error("Failed to send notification to user %s: %v", userID, err)
			lastErr = err
			continue
		}
		sent++
	}

	if sent == 0 {
		return fmt.Errorf("failed to deliver %s: %w", stringField(task, "type"), lastErr)
	}
	uc.logger.Info("Notification %q sent to %d of %d users", title, sent, len(recipients))
	return nil
}

func (uc *notificationUseCase) displayName(userID string) string {
	if userID == "" {
		return "Someone"
	}
	username, err := uc.notificationRepo.GetUsername(userID)
	if err != nil || username == "" {
		return userID
	}
	return username
}

func stringField(task map[string]interface{}, key string) string {
	if v, ok := task[key].(string); ok {
		return v
	}
	return ""
}

func payload(task map[string]interface{}) map[string]interface{} {
	data := make(map[string]interface{}, len(task))
	for k, v := range task {
		if k == "type" || k == "created_at" {
			continue
		}
		data[k] = v
	}
	return data
}

func without(ids []string, exclude string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != exclude {
			out = append(out, id)
		}
	}
	return out
}
