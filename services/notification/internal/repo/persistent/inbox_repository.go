package persistent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lotto-settlement/services/notification/internal/entity"

	"github.com/redis/go-redis/v9"
)

const (
	inboxSize = 100
	inboxTTL  = 30 * 24 * time.Hour
)

// InboxRepository stores the most recent notifications per user and fans
// them out to live subscribers.
type InboxRepository interface {
	Push(ctx context.Context, notification *entity.Notification) error
	List(ctx context.Context, userID string, limit, offset int) ([]entity.Notification, int64, error)
	Subscribe(ctx context.Context, userID string) *redis.PubSub
}

type inboxRepository struct {
	redisClient *redis.Client
}

func NewInboxRepository(redisClient *redis.Client) InboxRepository {
	return &inboxRepository{redisClient: redisClient}
}

func InboxKey(userID string) string {
	return fmt.Sprintf("notifications:%s", userID)
}

func (r *inboxRepository) Push(ctx context.Context, notification *entity.Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	key := InboxKey(notification.UserID)
	pipe := r.redisClient.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, inboxSize-1)
	pipe.Expire(ctx, key, inboxTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	if err := r.redisClient.Publish(ctx, key, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

func (r *inboxRepository) List(ctx context.Context, userID string, limit, offset int) ([]entity.Notification, int64, error) {
	key := InboxKey(userID)

	raw, err := r.redisClient.LRange(ctx, key, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get notifications: %w", err)
	}

	notifications := make([]entity.Notification, 0, len(raw))
	for _, item := range raw {
		var notification entity.Notification
		if err := json.Unmarshal([]byte(item), &notification); err == nil {
			notifications = append(notifications, notification)
		}
	}

	total, err := r.redisClient.LLen(ctx, key).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return notifications, total, nil
}

func (r *inboxRepository) Subscribe(ctx context.Context, userID string) *redis.PubSub {
	return r.redisClient.Subscribe(ctx, InboxKey(userID))
}
