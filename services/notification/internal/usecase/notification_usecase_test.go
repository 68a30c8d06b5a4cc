package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"lotto-settlement/pkg/logger"
	"lotto-settlement/services/notification/internal/entity"
	"lotto-settlement/services/notification/internal/repo/persistent"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotificationRepository struct {
	mock.Mock
}

var _ persistent.NotificationRepository = (*MockNotificationRepository)(nil)

func (m *MockNotificationRepository) GetUserIDsByRole(roles ...string) ([]string, error) {
	args := m.Called(roles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockNotificationRepository) GetUsername(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

type MockInboxRepository struct {
	mock.Mock
}

var _ persistent.InboxRepository = (*MockInboxRepository)(nil)

func (m *MockInboxRepository) Push(ctx context.Context, notification *entity.Notification) error {
	args := m.Called(notification)
	return args.Error(0)
}

func (m *MockInboxRepository) List(ctx context.Context, userID string, limit, offset int) ([]entity.Notification, int64, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockInboxRepository) Subscribe(ctx context.Context, userID string) *redis.PubSub {
	return nil
}

func newTestUseCase(repo *MockNotificationRepository, inbox *MockInboxRepository) *notificationUseCase {
	uc := NewNotificationUseCase(repo, inbox, logger.New()).(*notificationUseCase)
	uc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return uc
}

func forUser(userID string) interface{} {
	return mock.MatchedBy(func(n *entity.Notification) bool { return n.UserID == userID })
}

func TestHandleTask_ApprovalRequestedSkipsRequester(t *testing.T) {
	repo := new(MockNotificationRepository)
	inbox := new(MockInboxRepository)
	uc := newTestUseCase(repo, inbox)

	repo.On("GetUserIDsByRole", []string{entity.RoleManager, entity.RoleAdmin}).Return([]string{"m1", "m2", "a1"}, nil)
	repo.On("GetUsername", "m1").Return("manager1", nil)
	inbox.On("Push", forUser("m2")).Return(nil).Once()
	inbox.On("Push", forUser("a1")).Return(nil).Once()

	err := uc.HandleTask(map[string]interface{}{
		"type":         entity.EventApprovalRequested,
		"request_id":   "r1",
		"lotto_id":     "l1",
		"requested_by": "m1",
		"created_at":   "2024-05-01T11:00:00Z",
	})

	require.NoError(t, err)
	inbox.AssertExpectations(t)
	inbox.AssertNotCalled(t, "Push", forUser("m1"))

	sent := inbox.Calls[0].Arguments.Get(0).(*entity.Notification)
	assert.Equal(t, entity.EventApprovalRequested, sent.Type)
	assert.Equal(t, "manager1 asked for prize approval on lotto l1", sent.Message)
	assert.Equal(t, "2024-05-01T12:00:00Z", sent.CreatedAt)
	assert.Equal(t, "r1", sent.Data["request_id"])
	assert.NotContains(t, sent.Data, "type")
	assert.NotContains(t, sent.Data, "created_at")
}

func TestHandleTask_ApprovalDecidedGoesToRequester(t *testing.T) {
	repo := new(MockNotificationRepository)
	inbox := new(MockInboxRepository)
	uc := newTestUseCase(repo, inbox)

	inbox.On("Push", forUser("m1")).Return(nil).Once()

	err := uc.HandleTask(map[string]interface{}{
		"type":         entity.EventApprovalDecided,
		"request_id":   "r1",
		"lotto_id":     "l1",
		"status":       "approved",
		"requested_by": "m1",
	})

	require.NoError(t, err)
	inbox.AssertExpectations(t)
	repo.AssertNotCalled(t, "GetUserIDsByRole", mock.Anything)
	sent := inbox.Calls[0].Arguments.Get(0).(*entity.Notification)
	assert.Equal(t, "Approval request r1 for lotto l1 was approved", sent.Message)
}

func TestHandleTask_PrizeRunFailedGoesToAdmins(t *testing.T) {
	repo := new(MockNotificationRepository)
	inbox := new(MockInboxRepository)
	uc := newTestUseCase(repo, inbox)

	repo.On("GetUserIDsByRole", []string{entity.RoleAdmin}).Return([]string{"a1"}, nil)
	inbox.On("Push", forUser("a1")).Return(nil).Once()

	err := uc.HandleTask(map[string]interface{}{
		"type":     entity.EventPrizeRunFailed,
		"lotto_id": "l1",
		"error":    "insufficient funds",
	})

	require.NoError(t, err)
	sent := inbox.Calls[0].Arguments.Get(0).(*entity.Notification)
	assert.Equal(t, "Prize calculation for lotto l1 failed: insufficient funds", sent.Message)
}

func TestHandleTask_PartialDeliverySucceeds(t *testing.T) {
	repo := new(MockNotificationRepository)
	inbox := new(MockInboxRepository)
	uc := newTestUseCase(repo, inbox)

	repo.On("GetUserIDsByRole", []string{entity.RoleManager, entity.RoleAdmin}).Return([]string{"m1", "a1"}, nil)
	inbox.On("Push", forUser("m1")).Return(errors.New("redis down")).Once()
	inbox.On("Push", forUser("a1")).Return(nil).Once()

	err := uc.HandleTask(map[string]interface{}{
		"type":         entity.EventPrizesCalculated,
		"lotto_id":     "l1",
		"winners":      float64(3),
		"total_payout": "150.00",
	})

	assert.NoError(t, err)
	inbox.AssertExpectations(t)
}

func TestHandleTask_AllDeliveriesFail(t *testing.T) {
	repo := new(MockNotificationRepository)
	inbox := new(MockInboxRepository)
	uc := newTestUseCase(repo, inbox)

	repo.On("GetUserIDsByRole", []string{entity.RoleAdmin}).Return([]string{"a1"}, nil)
	inbox.On("Push", mock.Anything).Return(errors.New("redis down"))

	err := uc.HandleTask(map[string]interface{}{"type": entity.EventPrizeRunFailed})

	assert.ErrorContains(t, err, "redis down")
}

func TestHandleTask_NoRecipients(t *testing.T) {
	repo := new(MockNotificationRepository)
	inbox := new(MockInboxRepository)
	uc := newTestUseCase(repo, inbox)

	repo.On("GetUserIDsByRole", []string{entity.RoleAdmin}).Return([]string{}, nil)

	err := uc.HandleTask(map[string]interface{}{"type": entity.EventPrizeRunFailed})

	assert.NoError(t, err)
	inbox.AssertNotCalled(t, "Push", mock.Anything)
}

func TestHandleTask_RepositoryError(t *testing.T) {
	repo := new(MockNotificationRepository)
	inbox := new(MockInboxRepository)
	uc := newTestUseCase(repo, inbox)

	repo.On("GetUserIDsByRole", []string{entity.RoleManager, entity.RoleAdmin}).Return(nil, errors.New("db down"))

	err := uc.HandleTask(map[string]interface{}{"type": entity.EventPrizesCalculated})

	assert.ErrorContains(t, err, "db down")
}

func TestHandleTask_UnknownType(t *testing.T) {
	uc := newTestUseCase(new(MockNotificationRepository), new(MockInboxRepository))

	err := uc.HandleTask(map[string]interface{}{"type": "new_post"})

	assert.ErrorContains(t, err, "unknown notification type")
}

func TestGetNotifications(t *testing.T) {
	repo := new(MockNotificationRepository)
	inbox := new(MockInboxRepository)
	uc := newTestUseCase(repo, inbox)

	items := []entity.Notification{{UserID: "u1", Title: "Prizes calculated"}}
	inbox.On("List", "u1", 10, 0).Return(items, int64(1), nil)

	got, total, err := uc.GetNotifications(context.Background(), "u1", 10, 0)

	require.NoError(t, err)
	assert.Equal(t, items, got)
	assert.Equal(t, int64(1), total)
}
