package persistent

import (
	"lotto-settlement/services/notification/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	// GetUserIDsByRole returns active users holding any of roles.
	GetUserIDsByRole(roles ...string) ([]string, error)
	GetUsername(userID string) (string, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) GetUserIDsByRole(roles ...string) ([]string, error) {
	if len(roles) == 0 {
		return nil, nil
	}
	var userModels []model.UserModel
	err := r.db.Select("id").
		Where("role IN ? AND is_active = ? AND deleted_at IS NULL", roles, true).
		Order("created_at ASC").
		Find(&userModels).Error
	if err != nil {
		return nil, err
	}
	return toUserIDs(userModels), nil
}

func (r *notificationRepository) GetUsername(userID string) (string, error) {
	var userModel model.UserModel
	if err := r.db.Select("username").Where("id = ?", userID).First(&userModel).Error; err != nil {
		return "", err
	}
	return userModel.Username, nil
}
