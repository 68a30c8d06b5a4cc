package persistent

import (
	"strings"

	"lotto-settlement/services/settlement/internal/entity"
	"lotto-settlement/services/settlement/internal/model"
)

// UserRepository is the read side of the user directory.
type UserRepository interface {
	GetByID(id string) (*entity.DirectoryUser, error)
	FindByEmailAndRole(email string, role entity.Role) ([]*entity.DirectoryUser, error)
}

type userRepository struct {
	conn
}

func (r *userRepository) GetByID(id string) (*entity.DirectoryUser, error) {
	var userModel model.UserModel
	if err := r.db.Where("id = ?", id).First(&userModel).Error; err != nil {
		return nil, notFound(err, entity.ErrUserNotFound)
	}
	return ToDirectoryUser(&userModel), nil
}

func (r *userRepository) FindByEmailAndRole(email string, role entity.Role) ([]*entity.DirectoryUser, error) {
	var userModels []model.UserModel
	err := r.db.Where("LOWER(email) = ? AND role = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(email)), string(role), true).
		Limit(2).Find(&userModels).Error
	if err != nil {
		return nil, err
	}

	users := make([]*entity.DirectoryUser, len(userModels))
	for i := range userModels {
		users[i] = ToDirectoryUser(&userModels[i])
	}
	return users, nil
}
