package persistent

import (
	"errors"
	"strings"

	"lotto-settlement/services/auth/internal/entity"
	"lotto-settlement/services/auth/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *entity.User) error
	GetByEmail(email string) (*entity.User, error)
	GetByID(id string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	Update(user *entity.User) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *entity.User) error {
	userModel := ToUserModel(user)
	if userModel.ID == "" {
		userModel.ID = uuid.New().String()
	}
	userModel.Email = strings.ToLower(userModel.Email)
	if err := r.db.Create(userModel).Error; err != nil {
		return err
	}
	*user = *ToUserEntity(userModel)
	return nil
}

// GetByEmail matches case-insensitively, the same way recipients are resolved.
func (r *userRepository) GetByEmail(email string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.Where("LOWER(email) = ?", strings.ToLower(email)).First(&userModel).Error; err != nil {
		return nil, notFound(err)
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) GetByID(id string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.Where("id = ?", id).First(&userModel).Error; err != nil {
		return nil, notFound(err)
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) GetByUsername(username string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.Where("username = ?", username).First(&userModel).Error; err != nil {
		return nil, notFound(err)
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) Update(user *entity.User) error {
	userModel := ToUserModel(user)
	return r.db.Save(userModel).Error
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.ErrUserNotFound
	}
	return err
}
