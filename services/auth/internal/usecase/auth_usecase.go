package usecase

import (
	"errors"
	"fmt"
	"time"

	"lotto-settlement/pkg/jwt"
	"lotto-settlement/pkg/logger"
	"lotto-settlement/pkg/queue"
	"lotto-settlement/services/auth/internal/entity"
	"lotto-settlement/services/auth/internal/repo/persistent"

	"golang.org/x/crypto/bcrypt"
)

// EventPublisher sends tasks to the settlement exchange. *queue.Client satisfies it.
type EventPublisher interface {
	Publish(routingKey string, task map[string]interface{}) error
}

type AuthUseCase interface {
	// Register creates an external user and returns a token for it.
	Register(email, username, password string) (*entity.User, string, error)
	Login(email, password string) (*entity.User, string, error)
	GetUser(userID string) (*entity.User, error)
	// CreateUser lets an admin create a user with any role.
	CreateUser(actorRole entity.UserRole, email, username, password string, role entity.UserRole) (*entity.User, error)
}

type authUseCase struct {
	userRepo   persistent.UserRepository
	jwtService *jwt.Service
	publisher  EventPublisher
	logger     *logger.Logger
}

// NewAuthUseCase builds the directory usecase. publisher may be nil.
func NewAuthUseCase(
	userRepo persistent.UserRepository,
	jwtService *jwt.Service,
	publisher EventPublisher,
	logger *logger.Logger,
) AuthUseCase {
	return &authUseCase{
		userRepo:   userRepo,
		jwtService: jwtService,
		publisher:  publisher,
		logger:     logger,
	}
}

func (uc *authUseCase) Register(email, username, password string) (*entity.User, string, error) {
	user, err := uc.create(email, username, password, entity.RoleExternal)
	if err != nil {
		return nil, "", err
	}

	token, err := uc.jwtService.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return nil, "", fmt.Errorf("failed to generate token")
	}
	return user, token, nil
}

func (uc *authUseCase) CreateUser(actorRole entity.UserRole, email, username, password string, role entity.UserRole) (*entity.User, error) {
	if actorRole != entity.RoleAdmin {
		return nil, entity.ErrForbidden
	}
	if !role.Valid() {
		return nil, entity.ErrInvalidRole
	}
	return uc.create(email, username, password, role)
}

func (uc *authUseCase) create(email, username, password string, role entity.UserRole) (*entity.User, error) {
	if err := uc.ensureUnique(email, username); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("Failed to hash password: %v", err)
		return nil, fmt.Errorf("failed to process registration")
	}

	user := &entity.User{
		Email:    email,
		Username: username,
		Password: string(hashedPassword),
		Role:     role,
		IsActive: true,
	}

	if err := uc.userRepo.Create(user); err != nil {
		uc.logger.Error("Failed to create user: %v", err)
		return nil, fmt.Errorf("failed to create user")
	}

	uc.publishRegistered(user)

	user.Password = ""
	return user, nil
}

func (uc *authUseCase) ensureUnique(email, username string) error {
	_, err := uc.userRepo.GetByEmail(email)
	switch {
	case err == nil:
		return entity.ErrEmailTaken
	case !errors.Is(err, entity.ErrUserNotFound):
		uc.logger.Error("Failed to look up email: %v", err)
		return fmt.Errorf("failed to create user")
	}

	_, err = uc.userRepo.GetByUsername(username)
	switch {
	case err == nil:
		return entity.ErrUsernameTaken
	case !errors.Is(err, entity.ErrUserNotFound):
		uc.logger.Error("Failed to look up username: %v", err)
		return fmt.Errorf("failed to create user")
	}
	return nil
}

// publishRegistered asks the settlement service to open the user's wallets.
// Wallets can still be opened on demand when this fails.
func (uc *authUseCase) publishRegistered(user *entity.User) {
	if uc.publisher == nil {
		return
	}
	task := map[string]interface{}{
		"type":       queue.RoutingKeyUserRegistered,
		"user_id":    user.ID,
		"role":       string(user.Role),
		"created_at": time.Now().UTC().Format(time.RFC3339),
	}
	if err := uc.publisher.Publish(queue.RoutingKeyUserRegistered, task); err != nil {
		uc.logger.Error("[QUEUE] Failed to publish user_registered for %s: %v", user.ID, err)
	}
}

func (uc *authUseCase) Login(email, password string) (*entity.User, string, error) {
	user, err := uc.userRepo.GetByEmail(email)
	if err != nil {
		return nil, "", entity.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", entity.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, "", entity.ErrDeactivated
	}

	token, err := uc.jwtService.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return nil, "", fmt.Errorf("failed to generate token")
	}

	user.Password = ""
	return user, token, nil
}

func (uc *authUseCase) GetUser(userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}
