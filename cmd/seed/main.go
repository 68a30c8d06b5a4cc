package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"lotto-settlement/pkg/cache"
	"lotto-settlement/pkg/config"
	"lotto-settlement/pkg/database"
	"lotto-settlement/pkg/logger"
	"lotto-settlement/pkg/models"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedUser struct {
	email    string
	username string
	role     models.UserRole
	balance  int64
}

var testUsers = []seedUser{
	{"admin@test.com", "admin", models.RoleAdmin, 0},
	{"manager1@test.com", "manager_one", models.RoleManager, 0},
	{"manager2@test.com", "manager_two", models.RoleManager, 0},
	{"staff@test.com", "staff_one", models.RoleStaff, 5000},
	{"agent@test.com", "agent_one", models.RoleAgent, 1000},
	{"player@test.com", "player_one", models.RoleExternal, 0},
}

func main() {
	var password string
	flag.StringVar(&password, "password", "password123", "Password for every seeded user")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn("Redis unavailable, settings cache not cleared: %v", err)
		redisClient = nil
	}

	if err := seedDatabase(db, password, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	if redisClient != nil {
		clearSettingsCache(redisClient, log)
		redisClient.Close()
	}

	log.Info("Database seeded successfully!")
}

func seedDatabase(db *gorm.DB, password string, log *logger.Logger) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	var adminID string
	for _, userData := range testUsers {
		user, created, err := ensureUser(db, userData, string(hashedPassword))
		if err != nil {
			return err
		}
		if userData.role == models.RoleAdmin {
			adminID = user.ID
		}
		if !created {
			log.Info("User %s already exists, skipping", user.Username)
			continue
		}
		log.Info("Created %s user: %s (%s)", user.Role, user.Username, user.Email)

		if err := openWallets(db, user, decimal.NewFromInt(userData.balance)); err != nil {
			return fmt.Errorf("failed to open wallets for %s: %w", user.Username, err)
		}
	}

	return seedLottos(db, adminID, log)
}

func ensureUser(db *gorm.DB, data seedUser, hashedPassword string) (*models.User, bool, error) {
	var existing models.User
	err := db.Where("email = ? OR username = ?", data.email, data.username).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to look up %s: %w", data.username, err)
	}

	user := &models.User{
		Email:    data.email,
		Username: data.username,
		Password: hashedPassword,
		Role:     data.role,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create user %s: %w", data.username, err)
	}
	return user, true, nil
}

// openWallets creates the role's wallets and credits the primary one with an
// opening deposit so the ledger explains the balance.
func openWallets(db *gorm.DB, user *models.User, opening decimal.Decimal) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for i, kind := range models.WalletKindsFor(user.Role) {
			wallet := &models.Wallet{OwnerID: user.ID, Kind: kind, Balance: decimal.Zero, Version: 1}
			if i == 0 && opening.IsPositive() {
				wallet.Balance = opening
			}
			if err := tx.Create(wallet).Error; err != nil {
				return err
			}
			if !wallet.Balance.IsPositive() {
				continue
			}
			entry := &models.Transaction{
				WalletID:      wallet.ID,
				OwnerID:       user.ID,
				WalletKind:    kind,
				Type:          "credit",
				Amount:        wallet.Balance,
				BalanceBefore: decimal.Zero,
				BalanceAfter:  wallet.Balance,
				ReferenceType: "deposit",
				Status:        "completed",
				FeeAmount:     decimal.Zero,
				Description:   "Opening balance",
			}
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func seedLottos(db *gorm.DB, createdBy string, log *logger.Logger) error {
	now := time.Now().UTC().Truncate(time.Minute)
	lottos := []*models.Lotto{
		{
			EventName:   "Daily Draw",
			StartDate:   now.Add(-time.Hour),
			EndDate:     now.Add(23 * time.Hour),
			TicketPrice: decimal.NewFromInt(10),
			Frequency:   "daily",
		},
		{
			EventName:   "Weekly Jackpot",
			StartDate:   now.Add(24 * time.Hour),
			EndDate:     now.Add(8 * 24 * time.Hour),
			TicketPrice: decimal.NewFromInt(25),
			Frequency:   "weekly",
		},
	}

	for _, lotto := range lottos {
		var count int64
		if err := db.Model(&models.Lotto{}).Where("event_name = ?", lotto.EventName).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check lotto %s: %w", lotto.EventName, err)
		}
		if count > 0 {
			log.Info("Lotto %s already exists, skipping", lotto.EventName)
			continue
		}

		lotto.Currency = "USD"
		lotto.NumbersToSelect = 6
		lotto.GridsPerTicket = 1
		lotto.IsEnabled = true
		lotto.CreatedBy = createdBy
		lotto.Version = 1
		lotto.Status = lotto.StatusAt(now)
		if err := db.Create(lotto).Error; err != nil {
			return fmt.Errorf("failed to create lotto %s: %w", lotto.EventName, err)
		}
		log.Info("Created lotto: %s (%s)", lotto.EventName, lotto.Status)
	}
	return nil
}

// clearSettingsCache drops cached commission and fee settings so services
// pick up the seeded defaults.
func clearSettingsCache(redisClient *redis.Client, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Del(ctx, "settings:commission_rates", "settings:cancellation_fee").Err(); err != nil {
		log.Warn("Failed to clear settings cache: %v", err)
	}
}
