package persistent

import (
	"context"
	"errors"
	"fmt"

	"lotto-settlement/services/settlement/internal/entity"
	"lotto-settlement/services/settlement/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxAtomicAttempts = 3

// Repositories is the set of repositories bound to one connection or transaction.
type Repositories struct {
	Wallets        WalletRepository
	Transactions   TransactionRepository
	Transfers      TransferRepository
	Lottos         LottoRepository
	Participations ParticipationRepository
	Prizes         PrizeResultRepository
	Approvals      ApprovalRepository
	Settings       SettingsRepository
	Users          UserRepository
}

// Store is the unit of work over the settlement tables.
type Store interface {
	// Repos returns repositories for plain reads outside a transaction.
	Repos(ctx context.Context) Repositories
	// Atomic runs fn in one transaction. Reads inside lock the rows they
	// return, so fn must take them in a fixed order: lotto, participations,
	// wallets by (owner, kind), approval rows. Versioned writes that lose a
	// race, deadlocks and serialization failures retry the whole fn.
	Atomic(ctx context.Context, fn func(r Repositories) error) error
}

type store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) Repos(ctx context.Context) Repositories {
	return newRepositories(s.db.WithContext(ctx), false)
}

func (s *store) Atomic(ctx context.Context, fn func(r Repositories) error) error {
	var err error
	for attempt := 1; attempt <= maxAtomicAttempts; attempt++ {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(newRepositories(tx, true))
		})
		if !retryable(err) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
	return err
}

// Postgres aborts one side of a deadlock or serialization conflict; the
// transaction is safe to run again.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

func retryable(err error) bool {
	if errors.Is(err, entity.ErrConflict) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgDeadlockDetected || pgErr.Code == pgSerializationFailure
	}
	return false
}

func newRepositories(db *gorm.DB, lock bool) Repositories {
	c := conn{db: db, lock: lock}
	return Repositories{
		Wallets:        &walletRepository{c},
		Transactions:   &transactionRepository{c},
		Transfers:      &transferRepository{c},
		Lottos:         &lottoRepository{c},
		Participations: &participationRepository{c},
		Prizes:         &prizeResultRepository{c},
		Approvals:      &approvalRepository{c},
		Settings:       &settingsRepository{c},
		Users:          &userRepository{c},
	}
}

// conn is a handle shared by the repositories of one Repositories set.
type conn struct {
	db   *gorm.DB
	lock bool
}

// read returns a query that takes row locks when inside Atomic.
func (c conn) read() *gorm.DB {
	if c.lock {
		return c.db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return c.db
}

// saveVersioned writes every column of value when the stored row still has
// version; value must already carry the next version.
func (c conn) saveVersioned(value interface{}, version int) error {
	res := c.db.Model(value).Where("version = ?", version).Select("*").Omit("created_at").Updates(value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrConflict
	}
	return nil
}

func notFound(err error, sentinel *entity.Error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// AutoMigrate creates the settlement tables. Production schemas come from the
// SQL migrations; this is used by tests and local sqlite runs.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.UserModel{},
		&model.WalletModel{},
		&model.TransactionModel{},
		&model.TransferModel{},
		&model.LottoModel{},
		&model.ParticipationModel{},
		&model.PrizeResultModel{},
		&model.ApprovalRequestModel{},
		&model.ApprovalVoteModel{},
		&model.ApprovalHistoryModel{},
		&model.SettingModel{},
	); err != nil {
		return fmt.Errorf("failed to migrate settlement schema: %w", err)
	}
	return nil
}
