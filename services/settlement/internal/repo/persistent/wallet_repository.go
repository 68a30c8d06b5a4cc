package persistent

import (
	"time"

	"lotto-settlement/services/settlement/internal/entity"
	"lotto-settlement/services/settlement/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WalletRepository interface {
	Get(ownerID string, kind entity.WalletKind) (*entity.Wallet, error)
	ListByOwner(ownerID string) ([]*entity.Wallet, error)
	// CreateIfMissing inserts a zero-balance wallet unless (owner, kind) exists.
	CreateIfMissing(ownerID string, kind entity.WalletKind) error
	// UpdateBalance stores balance if the wallet is still at w.Version and bumps w.Version.
	UpdateBalance(w *entity.Wallet, balance decimal.Decimal) error
}

type walletRepository struct {
	conn
}

func (r *walletRepository) Get(ownerID string, kind entity.WalletKind) (*entity.Wallet, error) {
	var walletModel model.WalletModel
	if err := r.read().Where("owner_id = ? AND kind = ?", ownerID, string(kind)).First(&walletModel).Error; err != nil {
		return nil, notFound(err, entity.ErrWalletNotFound)
	}
	return ToWalletEntity(&walletModel), nil
}

func (r *walletRepository) ListByOwner(ownerID string) ([]*entity.Wallet, error) {
	var walletModels []model.WalletModel
	if err := r.db.Where("owner_id = ?", ownerID).Order("kind").Find(&walletModels).Error; err != nil {
		return nil, err
	}

	wallets := make([]*entity.Wallet, len(walletModels))
	for i := range walletModels {
		wallets[i] = ToWalletEntity(&walletModels[i])
	}
	return wallets, nil
}

func (r *walletRepository) CreateIfMissing(ownerID string, kind entity.WalletKind) error {
	walletModel := &model.WalletModel{
		ID:      uuid.New().String(),
		OwnerID: ownerID,
		Kind:    string(kind),
		Balance: decimal.Zero,
		Version: 1,
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(walletModel).Error
}

func (r *walletRepository) UpdateBalance(w *entity.Wallet, balance decimal.Decimal) error {
	now := time.Now()
	res := r.db.Model(&model.WalletModel{}).
		Where("id = ? AND version = ?", w.ID, w.Version).
		Updates(map[string]interface{}{
			"balance":    balance,
			"version":    gorm.Expr("version + 1"),
			"updated_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrConflict
	}
	w.Balance = balance
	w.Version++
	w.UpdatedAt = now
	return nil
}
