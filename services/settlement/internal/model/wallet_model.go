package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type WalletModel struct {
	ID        string          `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID   string          `gorm:"type:uuid;not null;uniqueIndex:idx_wallet_owner_kind" json:"owner_id"`
	Kind      string          `gorm:"type:varchar(32);not null;uniqueIndex:idx_wallet_owner_kind" json:"kind"`
	Balance   decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"balance"`
	Version   int             `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (WalletModel) TableName() string {
	return "wallets"
}

func (w *WalletModel) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	return nil
}

type TransactionModel struct {
	ID            string          `gorm:"type:uuid;primary_key" json:"id"`
	WalletID      string          `gorm:"type:uuid;not null;index" json:"wallet_id"`
	OwnerID       string          `gorm:"type:uuid;not null;index" json:"owner_id"`
	WalletKind    string          `gorm:"type:varchar(32);not null" json:"wallet_kind"`
	Type          string          `gorm:"type:varchar(20);not null" json:"type"`
	Amount        decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	BalanceBefore decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"balance_before"`
	BalanceAfter  decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"balance_after"`
	ReferenceType string          `gorm:"type:varchar(32);not null;index:idx_tx_reference" json:"reference_type"`
	ReferenceID   string          `gorm:"type:varchar(64);index:idx_tx_reference" json:"reference_id"`
	Status        string          `gorm:"type:varchar(20);not null" json:"status"`
	TransferTo    string          `gorm:"type:varchar(64)" json:"transfer_to"`
	TransferFrom  string          `gorm:"type:varchar(64)" json:"transfer_from"`
	FeeAmount     decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"fee_amount"`
	Description   string          `gorm:"type:varchar(255)" json:"description"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
}

func (TransactionModel) TableName() string {
	return "transactions"
}

func (t *TransactionModel) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

type TransferModel struct {
	ID                 string          `gorm:"type:uuid;primary_key" json:"id"`
	Direction          string          `gorm:"type:varchar(32);not null" json:"direction"`
	FromOwnerID        string          `gorm:"type:uuid;not null;index" json:"from_owner_id"`
	ToOwnerID          string          `gorm:"type:uuid;not null;index" json:"to_owner_id"`
	RecipientEmail     string          `gorm:"type:varchar(255)" json:"recipient_email"`
	Amount             decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	Fee                decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"fee"`
	TotalDebit         decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"total_debit"`
	Rate               decimal.Decimal `gorm:"type:numeric(7,4);not null" json:"rate"`
	CommissionOwnerID  string          `gorm:"type:uuid" json:"commission_owner_id"`
	CommissionWalletID string          `gorm:"type:uuid" json:"commission_wallet_id"`
	CreatedAt          time.Time       `json:"created_at"`
}

func (TransferModel) TableName() string {
	return "transfers"
}

func (t *TransferModel) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
