package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type WalletKind string

const (
	WalletAgent           WalletKind = "agent"
	WalletStaff           WalletKind = "staff"
	WalletAgentCommission WalletKind = "agent_commission"
	WalletStaffCommission WalletKind = "staff_commission"
)

// WalletKindsFor lists the wallets a role holds, primary first.
func WalletKindsFor(role UserRole) []WalletKind {
	switch role {
	case RoleAgent:
		return []WalletKind{WalletAgent, WalletAgentCommission}
	case RoleStaff:
		return []WalletKind{WalletStaff, WalletStaffCommission}
	}
	return nil
}

type Wallet struct {
	ID        string          `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID   string          `gorm:"type:uuid;not null;uniqueIndex:idx_wallet_owner_kind" json:"owner_id"`
	Kind      WalletKind      `gorm:"type:varchar(32);not null;uniqueIndex:idx_wallet_owner_kind" json:"kind"`
	Balance   decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"balance"`
	Version   int             `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Transaction is a ledger entry; every balance change has exactly one.
type Transaction struct {
	ID            string          `gorm:"type:uuid;primary_key" json:"id"`
	WalletID      string          `gorm:"type:uuid;not null;index" json:"wallet_id"`
	OwnerID       string          `gorm:"type:uuid;not null;index" json:"owner_id"`
	WalletKind    WalletKind      `gorm:"type:varchar(32);not null" json:"wallet_kind"`
	Type          string          `gorm:"type:varchar(20);not null" json:"type"`
	Amount        decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	BalanceBefore decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"balance_before"`
	BalanceAfter  decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"balance_after"`
	ReferenceType string          `gorm:"type:varchar(32);not null" json:"reference_type"`
	ReferenceID   string          `gorm:"type:varchar(64)" json:"reference_id"`
	Status        string          `gorm:"type:varchar(20);not null" json:"status"`
	FeeAmount     decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"fee_amount"`
	Description   string          `gorm:"type:varchar(255)" json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	return nil
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
