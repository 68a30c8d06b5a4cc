package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type WalletKind string

const (
	WalletAgent           WalletKind = "agent"
	WalletStaff           WalletKind = "staff"
	WalletAgentCommission WalletKind = "agent_commission"
	WalletStaffCommission WalletKind = "staff_commission"
)

func (k WalletKind) Valid() bool {
	switch k {
	case WalletAgent, WalletStaff, WalletAgentCommission, WalletStaffCommission:
		return true
	}
	return false
}

// WalletKindsFor lists the wallets an owner of role holds, primary first.
func WalletKindsFor(role Role) []WalletKind {
	switch role {
	case RoleAgent:
		return []WalletKind{WalletAgent, WalletAgentCommission}
	case RoleStaff:
		return []WalletKind{WalletStaff, WalletStaffCommission}
	}
	return nil
}

// PrimaryWalletKind is the wallet tickets are bought from and transfers move through.
func PrimaryWalletKind(role Role) (WalletKind, bool) {
	kinds := WalletKindsFor(role)
	if len(kinds) == 0 {
		return "", false
	}
	return kinds[0], true
}

type Wallet struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"owner_id"`
	Kind      WalletKind      `json:"kind"`
	Balance   decimal.Decimal `json:"balance"`
	Version   int             `json:"-"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type TransactionType string

const (
	TransactionDebit      TransactionType = "debit"
	TransactionCredit     TransactionType = "credit"
	TransactionCommission TransactionType = "commission"
)

type ReferenceType string

const (
	ReferenceTransfer       ReferenceType = "transfer"
	ReferenceTicketPurchase ReferenceType = "ticket_purchase"
	ReferenceTicketRefund   ReferenceType = "ticket_refund"
	ReferencePrizePayout    ReferenceType = "prize_payout"
	ReferenceDeposit        ReferenceType = "deposit"
)

const TransactionCompleted = "completed"

// Transaction is an immutable ledger entry. Every balance change writes exactly one.
type Transaction struct {
	ID            string          `json:"id"`
	WalletID      string          `json:"wallet_id"`
	OwnerID       string          `json:"owner_id"`
	WalletKind    WalletKind      `json:"wallet_kind"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	ReferenceType ReferenceType   `json:"reference_type"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	Status        string          `json:"status"`
	TransferTo    string          `json:"transfer_to,omitempty"`
	TransferFrom  string          `json:"transfer_from,omitempty"`
	FeeAmount     decimal.Decimal `json:"fee_amount"`
	Description   string          `json:"description,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
