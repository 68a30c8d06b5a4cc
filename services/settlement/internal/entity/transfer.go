package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Direction string

const (
	AgentToStaff Direction = "agent_to_staff"
	StaffToStaff Direction = "staff_to_staff"
	StaffToAgent Direction = "staff_to_agent"
)

// Commission rate keys. StaffTransferRateKey is the fallback for every transfer direction.
const (
	StaffTransferRateKey   = "staff_transfer"
	LottoSubmissionRateKey = "lotto_submission"
)

// DirectionRule describes who sends, who receives and where the fee lands.
type DirectionRule struct {
	SenderRole    Role
	RecipientRole Role
	SenderKind    WalletKind
	RecipientKind WalletKind
	// FeeOnTop adds the fee to the sender's debit and credits it to the
	// recipient's commission wallet. Otherwise the sender pays exactly the
	// amount and earns the fee in their own commission wallet.
	FeeOnTop bool
}

var directionRules = map[Direction]DirectionRule{
	AgentToStaff: {RoleAgent, RoleStaff, WalletAgent, WalletStaff, true},
	StaffToStaff: {RoleStaff, RoleStaff, WalletStaff, WalletStaff, true},
	StaffToAgent: {RoleStaff, RoleAgent, WalletStaff, WalletAgent, false},
}

func (d Direction) Rule() (DirectionRule, bool) {
	r, ok := directionRules[d]
	return r, ok
}

// RateKey is the direction-specific commission key.
func (d Direction) RateKey() string {
	return string(d)
}

// CommissionKind is the commission wallet kind matching role's primary wallet.
func CommissionKind(role Role) WalletKind {
	kinds := WalletKindsFor(role)
	if len(kinds) < 2 {
		return ""
	}
	return kinds[1]
}

// TransferQuote is the money movement of a transfer before it is applied.
type TransferQuote struct {
	Amount      decimal.Decimal `json:"amount"`
	Rate        decimal.Decimal `json:"rate"`
	Fee         decimal.Decimal `json:"fee"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	CreditTotal decimal.Decimal `json:"credit_amount"`
	// FeeToSender is true when the fee is credited to the sender's commission wallet.
	FeeToSender bool `json:"fee_to_sender"`
}

// PercentOf returns amount*pct/100 rounded to cents.
func PercentOf(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(decimal.NewFromInt(100)).Round(2)
}

func QuoteTransfer(d Direction, amount, ratePct decimal.Decimal) (TransferQuote, error) {
	rule, ok := d.Rule()
	if !ok {
		return TransferQuote{}, ErrInvalidDirection.With("%q", d)
	}
	if !amount.IsPositive() {
		return TransferQuote{}, ErrInvalidAmount
	}
	if ratePct.IsNegative() {
		ratePct = decimal.Zero
	}

	fee := PercentOf(amount, ratePct)
	q := TransferQuote{
		Amount:      amount,
		Rate:        ratePct,
		Fee:         fee,
		TotalDebit:  amount,
		CreditTotal: amount,
		FeeToSender: !rule.FeeOnTop,
	}
	if rule.FeeOnTop {
		q.TotalDebit = amount.Add(fee)
	}
	return q, nil
}

type Transfer struct {
	ID                 string          `json:"id"`
	Direction          Direction       `json:"direction"`
	FromOwnerID        string          `json:"from_owner_id"`
	ToOwnerID          string          `json:"to_owner_id"`
	RecipientEmail     string          `json:"recipient_email"`
	Amount             decimal.Decimal `json:"amount"`
	Fee                decimal.Decimal `json:"fee"`
	TotalDebit         decimal.Decimal `json:"total_debit"`
	Rate               decimal.Decimal `json:"rate"`
	CommissionOwnerID  string          `json:"commission_owner_id"`
	CommissionWalletID string          `json:"commission_wallet_id"`
	CreatedAt          time.Time       `json:"created_at"`
}
