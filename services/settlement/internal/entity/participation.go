package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type ParticipationStatus string

const (
	ParticipationActive    ParticipationStatus = "active"
	ParticipationCancelled ParticipationStatus = "cancelled"
	ParticipationCompleted ParticipationStatus = "completed"
	ParticipationPaid      ParticipationStatus = "paid"
)

type Participation struct {
	ID              string              `json:"id"`
	LottoID         string              `json:"lotto_id"`
	UserID          string              `json:"user_id"`
	UserRole        Role                `json:"user_role"`
	WalletKind      WalletKind          `json:"wallet_kind"`
	SelectedNumbers []int               `json:"selected_numbers"`
	TicketPrice     decimal.Decimal     `json:"ticket_price"`
	Currency        string              `json:"currency"`
	PurchaseDate    time.Time           `json:"purchase_date"`
	Status          ParticipationStatus `json:"status"`

	LottoEventName string    `json:"lotto_event_name"`
	DrawEndDate    time.Time `json:"draw_end_date"`

	CommissionRate       decimal.Decimal `json:"commission_rate"`
	SubmissionCommission decimal.Decimal `json:"submission_commission"`

	IsWinner       bool            `json:"is_winner"`
	IsLost         bool            `json:"is_lost"`
	WinAmount      decimal.Decimal `json:"win_amount"`
	MatchedNumbers int             `json:"matched_numbers"`

	CancelledBy     string          `json:"cancelled_by,omitempty"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	CancellationFee decimal.Decimal `json:"cancellation_fee"`
	RefundAmount    decimal.Decimal `json:"refund_amount"`

	PaidBy string     `json:"paid_by,omitempty"`
	PaidAt *time.Time `json:"paid_at,omitempty"`

	Version   int       `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidateSelection requires exactly count distinct numbers in [minNumber, maxNumber].
func ValidateSelection(numbers []int, count, minNumber, maxNumber int) error {
	if len(numbers) != count {
		return ErrInvalidSelection.With("expected %d numbers, got %d", count, len(numbers))
	}
	seen := make(map[int]struct{}, len(numbers))
	for _, n := range numbers {
		if n < minNumber || n > maxNumber {
			return ErrInvalidSelection.With("number %d outside [%d,%d]", n, minNumber, maxNumber)
		}
		if _, dup := seen[n]; dup {
			return ErrInvalidSelection.With("number %d selected twice", n)
		}
		seen[n] = struct{}{}
	}
	return nil
}

// MatchCount is the size of the intersection of selected and winning.
func MatchCount(selected, winning []int) int {
	set := make(map[int]struct{}, len(winning))
	for _, n := range winning {
		set[n] = struct{}{}
	}
	matched := 0
	for _, n := range selected {
		if _, ok := set[n]; ok {
			matched++
			delete(set, n)
		}
	}
	return matched
}

// CancellationRefund splits a ticket price into the refund and the retained fee.
func CancellationRefund(price decimal.Decimal, fee CancellationFee) (refund, retained decimal.Decimal) {
	if !fee.Enabled || !fee.Percentage.IsPositive() {
		return price, decimal.Zero
	}
	retained = PercentOf(price, fee.Percentage)
	if retained.GreaterThan(price) {
		retained = price
	}
	return price.Sub(retained), retained
}
