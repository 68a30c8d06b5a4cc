package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type LottoStatus string

const (
	LottoPending   LottoStatus = "pending"
	LottoActive    LottoStatus = "active"
	LottoCompleted LottoStatus = "completed"
)

var statusRank = map[LottoStatus]int{
	LottoPending:   0,
	LottoActive:    1,
	LottoCompleted: 2,
}

type Lotto struct {
	ID              string          `json:"id"`
	EventName       string          `json:"event_name"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         time.Time       `json:"end_date"`
	TicketPrice     decimal.Decimal `json:"ticket_price"`
	Currency        string          `json:"currency"`
	Frequency       string          `json:"frequency"`
	NumbersToSelect int             `json:"numbers_to_select"`
	GridsPerTicket  int             `json:"grids_per_ticket"`
	Status          LottoStatus     `json:"status"`
	PrizeCalculated bool            `json:"prize_calculated"`
	IsEnabled       bool            `json:"is_enabled"`
	WinningNumbers  []int           `json:"winning_numbers,omitempty"`
	CreatedBy       string          `json:"created_by"`
	Version         int             `json:"-"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// StatusAt is the window status at now: pending before start, active in
// [start, end), completed from end on.
func StatusAt(start, end, now time.Time) LottoStatus {
	switch {
	case !now.Before(end):
		return LottoCompleted
	case !now.Before(start):
		return LottoActive
	default:
		return LottoPending
	}
}

// Reconcile returns l with its status advanced to match now and whether it
// changed. Status never moves backwards.
func Reconcile(l Lotto, now time.Time) (Lotto, bool) {
	next := StatusAt(l.StartDate, l.EndDate, now)
	if statusRank[next] <= statusRank[l.Status] {
		return l, false
	}
	l.Status = next
	return l, true
}

// HasEnded reports whether the draw end date has passed.
func (l *Lotto) HasEnded(now time.Time) bool {
	return !now.Before(l.EndDate)
}

// LottoInput is the full definition used to create a lotto.
type LottoInput struct {
	EventName       string          `json:"event_name"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         time.Time       `json:"end_date"`
	TicketPrice     decimal.Decimal `json:"ticket_price"`
	Currency        string          `json:"currency"`
	Frequency       string          `json:"frequency"`
	NumbersToSelect int             `json:"numbers_to_select"`
	GridsPerTicket  int             `json:"grids_per_ticket"`
}

// LottoPatch carries the fields of an update; nil fields are left unchanged.
type LottoPatch struct {
	EventName       *string          `json:"event_name,omitempty"`
	StartDate       *time.Time       `json:"start_date,omitempty"`
	EndDate         *time.Time       `json:"end_date,omitempty"`
	TicketPrice     *decimal.Decimal `json:"ticket_price,omitempty"`
	Currency        *string          `json:"currency,omitempty"`
	Frequency       *string          `json:"frequency,omitempty"`
	NumbersToSelect *int             `json:"numbers_to_select,omitempty"`
	GridsPerTicket  *int             `json:"grids_per_ticket,omitempty"`
}

// Apply copies the set fields of p onto l.
func (p LottoPatch) Apply(l *Lotto) {
	if p.EventName != nil {
		l.EventName = *p.EventName
	}
	if p.StartDate != nil {
		l.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		l.EndDate = *p.EndDate
	}
	if p.TicketPrice != nil {
		l.TicketPrice = *p.TicketPrice
	}
	if p.Currency != nil {
		l.Currency = *p.Currency
	}
	if p.Frequency != nil {
		l.Frequency = *p.Frequency
	}
	if p.NumbersToSelect != nil {
		l.NumbersToSelect = *p.NumbersToSelect
	}
	if p.GridsPerTicket != nil {
		l.GridsPerTicket = *p.GridsPerTicket
	}
}

// ValidateLotto checks a definition against a number range of [minNumber, maxNumber].
func ValidateLotto(l *Lotto, minNumber, maxNumber int) error {
	if strings.TrimSpace(l.EventName) == "" {
		return ErrInvalidLotto.With("event name is required")
	}
	if !l.StartDate.Before(l.EndDate) {
		return ErrInvalidLotto.With("start date must be before end date")
	}
	if !l.TicketPrice.IsPositive() {
		return ErrInvalidLotto.With("ticket price must be greater than zero")
	}
	if l.NumbersToSelect < 1 || l.NumbersToSelect > maxNumber-minNumber+1 {
		return ErrInvalidLotto.With("numbers to select must be between 1 and %d", maxNumber-minNumber+1)
	}
	if l.GridsPerTicket < 1 {
		return ErrInvalidLotto.With("grids per ticket must be at least 1")
	}
	return nil
}
