package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PrizeTier pays Amount to every ticket matching exactly Numbers winning numbers.
type PrizeTier struct {
	Numbers int             `json:"numbers"`
	Amount  decimal.Decimal `json:"amount"`
}

// MatchingStats maps a match count to the number of active tickets with that count.
type MatchingStats map[int]int

// Draw is a prize submission: the winning numbers and the prize table.
type Draw struct {
	WinningNumbers    []int           `json:"winning_numbers"`
	JackpotAmount     decimal.Decimal `json:"jackpot_amount"`
	PrizeDistribution []PrizeTier     `json:"prize_distribution"`
	TicketStats       MatchingStats   `json:"ticket_stats,omitempty"`
}

// PrizeFor returns the table amount for matched, zero when no tier matches.
func (d Draw) PrizeFor(matched int) decimal.Decimal {
	for _, tier := range d.PrizeDistribution {
		if tier.Numbers == matched {
			return tier.Amount
		}
	}
	return decimal.Zero
}

// ValidateWinningNumbers requires a non-empty set of distinct numbers in range.
func ValidateWinningNumbers(numbers []int, minNumber, maxNumber int) error {
	if len(numbers) == 0 {
		return ErrInvalidDraw.With("winning numbers are required")
	}
	seen := make(map[int]struct{}, len(numbers))
	for _, n := range numbers {
		if n < minNumber || n > maxNumber {
			return ErrInvalidDraw.With("winning number %d outside [%d,%d]", n, minNumber, maxNumber)
		}
		if _, dup := seen[n]; dup {
			return ErrInvalidDraw.With("winning number %d repeated", n)
		}
		seen[n] = struct{}{}
	}
	return nil
}

func ValidateDraw(d Draw, minNumber, maxNumber int) error {
	if err := ValidateWinningNumbers(d.WinningNumbers, minNumber, maxNumber); err != nil {
		return err
	}
	if d.JackpotAmount.IsNegative() {
		return ErrInvalidDraw.With("jackpot amount cannot be negative")
	}
	tiers := make(map[int]struct{}, len(d.PrizeDistribution))
	for _, tier := range d.PrizeDistribution {
		if tier.Numbers < 0 {
			return ErrInvalidDraw.With("prize tier %d is negative", tier.Numbers)
		}
		if tier.Amount.IsNegative() {
			return ErrInvalidDraw.With("prize for %d matches is negative", tier.Numbers)
		}
		if _, dup := tiers[tier.Numbers]; dup {
			return ErrInvalidDraw.With("prize tier %d listed twice", tier.Numbers)
		}
		tiers[tier.Numbers] = struct{}{}
	}
	return nil
}

type Winner struct {
	ParticipationID string          `json:"participation_id"`
	UserID          string          `json:"user_id"`
	MatchedNumbers  int             `json:"matched_numbers"`
	Prize           decimal.Decimal `json:"prize"`
}

type PrizeResult struct {
	ID                string          `json:"id"`
	LottoID           string          `json:"lotto_id"`
	CalculationDate   time.Time       `json:"calculation_date"`
	WinningNumbers    []int           `json:"winning_numbers"`
	JackpotAmount     decimal.Decimal `json:"jackpot_amount"`
	PrizeDistribution []PrizeTier     `json:"prize_distribution"`
	Winners           []Winner        `json:"winners"`
	TicketCount       int             `json:"ticket_count"`
	TotalPayout       decimal.Decimal `json:"total_payout"`
	CalculatedBy      string          `json:"calculated_by"`
	ApprovalRequestID string          `json:"approval_request_id,omitempty"`
	ArchiveURL        string          `json:"archive_url,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}
