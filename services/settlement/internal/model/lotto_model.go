package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LottoModel struct {
	ID              string          `gorm:"type:uuid;primary_key" json:"id"`
	EventName       string          `gorm:"type:varchar(255);not null" json:"event_name"`
	StartDate       time.Time       `gorm:"not null" json:"start_date"`
	EndDate         time.Time       `gorm:"not null;index" json:"end_date"`
	TicketPrice     decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"ticket_price"`
	Currency        string          `gorm:"type:varchar(10);not null" json:"currency"`
	Frequency       string          `gorm:"type:varchar(32)" json:"frequency"`
	NumbersToSelect int             `gorm:"not null" json:"numbers_to_select"`
	GridsPerTicket  int             `gorm:"not null;default:1" json:"grids_per_ticket"`
	Status          string          `gorm:"type:varchar(20);not null;index" json:"status"`
	PrizeCalculated bool            `gorm:"not null;default:false" json:"prize_calculated"`
	IsEnabled       bool            `gorm:"not null;default:true" json:"is_enabled"`
	WinningNumbers  []int           `gorm:"type:text;serializer:json" json:"winning_numbers"`
	CreatedBy       string          `gorm:"type:uuid" json:"created_by"`
	Version         int             `gorm:"not null;default:1" json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (LottoModel) TableName() string {
	return "lottos"
}

func (l *LottoModel) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

type ParticipationModel struct {
	ID                   string          `gorm:"type:uuid;primary_key" json:"id"`
	LottoID              string          `gorm:"type:uuid;not null;index:idx_participation_lotto_status" json:"lotto_id"`
	UserID               string          `gorm:"type:uuid;not null;index" json:"user_id"`
	UserRole             string          `gorm:"type:varchar(20);not null" json:"user_role"`
	WalletKind           string          `gorm:"type:varchar(32);not null" json:"wallet_kind"`
	SelectedNumbers      []int           `gorm:"type:text;serializer:json;not null" json:"selected_numbers"`
	TicketPrice          decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"ticket_price"`
	Currency             string          `gorm:"type:varchar(10)" json:"currency"`
	PurchaseDate         time.Time       `gorm:"not null" json:"purchase_date"`
	Status               string          `gorm:"type:varchar(20);not null;index:idx_participation_lotto_status" json:"status"`
	LottoEventName       string          `gorm:"type:varchar(255)" json:"lotto_event_name"`
	DrawEndDate          time.Time       `json:"draw_end_date"`
	CommissionRate       decimal.Decimal `gorm:"type:numeric(7,4);not null;default:0" json:"commission_rate"`
	SubmissionCommission decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"submission_commission"`
	IsWinner             bool            `gorm:"not null;default:false" json:"is_winner"`
	IsLost               bool            `gorm:"not null;default:false" json:"is_lost"`
	WinAmount            decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"win_amount"`
	MatchedNumbers       int             `gorm:"not null;default:0" json:"matched_numbers"`
	CancelledBy          string          `gorm:"type:varchar(64)" json:"cancelled_by"`
	CancelledAt          *time.Time      `json:"cancelled_at"`
	CancellationFee      decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"cancellation_fee"`
	RefundAmount         decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"refund_amount"`
	PaidBy               string          `gorm:"type:varchar(64)" json:"paid_by"`
	PaidAt               *time.Time      `json:"paid_at"`
	Version              int             `gorm:"not null;default:1" json:"version"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

func (ParticipationModel) TableName() string {
	return "participations"
}

func (p *ParticipationModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

type PrizeResultModel struct {
	ID                string          `gorm:"type:uuid;primary_key" json:"id"`
	LottoID           string          `gorm:"type:uuid;not null;uniqueIndex" json:"lotto_id"`
	CalculationDate   time.Time       `gorm:"not null" json:"calculation_date"`
	WinningNumbers    []int           `gorm:"type:text;serializer:json" json:"winning_numbers"`
	JackpotAmount     decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"jackpot_amount"`
	PrizeDistribution []PrizeTierJSON `gorm:"type:text;serializer:json" json:"prize_distribution"`
	Winners           []WinnerJSON    `gorm:"type:text;serializer:json" json:"winners"`
	TicketCount       int             `gorm:"not null;default:0" json:"ticket_count"`
	TotalPayout       decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"total_payout"`
	CalculatedBy      string          `gorm:"type:varchar(64)" json:"calculated_by"`
	ApprovalRequestID string          `gorm:"type:varchar(64)" json:"approval_request_id"`
	ArchiveURL        string          `gorm:"type:varchar(500)" json:"archive_url"`
	CreatedAt         time.Time       `json:"created_at"`
}

func (PrizeResultModel) TableName() string {
	return "prize_results"
}

func (p *PrizeResultModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// PrizeTierJSON and WinnerJSON are the stored shapes of prize table rows and winners.
type PrizeTierJSON struct {
	Numbers int             `json:"numbers"`
	Amount  decimal.Decimal `json:"amount"`
}

type WinnerJSON struct {
	ParticipationID string          `json:"participation_id"`
	UserID          string          `json:"user_id"`
	MatchedNumbers  int             `json:"matched_numbers"`
	Prize           decimal.Decimal `json:"prize"`
}
