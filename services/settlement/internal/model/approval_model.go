package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ApprovalRequestModel struct {
	ID                string          `gorm:"type:uuid;primary_key" json:"id"`
	LottoID           string          `gorm:"type:uuid;not null;index" json:"lotto_id"`
	RequestType       string          `gorm:"type:varchar(32);not null" json:"request_type"`
	WinningNumbers    []int           `gorm:"type:text;serializer:json" json:"winning_numbers"`
	JackpotAmount     decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"jackpot_amount"`
	PrizeDistribution []PrizeTierJSON `gorm:"type:text;serializer:json" json:"prize_distribution"`
	TicketStats       map[int]int     `gorm:"type:text;serializer:json" json:"ticket_stats"`
	Status            string          `gorm:"type:varchar(20);not null;index" json:"status"`
	RequestedBy       string          `gorm:"type:uuid;not null" json:"requested_by"`
	Processed         bool            `gorm:"not null;default:false" json:"processed"`
	ProcessError      string          `gorm:"type:text" json:"process_error"`
	DecidedAt         *time.Time      `json:"decided_at"`
	Version           int             `gorm:"not null;default:1" json:"version"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (ApprovalRequestModel) TableName() string {
	return "approval_requests"
}

func (r *ApprovalRequestModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

type ApprovalVoteModel struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	RequestID string    `gorm:"type:uuid;not null;uniqueIndex:idx_vote_request_manager" json:"request_id"`
	ManagerID string    `gorm:"type:uuid;not null;uniqueIndex:idx_vote_request_manager" json:"manager_id"`
	Decision  string    `gorm:"type:varchar(10);not null" json:"decision"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ApprovalVoteModel) TableName() string {
	return "approval_votes"
}

func (v *ApprovalVoteModel) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}

type ApprovalHistoryModel struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	RequestID string    `gorm:"type:uuid;not null;uniqueIndex:idx_history_request_seq" json:"request_id"`
	Sequence  int       `gorm:"not null;uniqueIndex:idx_history_request_seq" json:"sequence"`
	Action    string    `gorm:"type:varchar(20);not null" json:"action"`
	ActorID   string    `gorm:"type:varchar(64);not null" json:"actor_id"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func (ApprovalHistoryModel) TableName() string {
	return "approval_history"
}

func (h *ApprovalHistoryModel) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	return nil
}
