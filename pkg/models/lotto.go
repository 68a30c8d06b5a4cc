package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LottoStatus string

const (
	LottoPending   LottoStatus = "pending"
	LottoActive    LottoStatus = "active"
	LottoCompleted LottoStatus = "completed"
)

type Lotto struct {
	ID              string          `gorm:"type:uuid;primary_key" json:"id"`
	EventName       string          `gorm:"type:varchar(255);not null" json:"event_name"`
	StartDate       time.Time       `gorm:"not null" json:"start_date"`
	EndDate         time.Time       `gorm:"not null;index" json:"end_date"`
	TicketPrice     decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"ticket_price"`
	Currency        string          `gorm:"type:varchar(10);not null" json:"currency"`
	Frequency       string          `gorm:"type:varchar(32)" json:"frequency"`
	NumbersToSelect int             `gorm:"not null" json:"numbers_to_select"`
	GridsPerTicket  int             `gorm:"not null;default:1" json:"grids_per_ticket"`
	Status          LottoStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	PrizeCalculated bool            `gorm:"not null;default:false" json:"prize_calculated"`
	IsEnabled       bool            `gorm:"not null;default:true" json:"is_enabled"`
	CreatedBy       string          `gorm:"type:uuid" json:"created_by"`
	Version         int             `gorm:"not null;default:1" json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// StatusAt derives the status a lotto has at now from its dates.
func (l *Lotto) StatusAt(now time.Time) LottoStatus {
	switch {
	case now.Before(l.StartDate):
		return LottoPending
	case now.Before(l.EndDate):
		return LottoActive
	}
	return LottoCompleted
}

func (l *Lotto) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}
