package domain

import (
	"errors"
	"time"
)

type CreditBalance struct {
	BusinessID   string    `json:"business_id" gorm:"primaryKey;type:text"`
	ReplyCredits int64     `json:"reply_credits" gorm:"not null;default:0"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (CreditBalance) TableName() string { return "credit_balances" }

var (
	ErrInvalidBusinessID = errors.New("invalid_business_id")
	ErrInvalidAmount     = errors.New("invalid_amount")
)
