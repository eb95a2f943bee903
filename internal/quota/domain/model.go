package domain

import (
	"errors"
	"time"
)

// ReplyLedgerEntry is an append-only record of one published reply.
type ReplyLedgerEntry struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	BusinessID string    `json:"business_id" gorm:"type:text;not null;index:idx_reply_ledger_business_created,priority:1"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_reply_ledger_business_created,priority:2"`
}

func (ReplyLedgerEntry) TableName() string { return "reply_ledger" }

var ErrInvalidBusinessID = errors.New("invalid_business_id")
