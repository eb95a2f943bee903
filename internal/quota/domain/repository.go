package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	CountSince(ctx context.Context, db *gorm.DB, businessID string, since time.Time) (int, error)
	Insert(ctx context.Context, db *gorm.DB, entry *ReplyLedgerEntry) error
}
