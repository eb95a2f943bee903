package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	// Set overwrites the balance to an absolute amount, inserting the row
	// when the business has none yet.
	Set(ctx context.Context, db *gorm.DB, businessID string, amount int64, now time.Time) error
	// DecrementIfPositive spends one credit. Returns false when the balance
	// was already zero; the balance never goes negative.
	DecrementIfPositive(ctx context.Context, db *gorm.DB, businessID string, now time.Time) (bool, error)
	// Get returns 0 when the business has no balance row.
	Get(ctx context.Context, db *gorm.DB, businessID string) (int64, error)
}
