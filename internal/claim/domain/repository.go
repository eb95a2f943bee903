package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// InsertIfUnclaimed inserts the claim only when no pending or verified
	// claim exists for the business. Returns false when a live claim won.
	InsertIfUnclaimed(ctx context.Context, db *gorm.DB, claim *Claim) (bool, error)
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Claim, error)
	// FindLiveByBusinessID returns the pending or verified claim, or the most
	// recent rejected one when no live claim exists.
	FindLiveByBusinessID(ctx context.Context, db *gorm.DB, businessID string) (*Claim, error)
	Update(ctx context.Context, db *gorm.DB, claim *Claim) error
}
