package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	FindEvent(ctx context.Context, db *gorm.DB, providerEventID string) (*EventRecord, error)
	// InsertEvent returns false when a record with the same provider event id
	// already exists.
	InsertEvent(ctx context.Context, db *gorm.DB, event *EventRecord) (bool, error)
	MarkProcessed(ctx context.Context, db *gorm.DB, id int64, processedAt time.Time) error
}
