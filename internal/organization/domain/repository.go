package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, org *Organization) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Organization, error)
	FindBySubscriptionID(ctx context.Context, db *gorm.DB, subscriptionID string) (*Organization, error)
	Update(ctx context.Context, db *gorm.DB, org *Organization) error
}
