package repository

import (
	"context"

	"github.com/reclamohq/reclamo/internal/organization/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, org *domain.Organization) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO organizations (id, name, plan_id, external_customer_id, external_subscription_id, subscription_status, current_period_end, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		org.ID,
		org.Name,
		org.PlanID,
		org.ExternalCustomerID,
		org.ExternalSubscriptionID,
		org.SubscriptionStatus,
		org.CurrentPeriodEnd,
		org.CreatedAt,
		org.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Organization, error) {
	var org domain.Organization
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, plan_id, external_customer_id, external_subscription_id, subscription_status, current_period_end, created_at, updated_at
		 FROM organizations WHERE id = ?`,
		id,
	).Scan(&org).Error
	if err != nil {
		return nil, err
	}
	if org.ID == 0 {
		return nil, nil
	}
	return &org, nil
}

func (r *repo) FindBySubscriptionID(ctx context.Context, db *gorm.DB, subscriptionID string) (*domain.Organization, error) {
	var org domain.Organization
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, plan_id, external_customer_id, external_subscription_id, subscription_status, current_period_end, created_at, updated_at
		 FROM organizations WHERE external_subscription_id = ?`,
		subscriptionID,
	).Scan(&org).Error
	if err != nil {
		return nil, err
	}
	if org.ID == 0 {
		return nil, nil
	}
	return &org, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, org *domain.Organization) error {
	if org == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE organizations
		 SET plan_id = ?, external_customer_id = ?, external_subscription_id = ?, subscription_status = ?, current_period_end = ?, updated_at = ?
		 WHERE id = ?`,
		org.PlanID,
		org.ExternalCustomerID,
		org.ExternalSubscriptionID,
		org.SubscriptionStatus,
		org.CurrentPeriodEnd,
		org.UpdatedAt,
		org.ID,
	).Error
}
