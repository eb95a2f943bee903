package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Organization, error)
	Get(ctx context.Context, id int64) (*Organization, error)
	// FindBySubscriptionID returns nil when no organization carries the
	// subscription id. Absence is a normal condition for subscriptions
	// this system does not manage.
	FindBySubscriptionID(ctx context.Context, subscriptionID string) (*Organization, error)

	ApplyCheckout(ctx context.Context, req ApplyCheckoutRequest) error
	ApplyPlanChange(ctx context.Context, req ApplyPlanChangeRequest) error
	ApplyCancellation(ctx context.Context, orgID int64, zeroCostPlanID string) error
	SetStatus(ctx context.Context, orgID int64, status string) error
}

type CreateRequest struct {
	Name string `json:"name"`
}

type ApplyCheckoutRequest struct {
	OrgID            int64
	CustomerID       string
	SubscriptionID   string
	PlanID           string
	Status           string
	CurrentPeriodEnd *time.Time
}

type ApplyPlanChangeRequest struct {
	OrgID            int64
	PlanID           string
	Status           string
	CurrentPeriodEnd *time.Time
}

var (
	ErrNotFound      = errors.New("organization_not_found")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidStatus = errors.New("invalid_subscription_status")
)
