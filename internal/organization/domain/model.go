package domain

import "time"

// Subscription lifecycle states derived from billing events.
const (
	SubscriptionNone     = "none"
	SubscriptionActive   = "active"
	SubscriptionPastDue  = "past_due"
	SubscriptionCanceled = "canceled"
)

type Organization struct {
	ID                     int64      `json:"id" gorm:"primaryKey"`
	Name                   string     `json:"name" gorm:"type:text;not null"`
	PlanID                 string     `json:"plan_id" gorm:"type:text;not null;default:free"`
	ExternalCustomerID     *string    `json:"external_customer_id,omitempty" gorm:"type:text"`
	ExternalSubscriptionID *string    `json:"external_subscription_id,omitempty" gorm:"type:text;index"`
	SubscriptionStatus     string     `json:"subscription_status" gorm:"type:text;not null;default:none"`
	CurrentPeriodEnd       *time.Time `json:"current_period_end,omitempty"`
	CreatedAt              time.Time  `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt              time.Time  `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Organization) TableName() string { return "organizations" }

// ValidSubscriptionStatus reports whether the status is one this system tracks.
func ValidSubscriptionStatus(status string) bool {
	switch status {
	case SubscriptionNone, SubscriptionActive, SubscriptionPastDue, SubscriptionCanceled:
		return true
	default:
		return false
	}
}
