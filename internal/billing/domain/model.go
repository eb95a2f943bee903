package domain

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
)

// Webhook event types emitted by the payment provider.
const (
	EventCheckoutCompleted       = "checkout_completed"
	EventSubscriptionUpdated     = "subscription_updated"
	EventSubscriptionDeleted     = "subscription_deleted"
	EventInvoicePaymentSucceeded = "invoice_payment_succeeded"
	EventInvoicePaymentFailed    = "invoice_payment_failed"
)

// Event is the provider webhook envelope. Data holds the variant payload.
type Event struct {
	ID        string          `json:"id"`
	EventType string          `json:"eventType"`
	Data      json.RawMessage `json:"data"`
}

type CheckoutCompletedData struct {
	CustomerID        string `json:"customer_id"`
	SubscriptionID    string `json:"subscription_id"`
	ClientReferenceID string `json:"client_reference_id"`
}

type SubscriptionUpdatedData struct {
	SubscriptionID   string `json:"subscription_id"`
	Status           string `json:"status"`
	PriceID          string `json:"price_id"`
	CurrentPeriodEnd int64  `json:"current_period_end"`
}

type SubscriptionDeletedData struct {
	SubscriptionID string `json:"subscription_id"`
}

type InvoicePaymentData struct {
	SubscriptionID string `json:"subscription_id"`
}

// EventRecord is the idempotency ledger for received webhook events.
type EventRecord struct {
	ID              int64          `gorm:"primaryKey"`
	ProviderEventID string         `gorm:"type:text;not null;uniqueIndex"`
	EventType       string         `gorm:"type:text;not null"`
	Payload         datatypes.JSON `gorm:"type:jsonb"`
	ReceivedAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
	ProcessedAt     *time.Time     `gorm:""`
}

func (EventRecord) TableName() string { return "billing_events" }

// Subscription is the provider-side view of a subscription.
type Subscription struct {
	ID               string     `json:"id"`
	CustomerID       string     `json:"customer_id"`
	Status           string     `json:"status"`
	PriceID          string     `json:"price_id"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
}

type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type PortalSession struct {
	URL string `json:"url"`
}

var (
	ErrInvalidSignature      = errors.New("invalid_signature")
	ErrInvalidPayload        = errors.New("invalid_payload")
	ErrEventAlreadyProcessed = errors.New("event_already_processed")
	ErrPlanNotPurchasable    = errors.New("plan_not_purchasable")
	ErrNoActiveCustomer      = errors.New("no_active_customer")
	ErrMissingWebhookSecret  = errors.New("missing_webhook_secret")
)
