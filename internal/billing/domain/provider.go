package domain

import "context"

// Provider is the outbound client for the payment processor API.
type Provider interface {
	GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error)
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	CreatePortalSession(ctx context.Context, params PortalParams) (*PortalSession, error)
}

type CheckoutParams struct {
	PriceID           string `json:"price_id"`
	ClientReferenceID string `json:"client_reference_id"`
	CustomerEmail     string `json:"customer_email,omitempty"`
	SuccessURL        string `json:"success_url"`
	CancelURL         string `json:"cancel_url"`
}

type PortalParams struct {
	CustomerID string `json:"customer_id"`
	ReturnURL  string `json:"return_url"`
}
