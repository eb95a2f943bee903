package domain

import "context"

type Service interface {
	// IngestWebhook verifies the signature, deduplicates by provider event id
	// and applies the event. Replay of a processed event is a no-op.
	IngestWebhook(ctx context.Context, payload []byte, signatureHeader string) error

	StartCheckout(ctx context.Context, req StartCheckoutRequest) (string, error)
	OpenPortal(ctx context.Context, orgID int64) (string, error)
}

type StartCheckoutRequest struct {
	PlanID string `json:"plan_id"`
	OrgID  int64  `json:"org_id,string"`
	Email  string `json:"email"`
}
