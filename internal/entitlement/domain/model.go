package domain

import "context"

// Denial reasons carried in verdicts. Machine-readable, stable.
const (
	ReasonUnclaimed     = "unclaimed"
	ReasonPending       = "pending"
	ReasonRejected      = "rejected"
	ReasonNoCredits     = "no_credits"
	ReasonQuotaExceeded = "quota_exceeded"
)

// Verdict is the outcome of an entitlement evaluation. Remaining is set when
// the allowance is finite and known.
type Verdict struct {
	Allowed   bool   `json:"allowed"`
	Reason    string `json:"reason,omitempty"`
	Remaining *int64 `json:"remaining,omitempty"`
}

type Service interface {
	// CanReply is advisory: it evaluates without consuming anything.
	CanReply(ctx context.Context, businessID string) (Verdict, error)
	// ConsumeReply is the authoritative path: it spends a credit or records
	// the reply against the monthly quota.
	ConsumeReply(ctx context.Context, businessID string) (Verdict, error)
}
