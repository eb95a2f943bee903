package domain

import (
	"context"
	"errors"
)

type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (*Claim, error)
	Decide(ctx context.Context, req DecideRequest) (*Claim, error)
	// Get returns the claim governing the business: the pending or verified
	// claim when one exists, otherwise the most recent rejected claim.
	// A nil claim means the business is unclaimed.
	Get(ctx context.Context, businessID string) (*Claim, error)
}

type SubmitRequest struct {
	BusinessID string `json:"business_id"`
	OrgID      int64  `json:"org_id,string"`
	ClaimantID string `json:"claimant_id"`
	Email      string `json:"email"`
	Website    string `json:"website"`
}

type DecideRequest struct {
	ClaimID   int64  `json:"claim_id,string"`
	Status    string `json:"status"`
	DecidedBy string `json:"decided_by"`
}

var (
	ErrAlreadyClaimed    = errors.New("already_claimed")
	ErrClaimNotFound     = errors.New("claim_not_found")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrInvalidBusinessID = errors.New("invalid_business_id")
	ErrInvalidEmail      = errors.New("invalid_email")
	ErrInvalidClaimant   = errors.New("invalid_claimant")
)
