package domain

import "time"

// Claim statuses. Unclaimed businesses have no live row at all.
const (
	StatusPending  = "pending"
	StatusVerified = "verified"
	StatusRejected = "rejected"
)

// Verification methods.
const (
	MethodEmailDomainMatch = "email_domain_match"
	MethodAdminManual      = "admin_manual"
)

type Claim struct {
	ID                 int64      `json:"id" gorm:"primaryKey"`
	BusinessID         string     `json:"business_id" gorm:"type:text;not null"`
	OrgID              int64      `json:"org_id" gorm:"not null;index"`
	ClaimantID         string     `json:"claimant_id" gorm:"type:text;not null"`
	Status             string     `json:"status" gorm:"type:text;not null;default:pending"`
	VerificationMethod string     `json:"verification_method" gorm:"type:text;not null"`
	VerificationEmail  string     `json:"verification_email" gorm:"type:text;not null"`
	BusinessWebsite    string     `json:"business_website" gorm:"type:text;not null"`
	SubmittedAt        time.Time  `json:"submitted_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	VerifiedAt         *time.Time `json:"verified_at,omitempty"`
	DecidedBy          *string    `json:"decided_by,omitempty" gorm:"type:text"`
	CreatedAt          time.Time  `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt          time.Time  `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Claim) TableName() string { return "business_claims" }

// ValidStatus reports whether the status is part of the claim state machine.
func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusVerified, StatusRejected:
		return true
	default:
		return false
	}
}
