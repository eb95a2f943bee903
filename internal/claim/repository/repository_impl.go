package repository

import (
	"context"

	"github.com/reclamohq/reclamo/internal/claim/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertIfUnclaimed(ctx context.Context, db *gorm.DB, claim *domain.Claim) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`INSERT INTO business_claims (id, business_id, org_id, claimant_id, status, verification_method, verification_email, business_website, submitted_at, verified_at, decided_by, created_at, updated_at)
		 SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		 WHERE NOT EXISTS (
		     SELECT 1 FROM business_claims
		     WHERE business_id = ? AND status IN ('pending', 'verified')
		 )`,
		claim.ID,
		claim.BusinessID,
		claim.OrgID,
		claim.ClaimantID,
		claim.Status,
		claim.VerificationMethod,
		claim.VerificationEmail,
		claim.BusinessWebsite,
		claim.SubmittedAt,
		claim.VerifiedAt,
		claim.DecidedBy,
		claim.CreatedAt,
		claim.UpdatedAt,
		claim.BusinessID,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Claim, error) {
	var c domain.Claim
	err := db.WithContext(ctx).Raw(
		`SELECT id, business_id, org_id, claimant_id, status, verification_method, verification_email, business_website, submitted_at, verified_at, decided_by, created_at, updated_at
		 FROM business_claims WHERE id = ?`,
		id,
	).Scan(&c).Error
	if err != nil {
		return nil, err
	}
	if c.ID == 0 {
		return nil, nil
	}
	return &c, nil
}

func (r *repo) FindLiveByBusinessID(ctx context.Context, db *gorm.DB, businessID string) (*domain.Claim, error) {
	var c domain.Claim
	err := db.WithContext(ctx).Raw(
		`SELECT id, business_id, org_id, claimant_id, status, verification_method, verification_email, business_website, submitted_at, verified_at, decided_by, created_at, updated_at
		 FROM business_claims
		 WHERE business_id = ?
		 ORDER BY CASE WHEN status IN ('pending', 'verified') THEN 0 ELSE 1 END, submitted_at DESC
		 LIMIT 1`,
		businessID,
	).Scan(&c).Error
	if err != nil {
		return nil, err
	}
	if c.ID == 0 {
		return nil, nil
	}
	return &c, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, claim *domain.Claim) error {
	if claim == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE business_claims
		 SET status = ?, verification_method = ?, verified_at = ?, decided_by = ?, updated_at = ?
		 WHERE id = ?`,
		claim.Status,
		claim.VerificationMethod,
		claim.VerifiedAt,
		claim.DecidedBy,
		claim.UpdatedAt,
		claim.ID,
	).Error
}
