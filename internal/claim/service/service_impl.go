package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/reclamohq/reclamo/internal/claim/domain"
	"github.com/reclamohq/reclamo/internal/clock"
	"github.com/reclamohq/reclamo/internal/config"
	creditdomain "github.com/reclamohq/reclamo/internal/credit/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Config  config.Config
	Repo    domain.Repository
	Credits creditdomain.Service
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	repo         domain.Repository
	credits      creditdomain.Service
	defaultGrant int64
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("claim.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		repo:         p.Repo,
		credits:      p.Credits,
		defaultGrant: int64(p.Config.Entitlement.DefaultCreditGrant),
	}
}

func (s *Service) Submit(ctx context.Context, req domain.SubmitRequest) (*domain.Claim, error) {
	businessID := strings.TrimSpace(req.BusinessID)
	if businessID == "" {
		return nil, domain.ErrInvalidBusinessID
	}
	claimantID := strings.TrimSpace(req.ClaimantID)
	if claimantID == "" {
		return nil, domain.ErrInvalidClaimant
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidEmail
	}
	website := strings.TrimSpace(req.Website)

	now := s.clock.Now()
	claim := &domain.Claim{
		ID:                 s.genID.Generate().Int64(),
		BusinessID:         businessID,
		OrgID:              req.OrgID,
		ClaimantID:         claimantID,
		Status:             domain.StatusPending,
		VerificationMethod: domain.MethodAdminManual,
		VerificationEmail:  email,
		BusinessWebsite:    website,
		SubmittedAt:        now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if emailMatchesWebsiteDomain(email, website) {
		claim.Status = domain.StatusVerified
		claim.VerificationMethod = domain.MethodEmailDomainMatch
		claim.VerifiedAt = &now
	}

	inserted, err := s.repo.InsertIfUnclaimed(ctx, s.db, claim)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, domain.ErrAlreadyClaimed
	}

	if claim.Status == domain.StatusVerified {
		if err := s.credits.Grant(ctx, businessID, s.defaultGrant); err != nil {
			return nil, err
		}
	}

	s.log.Info("claim submitted",
		zap.String("business_id", businessID),
		zap.String("status", claim.Status),
		zap.String("verification_method", claim.VerificationMethod),
	)
	return claim, nil
}

func (s *Service) Decide(ctx context.Context, req domain.DecideRequest) (*domain.Claim, error) {
	if !domain.ValidStatus(req.Status) {
		return nil, domain.ErrInvalidStatus
	}

	claim, err := s.repo.FindByID(ctx, s.db, req.ClaimID)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, domain.ErrClaimNotFound
	}

	now := s.clock.Now()
	claim.Status = req.Status
	claim.UpdatedAt = now
	if decidedBy := strings.TrimSpace(req.DecidedBy); decidedBy != "" {
		claim.DecidedBy = &decidedBy
	}

	if req.Status == domain.StatusVerified {
		claim.VerifiedAt = &now
		if claim.VerificationMethod != domain.MethodEmailDomainMatch {
			claim.VerificationMethod = domain.MethodAdminManual
		}
	}

	if err := s.repo.Update(ctx, s.db, claim); err != nil {
		return nil, err
	}

	if req.Status == domain.StatusVerified {
		if err := s.credits.Grant(ctx, claim.BusinessID, s.defaultGrant); err != nil {
			return nil, err
		}
	}

	s.log.Info("claim decided",
		zap.Int64("claim_id", claim.ID),
		zap.String("business_id", claim.BusinessID),
		zap.String("status", claim.Status),
	)
	return claim, nil
}

func (s *Service) Get(ctx context.Context, businessID string) (*domain.Claim, error) {
	businessID = strings.TrimSpace(businessID)
	if businessID == "" {
		return nil, domain.ErrInvalidBusinessID
	}
	return s.repo.FindLiveByBusinessID(ctx, s.db, businessID)
}

// emailMatchesWebsiteDomain compares the e-mail domain against the website
// host, ignoring case, scheme, a leading www. and any path.
func emailMatchesWebsiteDomain(email, website string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}
	emailDomain := strings.ToLower(email[at+1:])

	host := strings.ToLower(strings.TrimSpace(website))
	if host == "" {
		return false
	}
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	if i := strings.Index(host, ":"); i >= 0 {
		host = host[:i]
	}
	host = strings.TrimPrefix(host, "www.")

	return host != "" && host == emailDomain
}
