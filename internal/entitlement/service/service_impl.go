package service

import (
	"context"

	claimdomain "github.com/reclamohq/reclamo/internal/claim/domain"
	creditdomain "github.com/reclamohq/reclamo/internal/credit/domain"
	"github.com/reclamohq/reclamo/internal/entitlement/domain"
	"github.com/reclamohq/reclamo/internal/observability/metrics"
	orgdomain "github.com/reclamohq/reclamo/internal/organization/domain"
	plandomain "github.com/reclamohq/reclamo/internal/plan/domain"
	quotadomain "github.com/reclamohq/reclamo/internal/quota/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Claims  claimdomain.Service
	Credits creditdomain.Service
	Quota   quotadomain.Service
	Orgs    orgdomain.Service
	Catalog plandomain.Catalog
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	log     *zap.Logger
	claims  claimdomain.Service
	credits creditdomain.Service
	quota   quotadomain.Service
	orgs    orgdomain.Service
	catalog plandomain.Catalog
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:     p.Log.Named("entitlement.service"),
		claims:  p.Claims,
		credits: p.Credits,
		quota:   p.Quota,
		orgs:    p.Orgs,
		catalog: p.Catalog,
		metrics: p.Metrics,
	}
}

func (s *Service) CanReply(ctx context.Context, businessID string) (domain.Verdict, error) {
	return s.evaluate(ctx, businessID, false)
}

func (s *Service) ConsumeReply(ctx context.Context, businessID string) (domain.Verdict, error) {
	return s.evaluate(ctx, businessID, true)
}

func (s *Service) evaluate(ctx context.Context, businessID string, consume bool) (domain.Verdict, error) {
	claim, err := s.claims.Get(ctx, businessID)
	if err != nil {
		return domain.Verdict{}, err
	}
	if claim == nil {
		return s.deny(ctx, domain.ReasonUnclaimed), nil
	}
	switch claim.Status {
	case claimdomain.StatusPending:
		return s.deny(ctx, domain.ReasonPending), nil
	case claimdomain.StatusRejected:
		return s.deny(ctx, domain.ReasonRejected), nil
	}

	plan, err := s.planFor(ctx, claim)
	if err != nil {
		return domain.Verdict{}, err
	}

	if plan.ZeroCost() {
		return s.evaluateQuota(ctx, businessID, plan, consume)
	}
	return s.evaluateCredits(ctx, businessID, consume)
}

func (s *Service) planFor(ctx context.Context, claim *claimdomain.Claim) (plandomain.Plan, error) {
	org, err := s.orgs.Get(ctx, claim.OrgID)
	if err != nil {
		return plandomain.Plan{}, err
	}
	return s.catalog.Plan(org.PlanID)
}

func (s *Service) evaluateCredits(ctx context.Context, businessID string, consume bool) (domain.Verdict, error) {
	if consume {
		ok, err := s.credits.ConsumeOne(ctx, businessID)
		if err != nil {
			return domain.Verdict{}, err
		}
		if !ok {
			return s.deny(ctx, domain.ReasonNoCredits), nil
		}
		// Credit consumption does not touch the reply ledger: the ledger
		// backs the zero-cost monthly quota, and counting credit-era
		// replies there would penalize a later downgrade.
		remaining, err := s.credits.Balance(ctx, businessID)
		if err != nil {
			return domain.Verdict{}, err
		}
		s.recordReplyMetric(ctx, "credits")
		return domain.Verdict{Allowed: true, Remaining: &remaining}, nil
	}

	balance, err := s.credits.Balance(ctx, businessID)
	if err != nil {
		return domain.Verdict{}, err
	}
	if balance <= 0 {
		return s.deny(ctx, domain.ReasonNoCredits), nil
	}
	return domain.Verdict{Allowed: true, Remaining: &balance}, nil
}

func (s *Service) evaluateQuota(ctx context.Context, businessID string, plan plandomain.Plan, consume bool) (domain.Verdict, error) {
	if plan.MaxRepliesPerMonth == nil {
		if consume {
			if err := s.quota.RecordReply(ctx, businessID); err != nil {
				return domain.Verdict{}, err
			}
			s.recordReplyMetric(ctx, "quota")
		}
		return domain.Verdict{Allowed: true}, nil
	}

	limit := int64(*plan.MaxRepliesPerMonth)
	used, err := s.quota.CountThisMonth(ctx, businessID)
	if err != nil {
		return domain.Verdict{}, err
	}
	remaining := limit - int64(used)
	if remaining <= 0 {
		return s.deny(ctx, domain.ReasonQuotaExceeded), nil
	}

	if consume {
		if err := s.quota.RecordReply(ctx, businessID); err != nil {
			return domain.Verdict{}, err
		}
		remaining--
		s.recordReplyMetric(ctx, "quota")
	}
	return domain.Verdict{Allowed: true, Remaining: &remaining}, nil
}

func (s *Service) deny(ctx context.Context, reason string) domain.Verdict {
	if s.metrics != nil {
		s.metrics.RecordEntitlementDenial(ctx, reason)
	}
	return domain.Verdict{Allowed: false, Reason: reason}
}

func (s *Service) recordReplyMetric(ctx context.Context, source string) {
	if s.metrics != nil {
		s.metrics.RecordReply(ctx, source)
	}
}
