package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/reclamohq/reclamo/internal/billing/domain"
	plandomain "github.com/reclamohq/reclamo/internal/plan/domain"
	"go.uber.org/zap"
)

func (s *Service) StartCheckout(ctx context.Context, req domain.StartCheckoutRequest) (string, error) {
	plan, err := s.catalog.Plan(req.PlanID)
	if err != nil {
		return "", plandomain.ErrPlanNotFound
	}
	if !plan.Purchasable() {
		return "", domain.ErrPlanNotPurchasable
	}

	org, err := s.orgs.Get(ctx, req.OrgID)
	if err != nil {
		return "", err
	}

	session, err := s.provider.CreateCheckoutSession(ctx, domain.CheckoutParams{
		PriceID:           plan.ExternalPriceID,
		ClientReferenceID: strconv.FormatInt(org.ID, 10),
		CustomerEmail:     strings.TrimSpace(req.Email),
		SuccessURL:        s.checkoutCfg.CheckoutSuccessURL,
		CancelURL:         s.checkoutCfg.CheckoutCancelURL,
	})
	if err != nil {
		return "", err
	}

	s.log.Info("checkout session created",
		zap.Int64("org_id", org.ID),
		zap.String("plan_id", plan.ID),
	)
	return session.URL, nil
}

func (s *Service) OpenPortal(ctx context.Context, orgID int64) (string, error) {
	org, err := s.orgs.Get(ctx, orgID)
	if err != nil {
		return "", err
	}
	if org.ExternalCustomerID == nil || strings.TrimSpace(*org.ExternalCustomerID) == "" {
		return "", domain.ErrNoActiveCustomer
	}

	session, err := s.provider.CreatePortalSession(ctx, domain.PortalParams{
		CustomerID: *org.ExternalCustomerID,
		ReturnURL:  s.checkoutCfg.PortalReturnURL,
	})
	if err != nil {
		return "", err
	}
	return session.URL, nil
}
