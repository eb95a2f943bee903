package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/reclamohq/reclamo/internal/billing/domain"
	"github.com/reclamohq/reclamo/internal/billing/provider"
	"github.com/reclamohq/reclamo/internal/clock"
	"github.com/reclamohq/reclamo/internal/config"
	"github.com/reclamohq/reclamo/internal/observability/metrics"
	orgdomain "github.com/reclamohq/reclamo/internal/organization/domain"
	plandomain "github.com/reclamohq/reclamo/internal/plan/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Config   config.Config
	Repo     domain.Repository
	Provider domain.Provider
	Catalog  plandomain.Catalog
	Orgs     orgdomain.Service
	Metrics  *metrics.Metrics `optional:"true"`
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	genID         *snowflake.Node
	clock         clock.Clock
	webhookSecret string
	checkoutCfg   config.BillingConfig
	repo          domain.Repository
	provider      domain.Provider
	catalog       plandomain.Catalog
	orgs          orgdomain.Service
	metrics       *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("billing.service"),
		genID:         p.GenID,
		clock:         p.Clock,
		webhookSecret: p.Config.Billing.WebhookSecret,
		checkoutCfg:   p.Config.Billing,
		repo:          p.Repo,
		provider:      p.Provider,
		catalog:       p.Catalog,
		orgs:          p.Orgs,
		metrics:       p.Metrics,
	}
}

func (s *Service) IngestWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	if err := provider.VerifySignature(s.webhookSecret, payload, signatureHeader); err != nil {
		s.log.Warn("webhook signature rejected", zap.Error(err))
		return err
	}

	var event domain.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return domain.ErrInvalidPayload
	}
	event.ID = strings.TrimSpace(event.ID)
	event.EventType = strings.TrimSpace(event.EventType)
	if event.ID == "" || event.EventType == "" {
		return domain.ErrInvalidPayload
	}

	record := &domain.EventRecord{
		ID:              s.genID.Generate().Int64(),
		ProviderEventID: event.ID,
		EventType:       event.EventType,
		Payload:         datatypes.JSON(payload),
		ReceivedAt:      s.clock.Now(),
	}

	inserted, err := s.repo.InsertEvent(ctx, s.db, record)
	if err != nil {
		return err
	}
	if !inserted {
		existing, err := s.repo.FindEvent(ctx, s.db, event.ID)
		if err != nil {
			return err
		}
		if existing == nil || existing.ProcessedAt != nil {
			s.log.Info("duplicate webhook event ignored",
				zap.String("provider_event_id", event.ID),
				zap.String("event_type", event.EventType),
			)
			s.recordMetric(ctx, event.EventType, "duplicate")
			return nil
		}
		// Earlier delivery inserted the record but failed before being
		// marked processed. Reapply against the retried payload.
		record = existing
	}

	if err := s.dispatch(ctx, event); err != nil {
		return err
	}

	if err := s.repo.MarkProcessed(ctx, s.db, record.ID, s.clock.Now()); err != nil {
		return err
	}

	s.recordMetric(ctx, event.EventType, "processed")
	return nil
}

func (s *Service) dispatch(ctx context.Context, event domain.Event) error {
	switch event.EventType {
	case domain.EventCheckoutCompleted:
		return s.handleCheckoutCompleted(ctx, event)
	case domain.EventSubscriptionUpdated:
		return s.handleSubscriptionUpdated(ctx, event)
	case domain.EventSubscriptionDeleted:
		return s.handleSubscriptionDeleted(ctx, event)
	case domain.EventInvoicePaymentSucceeded:
		return s.handleInvoicePayment(ctx, event, orgdomain.SubscriptionActive)
	case domain.EventInvoicePaymentFailed:
		return s.handleInvoicePayment(ctx, event, orgdomain.SubscriptionPastDue)
	default:
		s.log.Info("unknown billing event type accepted",
			zap.String("provider_event_id", event.ID),
			zap.String("event_type", event.EventType),
		)
		return nil
	}
}

func (s *Service) handleCheckoutCompleted(ctx context.Context, event domain.Event) error {
	var data domain.CheckoutCompletedData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return domain.ErrInvalidPayload
	}

	orgID, err := snowflake.ParseString(strings.TrimSpace(data.ClientReferenceID))
	if err != nil {
		s.log.Warn("checkout event without usable client reference",
			zap.String("provider_event_id", event.ID),
			zap.String("client_reference_id", data.ClientReferenceID),
		)
		return nil
	}

	if strings.TrimSpace(data.SubscriptionID) == "" {
		s.log.Warn("checkout event without subscription",
			zap.String("provider_event_id", event.ID),
			zap.Int64("org_id", orgID.Int64()),
		)
		return nil
	}

	sub, err := s.provider.GetSubscription(ctx, data.SubscriptionID)
	if err != nil {
		return err
	}

	plan := s.catalog.PlanByExternalPriceID(sub.PriceID)
	if plan == nil {
		s.log.Warn("checkout subscription price not in catalog",
			zap.String("provider_event_id", event.ID),
			zap.String("price_id", sub.PriceID),
		)
		return nil
	}

	status, ok := mapProviderStatus(sub.Status)
	if !ok {
		status = orgdomain.SubscriptionActive
	}

	err = s.orgs.ApplyCheckout(ctx, orgdomain.ApplyCheckoutRequest{
		OrgID:            orgID.Int64(),
		CustomerID:       data.CustomerID,
		SubscriptionID:   data.SubscriptionID,
		PlanID:           plan.ID,
		Status:           status,
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
	})
	if err == orgdomain.ErrNotFound {
		s.log.Warn("checkout event for unknown organization",
			zap.String("provider_event_id", event.ID),
			zap.Int64("org_id", orgID.Int64()),
		)
		return nil
	}
	return err
}

func (s *Service) handleSubscriptionUpdated(ctx context.Context, event domain.Event) error {
	var data domain.SubscriptionUpdatedData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return domain.ErrInvalidPayload
	}

	org, err := s.orgs.FindBySubscriptionID(ctx, data.SubscriptionID)
	if err != nil {
		return err
	}
	if org == nil {
		s.log.Warn("subscription update for unlinked subscription",
			zap.String("provider_event_id", event.ID),
			zap.String("subscription_id", data.SubscriptionID),
		)
		return nil
	}

	plan := s.catalog.PlanByExternalPriceID(data.PriceID)
	if plan == nil {
		s.log.Warn("subscription update price not in catalog",
			zap.String("provider_event_id", event.ID),
			zap.String("price_id", data.PriceID),
		)
		return nil
	}

	status, ok := mapProviderStatus(data.Status)
	if !ok {
		// Unknown status: keep the current one, the plan and period the
		// event carried still apply.
		s.log.Warn("subscription update with unknown status",
			zap.String("provider_event_id", event.ID),
			zap.String("status", data.Status),
		)
		status = org.SubscriptionStatus
	}

	var periodEnd *time.Time
	if data.CurrentPeriodEnd > 0 {
		end := time.Unix(data.CurrentPeriodEnd, 0).UTC()
		periodEnd = &end
	}

	return s.orgs.ApplyPlanChange(ctx, orgdomain.ApplyPlanChangeRequest{
		OrgID:            org.ID,
		PlanID:           plan.ID,
		Status:           status,
		CurrentPeriodEnd: periodEnd,
	})
}

func (s *Service) handleSubscriptionDeleted(ctx context.Context, event domain.Event) error {
	var data domain.SubscriptionDeletedData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return domain.ErrInvalidPayload
	}

	org, err := s.orgs.FindBySubscriptionID(ctx, data.SubscriptionID)
	if err != nil {
		return err
	}
	if org == nil {
		s.log.Warn("subscription deletion for unlinked subscription",
			zap.String("provider_event_id", event.ID),
			zap.String("subscription_id", data.SubscriptionID),
		)
		return nil
	}

	zeroCost, err := s.catalog.ZeroCostPlan()
	if err != nil {
		s.log.Error("zero-cost plan missing from catalog",
			zap.String("provider_event_id", event.ID),
			zap.Error(err),
		)
		return err
	}

	return s.orgs.ApplyCancellation(ctx, org.ID, zeroCost.ID)
}

func (s *Service) handleInvoicePayment(ctx context.Context, event domain.Event, status string) error {
	var data domain.InvoicePaymentData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return domain.ErrInvalidPayload
	}
	if strings.TrimSpace(data.SubscriptionID) == "" {
		s.log.Info("invoice event without subscription ignored",
			zap.String("provider_event_id", event.ID),
			zap.String("event_type", event.EventType),
		)
		return nil
	}

	org, err := s.orgs.FindBySubscriptionID(ctx, data.SubscriptionID)
	if err != nil {
		return err
	}
	if org == nil {
		s.log.Warn("invoice event for unlinked subscription",
			zap.String("provider_event_id", event.ID),
			zap.String("subscription_id", data.SubscriptionID),
		)
		return nil
	}

	return s.orgs.SetStatus(ctx, org.ID, status)
}

func (s *Service) recordMetric(ctx context.Context, eventType, outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordBillingEvent(ctx, eventType, outcome)
}

func mapProviderStatus(status string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "active", "trialing":
		return orgdomain.SubscriptionActive, true
	case "past_due", "unpaid":
		return orgdomain.SubscriptionPastDue, true
	case "canceled", "cancelled":
		return orgdomain.SubscriptionCanceled, true
	default:
		return "", false
	}
}
