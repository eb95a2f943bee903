package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/reclamohq/reclamo/internal/clock"
	"github.com/reclamohq/reclamo/internal/organization/domain"
	plandomain "github.com/reclamohq/reclamo/internal/plan/domain"
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
	Repo    domain.Repository
	Catalog plandomain.Catalog
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	catalog plandomain.Catalog
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("organization.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		catalog: p.Catalog,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Organization, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	zeroCost, err := s.catalog.ZeroCostPlan()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	org := &domain.Organization{
		ID:                 s.genID.Generate().Int64(),
		Name:               name,
		PlanID:             zeroCost.ID,
		SubscriptionStatus: domain.SubscriptionNone,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(ctx, s.db, org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Organization, error) {
	org, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	return org, nil
}

func (s *Service) FindBySubscriptionID(ctx context.Context, subscriptionID string) (*domain.Organization, error) {
	subscriptionID = strings.TrimSpace(subscriptionID)
	if subscriptionID == "" {
		return nil, nil
	}
	return s.repo.FindBySubscriptionID(ctx, s.db, subscriptionID)
}

// ApplyCheckout links an organization to its provider subscription after a
// completed checkout. Applying the same event twice is a no-op.
func (s *Service) ApplyCheckout(ctx context.Context, req domain.ApplyCheckoutRequest) error {
	org, err := s.repo.FindByID(ctx, s.db, req.OrgID)
	if err != nil {
		return err
	}
	if org == nil {
		return domain.ErrNotFound
	}

	status := req.Status
	if status == "" {
		status = domain.SubscriptionActive
	}
	if !domain.ValidSubscriptionStatus(status) {
		return domain.ErrInvalidStatus
	}

	desired := *org
	desired.PlanID = req.PlanID
	desired.ExternalCustomerID = optional(req.CustomerID)
	desired.ExternalSubscriptionID = optional(req.SubscriptionID)
	desired.SubscriptionStatus = status
	desired.CurrentPeriodEnd = req.CurrentPeriodEnd

	return s.persistIfChanged(ctx, org, &desired)
}

// ApplyPlanChange overwrites the plan and status from a subscription update.
func (s *Service) ApplyPlanChange(ctx context.Context, req domain.ApplyPlanChangeRequest) error {
	org, err := s.repo.FindByID(ctx, s.db, req.OrgID)
	if err != nil {
		return err
	}
	if org == nil {
		return domain.ErrNotFound
	}
	if !domain.ValidSubscriptionStatus(req.Status) {
		return domain.ErrInvalidStatus
	}

	desired := *org
	desired.PlanID = req.PlanID
	desired.SubscriptionStatus = req.Status
	desired.CurrentPeriodEnd = req.CurrentPeriodEnd

	return s.persistIfChanged(ctx, org, &desired)
}

// ApplyCancellation resets the organization to the zero-cost plan and clears
// the subscription link.
func (s *Service) ApplyCancellation(ctx context.Context, orgID int64, zeroCostPlanID string) error {
	org, err := s.repo.FindByID(ctx, s.db, orgID)
	if err != nil {
		return err
	}
	if org == nil {
		return domain.ErrNotFound
	}

	desired := *org
	desired.PlanID = zeroCostPlanID
	desired.ExternalSubscriptionID = nil
	desired.SubscriptionStatus = domain.SubscriptionCanceled
	desired.CurrentPeriodEnd = nil

	return s.persistIfChanged(ctx, org, &desired)
}

func (s *Service) SetStatus(ctx context.Context, orgID int64, status string) error {
	if !domain.ValidSubscriptionStatus(status) {
		return domain.ErrInvalidStatus
	}

	org, err := s.repo.FindByID(ctx, s.db, orgID)
	if err != nil {
		return err
	}
	if org == nil {
		return domain.ErrNotFound
	}

	desired := *org
	desired.SubscriptionStatus = status

	return s.persistIfChanged(ctx, org, &desired)
}

func (s *Service) persistIfChanged(ctx context.Context, current, desired *domain.Organization) error {
	if subscriptionStateEqual(current, desired) {
		return nil
	}
	desired.UpdatedAt = s.clock.Now()
	return s.repo.Update(ctx, s.db, desired)
}

func subscriptionStateEqual(a, b *domain.Organization) bool {
	return a.PlanID == b.PlanID &&
		strPtrEqual(a.ExternalCustomerID, b.ExternalCustomerID) &&
		strPtrEqual(a.ExternalSubscriptionID, b.ExternalSubscriptionID) &&
		a.SubscriptionStatus == b.SubscriptionStatus &&
		timePtrEqual(a.CurrentPeriodEnd, b.CurrentPeriodEnd)
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
