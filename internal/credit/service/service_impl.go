package service

import (
	"context"
	"strings"

	"github.com/reclamohq/reclamo/internal/clock"
	"github.com/reclamohq/reclamo/internal/credit/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("credit.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

// Grant overwrites the balance to an absolute amount. Used for the automatic
// grant on verification and for manual admin corrections.
func (s *Service) Grant(ctx context.Context, businessID string, amount int64) error {
	businessID = strings.TrimSpace(businessID)
	if businessID == "" {
		return domain.ErrInvalidBusinessID
	}
	if amount < 0 {
		return domain.ErrInvalidAmount
	}

	if err := s.repo.Set(ctx, s.db, businessID, amount, s.clock.Now()); err != nil {
		return err
	}

	s.log.Info("credits granted",
		zap.String("business_id", businessID),
		zap.Int64("amount", amount),
	)
	return nil
}

func (s *Service) ConsumeOne(ctx context.Context, businessID string) (bool, error) {
	businessID = strings.TrimSpace(businessID)
	if businessID == "" {
		return false, domain.ErrInvalidBusinessID
	}
	return s.repo.DecrementIfPositive(ctx, s.db, businessID, s.clock.Now())
}

func (s *Service) Balance(ctx context.Context, businessID string) (int64, error) {
	businessID = strings.TrimSpace(businessID)
	if businessID == "" {
		return 0, domain.ErrInvalidBusinessID
	}
	return s.repo.Get(ctx, s.db, businessID)
}
