package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/reclamohq/reclamo/internal/clock"
	"github.com/reclamohq/reclamo/internal/quota/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("quota.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) CountThisMonth(ctx context.Context, businessID string) (int, error) {
	businessID = strings.TrimSpace(businessID)
	if businessID == "" {
		return 0, domain.ErrInvalidBusinessID
	}
	return s.repo.CountSince(ctx, s.db, businessID, monthStart(s.clock.Now()))
}

// RecordReply appends a ledger entry. The caller is expected to have checked
// the quota first; the check-then-append pair is not serialized, so two
// concurrent replies near the limit can both land.
func (s *Service) RecordReply(ctx context.Context, businessID string) error {
	businessID = strings.TrimSpace(businessID)
	if businessID == "" {
		return domain.ErrInvalidBusinessID
	}

	entry := &domain.ReplyLedgerEntry{
		ID:         s.genID.Generate().Int64(),
		BusinessID: businessID,
		CreatedAt:  s.clock.Now(),
	}
	return s.repo.Insert(ctx, s.db, entry)
}

func monthStart(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}
