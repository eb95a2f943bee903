package repository

import (
	"context"
	"time"

	"github.com/reclamohq/reclamo/internal/quota/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) CountSince(ctx context.Context, db *gorm.DB, businessID string, since time.Time) (int, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM reply_ledger WHERE business_id = ? AND created_at >= ?`,
		businessID,
		since,
	).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *domain.ReplyLedgerEntry) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO reply_ledger (id, business_id, created_at) VALUES (?, ?, ?)`,
		entry.ID,
		entry.BusinessID,
		entry.CreatedAt,
	).Error
}
