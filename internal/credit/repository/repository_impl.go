package repository

import (
	"context"
	"time"

	"github.com/reclamohq/reclamo/internal/credit/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Set(ctx context.Context, db *gorm.DB, businessID string, amount int64, now time.Time) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO credit_balances (business_id, reply_credits, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (business_id) DO UPDATE
		 SET reply_credits = excluded.reply_credits, updated_at = excluded.updated_at`,
		businessID,
		amount,
		now,
	).Error
}

func (r *repo) DecrementIfPositive(ctx context.Context, db *gorm.DB, businessID string, now time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE credit_balances
		 SET reply_credits = reply_credits - 1, updated_at = ?
		 WHERE business_id = ? AND reply_credits > 0`,
		now,
		businessID,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) Get(ctx context.Context, db *gorm.DB, businessID string) (int64, error) {
	var balance domain.CreditBalance
	err := db.WithContext(ctx).Raw(
		`SELECT business_id, reply_credits, updated_at
		 FROM credit_balances WHERE business_id = ?`,
		businessID,
	).Scan(&balance).Error
	if err != nil {
		return 0, err
	}
	return balance.ReplyCredits, nil
}
