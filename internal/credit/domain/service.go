package domain

import "context"

type Service interface {
	Grant(ctx context.Context, businessID string, amount int64) error
	ConsumeOne(ctx context.Context, businessID string) (bool, error)
	Balance(ctx context.Context, businessID string) (int64, error)
}
