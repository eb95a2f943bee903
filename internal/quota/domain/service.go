package domain

import "context"

type Service interface {
	// CountThisMonth counts replies at or after the first instant of the
	// current calendar month in UTC.
	CountThisMonth(ctx context.Context, businessID string) (int, error)
	RecordReply(ctx context.Context, businessID string) error
}
