package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/reclamohq/reclamo/internal/clock"
	creditdomain "github.com/reclamohq/reclamo/internal/credit/domain"
	creditrepo "github.com/reclamohq/reclamo/internal/credit/repository"
	creditservice "github.com/reclamohq/reclamo/internal/credit/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_credit_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`CREATE TABLE credit_balances (
		business_id TEXT PRIMARY KEY,
		reply_credits BIGINT NOT NULL DEFAULT 0,
		updated_at DATETIME NOT NULL
	)`).Error
	require.NoError(t, err)

	return db
}

func newService(t *testing.T, db *gorm.DB) creditdomain.Service {
	t.Helper()
	return creditservice.New(creditservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)),
		Repo:  creditrepo.Provide(),
	})
}

func TestGrantSetsAbsoluteBalance(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := newService(t, db)

	require.NoError(t, svc.Grant(ctx, "biz_1", 5))

	balance, err := svc.Balance(ctx, "biz_1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), balance)

	// Re-granting overwrites rather than accumulates.
	require.NoError(t, svc.Grant(ctx, "biz_1", 5))
	balance, err = svc.Balance(ctx, "biz_1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), balance)

	require.NoError(t, svc.Grant(ctx, "biz_1", 2))
	balance, err = svc.Balance(ctx, "biz_1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), balance)
}

func TestGrantRejectsNegativeAmount(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := newService(t, db)

	err := svc.Grant(ctx, "biz_1", -1)
	assert.ErrorIs(t, err, creditdomain.ErrInvalidAmount)
}

func TestConsumeOneDecrementsUntilZero(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := newService(t, db)

	require.NoError(t, svc.Grant(ctx, "biz_1", 2))

	ok, err := svc.ConsumeOne(ctx, "biz_1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.ConsumeOne(ctx, "biz_1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.ConsumeOne(ctx, "biz_1")
	require.NoError(t, err)
	assert.False(t, ok)

	balance, err := svc.Balance(ctx, "biz_1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestConsumeOneWithoutBalanceRow(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := newService(t, db)

	ok, err := svc.ConsumeOne(ctx, "biz_unknown")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBalanceZeroWhenMissing(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := newService(t, db)

	balance, err := svc.Balance(ctx, "biz_unknown")
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestConcurrentConsumeExactlyOneWinner(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	svc := newService(t, db)
	require.NoError(t, svc.Grant(ctx, "biz_1", 1))

	var wg sync.WaitGroup
	results := make([]bool, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			ok, err := svc.ConsumeOne(ctx, "biz_1")
			require.NoError(t, err)
			results[idx] = ok
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, ok := range results {
		if ok {
			winners++
		}
	}
	assert.Equal(t, 1, winners)

	balance, err := svc.Balance(ctx, "biz_1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}
