package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/reclamohq/reclamo/internal/clock"
	quotadomain "github.com/reclamohq/reclamo/internal/quota/domain"
	quotarepo "github.com/reclamohq/reclamo/internal/quota/repository"
	quotaservice "github.com/reclamohq/reclamo/internal/quota/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_quota_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`CREATE TABLE reply_ledger (
		id BIGINT PRIMARY KEY,
		business_id TEXT NOT NULL,
		created_at DATETIME NOT NULL
	)`).Error
	require.NoError(t, err)

	return db
}

func newService(t *testing.T, db *gorm.DB, clk *clock.FakeClock) quotadomain.Service {
	t.Helper()
	node, err := snowflake.NewNode(7)
	require.NoError(t, err)
	return quotaservice.New(quotaservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Repo:  quotarepo.Provide(),
	})
}

func TestCountThisMonthOnlyCountsCurrentCalendarMonth(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 28, 10, 0, 0, 0, time.UTC))
	svc := newService(t, db, clk)

	require.NoError(t, svc.RecordReply(ctx, "biz_1"))
	require.NoError(t, svc.RecordReply(ctx, "biz_1"))
	require.NoError(t, svc.RecordReply(ctx, "biz_other"))

	count, err := svc.CountThisMonth(ctx, "biz_1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCountResetsOnMonthRollover(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 31, 23, 0, 0, 0, time.UTC))
	svc := newService(t, db, clk)

	require.NoError(t, svc.RecordReply(ctx, "biz_1"))
	require.NoError(t, svc.RecordReply(ctx, "biz_1"))

	count, err := svc.CountThisMonth(ctx, "biz_1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	clk.Set(time.Date(2025, 4, 1, 0, 0, 1, 0, time.UTC))

	count, err = svc.CountThisMonth(ctx, "biz_1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, svc.RecordReply(ctx, "biz_1"))
	count, err = svc.CountThisMonth(ctx, "biz_1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCountZeroWithoutEntries(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	svc := newService(t, db, clk)

	count, err := svc.CountThisMonth(ctx, "biz_unknown")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
