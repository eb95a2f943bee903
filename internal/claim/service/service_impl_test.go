package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	claimdomain "github.com/reclamohq/reclamo/internal/claim/domain"
	claimrepo "github.com/reclamohq/reclamo/internal/claim/repository"
	claimservice "github.com/reclamohq/reclamo/internal/claim/service"
	"github.com/reclamohq/reclamo/internal/clock"
	"github.com/reclamohq/reclamo/internal/config"
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

	dsn := fmt.Sprintf("file:memdb_claim_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := []string{
		`CREATE TABLE business_claims (
			id BIGINT PRIMARY KEY,
			business_id TEXT NOT NULL,
			org_id BIGINT NOT NULL,
			claimant_id TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			verification_method TEXT NOT NULL,
			verification_email TEXT NOT NULL,
			business_website TEXT NOT NULL,
			submitted_at DATETIME NOT NULL,
			verified_at DATETIME,
			decided_by TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE UNIQUE INDEX uq_business_claims_active
			ON business_claims (business_id)
			WHERE status IN ('pending', 'verified')`,
		`CREATE TABLE credit_balances (
			business_id TEXT PRIMARY KEY,
			reply_credits BIGINT NOT NULL DEFAULT 0,
			updated_at DATETIME NOT NULL
		)`,
	}
	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return db
}

type testServices struct {
	claims  claimdomain.Service
	credits creditdomain.Service
	clock   *clock.FakeClock
}

func newServices(t *testing.T, db *gorm.DB) testServices {
	t.Helper()

	node, err := snowflake.NewNode(3)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	credits := creditservice.New(creditservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		Clock: clk,
		Repo:  creditrepo.Provide(),
	})

	cfg := config.Config{}
	cfg.Entitlement.DefaultCreditGrant = 5

	claims := claimservice.New(claimservice.Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Clock:   clk,
		Config:  cfg,
		Repo:    claimrepo.Provide(),
		Credits: credits,
	})

	return testServices{claims: claims, credits: credits, clock: clk}
}

func TestSubmitPendingWhenDomainsDiffer(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	ts := newServices(t, db)

	claim, err := ts.claims.Submit(ctx, claimdomain.SubmitRequest{
		BusinessID: "biz_1",
		OrgID:      100,
		ClaimantID: "user_1",
		Email:      "owner@gmail.com",
		Website:    "https://www.acme.example",
	})
	require.NoError(t, err)
	assert.Equal(t, claimdomain.StatusPending, claim.Status)
	assert.Equal(t, claimdomain.MethodAdminManual, claim.VerificationMethod)
	assert.Nil(t, claim.VerifiedAt)

	// No credits granted while pending.
	balance, err := ts.credits.Balance(ctx, "biz_1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestSubmitAutoVerifiesOnDomainMatch(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	ts := newServices(t, db)

	claim, err := ts.claims.Submit(ctx, claimdomain.SubmitRequest{
		BusinessID: "biz_1",
		OrgID:      100,
		ClaimantID: "user_1",
		Email:      "Owner@Acme.Example",
		Website:    "https://www.acme.example/about",
	})
	require.NoError(t, err)
	assert.Equal(t, claimdomain.StatusVerified, claim.Status)
	assert.Equal(t, claimdomain.MethodEmailDomainMatch, claim.VerificationMethod)
	require.NotNil(t, claim.VerifiedAt)

	balance, err := ts.credits.Balance(ctx, "biz_1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), balance)
}

func TestSubmitRejectsSecondLiveClaim(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	ts := newServices(t, db)

	_, err := ts.claims.Submit(ctx, claimdomain.SubmitRequest{
		BusinessID: "biz_1",
		OrgID:      100,
		ClaimantID: "user_1",
		Email:      "owner@gmail.com",
		Website:    "acme.example",
	})
	require.NoError(t, err)

	_, err = ts.claims.Submit(ctx, claimdomain.SubmitRequest{
		BusinessID: "biz_1",
		OrgID:      200,
		ClaimantID: "user_2",
		Email:      "other@gmail.com",
		Website:    "acme.example",
	})
	assert.ErrorIs(t, err, claimdomain.ErrAlreadyClaimed)
}

func TestResubmissionAllowedAfterRejection(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	ts := newServices(t, db)

	first, err := ts.claims.Submit(ctx, claimdomain.SubmitRequest{
		BusinessID: "biz_1",
		OrgID:      100,
		ClaimantID: "user_1",
		Email:      "owner@gmail.com",
		Website:    "acme.example",
	})
	require.NoError(t, err)

	_, err = ts.claims.Decide(ctx, claimdomain.DecideRequest{
		ClaimID:   first.ID,
		Status:    claimdomain.StatusRejected,
		DecidedBy: "admin_1",
	})
	require.NoError(t, err)

	second, err := ts.claims.Submit(ctx, claimdomain.SubmitRequest{
		BusinessID: "biz_1",
		OrgID:      100,
		ClaimantID: "user_1",
		Email:      "owner@gmail.com",
		Website:    "acme.example",
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, claimdomain.StatusPending, second.Status)
}

func TestDecideVerifiedGrantsDefaultCredits(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	ts := newServices(t, db)

	claim, err := ts.claims.Submit(ctx, claimdomain.SubmitRequest{
		BusinessID: "biz_1",
		OrgID:      100,
		ClaimantID: "user_1",
		Email:      "owner@gmail.com",
		Website:    "acme.example",
	})
	require.NoError(t, err)

	decided, err := ts.claims.Decide(ctx, claimdomain.DecideRequest{
		ClaimID:   claim.ID,
		Status:    claimdomain.StatusVerified,
		DecidedBy: "admin_1",
	})
	require.NoError(t, err)
	assert.Equal(t, claimdomain.StatusVerified, decided.Status)
	require.NotNil(t, decided.VerifiedAt)
	require.NotNil(t, decided.DecidedBy)
	assert.Equal(t, "admin_1", *decided.DecidedBy)

	balance, err := ts.credits.Balance(ctx, "biz_1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), balance)
}

func TestDecideVerifiedResetsBalanceToGrant(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	ts := newServices(t, db)

	claim, err := ts.claims.Submit(ctx, claimdomain.SubmitRequest{
		BusinessID: "biz_1",
		OrgID:      100,
		ClaimantID: "user_1",
		Email:      "owner@gmail.com",
		Website:    "acme.example",
	})
	require.NoError(t, err)

	// Pre-existing balance gets overwritten by the absolute-set grant.
	require.NoError(t, ts.credits.Grant(ctx, "biz_1", 2))

	_, err = ts.claims.Decide(ctx, claimdomain.DecideRequest{
		ClaimID: claim.ID,
		Status:  claimdomain.StatusVerified,
	})
	require.NoError(t, err)

	balance, err := ts.credits.Balance(ctx, "biz_1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), balance)
}

func TestDecideRejectsUnknownStatus(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	ts := newServices(t, db)

	_, err := ts.claims.Decide(ctx, claimdomain.DecideRequest{
		ClaimID: 1,
		Status:  "suspended",
	})
	assert.ErrorIs(t, err, claimdomain.ErrInvalidStatus)
}

func TestDecideUnknownClaim(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	ts := newServices(t, db)

	_, err := ts.claims.Decide(ctx, claimdomain.DecideRequest{
		ClaimID: 424242,
		Status:  claimdomain.StatusVerified,
	})
	assert.ErrorIs(t, err, claimdomain.ErrClaimNotFound)
}

func TestGetNilWhenUnclaimed(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	ts := newServices(t, db)

	claim, err := ts.claims.Get(ctx, "biz_unknown")
	require.NoError(t, err)
	assert.Nil(t, claim)
}

func TestGetPrefersLiveClaimOverRejected(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	ts := newServices(t, db)

	first, err := ts.claims.Submit(ctx, claimdomain.SubmitRequest{
		BusinessID: "biz_1",
		OrgID:      100,
		ClaimantID: "user_1",
		Email:      "owner@gmail.com",
		Website:    "acme.example",
	})
	require.NoError(t, err)

	_, err = ts.claims.Decide(ctx, claimdomain.DecideRequest{
		ClaimID: first.ID,
		Status:  claimdomain.StatusRejected,
	})
	require.NoError(t, err)

	got, err := ts.claims.Get(ctx, "biz_1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, claimdomain.StatusRejected, got.Status)

	ts.clock.Advance(time.Hour)
	second, err := ts.claims.Submit(ctx, claimdomain.SubmitRequest{
		BusinessID: "biz_1",
		OrgID:      100,
		ClaimantID: "user_1",
		Email:      "owner@gmail.com",
		Website:    "acme.example",
	})
	require.NoError(t, err)

	got, err = ts.claims.Get(ctx, "biz_1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, second.ID, got.ID)
	assert.Equal(t, claimdomain.StatusPending, got.Status)
}
