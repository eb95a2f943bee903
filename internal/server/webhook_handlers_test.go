package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	billingdomain "github.com/reclamohq/reclamo/internal/billing/domain"
	claimdomain "github.com/reclamohq/reclamo/internal/claim/domain"
	entitlementdomain "github.com/reclamohq/reclamo/internal/entitlement/domain"
)

type fakeBillingService struct {
	ingestErr   error
	ingestCalls int
	lastHeader  string
}

func (f *fakeBillingService) IngestWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	f.ingestCalls++
	f.lastHeader = signatureHeader
	_ = ctx
	_ = payload
	return f.ingestErr
}

func (f *fakeBillingService) StartCheckout(ctx context.Context, req billingdomain.StartCheckoutRequest) (string, error) {
	_ = ctx
	_ = req
	return "https://pay.example.com/c/cs_test", nil
}

func (f *fakeBillingService) OpenPortal(ctx context.Context, orgID int64) (string, error) {
	_ = ctx
	_ = orgID
	return "https://pay.example.com/p/cus_test", nil
}

type fakeEntitlementService struct {
	verdict entitlementdomain.Verdict
}

func (f *fakeEntitlementService) CanReply(ctx context.Context, businessID string) (entitlementdomain.Verdict, error) {
	_ = ctx
	_ = businessID
	return f.verdict, nil
}

func (f *fakeEntitlementService) ConsumeReply(ctx context.Context, businessID string) (entitlementdomain.Verdict, error) {
	_ = ctx
	_ = businessID
	return f.verdict, nil
}

type fakeClaimService struct {
	submitErr error
}

func (f *fakeClaimService) Submit(ctx context.Context, req claimdomain.SubmitRequest) (*claimdomain.Claim, error) {
	_ = ctx
	_ = req
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &claimdomain.Claim{ID: 1, Status: claimdomain.StatusPending}, nil
}

func (f *fakeClaimService) Decide(ctx context.Context, req claimdomain.DecideRequest) (*claimdomain.Claim, error) {
	_ = ctx
	_ = req
	return nil, claimdomain.ErrClaimNotFound
}

func (f *fakeClaimService) Get(ctx context.Context, businessID string) (*claimdomain.Claim, error) {
	_ = ctx
	_ = businessID
	return nil, nil
}

func TestBillingWebhookBadSignatureReturns400(t *testing.T) {
	gin.SetMode(gin.TestMode)

	billingSvc := &fakeBillingService{ingestErr: billingdomain.ErrInvalidSignature}
	srv := &Server{billingSvc: billingSvc}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/webhooks/billing", srv.HandleBillingWebhook)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/billing", bytes.NewBufferString(`{"id":"evt_1"}`))
	req.Header.Set(signatureHeader, "t=1,v1=bad")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if billingSvc.lastHeader != "t=1,v1=bad" {
		t.Fatalf("expected signature header to be forwarded, got %q", billingSvc.lastHeader)
	}
}

func TestBillingWebhookAcceptedReturns200(t *testing.T) {
	gin.SetMode(gin.TestMode)

	billingSvc := &fakeBillingService{}
	srv := &Server{billingSvc: billingSvc}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/webhooks/billing", srv.HandleBillingWebhook)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/billing", bytes.NewBufferString(`{"id":"evt_1"}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if billingSvc.ingestCalls != 1 {
		t.Fatalf("expected one ingest call, got %d", billingSvc.ingestCalls)
	}
}

func TestPostReplyDenialIsStill200(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv := &Server{entitlementSvc: &fakeEntitlementService{
		verdict: entitlementdomain.Verdict{Allowed: false, Reason: entitlementdomain.ReasonNoCredits},
	}}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/businesses/:id/replies", srv.PostReply)

	req := httptest.NewRequest(http.MethodPost, "/businesses/biz_1/replies", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var body struct {
		Data entitlementdomain.Verdict `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Data.Allowed {
		t.Fatal("expected verdict to deny")
	}
	if body.Data.Reason != entitlementdomain.ReasonNoCredits {
		t.Fatalf("expected reason %q, got %q", entitlementdomain.ReasonNoCredits, body.Data.Reason)
	}
}

func TestSubmitClaimConflictReturns409(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv := &Server{claimSvc: &fakeClaimService{submitErr: claimdomain.ErrAlreadyClaimed}}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/claims", srv.SubmitClaim)

	req := httptest.NewRequest(http.MethodPost, "/claims", bytes.NewBufferString(`{"business_id":"biz_1","org_id":"100","claimant_id":"user_1","email":"a@b.c","website":"b.c"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}

func TestSubmitClaimRejectsUnparsableOrgID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv := &Server{claimSvc: &fakeClaimService{}}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/claims", srv.SubmitClaim)

	req := httptest.NewRequest(http.MethodPost, "/claims", bytes.NewBufferString(`{"business_id":"biz_1","org_id":"not-a-number"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}
