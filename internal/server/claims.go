package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	claimdomain "github.com/reclamohq/reclamo/internal/claim/domain"
)

type submitClaimRequest struct {
	BusinessID string `json:"business_id"`
	OrgID      string `json:"org_id"`
	ClaimantID string `json:"claimant_id"`
	Email      string `json:"email"`
	Website    string `json:"website"`
}

func (s *Server) SubmitClaim(c *gin.Context) {
	var req submitClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	orgID, err := snowflake.ParseString(strings.TrimSpace(req.OrgID))
	if err != nil {
		AbortWithError(c, newValidationError("org_id", "invalid_org_id", "invalid org id"))
		return
	}

	resp, err := s.claimSvc.Submit(c.Request.Context(), claimdomain.SubmitRequest{
		BusinessID: strings.TrimSpace(req.BusinessID),
		OrgID:      orgID.Int64(),
		ClaimantID: strings.TrimSpace(req.ClaimantID),
		Email:      strings.TrimSpace(req.Email),
		Website:    strings.TrimSpace(req.Website),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type decideClaimRequest struct {
	Status    string `json:"status"`
	DecidedBy string `json:"decided_by"`
}

func (s *Server) DecideClaim(c *gin.Context) {
	claimID, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_claim_id", "invalid claim id"))
		return
	}

	var req decideClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.claimSvc.Decide(c.Request.Context(), claimdomain.DecideRequest{
		ClaimID:   claimID.Int64(),
		Status:    strings.TrimSpace(req.Status),
		DecidedBy: strings.TrimSpace(req.DecidedBy),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type grantCreditsRequest struct {
	BusinessID string `json:"business_id"`
	Amount     int64  `json:"amount"`
}

func (s *Server) GrantCredits(c *gin.Context) {
	var req grantCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.creditSvc.Grant(c.Request.Context(), strings.TrimSpace(req.BusinessID), req.Amount); err != nil {
		AbortWithError(c, err)
		return
	}

	balance, err := s.creditSvc.Balance(c.Request.Context(), strings.TrimSpace(req.BusinessID))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"business_id":   strings.TrimSpace(req.BusinessID),
		"reply_credits": balance,
	}})
}
