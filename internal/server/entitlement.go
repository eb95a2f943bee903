package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetEntitlement(c *gin.Context) {
	businessID := strings.TrimSpace(c.Param("id"))

	verdict, err := s.entitlementSvc.CanReply(c.Request.Context(), businessID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": verdict})
}

// PostReply is the authoritative consume path: it spends a credit or records
// a quota reply. Denials are 200 responses carrying the reason.
func (s *Server) PostReply(c *gin.Context) {
	businessID := strings.TrimSpace(c.Param("id"))

	verdict, err := s.entitlementSvc.ConsumeReply(c.Request.Context(), businessID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": verdict})
}
