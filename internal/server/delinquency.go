package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	delinquencydomain "github.com/smallbiznis/rentfolio/internal/delinquency/domain"
)

func (s *Server) CreatePlaybook(c *gin.Context) {
	var req delinquencydomain.CreatePlaybookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.delinquencySvc.CreatePlaybook(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPlaybooks(c *gin.Context) {
	var query struct {
		ActiveOnly bool `form:"active_only"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.delinquencySvc.ListPlaybooks(c.Request.Context(), delinquencydomain.ListPlaybooksRequest{
		ActiveOnly: query.ActiveOnly,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPlaybook(c *gin.Context) {
	resp, err := s.delinquencySvc.GetPlaybook(c.Request.Context(), delinquencydomain.GetPlaybookRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdatePlaybook(c *gin.Context) {
	var req delinquencydomain.UpdatePlaybookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.delinquencySvc.UpdatePlaybook(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeletePlaybook(c *gin.Context) {
	err := s.delinquencySvc.DeletePlaybook(c.Request.Context(), delinquencydomain.DeletePlaybookRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) ListDelinquencyActions(c *gin.Context) {
	var query struct {
		PaymentID string `form:"payment_id"`
		PageToken string `form:"page_token"`
		PageSize  int32  `form:"page_size"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(query.PaymentID) == "" {
		AbortWithError(c, newValidationError("payment_id", "missing_payment_id", "payment_id is required"))
		return
	}

	resp, err := s.delinquencySvc.ListActions(c.Request.Context(), delinquencydomain.ListActionsRequest{
		PaymentID: query.PaymentID,
		PageToken: query.PageToken,
		PageSize:  query.PageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// TriggerDelinquencySweep runs the escalation sweep on demand, outside the
// scheduler cadence.
func (s *Server) TriggerDelinquencySweep(c *gin.Context) {
	resp, err := s.delinquencySvc.ProcessDelinquentPayments(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
