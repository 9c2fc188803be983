package server

import (
	"net/http"

	"github.com/DuongHuynhTrung/CamCrew/internal/gateway"
	"github.com/DuongHuynhTrung/CamCrew/internal/reconciler"
	"github.com/gin-gonic/gin"
)

// HandlePaymentWebhook receives the gateway's payment callback. A 200
// acknowledges receipt; callbacks for unknown or already-consumed order
// codes are acknowledged too, so gateway retries converge.
func (s *Server) HandlePaymentWebhook(c *gin.Context) {
	var payload gateway.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	err := s.reconcilerSvc.HandleCallback(c.Request.Context(), reconciler.HandleCallbackRequest{
		Code:      payload.Code,
		OrderCode: payload.Data.OrderCode,
		Amount:    payload.Data.Amount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
