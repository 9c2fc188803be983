package server

import (
	"net/http"
	"strings"

	purchasedomain "github.com/DuongHuynhTrung/CamCrew/internal/purchase/domain"
	"github.com/DuongHuynhTrung/CamCrew/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

type buyServicesRequest struct {
	ServiceIDs []string `json:"service_id"`
	Amount     int64    `json:"amount"`
}

func (s *Server) BuyServices(c *gin.Context) {
	var req buyServicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	serviceIDs := make([]string, 0, len(req.ServiceIDs))
	for _, id := range req.ServiceIDs {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			serviceIDs = append(serviceIDs, trimmed)
		}
	}

	resp, err := s.purchaseSvc.BuyServices(c.Request.Context(), purchasedomain.BuyServicesRequest{
		ServiceIDs: serviceIDs,
		Amount:     req.Amount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListPurchases(c *gin.Context) {
	var query struct {
		pagination.Pagination
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.purchaseSvc.List(c.Request.Context(), purchasedomain.ListTransactionRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
