package server

import (
	"net/http"
	"strings"

	catalogdomain "github.com/DuongHuynhTrung/CamCrew/internal/catalog/domain"
	"github.com/DuongHuynhTrung/CamCrew/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListServices(c *gin.Context) {
	var query struct {
		pagination.Pagination
		CameramanID string `form:"cameraman_id"`
		Status      string `form:"status"`
		Style       string `form:"style"`
		Area        string `form:"area"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.List(c.Request.Context(), catalogdomain.ListServiceRequest{
		PageToken:   query.PageToken,
		PageSize:    int32(query.PageSize),
		CameramanID: strings.TrimSpace(query.CameramanID),
		Status:      strings.TrimSpace(query.Status),
		Style:       strings.TrimSpace(query.Style),
		Area:        strings.TrimSpace(query.Area),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetServiceByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.catalogSvc.GetByID(c.Request.Context(), catalogdomain.GetServiceRequest{
		ID: id,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) FreeSlots(c *gin.Context) {
	var req catalogdomain.FreeSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	slots, err := s.catalogSvc.FreeSlots(c.Request.Context(), catalogdomain.FreeSlotsRequest{
		ServiceID: strings.TrimSpace(req.ServiceID),
		Date:      strings.TrimSpace(req.Date),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": slots})
}
