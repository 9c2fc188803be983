package server

import (
	"net/http"
	"strings"

	bookingdomain "github.com/DuongHuynhTrung/CamCrew/internal/booking/domain"
	"github.com/DuongHuynhTrung/CamCrew/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

type createBookingRequest struct {
	CameramanID   string `json:"cameraman_id"`
	ServiceID     string `json:"service_id"`
	ScheduledDate string `json:"scheduled_date"`
	TimeOfDay     string `json:"time_of_day"`
}

func (s *Server) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.bookingSvc.Create(c.Request.Context(), bookingdomain.CreateBookingRequest{
		CameramanID:   strings.TrimSpace(req.CameramanID),
		ServiceID:     strings.TrimSpace(req.ServiceID),
		ScheduledDate: strings.TrimSpace(req.ScheduledDate),
		TimeOfDay:     strings.TrimSpace(req.TimeOfDay),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) CompleteBooking(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.bookingSvc.Complete(c.Request.Context(), bookingdomain.CompleteBookingRequest{
		ID: id,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetBookingByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.bookingSvc.GetByID(c.Request.Context(), bookingdomain.GetBookingRequest{
		ID: id,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListBookings(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.bookingSvc.List(c.Request.Context(), bookingdomain.ListBookingRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		Status:    strings.TrimSpace(query.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
