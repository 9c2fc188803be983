package server

import (
	"net/http"
	"strings"

	membershipdomain "github.com/DuongHuynhTrung/CamCrew/internal/membership/domain"
	"github.com/gin-gonic/gin"
)

type subscribeRequest struct {
	MembershipType string `json:"membership_type"`
}

func (s *Server) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.membershipSvc.Subscribe(c.Request.Context(), membershipdomain.SubscribeRequest{
		MembershipType: strings.TrimSpace(req.MembershipType),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}
