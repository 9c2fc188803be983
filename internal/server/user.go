package server

import (
	"net/http"
	"strconv"

	"github.com/DuongHuynhTrung/CamCrew/internal/actorctx"
	userdomain "github.com/DuongHuynhTrung/CamCrew/internal/user/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) Me(c *gin.Context) {
	actor, ok := actorctx.FromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	resp, err := s.userSvc.GetByID(c.Request.Context(), userdomain.GetUserRequest{
		ID: strconv.FormatInt(actor.UserID, 10),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
