package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/users
func (s *Server) listUsers(c *gin.Context) {
	users, err := s.lending.ListUsers(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}

	respond(c, http.StatusOK, mapAll(users, toUserResponse))
}

// DELETE /api/users/:id
func (s *Server) removeUser(c *gin.Context) {
	userID := c.Param("id")

	if userID == principalOf(c).UserID {
		abortWithMessage(c, http.StatusConflict, "you can't remove yourself")
		return
	}

	if err := s.lending.RemoveUser(c.Request.Context(), userID); err != nil {
		s.respondError(c, err, "user_id", userID)
		return
	}

	respondMessage[any](c, http.StatusOK, nil, "user removed")
}
