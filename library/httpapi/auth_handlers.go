package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// POST /api/auth/login
func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, msgMalformedBody)
		return
	}

	token, user, err := s.auth.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.respondError(c, err, "username", req.Username)
		return
	}

	respond(c, http.StatusOK, loginResponse{Token: token, User: toUserResponse(user)})
}

// POST /api/auth/register
func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, msgMalformedBody)
		return
	}

	user, err := s.auth.Register(c.Request.Context(), req.registration(), req.Password)
	if err != nil {
		s.respondError(c, err, "username", req.Username)
		return
	}

	c.Header("Location", "/api/users/"+user.UserID)
	respondMessage(c, http.StatusCreated, toUserResponse(user), "user registered")
}
