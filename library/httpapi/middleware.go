package httpapi

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-go/library/core"
	"github.com/AntonStoeckl/library-lending-go/library/identity"
	"github.com/AntonStoeckl/library-lending-go/library/shell"
)

const (
	headerCorrelationID = "X-Correlation-ID"
	headerRequestID     = "X-Request-ID"

	ctxKeyPrincipal     = "principal"
	ctxKeyCorrelationID = "correlation_id"
)

// correlationID takes the caller's correlation id or starts a new one.
// All events appended while serving the request carry it in their metadata.
func (s *Server) correlationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerCorrelationID)
		if id == "" {
			id = c.GetHeader(headerRequestID)
		}
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.Set(ctxKeyCorrelationID, id)
		c.Header(headerCorrelationID, id)
		c.Request = c.Request.WithContext(shell.WithCorrelationID(c.Request.Context(), id))

		c.Next()
	}
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", float64(time.Since(start).Microseconds()) / 1000,
			"correlation_id", c.GetString(ctxKeyCorrelationID),
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			s.logger.WarnContext(c.Request.Context(), "http request", args...)
			return
		}

		s.logger.InfoContext(c.Request.Context(), "http request", args...)
	}
}

func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			abortWithMessage(c, http.StatusUnauthorized, msgUnauthorized)
			return
		}

		principal, err := s.auth.Verify(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			s.respondError(c, err)
			return
		}

		c.Set(ctxKeyPrincipal, principal)
		c.Next()
	}
}

func requireRole(roles ...core.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !slices.Contains(roles, principalOf(c).Role) {
			abortWithMessage(c, http.StatusForbidden, msgForbidden)
			return
		}

		c.Next()
	}
}

func principalOf(c *gin.Context) identity.Principal {
	principal, _ := c.Get(ctxKeyPrincipal)
	p, _ := principal.(identity.Principal)

	return p
}
