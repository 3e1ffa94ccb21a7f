package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/library/core"
	"github.com/AntonStoeckl/library-lending-go/library/identity"
)

const (
	msgInternalError = "internal error"
	msgUnavailable   = "the request could not be completed because of concurrent changes, please retry"
	msgMalformedBody = "malformed request body"
	msgUnauthorized  = "authentication required"
	msgForbidden     = "not permitted"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials), errors.Is(err, identity.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotPermitted):
		return http.StatusForbidden
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrConflict),
		errors.Is(err, core.ErrNotAvailable),
		errors.Is(err, core.ErrDuplicateActiveLoan):
		return http.StatusConflict
	case errors.Is(err, core.ErrAlreadyReturned):
		return http.StatusUnprocessableEntity
	case errors.Is(err, eventstore.ErrConcurrencyConflict),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondError(c *gin.Context, err error, args ...any) {
	status := statusOf(err)

	switch status {
	case http.StatusInternalServerError:
		s.logger.ErrorContext(c.Request.Context(), "request failed", append(args, "error", err.Error())...)
		abortWithMessage(c, status, msgInternalError)

	case http.StatusServiceUnavailable:
		s.logger.WarnContext(c.Request.Context(), "request gave up", append(args, "error", err.Error())...)
		abortWithMessage(c, status, msgUnavailable)

	case http.StatusUnauthorized:
		if errors.Is(err, identity.ErrInvalidCredentials) {
			abortWithMessage(c, status, identity.ErrInvalidCredentials.Error())
			return
		}

		abortWithMessage(c, status, identity.ErrInvalidToken.Error())

	default:
		s.logger.DebugContext(c.Request.Context(), "request rejected", append(args, "error", err.Error())...)
		abortWithMessage(c, status, err.Error())
	}
}
