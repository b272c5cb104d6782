package httpapi

import (
	"errors"
	"net/http"

	"github.com/MLowen1/basicwebapp/internal/common"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
)

const (
	msgInternal       = "Internal server error"
	msgInvalidJSON    = "Invalid JSON body"
	msgMissingAuth    = "Missing authorization header"
	msgBadCredentials = "Bad username or password"
	msgInvalidToken   = "Invalid token"
	msgTokenExpired   = "Token has expired"
	msgTokenRevoked   = "Token has been revoked"
	msgUserNotFound   = "User not found"
)

// errorText overrides the outward message per endpoint. Empty fields fall
// back to generic text.
type errorText struct {
	NotFound string
	Conflict string
	Internal string
}

// respondError maps a service error to a status code and writes
// {"message": ...}. Raw error text is logged for 5xx and never returned.
func (s *Server) respondError(c *gin.Context, err error, text errorText) {
	status, msg := statusFor(err, text)

	if status >= http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed",
			"path", c.FullPath(),
			"request_id", requestid.Get(c),
			"err", err,
		)
	}

	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}

func statusFor(err error, text errorText) (int, string) {
	var verr *common.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Message
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, orDefault(text.NotFound, "Not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict, orDefault(text.Conflict, "Already exists")
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, msgBadCredentials
	case errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, msgTokenExpired
	case errors.Is(err, common.ErrTokenRevoked):
		return http.StatusUnauthorized, msgTokenRevoked
	case errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, msgInvalidToken
	default:
		return http.StatusInternalServerError, orDefault(text.Internal, msgInternal)
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
