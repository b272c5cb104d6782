package httpapi

import (
	"net/http"
	"strings"

	"github.com/MLowen1/basicwebapp/internal/common"
	"github.com/MLowen1/basicwebapp/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const claimsKey = "basicwebapp.claims"

// requireAuth rejects the request unless it carries a valid, unrevoked
// access token.
func (s *Server) requireAuth() gin.HandlerFunc {
	return s.guard(false)
}

// optionalAuth lets anonymous requests through but still rejects a token
// that is present and invalid.
func (s *Server) optionalAuth() gin.HandlerFunc {
	return s.guard(true)
}

func (s *Server) guard(optional bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		if header == "" {
			if optional {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgMissingAuth})
			return
		}

		raw, ok := bearerToken(header)
		if !ok {
			s.respondError(c, common.ErrInvalidToken, errorText{})
			return
		}

		claims, err := s.auth.Validate(c.Request.Context(), raw)
		if err != nil {
			s.respondError(c, err, errorText{})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// bearerToken extracts the token from an Authorization header value. The
// scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// claimsFrom returns the claims stored by the guard, or nil for anonymous
// requests.
func claimsFrom(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}
