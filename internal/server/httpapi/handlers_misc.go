package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/MLowen1/basicwebapp/internal/server/openverse"
	"github.com/gin-gonic/gin"
)

const healthPingTimeout = 2 * time.Second

func (s *Server) index(c *gin.Context) {
	c.String(http.StatusOK, "API is running")
}

func (s *Server) apiIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "API is running"})
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn(ctx, "health check failed", "err", err)
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": "Database unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// positiveQueryInt reads an optional positive integer query parameter.
func positiveQueryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message": "Query parameter '" + name + "' must be a positive integer",
		})
		return 0, false
	}
	return n, true
}

func (s *Server) searchImages(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Query parameter 'q' is required"})
		return
	}

	page, ok := positiveQueryInt(c, "page")
	if !ok {
		return
	}
	pageSize, ok := positiveQueryInt(c, "page_size")
	if !ok {
		return
	}

	res, err := s.images.Search(c.Request.Context(), openverse.Query{
		Q:        q,
		Page:     page,
		PageSize: pageSize,
		License:  c.Query("license_type"),
	})
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"results": res.Results, "result_count": res.ResultCount})
	case errors.Is(err, openverse.ErrEmptyQuery):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Query parameter 'q' is required"})
	case errors.Is(err, openverse.ErrUpstream):
		s.logger.Warn(c.Request.Context(), "image search failed", "err", err)
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"message": "Image search service unavailable"})
	default:
		s.respondError(c, err, errorText{})
	}
}
