package httpapi

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/requestid"
)

const requestIDHeader = "X-Request-Id"

func (s *Server) routes() {
	r := s.engine

	r.Use(s.cors())
	r.Use(requestid.New(requestid.WithCustomHeaderStrKey(requestIDHeader)))
	r.Use(s.requestLogger())
	r.Use(s.recovery())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/", s.index)
	r.GET("/health", s.health)

	// short aliases kept for older clients
	r.POST("/register", s.register)
	r.POST("/login", s.login)
	r.POST("/logout", s.requireAuth(), s.logout)
	r.GET("/@me", s.requireAuth(), s.me)

	api := r.Group("/api")
	api.GET("", s.apiIndex)
	api.GET("/protected", s.requireAuth(), s.protected)
	api.GET("/images/search", s.requireAuth(), s.searchImages)

	a := api.Group("/auth")
	a.POST("/register", s.register)
	a.POST("/login", s.login)
	a.POST("/logout", s.requireAuth(), s.logout)
	a.GET("/me", s.requireAuth(), s.me)
	a.GET("/status", s.optionalAuth(), s.status)
	a.POST("/reset-token", s.requireAuth(), s.issueResetToken)
	a.POST("/reset-password", s.resetPassword)

	c := api.Group("/contacts", s.requireAuth())
	c.GET("", s.listContacts)
	c.POST("", s.createContact)
	c.GET("/:id", s.getContact)
	c.PUT("/:id", s.updateContact)
	c.PATCH("/:id", s.updateContact)
	c.DELETE("/:id", s.deleteContact)
}
