package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/MLowen1/basicwebapp/internal/common"
	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (s *Server) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": msgInvalidJSON})
		return
	}

	_, token, err := s.auth.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.respondError(c, err, errorText{
			Conflict: "Username already exists",
			Internal: "Registration failed due to server error",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "User registered successfully!",
		"access_token": token.Token,
	})
}

func (s *Server) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": msgInvalidJSON})
		return
	}

	_, token, err := s.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.respondError(c, err, errorText{Internal: "Login failed due to server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Login succeeded",
		"access_token": token.Token,
	})
}

func (s *Server) logout(c *gin.Context) {
	if err := s.auth.Logout(c.Request.Context(), claimsFrom(c)); err != nil {
		s.respondError(c, err, errorText{Internal: "Logout failed due to server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

func (s *Server) me(c *gin.Context) {
	user, err := s.auth.CurrentUser(c.Request.Context(), claimsFrom(c))
	if err != nil {
		s.respondError(c, err, errorText{NotFound: msgUserNotFound})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": user.ID, "username": user.UserName})
}

func (s *Server) status(c *gin.Context) {
	claims := claimsFrom(c)
	if claims == nil {
		c.JSON(http.StatusOK, gin.H{"logged_in_as": nil})
		return
	}

	user, err := s.auth.CurrentUser(c.Request.Context(), claims)
	if err != nil {
		s.respondError(c, err, errorText{NotFound: msgUserNotFound})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logged_in_as": user.UserName})
}

func (s *Server) protected(c *gin.Context) {
	user, err := s.auth.CurrentUser(c.Request.Context(), claimsFrom(c))
	if err != nil {
		s.respondError(c, err, errorText{NotFound: msgUserNotFound})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "This is a protected route",
		"logged_in_as": user.UserName,
	})
}

func (s *Server) issueResetToken(c *gin.Context) {
	userID, err := claimsFrom(c).UserID()
	if err != nil {
		s.respondError(c, err, errorText{})
		return
	}

	token, err := s.auth.IssueResetToken(c.Request.Context(), userID)
	if err != nil {
		s.respondError(c, err, errorText{NotFound: msgUserNotFound})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reset_token": token.Token,
		"expires_at":  token.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// resetPassword reports reset token problems as 400, not 401: the caller
// is not authenticating, it is submitting a form.
func (s *Server) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": msgInvalidJSON})
		return
	}

	err := s.auth.ResetPassword(c.Request.Context(), req.Token, req.NewPassword)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
	case errors.Is(err, common.ErrTokenExpired):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Reset token has expired"})
	case errors.Is(err, common.ErrTokenRevoked):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Reset token has already been used"})
	case errors.Is(err, common.ErrInvalidToken):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid reset token"})
	default:
		s.respondError(c, err, errorText{NotFound: msgUserNotFound})
	}
}
