package httpapi

import (
	"net/http"
	"strconv"

	"github.com/MLowen1/basicwebapp/internal/server/services"
	"github.com/gin-gonic/gin"
)

var contactErrors = errorText{
	NotFound: "Contact not found",
	Conflict: "A contact with this email already exists",
}

func contactID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid contact id"})
		return 0, false
	}
	return id, true
}

func (s *Server) listContacts(c *gin.Context) {
	list, err := s.contacts.List(c.Request.Context())
	if err != nil {
		s.respondError(c, err, contactErrors)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) getContact(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}

	contact, err := s.contacts.Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err, contactErrors)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (s *Server) createContact(c *gin.Context) {
	var in services.ContactInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": msgInvalidJSON})
		return
	}

	contact, err := s.contacts.Create(c.Request.Context(), in)
	if err != nil {
		s.respondError(c, err, contactErrors)
		return
	}
	c.JSON(http.StatusCreated, contact)
}

func (s *Server) updateContact(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}

	var patch services.ContactPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": msgInvalidJSON})
		return
	}

	contact, err := s.contacts.Update(c.Request.Context(), id, patch)
	if err != nil {
		s.respondError(c, err, contactErrors)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (s *Server) deleteContact(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}

	if err := s.contacts.Delete(c.Request.Context(), id); err != nil {
		s.respondError(c, err, contactErrors)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact deleted"})
}
