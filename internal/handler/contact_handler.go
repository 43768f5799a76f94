package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mkale/splitledger/internal/middleware"
	"github.com/mkale/splitledger/internal/service"
)

// ContactHandler handles the derived contact list and explicit contact
// records.
type ContactHandler struct {
	contacts *service.ContactService
}

func NewContactHandler(contacts *service.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

type AddContactRequest struct {
	UserID         string `json:"userId" validate:"required"`
	ConnectionType string `json:"connectionType"`
}

func (h *ContactHandler) List(c *gin.Context) {
	list, err := h.contacts.GetAllContacts(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ContactHandler) Records(c *gin.Context) {
	records, err := h.contacts.ListContactRecords(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contacts": records})
}

func (h *ContactHandler) Add(c *gin.Context) {
	var req AddContactRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.contacts.AddContact(c.Request.Context(), middleware.GetUserID(c),
		req.UserID, req.ConnectionType); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (h *ContactHandler) Accept(c *gin.Context) {
	if err := h.contacts.AcceptContact(c.Request.Context(), middleware.GetUserID(c), c.Param("userId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ContactHandler) Block(c *gin.Context) {
	if err := h.contacts.BlockContact(c.Request.Context(), middleware.GetUserID(c), c.Param("userId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
