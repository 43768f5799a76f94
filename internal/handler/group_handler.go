package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mkale/splitledger/internal/middleware"
	"github.com/mkale/splitledger/internal/service"
)

// GroupHandler handles group creation and the group ledger views.
type GroupHandler struct {
	groups *service.GroupService
}

func NewGroupHandler(groups *service.GroupService) *GroupHandler {
	return &GroupHandler{groups: groups}
}

type CreateGroupRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	MemberIDs   []string `json:"memberIds"`
}

func (h *GroupHandler) Create(c *gin.Context) {
	var req CreateGroupRequest
	if !bindAndValidate(c, &req) {
		return
	}

	group, err := h.groups.CreateGroup(c.Request.Context(), middleware.GetUserID(c),
		req.Name, req.Description, req.MemberIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

func (h *GroupHandler) Get(c *gin.Context) {
	group, err := h.groups.GetGroup(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h *GroupHandler) Ledger(c *gin.Context) {
	view, err := h.groups.GetGroupLedger(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *GroupHandler) Expenses(c *gin.Context) {
	view, err := h.groups.GetGroupExpenses(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
