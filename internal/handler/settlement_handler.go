package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mkale/splitledger/internal/middleware"
	"github.com/mkale/splitledger/internal/service"
)

// SettlementHandler handles settlement creation and the pre-settlement
// context views.
type SettlementHandler struct {
	settlements *service.SettlementService
}

func NewSettlementHandler(settlements *service.SettlementService) *SettlementHandler {
	return &SettlementHandler{settlements: settlements}
}

type CreateSettlementRequest struct {
	Amount            float64  `json:"amount" validate:"required,gt=0"`
	Note              string   `json:"note"`
	Date              int64    `json:"date"`
	PaidByUserID      string   `json:"paidByUserId" validate:"required"`
	ReceivedByUserID  string   `json:"receivedByUserId" validate:"required"`
	GroupID           string   `json:"groupId"`
	RelatedExpenseIDs []string `json:"relatedExpenseIds"`
}

func (h *SettlementHandler) Create(c *gin.Context) {
	var req CreateSettlementRequest
	if !bindAndValidate(c, &req) {
		return
	}

	settlement, err := h.settlements.CreateSettlement(c.Request.Context(), middleware.GetUserID(c),
		service.CreateSettlementInput{
			Amount:            req.Amount,
			Note:              req.Note,
			Date:              req.Date,
			PaidByUserID:      req.PaidByUserID,
			ReceivedByUserID:  req.ReceivedByUserID,
			GroupID:           req.GroupID,
			RelatedExpenseIDs: req.RelatedExpenseIDs,
		})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, settlement)
}

func (h *SettlementHandler) UserContext(c *gin.Context) {
	view, err := h.settlements.GetUserSettlementContext(
		c.Request.Context(), middleware.GetUserID(c), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *SettlementHandler) GroupContext(c *gin.Context) {
	view, err := h.settlements.GetGroupSettlementContext(
		c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
