package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mkale/splitledger/internal/calculator"
	"github.com/mkale/splitledger/internal/middleware"
	"github.com/mkale/splitledger/internal/models"
	"github.com/mkale/splitledger/internal/service"
)

// ExpenseHandler handles expense CRUD and the split preview endpoint.
type ExpenseHandler struct {
	expenses *service.ExpenseService
}

func NewExpenseHandler(expenses *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

type SplitRequest struct {
	UserID string  `json:"userId" validate:"required"`
	Amount float64 `json:"amount" validate:"gte=0"`
	Paid   bool    `json:"paid"`
}

type CreateExpenseRequest struct {
	Description  string         `json:"description" validate:"required"`
	Amount       float64        `json:"amount" validate:"required,gt=0"`
	Category     string         `json:"category"`
	Date         int64          `json:"date"`
	PaidByUserID string         `json:"paidByUserId" validate:"required"`
	SplitType    string         `json:"splitType" validate:"required,oneof=equal percentage exact"`
	Splits       []SplitRequest `json:"splits" validate:"required,min=1,dive"`
	GroupID      string         `json:"groupId"`
}

func (h *ExpenseHandler) Create(c *gin.Context) {
	var req CreateExpenseRequest
	if !bindAndValidate(c, &req) {
		return
	}

	splits := make([]models.Split, len(req.Splits))
	for i, s := range req.Splits {
		splits[i] = models.Split{UserID: s.UserID, Amount: s.Amount, Paid: s.Paid}
	}

	expense, err := h.expenses.CreateExpense(c.Request.Context(), middleware.GetUserID(c),
		service.CreateExpenseInput{
			Description:  req.Description,
			Amount:       req.Amount,
			Category:     req.Category,
			Date:         req.Date,
			PaidByUserID: req.PaidByUserID,
			SplitType:    models.SplitType(req.SplitType),
			Splits:       splits,
			GroupID:      req.GroupID,
		})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

func (h *ExpenseHandler) Get(c *gin.Context) {
	expense, err := h.expenses.GetExpense(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

func (h *ExpenseHandler) Delete(c *gin.Context) {
	if err := h.expenses.DeleteExpense(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ExpenseHandler) BetweenUsers(c *gin.Context) {
	expenses, settlements, net, err := h.expenses.GetExpensesBetweenUsers(
		c.Request.Context(), middleware.GetUserID(c), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"expenses":    expenses,
		"settlements": settlements,
		"netBalance":  net,
	})
}

type PreviewParticipantRequest struct {
	UserID     string  `json:"userId" validate:"required"`
	Percentage float64 `json:"percentage"`
	Amount     float64 `json:"amount"`
}

type PreviewSplitsRequest struct {
	Amount       float64                     `json:"amount" validate:"required,gt=0"`
	SplitType    string                      `json:"splitType" validate:"required,oneof=equal percentage exact"`
	PaidByUserID string                      `json:"paidByUserId" validate:"required"`
	Participants []PreviewParticipantRequest `json:"participants" validate:"required,min=1,dive"`
}

// Preview computes shares for a prospective expense without persisting
// anything. Totals are reported alongside a validity flag so clients can
// surface off-tolerance input before submitting.
func (h *ExpenseHandler) Preview(c *gin.Context) {
	var req PreviewSplitsRequest
	if !bindAndValidate(c, &req) {
		return
	}

	participants := make([]calculator.Participant, len(req.Participants))
	for i, p := range req.Participants {
		participants[i] = calculator.Participant{
			UserID:     p.UserID,
			Percentage: p.Percentage,
			Amount:     p.Amount,
		}
	}

	shares, err := calculator.CalculateSplits(req.Amount, models.SplitType(req.SplitType),
		req.PaidByUserID, participants)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"shares":           shares,
		"amountsValid":     calculator.ShareTotalValid(shares, req.Amount),
		"percentagesValid": calculator.PercentageTotalValid(shares),
	})
}
