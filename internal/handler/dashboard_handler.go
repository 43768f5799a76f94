package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mkale/splitledger/internal/middleware"
	"github.com/mkale/splitledger/internal/service"
)

// DashboardHandler serves the personal aggregate views.
type DashboardHandler struct {
	dashboards *service.DashboardService
}

func NewDashboardHandler(dashboards *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards}
}

func (h *DashboardHandler) Balances(c *gin.Context) {
	summary, err := h.dashboards.GetUserBalances(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *DashboardHandler) TotalSpent(c *gin.Context) {
	total, err := h.dashboards.GetTotalSpent(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalSpent": total})
}

func (h *DashboardHandler) MonthlySpending(c *gin.Context) {
	monthly, err := h.dashboards.GetMonthlySpending(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"months": monthly})
}

func (h *DashboardHandler) Groups(c *gin.Context) {
	groups, err := h.dashboards.GetUserGroups(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}
