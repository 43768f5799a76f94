package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mkale/splitledger/internal/auth"
	"github.com/mkale/splitledger/internal/middleware"
	"github.com/mkale/splitledger/internal/service"
)

// Services bundles everything the router needs.
type Services struct {
	Auth        *service.AuthService
	Dashboards  *service.DashboardService
	Groups      *service.GroupService
	Expenses    *service.ExpenseService
	Settlements *service.SettlementService
	Contacts    *service.ContactService
	JWT         *auth.JWTManager
}

// NewRouter assembles the gin engine with all routes and middleware.
// Everything under /api except register and login requires a valid token.
func NewRouter(svcs Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.Metrics())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := NewAuthHandler(svcs.Auth)
	dashboardHandler := NewDashboardHandler(svcs.Dashboards)
	groupHandler := NewGroupHandler(svcs.Groups)
	expenseHandler := NewExpenseHandler(svcs.Expenses)
	settlementHandler := NewSettlementHandler(svcs.Settlements)
	contactHandler := NewContactHandler(svcs.Contacts)

	api := router.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.RequireAuth(svcs.JWT))
	{
		authed.GET("/auth/me", authHandler.Me)
		authed.PUT("/auth/me", authHandler.UpdateProfile)

		authed.GET("/dashboard/balances", dashboardHandler.Balances)
		authed.GET("/dashboard/spent", dashboardHandler.TotalSpent)
		authed.GET("/dashboard/monthly", dashboardHandler.MonthlySpending)
		authed.GET("/dashboard/groups", dashboardHandler.Groups)

		authed.POST("/groups", groupHandler.Create)
		authed.GET("/groups/:id", groupHandler.Get)
		authed.GET("/groups/:id/ledger", groupHandler.Ledger)
		authed.GET("/groups/:id/expenses", groupHandler.Expenses)
		authed.GET("/groups/:id/settlement-context", settlementHandler.GroupContext)

		authed.POST("/expenses", expenseHandler.Create)
		authed.POST("/expenses/preview", expenseHandler.Preview)
		authed.GET("/expenses/:id", expenseHandler.Get)
		authed.DELETE("/expenses/:id", expenseHandler.Delete)
		authed.GET("/users/:userId/expenses", expenseHandler.BetweenUsers)
		authed.GET("/users/:userId/settlement-context", settlementHandler.UserContext)

		authed.POST("/settlements", settlementHandler.Create)

		authed.GET("/contacts", contactHandler.List)
		authed.GET("/contacts/records", contactHandler.Records)
		authed.POST("/contacts", contactHandler.Add)
		authed.POST("/contacts/:userId/accept", contactHandler.Accept)
		authed.POST("/contacts/:userId/block", contactHandler.Block)
	}

	return router
}
