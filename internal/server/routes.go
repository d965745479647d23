package server

import (
	"fintrack/internal/handlers"

	"github.com/labstack/echo/v4"
)

// routes is the route table. Handlers own binding and error mapping; this
// layer only decides paths and which middleware guards them.
type routes struct {
	auth         *handlers.AuthHandler
	transactions *handlers.TransactionHandler
	budgets      *handlers.BudgetHandler
	dashboard    *handlers.DashboardHandler
	health       *handlers.HealthCheckHandler
	requireAuth  echo.MiddlewareFunc
	rateLimit    echo.MiddlewareFunc
}

func (r routes) register(e *echo.Echo) {
	e.GET("/health", r.health.HealthCheck)

	api := e.Group("/api/v1")
	api.GET("/health", r.health.HealthCheck)

	auth := api.Group("/auth")
	auth.POST("/register", r.auth.Register, r.rateLimit)
	auth.POST("/login", r.auth.Login, r.rateLimit)
	auth.POST("/token/refresh", r.auth.RefreshToken, r.rateLimit)
	auth.POST("/logout", r.auth.Logout, r.requireAuth)
	auth.GET("/me", r.auth.Me, r.requireAuth)
	auth.DELETE("/me", r.auth.DeleteMe, r.requireAuth)
	auth.GET("/me/activity", r.auth.Activity, r.requireAuth)

	transactions := api.Group("/transactions", r.requireAuth)
	transactions.GET("", r.transactions.ListTransactions)
	transactions.POST("", r.transactions.CreateTransaction)
	transactions.GET("/categories", r.transactions.Categories)
	transactions.GET("/by_category", r.transactions.ByCategory)
	transactions.GET("/by_date_range", r.transactions.ByDateRange)
	transactions.GET("/:id", r.transactions.GetTransaction)
	transactions.PUT("/:id", r.transactions.UpdateTransaction)
	transactions.DELETE("/:id", r.transactions.DeleteTransaction)

	budgets := api.Group("/budgets", r.requireAuth)
	budgets.GET("", r.budgets.ListBudgets)
	budgets.POST("", r.budgets.CreateBudget)
	budgets.GET("/spending_vs_budget", r.budgets.SpendingVsBudget)
	budgets.GET("/:id", r.budgets.GetBudget)
	budgets.PUT("/:id", r.budgets.UpdateBudget)
	budgets.DELETE("/:id", r.budgets.DeleteBudget)

	dashboard := api.Group("/dashboard", r.requireAuth)
	dashboard.GET("/overview", r.dashboard.Overview)
	dashboard.GET("/spending_breakdown", r.dashboard.SpendingBreakdown)
	dashboard.GET("/spending_trend", r.dashboard.SpendingTrend)
	dashboard.GET("/recent_transactions", r.dashboard.RecentTransactions)
}
