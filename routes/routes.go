package routes

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/smartspend/smartspend-api/handlers"
	"github.com/smartspend/smartspend-api/middleware"
	"github.com/smartspend/smartspend-api/services"
)

const Version = "1.0.0"

// Deps is everything the HTTP layer needs. RateLimiter may be nil.
type Deps struct {
	Auth       *services.AuthService
	Finance    *services.FinanceService
	Budgets    *services.BudgetService
	Summary    *services.SummaryService
	Moderation *services.ModerationService
	WS         *handlers.WSHandler

	Session        handlers.SessionConfig
	AllowedOrigins []string
	RateLimiter    *middleware.RateLimiter
}

// NewRouter builds the engine with CORS, request logging and rate limiting in
// front of the /api routes.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	if len(d.AllowedOrigins) > 0 {
		log.Printf("🌍 CORS: Allowing origins:")
		for _, origin := range d.AllowedOrigins {
			log.Printf("   - %s", origin)
		}
		router.Use(cors.New(cors.Config{
			AllowOrigins:     d.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           24 * time.Hour,
		}))
	}

	router.Use(middleware.RequestLogger())
	if d.RateLimiter != nil {
		router.Use(d.RateLimiter.Middleware())
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": Version,
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	api := router.Group("/api")
	{
		SetupAuthRoutes(api, d)
		SetupPublicCommunityRoutes(api, d)

		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(d.Session.Secret))
		{
			SetupUserRoutes(protected, d)
			SetupFinanceRoutes(protected, d)
			SetupBudgetRoutes(protected, d)
			SetupCommunityRoutes(protected, d)
			SetupAdminRoutes(protected, d)
			protected.GET("/ws", d.WS.HandleWS)
		}
	}

	return router
}

// SetupAuthRoutes sets up public authentication routes.
func SetupAuthRoutes(rg *gin.RouterGroup, d Deps) {
	authHandler := handlers.NewAuthHandler(d.Auth, d.Session)

	rg.POST("/register", authHandler.Register)
	rg.POST("/login", authHandler.Login)
	rg.POST("/logout", authHandler.Logout)
	rg.GET("/user", middleware.AuthMiddleware(d.Session.Secret), authHandler.CurrentUser)
}

// SetupUserRoutes sets up protected 2FA routes.
func SetupUserRoutes(rg *gin.RouterGroup, d Deps) {
	userHandler := &handlers.UserHandler{Auth: d.Auth}

	rg.POST("/user/2fa/setup", userHandler.SetupTOTP)
	rg.POST("/user/2fa/verify", userHandler.VerifyTOTP)
	rg.POST("/user/2fa/disable", userHandler.DisableTOTP)
}

// SetupFinanceRoutes sets up incomes, expenses and savings goals.
func SetupFinanceRoutes(rg *gin.RouterGroup, d Deps) {
	h := &handlers.FinanceHandler{Finance: d.Finance}

	rg.GET("/incomes", h.ListIncomes)
	rg.POST("/incomes", h.CreateIncome)
	rg.PUT("/incomes/:id", h.UpdateIncome)
	rg.DELETE("/incomes/:id", h.DeleteIncome)

	rg.GET("/expenses", h.ListExpenses)
	rg.POST("/expenses", h.CreateExpense)
	rg.PUT("/expenses/:id", h.UpdateExpense)
	rg.DELETE("/expenses/:id", h.DeleteExpense)
	rg.POST("/expenses/categorize", h.CategorizeLabel)
	rg.GET("/expenses/categories", h.ListCategories)

	rg.GET("/savings-goals", h.ListSavingsGoals)
	rg.POST("/savings-goals", h.CreateSavingsGoal)
	rg.PUT("/savings-goals/:id", h.UpdateSavingsGoal)
	rg.DELETE("/savings-goals/:id", h.DeleteSavingsGoal)
}

// SetupBudgetRoutes sets up budgets, their evaluations and the dashboard summary.
func SetupBudgetRoutes(rg *gin.RouterGroup, d Deps) {
	h := &handlers.BudgetHandler{Budgets: d.Budgets, Summary: d.Summary}

	rg.GET("/budgets", h.GetBudgets)
	rg.POST("/budgets", h.CreateBudget)
	rg.GET("/budgets/status", h.GetBudgetStatuses)
	rg.GET("/budgets/alerts", h.GetBudgetAlerts)
	rg.PUT("/budgets/:id", h.UpdateBudget)
	rg.DELETE("/budgets/:id", h.DeleteBudget)

	rg.GET("/summary", h.GetSummary)
}

func communityHandler(d Deps) *handlers.CommunityHandler {
	return &handlers.CommunityHandler{Moderation: d.Moderation, Auth: d.Auth}
}

// SetupPublicCommunityRoutes exposes the approved board without a session.
func SetupPublicCommunityRoutes(rg *gin.RouterGroup, d Deps) {
	h := communityHandler(d)

	rg.GET("/community-tips", h.ListApprovedTips)
	rg.GET("/deals", h.ListActiveDeals)
}

// SetupCommunityRoutes sets up submissions, likes and moderation.
func SetupCommunityRoutes(rg *gin.RouterGroup, d Deps) {
	h := communityHandler(d)
	admin := middleware.RequireAdmin()

	rg.POST("/community-tips", h.CreateTip)
	rg.GET("/community-tips/user", h.ListMyTips)
	rg.GET("/community-tips/all", admin, h.ListAllTips)
	rg.POST("/community-tips/:id/approve", admin, h.ApproveTip)
	rg.DELETE("/community-tips/:id", admin, h.RejectTip)
	rg.POST("/community-tips/:id/like", h.LikeTip)

	rg.POST("/deals", h.CreateDeal)
	rg.GET("/deals/user", h.ListMyDeals)
	rg.GET("/deals/all", admin, h.ListAllDeals)
	rg.POST("/deals/:id/approve", admin, h.ApproveDeal)
	rg.DELETE("/deals/:id", admin, h.RejectDeal)
}

// SetupAdminRoutes sets up the admin panel.
func SetupAdminRoutes(rg *gin.RouterGroup, d Deps) {
	h := &handlers.AdminHandler{Auth: d.Auth, Summary: d.Summary}

	admin := rg.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/users", h.ListUsers)
		admin.GET("/analytics", h.GetAnalytics)
	}
}
