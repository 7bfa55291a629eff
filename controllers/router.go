package controllers

import (
	"time"

	"github.com/Danibruno18/credix/config"
	"github.com/Danibruno18/credix/database"
	"github.com/Danibruno18/credix/middleware"
	"github.com/Danibruno18/credix/services"
	"github.com/Danibruno18/credix/utils"
	"github.com/gin-gonic/gin"
)

// RouterOptions внешние зависимости API. Нулевые поля заменяются значениями по умолчанию.
type RouterOptions struct {
	Clock     services.Clock
	Notifier  services.BudgetNotifier
	Publisher services.EventPublisher

	// Budgets если nil, создается из Notifier
	Budgets *services.BudgetMonitor
}

// NewRouter собирает сервисы и регистрирует маршруты /api
func NewRouter(cfg *config.Config, db *database.Database, opts RouterOptions) *gin.Engine {
	if opts.Clock == nil {
		opts.Clock = services.SystemClock{}
	}

	users := services.NewUserService(db, opts.Clock)
	tokens := services.NewTokenService(cfg.JWT.SecretKey, cfg.JWT.ExpiresIn, opts.Clock)
	categories := services.NewCategoryService(db, opts.Clock)
	budgets := opts.Budgets
	if budgets == nil {
		budgets = services.NewBudgetMonitor(db, opts.Notifier)
	}
	transactions := services.NewTransactionService(db, opts.Clock, budgets, opts.Publisher)
	reports := services.NewReportService(db, opts.Clock)
	export := services.NewExportService(reports, opts.Clock)

	authController := NewAuthController(users, tokens)
	categoryController := NewCategoryController(categories)
	transactionController := NewTransactionController(transactions)
	reportController := NewReportController(reports, export)
	healthController := NewHealthController(opts.Clock)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.Server.CORSOrigins))
	router.Use(middleware.RateLimit(utils.NewRateLimiter(cfg.Server.RateLimit, time.Minute)))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	api := router.Group("/api")
	api.GET("/", healthController.Root)
	api.GET("/health", healthController.Health)

	// Публичные маршруты для аутентификации
	api.POST("/auth/register", authController.Register)
	api.POST("/auth/login", authController.Login)

	// Защищенные маршруты
	protected := api.Group("")
	protected.Use(middleware.Auth(tokens, users))

	protected.GET("/auth/me", authController.Me)

	protected.GET("/categories", categoryController.List)
	protected.POST("/categories", categoryController.Create)
	protected.GET("/categories/:id", categoryController.Get)
	protected.PUT("/categories/:id", categoryController.Update)
	protected.DELETE("/categories/:id", categoryController.Delete)

	protected.GET("/transactions", transactionController.List)
	protected.POST("/transactions", transactionController.Create)
	protected.PUT("/transactions/:id", transactionController.Update)
	protected.DELETE("/transactions/:id", transactionController.Delete)

	protected.GET("/reports/summary", reportController.Summary)
	protected.GET("/reports/by-category", reportController.ByCategory)
	protected.GET("/reports/export.xml", reportController.ExportXML)

	return router
}
