// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/your-org/bookstore-backend/internal/config"
	redisdb "github.com/your-org/bookstore-backend/internal/infrastructure/database/redis"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/handlers"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/middleware"
)

// SetupRoutes mounts every route group under the given router group
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redisdb.Client, cfg *config.Config) {
	setupAuthRoutes(rg, db, cfg)
	setupCatalogRoutes(rg, db, cfg)
	setupCartRoutes(rg, db, redisClient, cfg)
	setupOrderRoutes(rg, db, cfg)
	setupReviewRoutes(rg, db, cfg)
	setupNotificationRoutes(rg, db, cfg)
	setupAdminRoutes(rg, db, cfg)
}

func setupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)

	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.POST("/logout", authHandler.Logout)
			protected.GET("/me", authHandler.GetProfile)
			protected.PUT("/me", authHandler.UpdateProfile)
			protected.PUT("/password", authHandler.ChangePassword)
		}
	}
}

func setupCatalogRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	bookHandler := handlers.NewBookHandler(db, cfg)
	categoryHandler := handlers.NewCategoryHandler(db, cfg)
	directoryHandler := handlers.NewDirectoryHandler(db, cfg)
	promotionHandler := handlers.NewPromotionHandler(db, cfg)
	reviewHandler := handlers.NewReviewHandler(db, cfg)

	books := rg.Group("/books")
	{
		books.GET("", bookHandler.GetBooks)
		books.GET("/:id", bookHandler.GetBook)
		books.POST("", middleware.AuthMiddleware(cfg), middleware.AdminMiddleware(), bookHandler.CreateBook)
	}

	rg.GET("/reviews/book/:id", reviewHandler.GetBookReviews)
	rg.GET("/categories", categoryHandler.GetCategories)
	rg.GET("/authors", directoryHandler.GetAuthors)
	rg.GET("/publishers", directoryHandler.GetPublishers)
	rg.GET("/promotions/active", promotionHandler.GetActivePromotions)
}

func setupCartRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redisdb.Client, cfg *config.Config) {
	cartHandler := handlers.NewCartHandler(db, redisClient, cfg)

	cart := rg.Group("/cart")
	cart.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		cart.GET("", cartHandler.GetCart)
		cart.POST("/items", cartHandler.AddItem)
		cart.PUT("/items/:id", cartHandler.UpdateItem)
		cart.DELETE("/items/:id", cartHandler.RemoveItem)
		cart.DELETE("", cartHandler.ClearCart)
		cart.POST("/merge", cartHandler.MergeCart)
	}
}

func setupOrderRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	orderHandler := handlers.NewOrderHandler(db, cfg)
	invoiceHandler := handlers.NewInvoiceHandler(db, cfg)

	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.POST("", orderHandler.CreateOrder)
		orders.GET("", orderHandler.GetOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.PUT("/:id/cancel", orderHandler.CancelOrder)
		orders.GET("/:id/invoice", invoiceHandler.GenerateInvoice)
	}
}

func setupReviewRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	reviewHandler := handlers.NewReviewHandler(db, cfg)

	reviews := rg.Group("/reviews")
	reviews.Use(middleware.AuthMiddleware(cfg))
	{
		reviews.POST("", reviewHandler.CreateReview)
		reviews.DELETE("/:id", reviewHandler.DeleteReview)
		reviews.POST("/:id/helpful", reviewHandler.MarkReviewHelpful)
	}
}

func setupNotificationRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	notificationHandler := handlers.NewNotificationHandler(db, cfg)

	notifications := rg.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware(cfg))
	{
		notifications.GET("", notificationHandler.GetNotifications)
		notifications.PUT("/:id/read", notificationHandler.MarkRead)
		notifications.PUT("/read-all", notificationHandler.MarkAllRead)
	}
}

func setupAdminRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	bookHandler := handlers.NewBookHandler(db, cfg)
	categoryHandler := handlers.NewCategoryHandler(db, cfg)
	directoryHandler := handlers.NewDirectoryHandler(db, cfg)
	orderHandler := handlers.NewOrderHandler(db, cfg)
	promotionHandler := handlers.NewPromotionHandler(db, cfg)
	userAdminHandler := handlers.NewUserAdminHandler(db, cfg)

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/books", bookHandler.AdminListBooks)
		admin.POST("/books", bookHandler.CreateBook)
		admin.PUT("/books/:id", bookHandler.UpdateBook)
		admin.DELETE("/books/:id", bookHandler.DeleteBook)

		admin.POST("/categories", categoryHandler.CreateCategory)
		admin.PUT("/categories/:id", categoryHandler.UpdateCategory)
		admin.DELETE("/categories/:id", categoryHandler.DeleteCategory)

		admin.POST("/authors", directoryHandler.CreateAuthor)
		admin.PUT("/authors/:id", directoryHandler.UpdateAuthor)
		admin.DELETE("/authors/:id", directoryHandler.DeleteAuthor)

		admin.POST("/publishers", directoryHandler.CreatePublisher)
		admin.PUT("/publishers/:id", directoryHandler.UpdatePublisher)
		admin.DELETE("/publishers/:id", directoryHandler.DeletePublisher)

		admin.GET("/orders", orderHandler.AdminListOrders)
		admin.GET("/orders/:id", orderHandler.AdminGetOrder)
		admin.PUT("/orders/:id/status", orderHandler.AdminUpdateOrderStatus)

		admin.GET("/promotions", promotionHandler.AdminListPromotions)
		admin.POST("/promotions", promotionHandler.CreatePromotion)
		admin.PUT("/promotions/:id", promotionHandler.UpdatePromotion)
		admin.DELETE("/promotions/:id", promotionHandler.DeletePromotion)

		admin.GET("/users", userAdminHandler.ListUsers)
		admin.PUT("/users/:id/role", userAdminHandler.UpdateUserRole)
		admin.PUT("/users/:id/active", userAdminHandler.SetUserActive)
	}
}
