package server

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/xendit/xendit-go/v6"
	"gorm.io/gorm"

	"github.com/kvasnikov/eventhub/config"
	"github.com/kvasnikov/eventhub/internal/cache"
	"github.com/kvasnikov/eventhub/internal/handlers"
	"github.com/kvasnikov/eventhub/internal/middleware"
	"github.com/kvasnikov/eventhub/internal/scheduler"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	xenditCfg, err := config.LoadXenditConfig()
	if err != nil {
		return fmt.Errorf("failed to load xendit config: %v", err)
	}
	xenditClient, err := config.InitXenditClient(xenditCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize xendit client: %v", err)
	}

	rdb, err := config.InitRedis()
	if err != nil {
		return fmt.Errorf("failed to initialize redis: %v", err)
	}
	if rdb == nil {
		log.Println("REDIS_ADDR not set, view counters disabled")
	}

	sched := scheduler.New(db)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	r := gin.Default()

	RegisterRoutes(r, db, rdb, xenditClient)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, xenditClient *xendit.APIClient) {
	r.Use(middleware.DatabaseMiddleware(db))
	if rdb != nil {
		r.Use(middleware.CacheMiddleware(cache.New(rdb)))
	}
	if xenditClient != nil {
		r.Use(middleware.XenditMiddleware(xenditClient))
	}

	public := r.Group("/v1")
	{
		public.POST("/register", handlers.Register)
		public.POST("/login", handlers.Login)
		public.POST("/payments/callback", handlers.PaymentCallback)

		eventPublic := public.Group("/events")
		{
			eventPublic.GET("", handlers.ListEvents)
			eventPublic.GET("/:id", handlers.GetEvent)
			eventPublic.GET("/:id/comments", handlers.ListEventComments)
			eventPublic.GET("/:id/reviews", handlers.ListEventReviews)
			eventPublic.GET("/:id/participations", handlers.ListEventParticipations)
		}

		userPublic := public.Group("/users")
		{
			userPublic.GET("/:id", handlers.GetUser)
			userPublic.GET("/:id/comments", handlers.ListUserComments)
			userPublic.GET("/:id/reviews", handlers.ListUserReviews)
			userPublic.GET("/:id/followers", handlers.ListFollowers)
			userPublic.GET("/:id/following", handlers.ListFollowing)
		}

		public.GET("/categories", handlers.ListCategories)
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		protected.GET("/profile", handlers.GetProfile)
		protected.PUT("/profile", handlers.UpdateProfile)

		eventProtected := protected.Group("/events")
		{
			eventProtected.PUT("/:id", handlers.UpdateEvent)
			eventProtected.DELETE("/:id", handlers.DeleteEvent)
			eventProtected.PUT("/:id/participation", handlers.SetParticipation)
			eventProtected.DELETE("/:id/participation", handlers.DeleteParticipation)
			eventProtected.POST("/:id/comments", handlers.CreateComment)
			eventProtected.POST("/:id/reviews", handlers.CreateReview)
			eventProtected.POST("/:id/purchase", handlers.PurchaseTicket)
			eventProtected.GET("/:id/tickets", handlers.ListEventTickets)
			eventProtected.GET("/:id/stats", handlers.GetEventStats)
		}

		protected.POST("/events", middleware.RequireRole("organizer", "admin"), handlers.CreateEvent)

		protected.GET("/participations", handlers.ListMyParticipations)
		protected.DELETE("/comments/:id", handlers.DeleteComment)
		protected.DELETE("/reviews/:id", handlers.DeleteReview)

		ticketProtected := protected.Group("/tickets")
		{
			ticketProtected.GET("", handlers.ListMyTickets)
			ticketProtected.GET("/:id/qr", handlers.GenerateTicketQR)
			ticketProtected.POST("/validate", handlers.ValidateTicket)
			ticketProtected.DELETE("/:id", handlers.DeleteTicket)
		}

		protected.POST("/users/:id/follow", handlers.FollowUser)
		protected.DELETE("/users/:id/follow", handlers.UnfollowUser)

		protected.GET("/feed", handlers.GetFeed)
		protected.GET("/recommendations", handlers.GetRecommendations)

		protected.GET("/notifications", handlers.ListNotifications)
		protected.PUT("/notifications/:id/read", handlers.MarkNotificationRead)
		protected.POST("/notifications/read-all", handlers.MarkAllNotificationsRead)

		protected.GET("/analytics/overview", middleware.RequireRole("organizer", "admin"), handlers.GetOrganizerOverview)

		admin := protected.Group("/categories")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("", handlers.CreateCategory)
			admin.PUT("/:id", handlers.UpdateCategory)
			admin.DELETE("/:id", handlers.DeleteCategory)
		}
	}
}
