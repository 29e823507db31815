package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"coopfund/internal/audit"
	"coopfund/internal/auth"
	"coopfund/internal/config"
	"coopfund/internal/contribution"
	"coopfund/internal/enforcement"
	"coopfund/internal/inventory"
	"coopfund/internal/member"
	"coopfund/internal/notification"
	"coopfund/internal/redemption"
	"coopfund/internal/tier"
	"coopfund/internal/wallet"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
}

func New(db *sqlx.DB, cfg *config.Config, notifier *notification.Service) *Server {
	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(20, 40))

	auditRepo := audit.NewRepository(db)
	memberRepo := member.NewRepository(db)
	tierRepo := tier.NewRepository(db)
	walletRepo := wallet.NewRepository(db)
	contributionRepo := contribution.NewRepository(db)
	enforcementRepo := enforcement.NewRepository(db)
	inventoryRepo := inventory.NewRepository(db)
	redemptionRepo := redemption.NewRepository(db)
	notificationRepo := notification.NewRepository(db)

	memberService := member.NewService(memberRepo, auditRepo, notifier, cfg.JWTSecret)
	walletService := wallet.NewService(walletRepo, tierRepo, auditRepo)
	contributionService := contribution.NewService(contributionRepo, notifier)
	enforcementService := enforcement.NewService(enforcementRepo, notifier, cfg.SuspendAfterWeeks, cfg.BanAfterWeeks)
	redemptionService := redemption.NewService(redemptionRepo, memberRepo, notifier, auditRepo)

	memberHandler := member.NewHandler(memberService)
	tierHandler := tier.NewHandler(tierRepo)
	walletHandler := wallet.NewHandler(walletService)
	contributionHandler := contribution.NewHandler(contributionService)
	enforcementHandler := enforcement.NewHandler(enforcementService)
	inventoryHandler := inventory.NewHandler(inventoryRepo)
	redemptionHandler := redemption.NewHandler(redemptionService)
	notificationHandler := notification.NewHandler(notificationRepo)
	auditHandler := audit.NewHandler(auditRepo)

	public := router.Group("/auth")
	{
		public.POST("/register", memberHandler.Register)
		public.POST("/login", memberHandler.Login)
		public.POST("/refresh", memberHandler.Refresh)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", memberHandler.GetMe)
		protected.POST("/me/pin", memberHandler.SetPin)

		protected.GET("/tiers", tierHandler.List)
		protected.GET("/tiers/:tierID", tierHandler.Get)
		protected.POST("/tiers/upgrade", walletHandler.Upgrade)

		protected.GET("/wallet", walletHandler.GetWallet)
		protected.POST("/wallet/fund", walletHandler.Fund)
		protected.POST("/wallet/withdraw", walletHandler.Withdraw)

		protected.GET("/contributions", contributionHandler.ListMine)
		protected.GET("/contributions/eligibility", contributionHandler.Eligibility)
		protected.POST("/contributions/pay", contributionHandler.Pay)

		protected.GET("/items", inventoryHandler.List)
		protected.POST("/redemptions", redemptionHandler.Redeem)
		protected.GET("/redemptions", redemptionHandler.ListMine)

		protected.GET("/notifications", notificationHandler.ListMine)
		protected.POST("/notifications/:notificationID/read", notificationHandler.MarkRead)
	}

	adminMiddleware := auth.RequireRole("admin")
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.GET("/members/pending", memberHandler.ListPending)
		admin.POST("/members/:memberID/approve", memberHandler.Approve)

		admin.POST("/tiers", tierHandler.Create)
		admin.PUT("/tiers/:tierID", tierHandler.Update)

		admin.POST("/wallet/adjust", walletHandler.AdminAdjust)

		admin.POST("/items", inventoryHandler.Create)
		admin.POST("/items/:itemID/restock", inventoryHandler.Restock)

		admin.GET("/redemptions", redemptionHandler.ListAll)
		admin.POST("/redemptions/:redemptionID/approve", redemptionHandler.Approve)
		admin.POST("/redemptions/:redemptionID/deliver", redemptionHandler.Deliver)

		admin.POST("/enforcement/run", enforcementHandler.Run)
		admin.GET("/enforcement/members/:memberID", enforcementHandler.Check)

		admin.GET("/audit", auditHandler.List)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())

	return &Server{
		router: router,
		db:     db,
		config: cfg,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
