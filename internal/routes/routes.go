// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"refshare/internal/config"
	"refshare/internal/handlers"
	"refshare/internal/middleware"
	"refshare/internal/models"
	"refshare/internal/repositories"
	"refshare/internal/services/affiliate"
	"refshare/internal/services/approval"
	"refshare/internal/services/auth"
	"refshare/internal/services/commission"
	"refshare/internal/services/fraud"
	"refshare/internal/services/payout"
	"refshare/internal/services/referral"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(repositories.DB, repositories.CacheService)
	affiliateRepo := repositories.NewAffiliateRepository(repositories.DB, repositories.CacheService)
	referralRepo := repositories.NewReferralRepository(repositories.DB, repositories.CacheService)
	commissionRepo := repositories.NewCommissionRepository(repositories.DB)
	payoutRepo := repositories.NewPayoutRepository(repositories.DB)
	activityRepo := repositories.NewActivityLogRepository(repositories.DB)
	fraudRepo := repositories.NewFraudFlagRepository(repositories.DB)

	// Initialize services
	authService := auth.NewService(userRepo)

	calculator := commission.NewCalculator(nil, commission.DefaultRate)
	approvalPolicy := commission.NewTenurePolicy(affiliateRepo, fraudRepo, commission.DefaultMinTenure)
	commissionService := commission.NewService(referralRepo, commissionRepo, activityRepo, calculator, approvalPolicy)

	approvalService := approval.NewService(commissionRepo, activityRepo)
	payoutService := payout.NewService(payoutRepo, commissionRepo, affiliateRepo, activityRepo)
	fraudService := fraud.NewService(affiliateRepo, referralRepo, commissionRepo, fraudRepo, activityRepo)
	affiliateService := affiliate.NewService(affiliateRepo, referralRepo, activityRepo)
	referralService := referral.NewService(affiliateRepo, referralRepo, activityRepo, commissionService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	webhookHandler := handlers.NewWebhookHandler(
		commissionService,
		referralService,
		config.GetEnv("STRIPE_WEBHOOK_SECRET", ""),
	)
	affiliateHandler := handlers.NewAffiliateHandler(affiliateService)
	referralHandler := handlers.NewReferralHandler(referralService)
	commissionHandler := handlers.NewCommissionHandler(commissionService, approvalService, commissionRepo)
	payoutHandler := handlers.NewPayoutHandler(payoutService)
	fraudHandler := handlers.NewFraudHandler(fraudService)

	// Health
	app.Get("/health", handlers.HealthCheck)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to Refshare API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})

	api := app.Group("/api")

	// Public endpoints (no auth required)
	api.Post("/login", authHandler.Login)
	api.Post("/refresh", authHandler.Refresh)

	// Billing platform webhooks (signature verified, no JWT)
	webhooks := api.Group("/webhooks")
	webhooks.Post("/stripe/payment-success", webhookHandler.PaymentSuccess)
	webhooks.Post("/stripe/payment-refunded", webhookHandler.PaymentRefunded)
	webhooks.Post("/paypal/payment-success", webhookHandler.PayPalPaymentSuccess)
	webhooks.Post("/user/registered", webhookHandler.UserRegistered)

	// Protected routes with auth middleware
	authMiddleware := middleware.NewAuthMiddleware(userRepo)
	protected := api.Use(authMiddleware.Handler)

	protected.Post("/logout", authHandler.Logout)
	protected.Post("/change-password", authHandler.ChangePassword)

	setupAffiliateRoutes(protected, affiliateHandler, fraudHandler)
	setupReferralRoutes(protected, referralHandler)
	setupCommissionRoutes(protected, commissionHandler)
	setupPayoutRoutes(protected, payoutHandler)
	setupFraudRoutes(protected, fraudHandler)
}

func setupAffiliateRoutes(router fiber.Router, h *handlers.AffiliateHandler, fraudHandler *handlers.FraudHandler) {
	affiliates := router.Group("/affiliates")

	affiliates.Post("/", middleware.HasPermission(models.PermissionAffiliateWrite), h.Create)
	affiliates.Get("/", middleware.HasPermission(models.PermissionAffiliateRead), h.List)
	affiliates.Get("/code/:code", middleware.HasPermission(models.PermissionAffiliateRead), h.GetByCode)
	affiliates.Get("/:id", middleware.HasPermission(models.PermissionAffiliateRead), h.Get)
	affiliates.Put("/:id", middleware.HasPermission(models.PermissionAffiliateWrite), h.Update)
	affiliates.Put("/:id/status", middleware.HasPermission(models.PermissionAffiliateWrite), h.UpdateStatus)
	affiliates.Get("/:id/stats", middleware.HasPermission(models.PermissionAffiliateRead), h.Stats)
	affiliates.Get("/:id/lifetime-value", middleware.HasPermission(models.PermissionAffiliateRead), h.LifetimeValue)
	affiliates.Get("/:id/activity", middleware.HasPermission(models.PermissionAffiliateRead), h.Activity)
	affiliates.Get("/:id/fraud-analysis", middleware.HasPermission(models.PermissionFraudRead), fraudHandler.Analyze)
}

func setupReferralRoutes(router fiber.Router, h *handlers.ReferralHandler) {
	referrals := router.Group("/referrals")

	referrals.Post("/", middleware.HasPermission(models.PermissionReferralWrite), h.Create)
	referrals.Get("/", middleware.HasPermission(models.PermissionReferralRead), h.List)
	referrals.Get("/stats", middleware.HasPermission(models.PermissionReferralRead), h.Stats)
	referrals.Get("/user/:userId", middleware.HasPermission(models.PermissionReferralRead), h.GetByUser)
	referrals.Get("/:id", middleware.HasPermission(models.PermissionReferralRead), h.Get)
	referrals.Post("/:id/convert", middleware.HasPermission(models.PermissionReferralWrite), h.Convert)
}

func setupCommissionRoutes(router fiber.Router, h *handlers.CommissionHandler) {
	commissions := router.Group("/commissions")

	commissions.Get("/", middleware.HasPermission(models.PermissionCommissionRead), h.List)
	commissions.Get("/pending", middleware.HasPermission(models.PermissionCommissionRead), h.ListPending)
	commissions.Get("/:id", middleware.HasPermission(models.PermissionCommissionRead), h.Get)
	commissions.Post("/:id/approve", middleware.HasPermission(models.PermissionCommissionApprove), h.Approve)
	commissions.Post("/:id/reject", middleware.HasPermission(models.PermissionCommissionApprove), h.Reject)
	commissions.Post("/bulk-approve", middleware.HasPermission(models.PermissionCommissionApprove), h.BulkApprove)
}

func setupPayoutRoutes(router fiber.Router, h *handlers.PayoutHandler) {
	payouts := router.Group("/payouts")

	// Payout creation moves money; operators never trigger it.
	payouts.Post("/generate-monthly", middleware.AdminAuthMiddleware, h.GenerateMonthly)
	payouts.Post("/", middleware.AdminAuthMiddleware, h.Create)
	payouts.Get("/", middleware.HasPermission(models.PermissionPayoutRead), h.List)
	payouts.Get("/stats", middleware.HasPermission(models.PermissionPayoutRead), h.Stats)
	payouts.Get("/:id", middleware.HasPermission(models.PermissionPayoutRead), h.Get)
	payouts.Put("/:id/status", middleware.HasPermission(models.PermissionPayoutWrite), h.UpdateStatus)
}

func setupFraudRoutes(router fiber.Router, h *handlers.FraudHandler) {
	fraudGroup := router.Group("/fraud")

	fraudGroup.Post("/affiliates/:id/flag", middleware.HasPermission(models.PermissionFraudWrite), h.Flag)
	fraudGroup.Get("/affiliates/:id/flags", middleware.HasPermission(models.PermissionFraudRead), h.ListFlags)
	fraudGroup.Put("/flags/:id/resolve", middleware.HasPermission(models.PermissionFraudWrite), h.ResolveFlag)
}
