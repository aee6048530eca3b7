package main

import (
	"net/http"

	httphandlers "pennyverse/internal/interfaces/http"
	"pennyverse/internal/shared/config"
	"pennyverse/internal/shared/logger"
	"pennyverse/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", httphandlers.HandleHealth(deps.DB))

	// Protected routes
	authMiddleware := middleware.Auth(deps.JWT)
	protect := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, authMiddleware(h))
	}

	protect("/api/profile", deps.ProfileHandler.HandleProfile)
	protect("/api/profile/wallet/top-up", deps.ProfileHandler.HandleTopUp)

	protect("/api/transactions", deps.TransactionHandler.HandleTransactions)
	protect("/api/transactions/{id}", deps.TransactionHandler.HandleTransactionByID)
	protect("/api/classify", httphandlers.HandleClassify)

	protect("/api/rewards", deps.InsightHandler.HandleRewards)
	protect("/api/dashboard", deps.InsightHandler.HandleDashboard)
	protect("/api/insights", deps.InsightHandler.HandleInsights)

	protect("/api/vaults", deps.VaultHandler.HandleVaults)
	protect("/api/vaults/{id}", deps.VaultHandler.HandleVaultByID)
	protect("/api/vaults/{id}/save", deps.VaultHandler.HandleSave)
	protect("/api/vaults/{id}/break", deps.VaultHandler.HandleBreak)

	protect("/api/goals", deps.GoalHandler.HandleGoals)
	protect("/api/goals/{id}", deps.GoalHandler.HandleGoalByID)
	protect("/api/goals/{id}/contributions", deps.GoalHandler.HandleContributions)

	protect("/api/subscriptions", deps.SubscriptionHandler.HandleSubscriptions)
	protect("/api/subscriptions/upcoming", deps.SubscriptionHandler.HandleUpcoming)
	protect("/api/subscriptions/{id}", deps.SubscriptionHandler.HandleSubscriptionByID)

	protect("/api/notifications", deps.NotificationHandler.HandleNotifications)
	protect("/api/notifications/devices", deps.NotificationHandler.HandleRegisterDevice)
	protect("/api/notifications/preferences", deps.NotificationHandler.HandlePreferences)
	protect("/api/notifications/{id}/open", deps.NotificationHandler.HandleOpen)

	// Apply global middleware
	handler := middleware.Logging(middleware.Tracing(middleware.SecurityHeaders(middleware.CORS(cfg.Server.AllowedHosts)(mux))))

	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(handler)
	}

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(handler)
		logger.Info("TLS security middleware enabled (HSTS)")
	}

	return handler
}
