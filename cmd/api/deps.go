package main

import (
	"context"

	"github.com/redis/go-redis/v9"

	"pennyverse/internal/domain/goal"
	"pennyverse/internal/domain/insight"
	"pennyverse/internal/domain/notification"
	"pennyverse/internal/domain/profile"
	"pennyverse/internal/domain/reward"
	"pennyverse/internal/domain/subscription"
	"pennyverse/internal/domain/transaction"
	"pennyverse/internal/domain/vault"
	"pennyverse/internal/infrastructure/cache"
	"pennyverse/internal/infrastructure/firebase"
	"pennyverse/internal/infrastructure/postgres"
	"pennyverse/internal/infrastructure/postgres/listener"
	httphandlers "pennyverse/internal/interfaces/http"
	"pennyverse/internal/interfaces/scheduler"
	"pennyverse/internal/shared/auth"
	"pennyverse/internal/shared/config"
	"pennyverse/internal/shared/logger"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB    *postgres.DB
	Redis *redis.Client

	// Handlers
	ProfileHandler      *httphandlers.ProfileHandler
	TransactionHandler  *httphandlers.TransactionHandler
	VaultHandler        *httphandlers.VaultHandler
	GoalHandler         *httphandlers.GoalHandler
	SubscriptionHandler *httphandlers.SubscriptionHandler
	InsightHandler      *httphandlers.InsightHandler
	NotificationHandler *httphandlers.NotificationHandler

	// Auth
	JWT *auth.JWT

	// Background components
	Scheduler      *scheduler.Scheduler
	LedgerListener *listener.LedgerListener
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	logger.Info("Connected to database")

	deps := &Dependencies{DB: db}

	// Repositories
	profileRepo := postgres.NewProfileRepository(db)
	rewardRepo := postgres.NewRewardRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	vaultRepo := postgres.NewVaultRepository(db)
	goalRepo := postgres.NewGoalRepository(db)
	subscriptionRepo := postgres.NewSubscriptionRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	// Push delivery is optional; notifications are still stored without it.
	var messenger notification.Messenger
	if cfg.Firebase.CredentialsFile != "" {
		fcm, err := firebase.NewMessenger(ctx, cfg.Firebase.CredentialsFile, notificationRepo.DeactivateToken)
		if err != nil {
			logger.Warnf("Push notifications disabled: %v", err)
		} else {
			messenger = fcm
			logger.Info("Firebase messaging initialized")
		}
	}
	notificationService := notification.NewService(notificationRepo, messenger)

	// Domain services
	policy, err := reward.ParsePolicy(cfg.Ledger.StreakPolicy)
	if err != nil {
		db.Close()
		return nil, err
	}
	rewardService := reward.NewService(rewardRepo, transactionRepo, policy, cfg.Ledger.Location)
	profileService := profile.NewService(profileRepo)
	transactionService := transaction.NewService(transactionRepo, rewardService)

	vaultService := vault.NewService(vaultRepo, profileService, vault.RulesWithCapPercent(cfg.Ledger.IncomeCapPercent))
	vaultService.SetNotifier(notificationService)

	goalService := goal.NewService(goalRepo)
	goalService.SetNotifier(notificationService)

	subscriptionService := subscription.NewService(subscriptionRepo, cfg.Ledger.Location)
	subscriptionService.SetNotifier(notificationService)

	insightService := insight.NewService(transactionRepo, profileService, rewardService, vaultRepo)

	if cfg.Redis.Enabled {
		rdb, err := cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			logger.Warnf("Dashboard cache disabled: %v", err)
		} else {
			deps.Redis = rdb
			dashboards := cache.NewDashboardCache(rdb, cfg.Redis.TTL)
			insightService.SetCache(dashboards)
			profileService.SetCacheInvalidator(dashboards)
			transactionService.SetCacheInvalidator(dashboards)
			vaultService.SetCacheInvalidator(dashboards)
			deps.LedgerListener = listener.NewLedgerListener(cfg.Database.ConnectionString(), dashboards)
			logger.Infof("Dashboard cache enabled (ttl %s)", cfg.Redis.TTL)
		}
	}

	if cfg.Scheduler.Enabled {
		sched, err := scheduler.New(scheduler.Config{
			Spec:         cfg.Scheduler.Cron,
			Location:     cfg.Ledger.Location,
			WorkerCount:  cfg.Scheduler.WorkerCount,
			JobDelay:     cfg.Scheduler.JobDelay,
			QueueSize:    cfg.Scheduler.QueueSize,
			RunOnStartup: cfg.Scheduler.RunOnStartup,
			JobProvider:  scheduler.RenewalJobs(subscriptionService, cfg.Scheduler.RenewalReminderDays),
		})
		if err != nil {
			deps.Close()
			return nil, err
		}
		deps.Scheduler = sched
	}

	deps.JWT = auth.NewJWT(cfg.JWT.Secret, cfg.JWT.Issuer)

	deps.ProfileHandler = httphandlers.NewProfileHandler(profileService)
	deps.TransactionHandler = httphandlers.NewTransactionHandler(transactionService)
	deps.VaultHandler = httphandlers.NewVaultHandler(vaultService)
	deps.GoalHandler = httphandlers.NewGoalHandler(goalService)
	deps.SubscriptionHandler = httphandlers.NewSubscriptionHandler(subscriptionService)
	deps.InsightHandler = httphandlers.NewInsightHandler(insightService, rewardService)
	deps.NotificationHandler = httphandlers.NewNotificationHandler(notificationService)

	return deps, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			logger.Warnf("Error closing redis client: %v", err)
		}
	}
	if d.DB != nil {
		d.DB.Close()
	}
}
