package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pennyverse/internal/domain/goal"
	"pennyverse/internal/domain/notification"
	"pennyverse/internal/domain/profile"
	"pennyverse/internal/domain/reward"
	"pennyverse/internal/domain/subscription"
	"pennyverse/internal/domain/transaction"
	"pennyverse/internal/domain/vault"
	"pennyverse/internal/infrastructure/firebase"
	"pennyverse/internal/infrastructure/postgres"
	"pennyverse/internal/interfaces/scheduler"
	"pennyverse/internal/shared/auth"
	"pennyverse/internal/shared/config"
	"pennyverse/internal/shared/logger"
)

const usage = `Pennyverse Admin CLI - Management commands for the Pennyverse API

Usage:
  admin <command> [options]

Commands:
  migrate           Apply pending database migrations
  seed              Create demo users with transactions, vaults, goals and subscriptions
  renewal-check     Roll lapsed subscription renewals forward and send reminders
  streak-preview    Show how one more activity would change a rewards row

Examples:
  # Apply migrations
  admin migrate

  # Seed five demo users, reproducibly
  admin seed --users=5 --seed=42

  # Check renewals for one user
  admin renewal-check --user-id=5b8f1a52-3c3e-4c7a-9d7e-2f0a1b2c3d4e

  # Check renewals for every user with subscriptions
  admin renewal-check --all --workers=8

  # Preview a streak update after a two day gap
  admin streak-preview --last-update=2024-06-01T10:00:00Z --now=2024-06-03T09:00:00Z --streak=4 --points=40
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "migrate":
		runMigrate(os.Args[2:])
	case "seed":
		runSeed(os.Args[2:])
	case "renewal-check":
		runRenewalCheck(os.Args[2:])
	case "streak-preview":
		runStreakPreview(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Print(usage)
		os.Exit(1)
	}
}

func connect() (*config.Config, *postgres.DB) {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logger.Configure(cfg.Log.Level, cfg.Log.Format)

	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	logger.Info("Connected to database")
	return cfg, db
}

func runMigrate(args []string) {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	timeout := fs.Duration("timeout", 2*time.Minute, "Timeout for the operation")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	_, db := connect()
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	applied, err := db.Migrate(ctx)
	if err != nil {
		logger.Fatalf("Migration failed: %v", err)
	}
	logger.Infof("Applied %d migration(s)", applied)
}

func runSeed(args []string) {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	users := fs.Int("users", 3, "Number of demo users to create")
	txPerUser := fs.Int("transactions", 20, "Transactions per user")
	seed := fs.Int64("seed", 0, "Random seed (0 picks one)")
	timeout := fs.Duration("timeout", 5*time.Minute, "Timeout for the operation")

	fs.Usage = func() {
		fmt.Println("Usage: admin seed [options]")
		fmt.Println("\nOptions:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *users < 1 {
		fmt.Println("Error: --users must be at least 1")
		os.Exit(1)
	}

	cfg, db := connect()
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	policy, err := reward.ParsePolicy(cfg.Ledger.StreakPolicy)
	if err != nil {
		logger.Fatalf("Invalid streak policy: %v", err)
	}

	transactionRepo := postgres.NewTransactionRepository(db)
	rewardService := reward.NewService(postgres.NewRewardRepository(db), transactionRepo, policy, cfg.Ledger.Location)
	s := &seeder{
		faker:         gofakeit.New(*seed),
		profiles:      profile.NewService(postgres.NewProfileRepository(db)),
		transactions:  transaction.NewService(transactionRepo, rewardService),
		goals:         goal.NewService(postgres.NewGoalRepository(db)),
		subscriptions: subscription.NewService(postgres.NewSubscriptionRepository(db), cfg.Ledger.Location),
	}
	s.vaults = vault.NewService(postgres.NewVaultRepository(db), s.profiles, vault.RulesWithCapPercent(cfg.Ledger.IncomeCapPercent))

	jwt := auth.NewJWT(cfg.JWT.Secret, cfg.JWT.Issuer)

	for i := 0; i < *users; i++ {
		userID, email, err := s.seedUser(ctx, *txPerUser)
		if err != nil {
			logger.Fatalf("Seeding user %d failed: %v", i+1, err)
		}
		token, err := jwt.Generate(userID, email)
		if err != nil {
			logger.Fatalf("Failed to sign token: %v", err)
		}
		fmt.Printf("\n=== %s ===\n", email)
		fmt.Printf("  User ID: %s\n", userID)
		fmt.Printf("  Token:   %s\n", token)
	}
}

type seeder struct {
	faker         *gofakeit.Faker
	profiles      *profile.Service
	transactions  *transaction.Service
	vaults        *vault.Service
	goals         *goal.Service
	subscriptions *subscription.Service
}

var seedDescriptions = []string{
	"Lunch at canteen", "Uber to office", "Amazon order", "Netflix subscription",
	"Electricity bill", "Dinner with friends", "Train ticket", "Mall shopping",
	"Spotify", "Water bill", "Groceries",
}

func (s *seeder) seedUser(ctx context.Context, txCount int) (uuid.UUID, string, error) {
	f := s.faker
	userID := uuid.New()
	email := f.Email()

	income := decimal.NewFromInt(int64(f.IntRange(25, 150)) * 1000)
	upi := strings.ToLower(f.Username()) + "@upi"
	if _, err := s.profiles.Update(ctx, userID, profile.UpdateParams{MonthlyIncome: &income, UPIID: &upi}); err != nil {
		return uuid.Nil, "", err
	}
	if _, err := s.profiles.TopUp(ctx, userID, income.Div(decimal.NewFromInt(2))); err != nil {
		return uuid.Nil, "", err
	}

	if _, err := s.transactions.CreateTransaction(ctx, transaction.CreateTransactionParams{
		UserID:      userID,
		Amount:      income,
		Description: "Salary",
		Type:        transaction.TypeIncome,
	}); err != nil {
		return uuid.Nil, "", err
	}
	for i := 0; i < txCount; i++ {
		if _, err := s.transactions.CreateTransaction(ctx, transaction.CreateTransactionParams{
			UserID:      userID,
			Amount:      decimal.NewFromFloat(f.Price(50, 2500)).Round(2),
			Description: f.RandomString(seedDescriptions),
			Type:        transaction.TypeExpense,
		}); err != nil {
			return uuid.Nil, "", err
		}
	}

	// Half the allowed maximum, so creation succeeds under any configured cap.
	target := s.vaults.Rules().MaxTarget(income).Div(decimal.NewFromInt(2)).Round(0)
	v, err := s.vaults.CreateVault(ctx, vault.CreateParams{
		UserID:          userID,
		GoalName:        f.RandomString([]string{"New Phone", "Goa Trip", "Emergency Fund", "Bike"}),
		Emoji:           f.RandomString(goal.EmojiOptions),
		TargetAmount:    target,
		DailySaveAmount: target.Div(decimal.NewFromInt(30)).Round(0),
	})
	if err != nil {
		return uuid.Nil, "", err
	}
	for i := 0; i < f.IntRange(1, 3); i++ {
		if _, err := s.vaults.SaveToVault(ctx, v.ID, userID, nil); err != nil {
			return uuid.Nil, "", err
		}
	}

	if _, err := s.goals.CreateGoal(ctx, goal.CreateParams{
		UserID:       userID,
		Title:        f.RandomString([]string{"Laptop", "Wedding gift", "Course fees", "Holiday"}),
		TargetAmount: decimal.NewFromInt(int64(f.IntRange(5, 80)) * 1000),
		Deadline:     time.Now().AddDate(0, f.IntRange(1, 12), 0),
		Emoji:        f.RandomString(goal.EmojiOptions),
	}); err != nil {
		return uuid.Nil, "", err
	}

	for _, name := range []string{"Netflix", "Spotify", f.AppName()} {
		if _, err := s.subscriptions.CreateSubscription(ctx, subscription.CreateParams{
			UserID:      userID,
			Name:        name,
			Cost:        decimal.NewFromInt(int64(f.IntRange(99, 999))),
			RenewalDate: time.Now().AddDate(0, 0, f.IntRange(1, 30)),
		}); err != nil {
			return uuid.Nil, "", err
		}
	}

	return userID, email, nil
}

func runRenewalCheck(args []string) {
	fs := flag.NewFlagSet("renewal-check", flag.ExitOnError)

	userIDStr := fs.String("user-id", "", "User ID(s) to check (comma-separated for multiple)")
	allUsers := fs.Bool("all", false, "Check all users with subscriptions")
	workers := fs.Int("workers", 4, "Number of concurrent workers")
	reminderDays := fs.Int("reminder-days", -1, "Remind about renewals due within this many days (default from config)")
	timeout := fs.Duration("timeout", 30*time.Minute, "Timeout for the operation (e.g., 5m, 1h)")

	fs.Usage = func() {
		fmt.Println("Usage: admin renewal-check [options]")
		fmt.Println("\nOptions:")
		fs.PrintDefaults()
		fmt.Println("\nExamples:")
		fmt.Println("  admin renewal-check --user-id=<uuid>")
		fmt.Println("  admin renewal-check --all --workers=8 --timeout=1h")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *userIDStr == "" && !*allUsers {
		fmt.Println("Error: must specify --user-id or --all")
		fs.Usage()
		os.Exit(1)
	}

	cfg, db := connect()
	defer db.Close()

	if *reminderDays < 0 {
		*reminderDays = cfg.Scheduler.RenewalReminderDays
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	notificationRepo := postgres.NewNotificationRepository(db)
	var messenger notification.Messenger
	if cfg.Firebase.CredentialsFile != "" {
		fcm, err := firebase.NewMessenger(ctx, cfg.Firebase.CredentialsFile, notificationRepo.DeactivateToken)
		if err != nil {
			logger.Warnf("Push notifications disabled: %v", err)
		} else {
			messenger = fcm
		}
	}

	subscriptionService := subscription.NewService(postgres.NewSubscriptionRepository(db), cfg.Ledger.Location)
	subscriptionService.SetNotifier(notification.NewService(notificationRepo, messenger))

	var userIDs []uuid.UUID
	if *allUsers {
		ids, err := subscriptionService.UsersWithSubscriptions(ctx)
		if err != nil {
			logger.Fatalf("Failed to list users: %v", err)
		}
		userIDs = ids
		logger.Infof("Found %d users with subscriptions", len(userIDs))
	} else {
		ids, err := parseUserIDs(*userIDStr)
		if err != nil {
			logger.Fatalf("%v", err)
		}
		userIDs = ids
	}

	if len(userIDs) == 0 {
		logger.Info("No users to process")
		return
	}

	logger.Infof("Starting renewal check for %d user(s) with %d workers", len(userIDs), *workers)
	startTime := time.Now()

	if len(userIDs) == 1 {
		res, err := subscriptionService.CheckRenewals(ctx, userIDs[0], *reminderDays)
		if err != nil {
			logger.Fatalf("Renewal check failed: %v", err)
		}
		fmt.Printf("\n=== User %s ===\n", userIDs[0])
		fmt.Printf("  Renewals advanced: %d\n", res.Advanced)
		fmt.Printf("  Reminders sent:    %d\n", res.Reminded)
	} else {
		pool := scheduler.NewWorkerPool(*workers, 0, len(userIDs))
		pool.Start()
		jobs := make([]scheduler.Job, 0, len(userIDs))
		for _, id := range userIDs {
			jobs = append(jobs, scheduler.NewRenewalJob(id, subscriptionService, *reminderDays))
		}
		submitted := pool.SubmitBatch(jobs)
		pool.Shutdown(*timeout)
		logger.Infof("Processed %d of %d user(s)", submitted, len(userIDs))
	}

	logger.Infof("Renewal check completed in %v", time.Since(startTime))
}

func runStreakPreview(args []string) {
	fs := flag.NewFlagSet("streak-preview", flag.ExitOnError)

	lastUpdate := fs.String("last-update", "", "Last activity time (RFC 3339); empty for a user without rewards")
	nowStr := fs.String("now", "", "Time of the new activity (RFC 3339, default now)")
	points := fs.Int("points", 0, "Current spendable points")
	lifetime := fs.Int("lifetime", -1, "Current lifetime points (default: same as --points)")
	streak := fs.Int("streak", 0, "Current streak in days")
	policyStr := fs.String("policy", string(reward.PolicyConsecutiveDay), "Streak policy: consecutive_day or net_balance")
	dailyNet := fs.String("daily-net", "0", "Income minus expense on the activity day (net_balance only)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	policy, err := reward.ParsePolicy(*policyStr)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	net, err := decimal.NewFromString(*dailyNet)
	if err != nil {
		logger.Fatalf("Invalid --daily-net: %v", err)
	}
	now, err := parseOptionalTime(*nowStr, time.Now())
	if err != nil {
		logger.Fatalf("Invalid --now: %v", err)
	}

	var current *reward.Rewards
	if *lastUpdate != "" {
		last, err := time.Parse(time.RFC3339, *lastUpdate)
		if err != nil {
			logger.Fatalf("Invalid --last-update: %v", err)
		}
		if *lifetime < 0 {
			*lifetime = *points
		}
		current = &reward.Rewards{Points: *points, LifetimePoints: *lifetime, Streak: *streak, LastUpdate: last}
	}

	next := reward.ApplyStreakUpdate(current, reward.Activity{At: now, DailyNet: net}, policy)

	fmt.Printf("Policy:          %s\n", policy)
	if current != nil {
		fmt.Printf("Days since last: %d\n", reward.DaysBetween(current.LastUpdate, now))
		fmt.Printf("Points:          %d -> %d\n", current.Points, next.Points)
		fmt.Printf("Lifetime points: %d -> %d\n", current.LifetimePoints, next.LifetimePoints)
		fmt.Printf("Streak:          %d -> %d\n", current.Streak, next.Streak)
	} else {
		fmt.Printf("Points:          %d\n", next.Points)
		fmt.Printf("Streak:          %d\n", next.Streak)
	}
	if b := reward.BadgeFor(next.Streak); b != nil {
		fmt.Printf("Badge:           %s\n", b.Name)
	}
}

func parseUserIDs(s string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := uuid.Parse(p)
		if err != nil {
			return nil, fmt.Errorf("invalid user ID '%s': %w", p, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseOptionalTime(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	return time.Parse(time.RFC3339, s)
}
