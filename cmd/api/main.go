package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vishall333/Smartlottery/api/routes"
	"github.com/Vishall333/Smartlottery/internal/config"
	"github.com/Vishall333/Smartlottery/internal/handlers"
	"github.com/Vishall333/Smartlottery/internal/repositories"
	mongorepo "github.com/Vishall333/Smartlottery/internal/repositories/mongodb"
	"github.com/Vishall333/Smartlottery/internal/scheduler"
	"github.com/Vishall333/Smartlottery/internal/services"
	mongodb "github.com/Vishall333/Smartlottery/pkg/mongodb"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present; real deployments use environment variables
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Repositories
	var contestRepo repositories.ContestRepository = mongorepo.NewContestRepository(db)
	var userRepo repositories.UserRepository = mongorepo.NewUserRepository(db)
	var paymentRepo repositories.PaymentRepository = mongorepo.NewPaymentRepository(db)
	var txRepo repositories.TransactionRepository = mongorepo.NewTransactionRepository(db)
	var adminRepo repositories.AdminUserRepository = mongorepo.NewAdminUserRepository(db)

	// Background scheduler (also runs the deferred contest restarts)
	sched, err := scheduler.New()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	// Services
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	settlementEngine := services.NewSettlementEngine(userRepo, contestRepo, txRepo, mongoClient, rng)
	contestManager := services.NewContestManager(contestRepo, settlementEngine, sched, cfg.Scheduler.RestartDelay)
	paymentLedger := services.NewPaymentLedger(paymentRepo, userRepo, txRepo, mongoClient,
		cfg.Payment.MinimumDeposit, cfg.Payment.AutoTrustDwell, cfg.Payment.AdminGateDwell)
	profileSynchronizer := services.NewProfileSynchronizer(userRepo)
	userService := services.NewUserService(userRepo, contestRepo, txRepo, mongoClient)
	authService := services.NewAuthService(adminRepo, cfg)

	// Ensure every catalog template has a live instance before ticking
	if err := contestManager.Initialize(context.Background(), time.Now()); err != nil {
		log.Fatalf("Failed to initialize contests: %v", err)
	}

	// Periodic tasks, each on its own cadence
	mustSchedule(sched.Every(cfg.Scheduler.LifecycleInterval, "contest-lifecycle", func() {
		contestManager.CheckLifecycle(context.Background(), time.Now())
	}))
	mustSchedule(sched.Every(cfg.Scheduler.RampInterval, "participant-ramp", func() {
		contestManager.UpdateParticipantCounts(context.Background(), time.Now())
	}))
	mustSchedule(sched.Every(cfg.Scheduler.ReconcileInterval, "payment-reconciliation", func() {
		paymentLedger.ReconcilePending(context.Background(), time.Now())
	}))
	mustSchedule(sched.Every(cfg.Scheduler.ProfileSyncInterval, "profile-sync", func() {
		profileSynchronizer.SyncDirtyProfiles(context.Background())
	}))
	sched.Start()

	// Handlers
	handlerDeps := routes.HandlerDependencies{
		AuthHandler:    handlers.NewAuthHandler(authService),
		UserHandler:    handlers.NewUserHandler(userService),
		ContestHandler: handlers.NewContestHandler(contestManager),
		PaymentHandler: handlers.NewPaymentHandler(paymentLedger),
		HealthHandler:  handlers.NewHealthHandler(mongoClient, sched),
	}

	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	log.Printf("Server starting on port %s", cfg.Server.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Cancel periodic timers and any pending restart timers first;
	// in-flight batches are safe to abandon since ticks are idempotent.
	if err := sched.Shutdown(); err != nil {
		log.Printf("Error shutting down scheduler: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Server exiting")
}

func mustSchedule(err error) {
	if err != nil {
		log.Fatalf("Failed to schedule background task: %v", err)
	}
}
