package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"campusaxis_backend/internals/configs"
	database "campusaxis_backend/internals/databases"
	achievementService "campusaxis_backend/internals/features/gamification/achievements/service"
	"campusaxis_backend/internals/features/gamification/catalog"
	"campusaxis_backend/internals/features/gamification/reconcile"
	statsService "campusaxis_backend/internals/features/gamification/stats/service"
	helper "campusaxis_backend/internals/helpers"
	"campusaxis_backend/internals/helpers/background"
	middlewares "campusaxis_backend/internals/middlewares"
	routes "campusaxis_backend/internals/route"
	routeDetails "campusaxis_backend/internals/route/details"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		ErrorHandler:            helper.ErrorHandler,
		BodyLimit:               8 * 1024 * 1024, // bulk CSV imports
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	middlewares.SetupMiddlewares(app)

	// DB connect + pool + warm-up
	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()

	if configs.GetEnvBool("DB_AUTO_MIGRATE", false) {
		if err := database.Migrate(database.DB); err != nil {
			log.Fatalf("[DB] migrate: %v", err)
		}
		log.Println("[DB] migrated.")
	}

	cat, err := catalog.Load(configs.GamificationFile)
	if err != nil {
		log.Fatalf("[GAMIFICATION] %v", err)
	}
	syncCtx, syncCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := achievementService.SyncCatalog(syncCtx, database.DB, cat); err != nil {
		log.Printf("[GAMIFICATION] catalog sync failed, serving existing rows: %v", err)
	}
	syncCancel()

	runner := background.NewRunner(10 * time.Second)
	evaluator := achievementService.NewEvaluator(database.DB)
	updater := statsService.NewUpdater(database.DB, cat.Rules.PostCreated, evaluator)

	// scheduler after the DB is ready
	var stopCron func() context.Context
	if configs.GetEnvBool("RECONCILE_ENABLED", true) {
		rec := reconcile.New(database.DB, evaluator, configs.GetEnvInt("RECONCILE_BATCH", 200))
		c, err := reconcile.Start(rec, reconcile.Config{Schedule: configs.ReconcileSchedule})
		if err != nil {
			log.Printf("[RECONCILE] disabled: %v", err)
		} else {
			stopCron = c.Stop
		}
	}

	routes.SetupRoutes(app, routeDetails.Deps{
		DB:      database.DB,
		Catalog: cat,
		Runner:  runner,
		Stats:   updater,
	})

	// keep-alive & connection timeouts
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")

	go func() {
		log.Printf("[SERVER] listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown: stop accepting, finish bookkeeping, close the pool
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[SERVER] shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if stopCron != nil {
		select {
		case <-stopCron().Done():
		case <-time.After(5 * time.Second):
			log.Println("[RECONCILE] run still in progress at exit")
		}
	}
	if !runner.Drain(5 * time.Second) {
		log.Println("[SERVER] background jobs still running at exit")
	}

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
