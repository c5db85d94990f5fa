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
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/robfig/cron/v3"

	"dormku_backend/internals/configs"
	database "dormku_backend/internals/databases"
	"dormku_backend/internals/databases/migrations"
	backupScheduler "dormku_backend/internals/features/system/backups/scheduler"
	authScheduler "dormku_backend/internals/features/users/auth/scheduler"
	middlewares "dormku_backend/internals/middlewares"
	routes "dormku_backend/internals/route"
	routeDetails "dormku_backend/internals/route/details"
)

func main() {
	configs.LoadEnv()
	cfg := configs.Load()

	app := fiber.New(fiber.Config{
		AppName:                 cfg.AppName,
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(middlewares.RequestContext(5 * time.Second))

	middlewares.SetupMiddlewares(app, cfg)

	// DB connect + migrations + pool + warm-up
	database.ConnectDB(cfg.DB)
	database.TunePool(cfg.DB)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		n, err := migrations.NewMigrator(database.DB).Up(ctx)
		cancel()
		if err != nil {
			log.Fatalf("[ERROR] migrations: %v", err)
		}
		log.Printf("[INFO] %d migration(s) applied", n)
	}
	database.WarmUpQueries()

	svcs, err := routeDetails.NewServices(database.DB, cfg)
	if err != nil {
		log.Fatalf("[ERROR] services: %v", err)
	}

	// scheduler after the DB is ready
	jobs := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := authScheduler.RegisterBlacklistCleanup(jobs, svcs.Auth, cfg.TokenBlacklistTTLDays); err != nil {
		log.Fatalf("[ERROR] blacklist cleanup job: %v", err)
	}
	if _, ok, err := backupScheduler.RegisterScheduledBackups(jobs, svcs.Backups, cfg.Backup.Cron); err != nil {
		log.Fatalf("[ERROR] backup job: %v", err)
	} else if ok {
		log.Printf("[INFO] scheduled backups on %q", cfg.Backup.Cron)
	}
	jobs.Start()

	routes.SetupRoutes(app, database.DB, svcs)

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Printf("✅ Listening on :%s", cfg.Port)
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown: stop jobs, drain requests, close the pool
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	<-jobs.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	database.Close(database.DB)
}
