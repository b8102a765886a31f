package main

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/owenjoycecoughlan/Offsets/config"
	apihttp "github.com/owenjoycecoughlan/Offsets/internal/api/http"
	"github.com/owenjoycecoughlan/Offsets/internal/guard"
	iterrepo "github.com/owenjoycecoughlan/Offsets/internal/iterations/repository"
	iterservice "github.com/owenjoycecoughlan/Offsets/internal/iterations/service"
	cronjob "github.com/owenjoycecoughlan/Offsets/internal/lifecycle/cron"
	noderepo "github.com/owenjoycecoughlan/Offsets/internal/nodes/repository"
	nodeservice "github.com/owenjoycecoughlan/Offsets/internal/nodes/service"
	"github.com/owenjoycecoughlan/Offsets/internal/notify"
	"github.com/owenjoycecoughlan/Offsets/internal/settings"
	"github.com/owenjoycecoughlan/Offsets/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := postgres.Migrate(migrateCtx, db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var notifier notify.Notifier = notify.Noop{}
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer client.Close()
		notifier = notify.NewRedis(client)
		log.Printf("Moderation alerts enabled via redis at %s", cfg.Redis.Addr)
	}

	nodeStore := noderepo.NewNodeRepository(db)
	iterStore := iterrepo.NewIterationRepository(db)

	nodes := nodeservice.NewNodeService(nodeStore, notifier)
	moderation := nodeservice.NewModerationService(nodeStore)
	lifecycle := nodeservice.NewLifecycleService(nodeStore, cfg.Lifecycle.WitherDays)
	iterations := iterservice.NewIterationService(iterStore)

	scheduler := cronjob.NewScheduler(cfg.Lifecycle.SweepCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		it, err := iterations.Active(ctx)
		if err != nil {
			log.Printf("[warn] operation=sweep no active iteration: %v", err)
			return
		}
		if _, err := lifecycle.Sweep(ctx, it.ID); err != nil {
			log.Printf("[error] operation=sweep failed: %v", err)
		}
	})
	scheduler.Start()
	defer scheduler.Stop()

	router := apihttp.NewRouter(apihttp.Deps{
		DB:          db,
		ServiceName: "offsets-api",
		Version:     cfg.App.Version,
		AdminAPIKey: cfg.Admin.APIKey,

		Nodes:      nodes,
		Moderation: moderation,
		Lifecycle:  lifecycle,
		Iterations: iterations,
		Settings:   settings.NewRepository(db),
		Guard:      guard.NewSubmissionGuard(cfg.Guard.SubmissionsPerMinute),
	})

	log.Printf("Starting server on :%s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
