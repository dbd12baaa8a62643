package main

import (
	"context"
	"log"
	"time"

	"github.com/craftplan-dev/craftplan-backend/config"
	"github.com/craftplan-dev/craftplan-backend/internal/bootstrap"
	"github.com/craftplan-dev/craftplan-backend/internal/projects/cache"
	cronjob "github.com/craftplan-dev/craftplan-backend/internal/projects/cron"
	"github.com/craftplan-dev/craftplan-backend/internal/projects/repository"
	"github.com/craftplan-dev/craftplan-backend/internal/projects/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()
	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN()})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	repo := repository.NewProjectRepository(db)

	var projectCache *cache.ProjectCache
	if cfg.Redis.Addr != "" {
		client, err := bootstrap.OpenRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Printf("Redis unavailable, running without cache: %v", err)
		} else {
			defer client.Close()
			projectCache = cache.NewProjectCache(client, time.Duration(cfg.Redis.CacheTTLSecs)*time.Second)
		}
	}

	svc := service.NewProjectService(repo, projectCache)

	if projectCache != nil {
		sched := cronjob.NewScheduler(svc, cfg.Redis.WarmSpec)
		sched.Start()
		defer sched.Stop()
	}

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "craftplan-backend",
		Version:     cfg.App.Version,
		DB:          db,
		Projects:    svc,
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
