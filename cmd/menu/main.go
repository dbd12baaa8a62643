package main

import (
	"context"
	"log"
	"os"

	"github.com/craftplan-dev/craftplan-backend/config"
	"github.com/craftplan-dev/craftplan-backend/internal/bootstrap"
	"github.com/craftplan-dev/craftplan-backend/internal/menu"
	"github.com/craftplan-dev/craftplan-backend/internal/projects/repository"
	"github.com/craftplan-dev/craftplan-backend/internal/projects/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN()})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	repo := repository.NewProjectRepository(db)
	svc := service.NewProjectService(repo, nil)

	menu.New(svc, os.Stdin, os.Stdout).Run(ctx)
}
