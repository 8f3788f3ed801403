package main

import (
	"context"
	"fmt"
	"os"

	"github.com/safar/petshop/internal/config"
	"github.com/safar/petshop/internal/database"
	"github.com/safar/petshop/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run scripts/run_migrations.go [up|down]")
		os.Exit(1)
	}

	direction, err := database.ParseDirection(os.Args[1])
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatal("connect to database", "error", err)
	}
	defer db.Close()

	applied, err := database.Migrate(context.Background(), db, direction)
	if err != nil {
		log.Fatal("run migrations", "direction", direction, "error", err)
	}

	for _, name := range applied {
		log.Info("ran migration", "file", name)
	}
	log.Info("migrations complete", "direction", direction, "count", len(applied))
}
