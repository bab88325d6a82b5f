package main

import (
	"context"
	"log"

	"serviceease/internal/config"
	"serviceease/internal/db"
	"serviceease/internal/logger"
	"serviceease/internal/seed"
)

func main() {
	cfg := config.FromEnv()
	lg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer lg.Sync()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		lg.Fatal("connect db", "error", err)
	}
	defer pool.Close()

	if err := seed.Apply(ctx, pool); err != nil {
		lg.Fatal("seed apply", "error", err)
	}

	lg.Info("seed applied")
}
