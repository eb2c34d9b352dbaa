package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"gopower/adapters/bayes"
	"gopower/adapters/postgres"
	"gopower/app"
	"gopower/internal/api"
	"gopower/internal/config"
	"gopower/internal/rng"
	"gopower/internal/testkit"
	"gopower/ports"
)

func main() {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	var repository ports.SweepRepository
	if cfg.Database.URL != "" {
		db, err := postgres.Connect(cfg.Database.URL)
		if err != nil {
			log.Fatalf("database error: %v", err)
		}
		defer db.Close()
		if err := postgres.EnsureSchema(context.Background(), db); err != nil {
			log.Fatalf("schema error: %v", err)
		}
		repository = postgres.NewSweepRepository(db)
	} else {
		log.Printf("[main] DATABASE_URL not set, sweeps held in memory only")
		repository = testkit.NewInMemorySweepRepository()
	}

	service := app.NewSweepService(bayes.NewLinearComparator(), rng.New(), repository, cfg.Sweep.Workers)
	server := api.NewServer(service, repository)

	if err := server.ListenAndServe(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
