package main

import (
	"context"
	"flag"
	"time"

	mongoMigration "rentals/internal/migrations/mongo"
	"rentals/pkg/config"
)

const JobName = "mongo-migration"

func main() {
	seed := flag.Bool("seed", true, "upsert the initial vehicle catalog")
	timeout := flag.Duration("timeout", 120*time.Second, "overall migration timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Mongo migration job", "seed", *seed)
	if err := mongoMigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName, *seed, cfg.Log); err != nil {
		cfg.GracefulShutdown()
		cfg.Log.Fatal("Migration failed", "error", err)
	}
	cfg.Log.Info("Migration completed successfully")
}
