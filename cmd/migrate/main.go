package main

import (
	"context"
	"flag"
	"log"
	"time"

	migrate "github.com/rubenv/sql-migrate"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/infrastructure/database"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/infrastructure/mongodb"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/pkg/config"
	pkglogger "github.com/PtKartikVashishtha/BecopyMain-sub000/pkg/logger"
)

func main() {
	down := flag.Bool("down", false, "roll back instead of applying")
	max := flag.Int("max", 0, "maximum number of migrations to run, 0 for all")
	status := flag.Bool("status", false, "print applied migrations and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger, err := pkglogger.New(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Database.Driver == config.DriverMongo {
		// Mongo has no schema, only the indexes the repositories rely on
		db, client, err := mongodb.Connect(cfg.Mongo, logger)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		defer mongodb.Disconnect(ctx, client)

		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			log.Fatalf("Failed to create indexes: %v", err)
		}
		log.Println("✅ MongoDB indexes are in place")
		return
	}

	db, err := database.NewPostgresDB(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	if *status {
		applied, err := database.MigrationStatus(db)
		if err != nil {
			log.Fatalf("Failed to read migration status: %v", err)
		}
		for _, id := range applied {
			log.Printf("applied  %s", id)
		}
		return
	}

	direction := migrate.Up
	if *down {
		direction = migrate.Down
	}

	log.Println("🔄 Applying embedded migrations...")
	n, err := database.Migrate(db, direction, *max, logger)
	if err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}
	log.Printf("✅ Successfully applied %d migration(s)!", n)
}
