package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/adapter/repository"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/adapter/repository/mongostore"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/infrastructure/database"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/infrastructure/mongodb"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/pkg/config"
	pkgjwt "github.com/PtKartikVashishtha/BecopyMain-sub000/pkg/jwt"
	pkglogger "github.com/PtKartikVashishtha/BecopyMain-sub000/pkg/logger"
)

// devTokenExpiry keeps seeded tokens usable for a working day
const devTokenExpiry = 24 * time.Hour

type upserter interface {
	Upsert(ctx context.Context, user *entities.DirectoryUser) error
}

// testUsers get ids derived from their email so reruns update in place
var testUsers = []struct {
	Name     string
	Email    string
	UserType string
	Country  string
	Verified bool
}{
	{Name: "Alice", Email: "alice@test.local", UserType: "developer", Country: "DE", Verified: true},
	{Name: "Bob", Email: "bob@test.local", UserType: "developer", Country: "IN", Verified: true},
	{Name: "Charlie", Email: "charlie@test.local", UserType: "recruiter", Country: "US", Verified: true},
	{Name: "Diana", Email: "diana@test.local", UserType: "developer", Country: "BR", Verified: false},
}

func main() {
	log.Println("🚀 Seeding directory users...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatalf("Refusing to seed test users in production")
	}
	logger, err := pkglogger.New(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var dir upserter
	switch cfg.Database.Driver {
	case config.DriverMongo:
		db, client, err := mongodb.Connect(cfg.Mongo, logger)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer mongodb.Disconnect(ctx, client)
		dir = mongostore.NewDirectoryRepository(db)
	default:
		db, err := database.NewPostgresDB(cfg, logger)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.CloseDB(db)
		dir = repository.NewDirectoryRepository(db)
	}

	jwtManager := pkgjwt.NewManager(cfg.JWT.AccessSecret, devTokenExpiry)

	for i, u := range testUsers {
		user := &entities.DirectoryUser{
			ID:              entities.UserRefFromUUID(uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+u.Email))),
			Name:            u.Name,
			Email:           u.Email,
			UserType:        u.UserType,
			Country:         u.Country,
			IsActive:        true,
			IsEmailVerified: u.Verified,
		}
		if err := dir.Upsert(ctx, user); err != nil {
			log.Printf("❌ Failed to upsert user %s: %v", u.Email, err)
			continue
		}

		token, err := jwtManager.GenerateAccessToken(user.ID.UUID(), user.Email, user.UserType)
		if err != nil {
			log.Printf("❌ Failed to generate access token for %s: %v", u.Email, err)
			continue
		}

		fmt.Printf("═══════════════════════════════════════════════════════════════\n")
		fmt.Printf("🟢 User %d: %s\n", i+1, u.Name)
		fmt.Printf("Email:        %s\n", user.Email)
		fmt.Printf("User ID:      %s\n", user.ID)
		fmt.Printf("Type:         %s\n", user.UserType)
		fmt.Printf("Verified:     %v\n", user.IsEmailVerified)
		fmt.Printf("\n📋 Access Token (%v):\n%s\n\n", devTokenExpiry, token)
	}

	log.Println("✅ Test users are ready")
	log.Println("💡 Send requests with header: Authorization: Bearer <access_token>")
}
