// Command reset-password sets a new password for an operator account and
// invalidates its open sessions.
//
//	go run ./cmd/reset-password -email admin@padaria.local -password novasenha
package main

import (
	"context"
	"flag"
	"log"

	"go-bakery-pos/internal/config"
	"go-bakery-pos/internal/repository"
	"go-bakery-pos/pkg/database"

	"github.com/google/uuid"
)

func main() {
	// 1. Load Env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	email := flag.String("email", cfg.AdminEmail, "account email")
	password := flag.String("password", cfg.AdminPassword, "new password")
	flag.Parse()
	if len(*password) < 6 {
		log.Fatal("❌ password must have at least 6 characters")
	}

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.DSN(), database.Options{})
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	ctx := context.Background()
	users := repository.NewUserRepo(db)

	// 3. Find user
	user, err := users.FindByEmail(ctx, *email)
	if err != nil {
		log.Fatalf("❌ User %s not found in database: %v", *email, err)
	}

	// 4. Hash new password
	if err := user.SetPassword(*password); err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}

	// 5. Update and drop existing sessions
	if err := users.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		log.Fatalf("❌ Failed to update password in DB: %v", err)
	}
	if err := users.UpdateTokenVersion(ctx, user.ID, uuid.New().String()); err != nil {
		log.Fatalf("❌ Failed to reset sessions: %v", err)
	}

	log.Printf("✅ Password for %s has been reset", *email)
}
