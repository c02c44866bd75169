// Command createadmin creates the back-office administrator account,
// or promotes the account if it already exists. Safe to run repeatedly.
package main

import (
	"errors"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"loja/internal/config"
	"loja/internal/models"
	"loja/internal/repositories"
)

func main() {
	cfg := config.Load()

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	var dialector gorm.Dialector
	if cfg.DatabaseDSN != "" {
		dialector = postgres.Open(cfg.DatabaseDSN)
	} else {
		dialector = sqlite.Open("loja.db")
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("Failed to migrate users table: %v", err)
	}

	userRepo := repositories.NewGORMUserRepository(db)

	user, err := userRepo.GetByEmail(email)
	switch {
	case err == nil:
		if user.IsAdmin {
			log.Printf("%s is already an administrator", email)
			return
		}
		user.IsAdmin = true
		if err := userRepo.Update(user); err != nil {
			log.Fatalf("Failed to promote %s: %v", email, err)
		}
		log.Printf("Promoted %s to administrator", email)

	case errors.Is(err, repositories.ErrNotFound):
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		admin := &models.User{
			Email:    email,
			Password: string(hashed),
			IsAdmin:  true,
		}
		if err := userRepo.Create(admin); err != nil {
			log.Fatalf("Failed to create administrator: %v", err)
		}
		log.Printf("Created administrator %s", email)

	default:
		log.Fatalf("Failed to look up %s: %v", email, err)
	}
}
