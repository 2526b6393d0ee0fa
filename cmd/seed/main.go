package main

import (
	"log"

	"cafepos-backend/internal/config"
	"cafepos-backend/internal/database"
	"cafepos-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// One-shot bootstrap: branch, super admin, terminal. Prints the terminal
// id so it can be entered on the POS device. Change the password after
// the first login.
func main() {
	cfg := config.Load()
	database.Init(cfg)

	branch := models.Branch{
		Name:    "Main Branch",
		Address: "Set a real address",
	}
	if err := database.DB.Create(&branch).Error; err != nil {
		log.Fatalf("Could not create branch: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("change-me-immediately"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Could not hash password: %v", err)
	}

	user := models.User{
		Name:         "Admin",
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleSuperAdmin,
		BranchID:     &branch.ID,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		log.Fatalf("Could not create user: %v", err)
	}

	terminal := models.Terminal{
		Name:     "Front Counter",
		BranchID: branch.ID,
		UserID:   user.ID,
	}
	if err := database.DB.Create(&terminal).Error; err != nil {
		log.Fatalf("Could not create terminal: %v", err)
	}

	log.Printf("Seed complete. Branch=%d User=%s Terminal ID=%d", branch.ID, user.Email, terminal.ID)
}
