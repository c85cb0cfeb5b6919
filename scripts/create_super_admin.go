// scripts/create_super_admin.go
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ceejaycejas/nutrikid-sbfp/config"
	"github.com/ceejaycejas/nutrikid-sbfp/database"
	"github.com/ceejaycejas/nutrikid-sbfp/models"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	database.Connect(cfg)

	name := envOr("SUPER_ADMIN_NAME", "Super Admin")
	email := envOr("SUPER_ADMIN_EMAIL", "superadmin@nutrikid.local")
	password := envOr("SUPER_ADMIN_PASSWORD", "ChangeMe123!")

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var existing models.User
	if err := database.DB.Where("email = ?", email).First(&existing).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Fatalf("failed to query users: %v", err)
		}
	} else {
		fmt.Println("super admin already exists:", email)
		os.Exit(0)
	}

	u := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         models.RoleSuperAdmin,
	}
	if err := database.DB.Create(&u).Error; err != nil {
		log.Fatalf("failed to insert super admin: %v", err)
	}

	fmt.Println("super admin created")
	fmt.Println("   Email:   ", email)
	fmt.Println("   Password:", password, "(change it after first sign-in)")
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
