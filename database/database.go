package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ceejaycejas/nutrikid-sbfp/config"
	"github.com/ceejaycejas/nutrikid-sbfp/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	DB = db

	if err := DB.AutoMigrate(
		&models.School{},
		&models.GradeLevel{},
		&models.Section{},
		&models.User{},
		&models.Student{},
		&models.UserActivity{},
		&models.Notification{},
		&models.PasswordResetRequest{},
	); err != nil {
		log.Fatalf("auto migrate failed: %v", err)
	}
}
