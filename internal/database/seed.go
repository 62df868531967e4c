package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/opencampus/roombook_backend/internal/config"
	"github.com/opencampus/roombook_backend/internal/models"
	"github.com/opencampus/roombook_backend/internal/utils"
)

func SeedAdmin(db *gorm.DB, cfg *config.Config) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := models.User{
		Username: "admin",
		FullName: cfg.AdminFullName,
		Email:    cfg.AdminEmail,
		Password: hashed,
		Role:     models.RoleAdmin,
		Active:   true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Println("Seeded initial admin:", cfg.AdminEmail)
	return nil
}
