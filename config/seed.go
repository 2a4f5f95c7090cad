package config

import (
	"github.com/yeremiapane/canteen-pos/models"
	"github.com/yeremiapane/canteen-pos/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedStaff creates the initial staff account from STAFF_EMAIL / STAFF_PASSWORD.
func SeedStaff(db *gorm.DB, cfg *Config) error {
	if cfg.StaffEmail == "" || cfg.StaffPassword == "" {
		utils.InfoLogger.Println("skip seeding staff: missing STAFF_EMAIL/STAFF_PASSWORD")
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", cfg.StaffEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		utils.InfoLogger.Printf("staff account already exists: %s", cfg.StaffEmail)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.StaffPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	staff := models.User{
		Email:     cfg.StaffEmail,
		Password:  string(hash),
		FirstName: "Canteen",
		LastName:  "Staff",
		Role:      models.RoleStaff,
		IsActive:  true,
	}
	if err := db.Create(&staff).Error; err != nil {
		return err
	}
	utils.InfoLogger.Printf("seeded staff account %s", staff.Email)
	return nil
}
