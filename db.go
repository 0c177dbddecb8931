package main

import (
	"os"

	"storeapi/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func openDB(cfg Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		// Migrate models individually so a failure on one doesn't block others
		if err := db.AutoMigrate(&models.User{}); err != nil {
			log.Warn("migration warning (users)", zap.Error(err))
		}
		if err := db.AutoMigrate(&models.RefreshToken{}); err != nil {
			log.Warn("migration warning (refresh_tokens)", zap.Error(err))
		}
		if err := db.AutoMigrate(&models.Product{}); err != nil {
			log.Warn("migration warning (products)", zap.Error(err))
		}
	}
	seedAdmin(db, log)
	return db, nil
}

// seedAdmin creates the initial admin account when ADMIN_EMAIL and
// ADMIN_PASSWORD are set and the email is not registered yet. Regular
// registration always produces "customer" users, so without this (or
// cmd/create_admin) no one can reach the admin endpoints.
func seedAdmin(db *gorm.DB, log *zap.Logger) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}
	var count int64
	db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return
	}
	digest, err := hashPassword(password)
	if err != nil {
		log.Warn("admin seed: hash failed", zap.Error(err))
		return
	}
	admin := models.User{Name: "admin", Email: email, Password: digest, Role: "admin"}
	if err := db.Create(&admin).Error; err != nil {
		log.Warn("admin seed failed", zap.Error(err))
		return
	}
	log.Info("seeded admin user", zap.String("email", email))
}
