package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"storeapi/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Println("usage: go run ./cmd/create_admin <email> <password> [name]")
		os.Exit(2)
	}
	email := os.Args[1]
	password := os.Args[2]
	name := "admin"
	if len(os.Args) > 3 {
		name = os.Args[3]
	}

	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}

	// check existing
	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		if existing.Role != "admin" {
			if err := db.Model(&existing).Update("role", "admin").Error; err != nil {
				log.Fatalf("failed to promote user: %v", err)
			}
			fmt.Printf("promoted user %s to admin (id=%d)\n", email, existing.ID)
			return
		}
		fmt.Printf("admin %s already exists (id=%d)\n", email, existing.ID)
		return
	}

	hpw, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("bcrypt failed: %v", err)
	}
	user := models.User{Name: name, Email: email, Password: string(hpw), Role: "admin"}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("failed to create admin: %v", err)
	}
	fmt.Printf("created admin %s id=%d\n", email, user.ID)
}
