// Command superadmin-create provisions a superadmin account with random
// credentials and prints them once.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/aspectfv/talento-mvp/internal/database"
	"github.com/aspectfv/talento-mvp/internal/model"
)

// generateRandomString creates a random hex string of length 2n
func generateRandomString(n int) string {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal(err)
	}
	return hex.EncodeToString(bytes)
}

// generateUniqueEmail tries until an unused address is found
func generateUniqueEmail(db *gorm.DB) string {
	for {
		email := fmt.Sprintf("superadmin_%s@talento.local", generateRandomString(4))
		var count int64
		db.Model(&model.User{}).Where("email = ?", email).Count(&count)
		if count == 0 {
			return email
		}
	}
}

func main() {
	db, err := database.GetMainDB()
	if err != nil {
		log.Fatal("failed to initialize database: ", err)
	}

	email := generateUniqueEmail(db.DB)
	password := generateRandomString(8)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("failed to hash password: ", err)
	}

	superadmin := model.User{
		Email:    email,
		Password: string(hashedPassword),
		Role:     model.RoleSuperadmin,
	}
	if err := db.Create(&superadmin).Error; err != nil {
		log.Fatal("failed to create superadmin: ", err)
	}

	// Print credentials (only show plain password here!)
	fmt.Println("Superadmin credentials generated successfully!")
	fmt.Println("======================================")
	fmt.Printf("Email:    %s\n", superadmin.Email)
	fmt.Printf("Password: %s\n", password)
	fmt.Println("======================================")

	os.Exit(0)
}
