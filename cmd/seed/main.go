package main

import (
	"log"
	"os"
	"strings"

	"refshare/internal/config"
	"refshare/internal/models"
	"refshare/internal/repositories"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer func() {
		if repositories.DB != nil {
			sqlDB, err := repositories.DB.DB()
			if err != nil {
				log.Printf("⚠️ Failed to get SQL DB instance: %v", err)
			} else {
				if err := sqlDB.Close(); err != nil {
					log.Printf("⚠️ Failed to close PostgreSQL connection: %v", err)
				}
			}
		}

		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("⚠️ Failed to close Redis connection: %v", err)
			}
		}
	}()

	seedAdmin(adminEmail, adminPassword)

	if strings.EqualFold(os.Getenv("SEED_DEMO_AFFILIATE"), "true") {
		seedDemoAffiliate()
	}
}

func seedAdmin(email, password string) {
	var existingAdmin models.User
	result := repositories.DB.Where("email = ?", email).First(&existingAdmin)
	if result.Error == nil {
		log.Println("Admin user already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	adminUser := models.User{
		Email:        email,
		Password:     string(hashedPassword),
		Name:         config.GetEnv("ADMIN_NAME", "Administrator"),
		Role:         "admin",
		Status:       "active",
		TokenVersion: 1,
	}

	if err := repositories.DB.Create(&adminUser).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	log.Println("✅ Admin account created successfully!")
}

func seedDemoAffiliate() {
	var existing models.Affiliate
	result := repositories.DB.Where("email = ?", "demo@refshare.dev").First(&existing)
	if result.Error == nil {
		log.Println("Demo affiliate already exists")
		return
	}

	demo := models.Affiliate{
		Email:          "demo@refshare.dev",
		FirstName:      "Demo",
		LastName:       "Partner",
		CompanyName:    "Refshare Demo",
		ReferralCode:   "DEMO2026",
		CommissionRate: decimal.RequireFromString("0.20"),
		Status:         models.AffiliateStatusActive,
		PayoutMethod:   models.PayoutMethodBankTransfer,
	}

	if err := repositories.DB.Create(&demo).Error; err != nil {
		log.Fatal("Failed to create demo affiliate:", err)
	}

	log.Println("✅ Demo affiliate created successfully!")
}
