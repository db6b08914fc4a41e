package database

import (
	"errors"
	"log"

	"poolside/config"
	"poolside/internal/domain"
	"poolside/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // Only log errors, not every SQL query
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Announcement{},
		&models.ContactMessage{},
		&models.ShippingRate{},
		&models.AuditLog{},
	)
}

// SeedAdmin creates the store-admin account if it does not exist yet.
func SeedAdmin(db *gorm.DB, cfg *config.AdminConfig) {
	var existing models.User
	err := db.Where("email = ?", cfg.Email).First(&existing).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[SEED] admin lookup failed: %v", err)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[SEED] admin password hash failed: %v", err)
		return
	}
	admin := &models.User{Email: cfg.Email, PasswordHash: string(hash), Role: domain.RoleAdmin}
	if err := db.Create(admin).Error; err != nil {
		log.Printf("[SEED] admin create failed: %v", err)
		return
	}
	log.Printf("[SEED] admin account created: %s", cfg.Email)
}

// Courier fees in cents per province; editable later via the admin API.
var defaultShippingCents = map[string]int64{
	"Gauteng":       9900,
	"Western Cape":  12900,
	"KwaZulu-Natal": 12900,
	"Eastern Cape":  14900,
	"Free State":    12900,
	"Limpopo":       14900,
	"Mpumalanga":    12900,
	"North West":    12900,
	"Northern Cape": 16900,
}

// SeedShippingRates fills the per-province rate table on first boot.
func SeedShippingRates(db *gorm.DB) {
	for _, province := range domain.Provinces {
		var existing models.ShippingRate
		if err := db.Where("province = ?", province).First(&existing).Error; err == nil {
			continue
		}
		rate := &models.ShippingRate{Province: province, AmountCents: defaultShippingCents[province]}
		if err := db.Create(rate).Error; err != nil {
			log.Printf("[SEED] shipping rate for %s failed: %v", province, err)
		}
	}
}
