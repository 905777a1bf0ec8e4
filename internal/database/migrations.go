package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pricedesk/pricedesk/internal/models"
	"github.com/pricedesk/pricedesk/pkg/crypto"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.User{}, "Roles", &models.UserRole{}); err != nil {
		return err
	}
	// Both sides of the relation must point at the explicit join model, or
	// whichever side migrates first creates a bare (role_id, user_id) table.
	if err := db.SetupJoinTable(&models.Role{}, "Users", &models.UserRole{}); err != nil {
		return err
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.UserRole{},
		&models.RolePDFPermission{},
		&models.RoleBrandPermission{},
		&models.Brand{},
		&models.ProductPDF{},
		&models.ProductPricing{},
		&models.ProductPricingHistory{},
		&models.Project{},
		&models.Region{},
		&models.Version{},
	)
}

// SeedData populates the default roles, the dashboard root permission, and
// the two bootstrap accounts. The admin role carries no permission rows: it
// bypasses the guard entirely.
func SeedData(db *gorm.DB) error {
	var rootPermission models.Permission
	if err := db.Where(models.Permission{Code: "/"}).
		Attrs(models.Permission{Code: "/", Description: "Dashboard home"}).
		FirstOrCreate(&rootPermission).Error; err != nil {
		return err
	}

	var adminRole models.Role
	if err := db.Where(models.Role{Name: models.AdminRoleName}).
		Attrs(models.Role{Name: models.AdminRoleName, Description: "Full system access"}).
		FirstOrCreate(&adminRole).Error; err != nil {
		return err
	}

	var userRole models.Role
	if err := db.Where(models.Role{Name: models.DefaultRoleName}).
		Attrs(models.Role{Name: models.DefaultRoleName, Description: "Standard dashboard access"}).
		FirstOrCreate(&userRole).Error; err != nil {
		return err
	}

	if err := db.Model(&userRole).Association("Permissions").Append(&rootPermission); err != nil {
		return fmt.Errorf("attach root permission: %w", err)
	}

	seedUsers := []struct {
		email    string
		password string
		name     string
		role     *models.Role
	}{
		{email: "admin@example.com", password: "admin123", name: "Administrator", role: &adminRole},
		{email: "user@example.com", password: "user123", name: "Standard User", role: &userRole},
	}

	for _, seed := range seedUsers {
		var existing models.User
		err := db.Where("email = ?", seed.email).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		hashed, err := crypto.HashPassword(seed.password)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}

		user := models.User{Email: seed.email, Password: hashed, Name: seed.name}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
		if err := db.Create(&models.UserRole{UserID: user.ID, RoleID: seed.role.ID}).Error; err != nil {
			return err
		}
	}

	return nil
}
