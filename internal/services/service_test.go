package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pricedesk/pricedesk/internal/database"
	"github.com/pricedesk/pricedesk/internal/models"
	"github.com/pricedesk/pricedesk/pkg/crypto"
)

func openServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(database.Config{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateAndSeed(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, password string, roles ...*models.Role) *models.User {
	t.Helper()

	hashed, err := crypto.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{Email: email, Password: hashed}
	require.NoError(t, db.Create(user).Error)
	for _, role := range roles {
		require.NoError(t, db.Create(&models.UserRole{UserID: user.ID, RoleID: role.ID}).Error)
	}
	return user
}

func seedRole(t *testing.T, db *gorm.DB, name string) *models.Role {
	t.Helper()

	role := &models.Role{Name: name}
	require.NoError(t, db.Create(role).Error)
	return role
}

func adminRole(t *testing.T, db *gorm.DB) *models.Role {
	t.Helper()

	var role models.Role
	require.NoError(t, db.Where("name = ?", models.AdminRoleName).First(&role).Error)
	return &role
}
