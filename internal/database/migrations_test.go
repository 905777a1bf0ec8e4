package database

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pricedesk/pricedesk/internal/models"
	"github.com/pricedesk/pricedesk/pkg/crypto"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(Config{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

func TestAutoMigrateAndSeed(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, AutoMigrateAndSeed(db))

	var admin models.User
	require.NoError(t, db.Preload("Roles").Where("email = ?", "admin@example.com").First(&admin).Error)
	require.True(t, crypto.VerifyPassword(admin.Password, "admin123"))
	require.Len(t, admin.Roles, 1)
	require.Equal(t, models.AdminRoleName, admin.Roles[0].Name)

	var standard models.User
	require.NoError(t, db.Preload("Roles.Permissions").Where("email = ?", "user@example.com").First(&standard).Error)
	require.Len(t, standard.Roles, 1)
	require.Len(t, standard.Roles[0].Permissions, 1)
	require.Equal(t, "/", standard.Roles[0].Permissions[0].Code)
}

func TestJoinTableUsesExplicitModel(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, AutoMigrate(db))

	// Both User.Roles and Role.Users share user_roles; the migration must
	// produce the explicit UserRole schema regardless of which side gorm
	// processes first.
	require.True(t, db.Migrator().HasColumn(&models.UserRole{}, "created_at"))

	role := models.Role{Name: "join-table-check"}
	require.NoError(t, db.Create(&role).Error)
	user := models.User{Email: "join-table@example.com", Password: "x", Name: "Join"}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.UserRole{UserID: user.ID, RoleID: role.ID}).Error)

	var loaded models.Role
	require.NoError(t, db.Preload("Users").First(&loaded, role.ID).Error)
	require.Len(t, loaded.Users, 1)
	require.Equal(t, user.ID, loaded.Users[0].ID)
}

func TestSeedIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, AutoMigrateAndSeed(db))
	require.NoError(t, AutoMigrateAndSeed(db))

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.EqualValues(t, 2, users)

	var roles int64
	require.NoError(t, db.Model(&models.Role{}).Count(&roles).Error)
	require.EqualValues(t, 2, roles)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"})
	require.Error(t, err)
}
