package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pricedesk/pricedesk/internal/models"
	apperrors "github.com/pricedesk/pricedesk/pkg/errors"
)

func TestUserCreateAssignsRolesAndHashesPassword(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewUserService(db)
	require.NoError(t, err)

	role := seedRole(t, db, "user-create-role")

	user, err := svc.Create(context.Background(), CreateUserInput{
		Email:    "User-Create@Example.com",
		Password: "secret123",
		Name:     "Create Test",
		RoleIDs:  []uint{role.ID},
	})
	require.NoError(t, err)
	require.Equal(t, "user-create@example.com", user.Email)
	require.NotEqual(t, "secret123", user.Password)
	require.Len(t, user.Roles, 1)
}

func TestUserCreateDuplicateEmailConflicts(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewUserService(db)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateUserInput{Email: "user-dup@example.com", Password: "secret123"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateUserInput{Email: "user-dup@example.com", Password: "secret123"})
	require.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestUserUpdateReplacesRolesOnlyWhenProvided(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewUserService(db)
	require.NoError(t, err)

	first := seedRole(t, db, "user-update-a")
	second := seedRole(t, db, "user-update-b")
	user := seedUser(t, db, "user-update@example.com", "secret123", first)

	ctx := context.Background()

	// Nil RoleIDs leaves assignments untouched.
	updated, err := svc.Update(ctx, user.ID, UpdateUserInput{Name: "Renamed"})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
	require.Len(t, updated.Roles, 1)
	require.Equal(t, "user-update-a", updated.Roles[0].Name)

	updated, err = svc.Update(ctx, user.ID, UpdateUserInput{RoleIDs: []uint{second.ID}})
	require.NoError(t, err)
	require.Len(t, updated.Roles, 1)
	require.Equal(t, "user-update-b", updated.Roles[0].Name)
}

func TestUserAssignRoleIsIdempotent(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewUserService(db)
	require.NoError(t, err)

	role := seedRole(t, db, "user-assign-role")
	user := seedUser(t, db, "user-assign@example.com", "secret123")

	ctx := context.Background()
	require.NoError(t, svc.AssignRole(ctx, user.ID, role.ID))
	require.NoError(t, svc.AssignRole(ctx, user.ID, role.ID))

	var count int64
	require.NoError(t, db.Model(&models.UserRole{}).
		Where("user_id = ? AND role_id = ?", user.ID, role.ID).
		Count(&count).Error)
	require.EqualValues(t, 1, count)

	require.NoError(t, svc.RemoveRole(ctx, user.ID, role.ID))
	require.ErrorIs(t, svc.RemoveRole(ctx, user.ID, role.ID), apperrors.ErrNotFound)
}

func TestUserDeleteClearsAssignments(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewUserService(db)
	require.NoError(t, err)

	role := seedRole(t, db, "user-delete-role")
	user := seedUser(t, db, "user-delete@example.com", "secret123", role)

	require.NoError(t, svc.Delete(context.Background(), user.ID))
	require.ErrorIs(t, svc.Delete(context.Background(), user.ID), apperrors.ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&models.UserRole{}).Where("user_id = ?", user.ID).Count(&count).Error)
	require.Zero(t, count)
}
