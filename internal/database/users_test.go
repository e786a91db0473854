package database

import (
	"context"
	"testing"

	"servicefinder/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := seedUser(t, db, "ann@example.com", models.RoleProvider)
	assert.NotZero(t, user.ID)

	found, err := db.GetUserByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "hash", found.Password)
	assert.Equal(t, models.RoleProvider, found.Role)
	assert.Nil(t, found.CategoryID)

	cat := &models.Category{Name: "Plumbing", Icon: "wrench"}
	require.NoError(t, db.CreateCategory(ctx, cat))

	found.About = "twenty years of pipes"
	found.CategoryID = &cat.ID
	found.Status = models.UserBlocked
	require.NoError(t, db.UpdateUser(ctx, found))

	again, err := db.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "twenty years of pipes", again.About)
	require.NotNil(t, again.CategoryID)
	assert.Equal(t, cat.ID, *again.CategoryID)
	assert.Equal(t, models.UserBlocked, again.Status)

	providers, err := db.ListUsersByRole(ctx, models.RoleProvider)
	require.NoError(t, err)
	assert.Len(t, providers, 1)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "dup@example.com", models.RoleCustomer)

	err := db.CreateUser(context.Background(), &models.User{
		FirstName: "X", LastName: "Y", Email: "dup@example.com", Password: "h",
		Role: models.RoleCustomer, SignUpType: models.SignUpEmail, Status: models.UserApproved,
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestGetUser_NotFound(t *testing.T) {
	db := setupTestDB(t)
	_, err := db.GetUserByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateUser_UnknownCategory(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "x@example.com", models.RoleProvider)

	missing := int64(999)
	u.CategoryID = &missing
	assert.ErrorIs(t, db.UpdateUser(context.Background(), u), ErrForeignKeyAbsent)
}
