package repository

import (
	"testing"
	"time"

	"github.com/Nil9n/merchshop-backend/internal/app/model"
	"github.com/Nil9n/merchshop-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserRepoTest(t *testing.T) (UserRepository, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	return NewUserRepository(testDB), testDB
}

func createRepoTestUser(t *testing.T, repo UserRepository, email string) *model.User {
	t.Helper()
	user := &model.User{
		Email:        email,
		PasswordHash: "hashed-password",
		Name:         "Repo Tester",
		Role:         model.RoleUser,
		IsActive:     true,
	}
	require.NoError(t, repo.Create(user))
	return user
}

func TestUserRepository_FindByEmail_ExcludesDeleted(t *testing.T) {
	repo, _ := setupUserRepoTest(t)
	user := createRepoTestUser(t, repo, "gone@example.com")

	deletedAt := time.Now()
	user.IsDeleted = true
	user.DeletedAt = &deletedAt
	user.IsActive = false
	require.NoError(t, repo.Update(user))

	_, err := repo.FindByEmail("gone@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.FindByID(user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_FindIncludingDeleted(t *testing.T) {
	repo, _ := setupUserRepoTest(t)
	user := createRepoTestUser(t, repo, "gone@example.com")

	deletedAt := time.Now()
	user.IsDeleted = true
	user.DeletedAt = &deletedAt
	require.NoError(t, repo.Update(user))

	found, err := repo.FindByEmailIncludingDeleted("gone@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.True(t, found.IsDeleted)

	found, err = repo.FindByIDIncludingDeleted(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}

func TestUserRepository_Update_PersistsZeroValuesOnRestore(t *testing.T) {
	repo, _ := setupUserRepoTest(t)
	user := createRepoTestUser(t, repo, "back@example.com")

	deletedAt := time.Now()
	user.IsDeleted = true
	user.DeletedAt = &deletedAt
	user.IsActive = false
	require.NoError(t, repo.Update(user))

	// Restore flips the flags back to their zero values; Update must
	// write them even though gorm skips zero values by default.
	user.IsDeleted = false
	user.DeletedAt = nil
	user.IsActive = true
	require.NoError(t, repo.Update(user))

	found, err := repo.FindByEmail("back@example.com")
	require.NoError(t, err)
	assert.False(t, found.IsDeleted)
	assert.Nil(t, found.DeletedAt)
	assert.True(t, found.IsActive)
}
