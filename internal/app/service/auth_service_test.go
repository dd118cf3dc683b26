package service

import (
	"testing"
	"time"

	"github.com/Nil9n/merchshop-backend/config"
	"github.com/Nil9n/merchshop-backend/internal/app/model"
	"github.com/Nil9n/merchshop-backend/internal/app/repository"
	"github.com/Nil9n/merchshop-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:             "test-secret-key",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		RestoreTokenExpiry: 10 * time.Minute,
	}
}

func setupAuthServiceTest(t *testing.T) (*authService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	svc := NewAuthService(userRepo, testJWTConfig()).(*authService)
	return svc, testDB
}

func registerTestUser(t *testing.T, svc *authService) *model.User {
	t.Helper()
	user, _, err := svc.Register(RegisterInput{
		Email:    "user@example.com",
		Password: "password123",
		Name:     "Test User",
	})
	require.NoError(t, err)
	return user
}

func TestAuthService_Register(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)

	user, tokens, err := svc.Register(RegisterInput{
		Email:    "new@example.com",
		Password: "password123",
		Name:     "New User",
		Phone:    "+4915112345678",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	registerTestUser(t, svc)

	_, _, err := svc.Register(RegisterInput{
		Email:    "user@example.com",
		Password: "different456",
		Name:     "Impostor",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAuthService_Register_DeletedEmailStaysTaken(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	user := registerTestUser(t, svc)

	require.NoError(t, svc.DeleteAccount(user.ID, "password123"))

	_, _, err := svc.Register(RegisterInput{
		Email:    "user@example.com",
		Password: "password123",
		Name:     "Again",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	registerTestUser(t, svc)

	result, err := svc.Login("user@example.com", "password123")
	require.NoError(t, err)
	require.NotNil(t, result.User)
	require.NotNil(t, result.Tokens)
	assert.Nil(t, result.RestoreChallenge)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	registerTestUser(t, svc)

	_, err := svc.Login("user@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)

	_, err := svc.Login("ghost@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_DeleteAccount_WrongPassword(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	user := registerTestUser(t, svc)

	err := svc.DeleteAccount(user.ID, "nope")
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestAuthService_DeletedAccountGetsRestoreChallenge(t *testing.T) {
	svc, testDB := setupAuthServiceTest(t)
	user := registerTestUser(t, svc)

	require.NoError(t, svc.DeleteAccount(user.ID, "password123"))

	var stored model.User
	testDB.First(&stored, user.ID)
	assert.True(t, stored.IsDeleted)
	assert.False(t, stored.IsActive)
	require.NotNil(t, stored.DeletedAt)

	result, err := svc.Login("user@example.com", "password123")
	require.NoError(t, err)
	assert.Nil(t, result.Tokens)
	require.NotNil(t, result.RestoreChallenge)
	assert.NotEmpty(t, result.RestoreChallenge.RestoreToken)
	assert.Equal(t, model.RestoreWindowDays, result.RestoreChallenge.DaysLeft)
}

func TestAuthService_RestoreAccount(t *testing.T) {
	svc, testDB := setupAuthServiceTest(t)
	user := registerTestUser(t, svc)

	require.NoError(t, svc.DeleteAccount(user.ID, "password123"))

	result, err := svc.Login("user@example.com", "password123")
	require.NoError(t, err)
	require.NotNil(t, result.RestoreChallenge)

	restored, tokens, err := svc.RestoreAccount(result.RestoreChallenge.RestoreToken)
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.False(t, restored.IsDeleted)
	assert.True(t, restored.IsActive)

	var stored model.User
	testDB.First(&stored, user.ID)
	assert.False(t, stored.IsDeleted)
	assert.Nil(t, stored.DeletedAt)

	// Logging in works normally again.
	again, err := svc.Login("user@example.com", "password123")
	require.NoError(t, err)
	assert.NotNil(t, again.Tokens)
}

func TestAuthService_RestoreAccount_Idempotent(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	user := registerTestUser(t, svc)

	require.NoError(t, svc.DeleteAccount(user.ID, "password123"))
	result, err := svc.Login("user@example.com", "password123")
	require.NoError(t, err)
	token := result.RestoreChallenge.RestoreToken

	_, _, err = svc.RestoreAccount(token)
	require.NoError(t, err)

	// Confirming again with the same token still succeeds.
	_, _, err = svc.RestoreAccount(token)
	require.NoError(t, err)
}

func TestAuthService_RestoreAccount_BadToken(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)

	_, _, err := svc.RestoreAccount("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidRestoreToken)
}

func TestAuthService_RestoreAccount_AccessTokenRejected(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	registerTestUser(t, svc)

	result, err := svc.Login("user@example.com", "password123")
	require.NoError(t, err)

	// A plain access token must not pass as a restore token.
	_, _, err = svc.RestoreAccount(result.Tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidRestoreToken)
}

func TestAuthService_RestoreWindow_Expired(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	user := registerTestUser(t, svc)

	require.NoError(t, svc.DeleteAccount(user.ID, "password123"))

	// Jump past the 30-day window.
	svc.now = func() time.Time {
		return time.Now().Add(31 * 24 * time.Hour)
	}

	// With the right password the caller learns the window has passed.
	_, err := svc.Login("user@example.com", "password123")
	assert.ErrorIs(t, err, ErrRestoreWindowExpired)

	// A wrong password still gets the generic credentials error.
	_, err = svc.Login("user@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RestoreWindow_DeadlineInclusive(t *testing.T) {
	svc, testDB := setupAuthServiceTest(t)
	user := registerTestUser(t, svc)

	require.NoError(t, svc.DeleteAccount(user.ID, "password123"))

	var deleted model.User
	require.NoError(t, testDB.First(&deleted, user.ID).Error)
	require.NotNil(t, deleted.DeletedAt)

	// Exactly 30 days after deletion the account is still restorable.
	svc.now = func() time.Time {
		return deleted.DeletedAt.Add(model.RestoreWindowDays * 24 * time.Hour)
	}

	result, err := svc.Login("user@example.com", "password123")
	require.NoError(t, err)
	require.NotNil(t, result.RestoreChallenge)

	// One nanosecond later the window is gone.
	svc.now = func() time.Time {
		return deleted.DeletedAt.Add(model.RestoreWindowDays*24*time.Hour + time.Nanosecond)
	}

	_, err = svc.Login("user@example.com", "password123")
	assert.ErrorIs(t, err, ErrRestoreWindowExpired)
}

func TestAuthService_RestoreWindow_LastDayStillRestorable(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	user := registerTestUser(t, svc)

	require.NoError(t, svc.DeleteAccount(user.ID, "password123"))

	svc.now = func() time.Time {
		return time.Now().Add(29 * 24 * time.Hour)
	}

	result, err := svc.Login("user@example.com", "password123")
	require.NoError(t, err)
	require.NotNil(t, result.RestoreChallenge)
	assert.Equal(t, 1, result.RestoreChallenge.DaysLeft)
}

func TestAuthService_RestoreAccount_WindowExpiredByConfirmTime(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	user := registerTestUser(t, svc)

	require.NoError(t, svc.DeleteAccount(user.ID, "password123"))
	result, err := svc.Login("user@example.com", "password123")
	require.NoError(t, err)

	// The window runs out between challenge and confirmation.
	svc.now = func() time.Time {
		return time.Now().Add(31 * 24 * time.Hour)
	}

	_, _, err = svc.RestoreAccount(result.RestoreChallenge.RestoreToken)
	assert.ErrorIs(t, err, ErrRestoreWindowExpired)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	user := registerTestUser(t, svc)

	updated, err := svc.UpdateProfile(user.ID, "Renamed", "+4915100000000")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "+4915100000000", updated.Phone)

	// Blank fields keep the old values.
	kept, err := svc.UpdateProfile(user.ID, "", "")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", kept.Name)
}

func TestAuthService_RefreshTokens(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	registerTestUser(t, svc)

	result, err := svc.Login("user@example.com", "password123")
	require.NoError(t, err)

	tokens, err := svc.RefreshTokens(result.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
}

func TestAuthService_RefreshTokens_DeletedAccount(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	user := registerTestUser(t, svc)

	result, err := svc.Login("user@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(user.ID, "password123"))

	_, err = svc.RefreshTokens(result.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
