package service

import (
	"errors"
	"time"

	"github.com/Nil9n/merchshop-backend/config"
	"github.com/Nil9n/merchshop-backend/internal/app/model"
	"github.com/Nil9n/merchshop-backend/internal/app/repository"
	"github.com/Nil9n/merchshop-backend/pkg/logger"
	"github.com/Nil9n/merchshop-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists   = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrRestoreWindowExpired = errors.New("account restore window has expired")
	ErrInvalidRestoreToken  = errors.New("invalid or expired restore token")
	ErrWrongPassword        = errors.New("wrong password")
)

// LoginResult is either a successful login (Tokens set) or a restore
// challenge for a deleted-but-restorable account (RestoreChallenge set).
type LoginResult struct {
	User             *model.User       `json:"user,omitempty"`
	Tokens           *util.TokenPair   `json:"tokens,omitempty"`
	RestoreChallenge *RestoreChallenge `json:"restore_challenge,omitempty"`
}

// RestoreChallenge tells the client the account it tried to log into
// is deleted but still restorable, and carries a short-lived token
// that authorizes the restore confirmation.
type RestoreChallenge struct {
	RestoreToken string `json:"restore_token"`
	DaysLeft     int    `json:"days_left"`
}

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
}

type AuthService interface {
	Register(input RegisterInput) (*model.User, *util.TokenPair, error)
	Login(email, password string) (*LoginResult, error)
	RefreshTokens(refreshToken string) (*util.TokenPair, error)
	GetProfile(userID uint) (*model.User, error)
	UpdateProfile(userID uint, name, phone string) (*model.User, error)
	DeleteAccount(userID uint, password string) error
	RestoreAccount(restoreToken string) (*model.User, *util.TokenPair, error)
}

type authService struct {
	userRepo repository.UserRepository
	jwtCfg   config.JWTConfig
	now      func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, jwtCfg config.JWTConfig) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtCfg:   jwtCfg,
		now:      time.Now,
	}
}

// Register creates an account. Emails of soft-deleted accounts stay
// taken until the row is purged, so re-registration with a deleted
// email is rejected the same as with an active one.
func (s *authService) Register(input RegisterInput) (*model.User, *util.TokenPair, error) {
	existing, err := s.userRepo.FindByEmailIncludingDeleted(input.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, ErrEmailAlreadyExists
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		return nil, nil, err
	}

	user := &model.User{
		Email:        input.Email,
		PasswordHash: hash,
		Name:         input.Name,
		Phone:        input.Phone,
		Role:         model.RoleUser,
		IsActive:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Failed to create user", err, map[string]interface{}{
			"email": input.Email,
		})
		return nil, nil, err
	}

	tokens, err := util.GenerateTokenPair(user.ID, user.Email, string(user.Role),
		s.jwtCfg.Secret, s.jwtCfg.AccessTokenExpiry, s.jwtCfg.RefreshTokenExpiry)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return user, tokens, nil
}

// Login authenticates by email and password. A deleted account inside
// its restore window does not log in; it returns a restore challenge
// instead. Past the window the account is gone for good, and a correct
// password gets told so rather than a misleading credentials error.
func (s *authService) Login(email, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmailIncludingDeleted(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	if user.IsDeleted {
		now := s.now()
		if !user.IsRestorable(now) {
			return nil, ErrRestoreWindowExpired
		}
		token, err := util.GenerateRestoreToken(user.ID, user.Email,
			s.jwtCfg.Secret, s.jwtCfg.RestoreTokenExpiry)
		if err != nil {
			return nil, err
		}
		logger.Info("Restore challenge issued", map[string]interface{}{
			"user_id":   user.ID,
			"days_left": user.RestoreDaysLeft(now),
		})
		return &LoginResult{
			RestoreChallenge: &RestoreChallenge{
				RestoreToken: token,
				DaysLeft:     user.RestoreDaysLeft(now),
			},
		}, nil
	}

	tokens, err := util.GenerateTokenPair(user.ID, user.Email, string(user.Role),
		s.jwtCfg.Secret, s.jwtCfg.AccessTokenExpiry, s.jwtCfg.RefreshTokenExpiry)
	if err != nil {
		return nil, err
	}

	logger.Info("User logged in", map[string]interface{}{
		"user_id": user.ID,
	})
	return &LoginResult{User: user, Tokens: tokens}, nil
}

func (s *authService) RefreshTokens(refreshToken string) (*util.TokenPair, error) {
	claims, err := util.ValidateToken(refreshToken, s.jwtCfg.Secret)
	if err != nil {
		return nil, err
	}

	// The account may have been deleted since the token was issued.
	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return util.GenerateTokenPair(user.ID, user.Email, string(user.Role),
		s.jwtCfg.Secret, s.jwtCfg.AccessTokenExpiry, s.jwtCfg.RefreshTokenExpiry)
}

func (s *authService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(userID uint, name, phone string) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if phone != "" {
		user.Phone = phone
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount soft-deletes after re-verifying the password. The row
// stays in place so the account can be restored within the window.
func (s *authService) DeleteAccount(userID uint, password string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		return ErrWrongPassword
	}

	user.SoftDelete(s.now())
	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to soft-delete user", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	logger.Info("Account deleted", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

// RestoreAccount confirms a restore challenge. Restoring an account
// that is already active succeeds; only an expired window fails.
func (s *authService) RestoreAccount(restoreToken string) (*model.User, *util.TokenPair, error) {
	claims, err := util.ValidateRestoreToken(restoreToken, s.jwtCfg.Secret)
	if err != nil {
		return nil, nil, ErrInvalidRestoreToken
	}

	user, err := s.userRepo.FindByIDIncludingDeleted(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}

	if user.IsDeleted {
		if !user.IsRestorable(s.now()) {
			return nil, nil, ErrRestoreWindowExpired
		}
		user.Restore()
		if err := s.userRepo.Update(user); err != nil {
			return nil, nil, err
		}
		logger.Info("Account restored", map[string]interface{}{
			"user_id": user.ID,
		})
	}

	tokens, err := util.GenerateTokenPair(user.ID, user.Email, string(user.Role),
		s.jwtCfg.Secret, s.jwtCfg.AccessTokenExpiry, s.jwtCfg.RefreshTokenExpiry)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}
