package controller

import (
	"errors"
	"net/http"

	"github.com/Nil9n/merchshop-backend/internal/app/model"
	"github.com/Nil9n/merchshop-backend/internal/app/service"
	apperrors "github.com/Nil9n/merchshop-backend/internal/errors"
	"github.com/Nil9n/merchshop-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type DeleteAccountRequest struct {
	Password string `json:"password" binding:"required"`
}

type RestoreAccountRequest struct {
	RestoreToken string `json:"restore_token" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func userPayload(user *model.User) gin.H {
	return gin.H{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
		"phone": user.Phone,
		"role":  user.Role,
	}
}

// Register handles user registration
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid registration details")
		return
	}

	user, tokens, err := ctrl.authService.Register(req)
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			log.Warn("Registration failed: email already exists", map[string]interface{}{
				"email": req.Email,
			})
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "This email is already registered")
			return
		}
		log.Error("Registration failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "register user")
		return
	}

	log.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    userPayload(user),
		"tokens":  tokens,
	})
}

// Login handles user authentication. A deleted account inside its
// restore window gets a restore challenge instead of tokens.
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Email and password are required")
		return
	}

	result, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			log.Warn("Login failed: invalid credentials", map[string]interface{}{
				"email": req.Email,
			})
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Invalid email or password")
		case errors.Is(err, service.ErrRestoreWindowExpired):
			log.Warn("Login hit expired deleted account", map[string]interface{}{
				"email": req.Email,
			})
			apperrors.RespondWithError(c, http.StatusGone, apperrors.AccountRestoreExpired, "The restore window for this account has passed")
		default:
			log.Error("Login failed", err, map[string]interface{}{
				"email": req.Email,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	if result.RestoreChallenge != nil {
		log.Info("Login hit restorable deleted account", map[string]interface{}{
			"email":     req.Email,
			"days_left": result.RestoreChallenge.DaysLeft,
		})
		c.JSON(http.StatusConflict, gin.H{
			"error":         apperrors.AccountRestorable,
			"message":       "This account was deleted but can still be restored",
			"restore_token": result.RestoreChallenge.RestoreToken,
			"days_left":     result.RestoreChallenge.DaysLeft,
		})
		return
	}

	log.Info("User logged in", map[string]interface{}{
		"user_id": result.User.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    userPayload(result.User),
		"tokens":  result.Tokens,
	})
}

// RefreshToken exchanges a refresh token for a new pair
// POST /api/v1/auth/refresh
func (ctrl *AuthController) RefreshToken(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Refresh token is required")
		return
	}

	tokens, err := ctrl.authService.RefreshTokens(req.RefreshToken)
	if err != nil {
		log.Warn("Token refresh failed", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Invalid or expired refresh token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tokens": tokens,
	})
}

// GetProfile returns the authenticated user's profile
// GET /api/v1/auth/profile
func (ctrl *AuthController) GetProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	user, err := ctrl.authService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
			return
		}
		log.Error("Failed to fetch profile", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":                       user.ID,
			"email":                    user.Email,
			"name":                     user.Name,
			"phone":                    user.Phone,
			"role":                     user.Role,
			"default_shipping_address": user.DefaultShippingAddress,
			"default_city":             user.DefaultCity,
			"default_zip_code":         user.DefaultZipCode,
			"default_country":          user.DefaultCountry,
			"created_at":               user.CreatedAt,
		},
	})
}

// UpdateProfile updates name and phone
// PUT /api/v1/auth/profile
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid profile data")
		return
	}

	user, err := ctrl.authService.UpdateProfile(userID, req.Name, req.Phone)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
			return
		}
		log.Error("Failed to update profile", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated",
		"user":    userPayload(user),
	})
}

// DeleteAccount soft-deletes the authenticated account after a
// password re-check. The account stays restorable for 30 days.
// DELETE /api/v1/auth/account
func (ctrl *AuthController) DeleteAccount(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req DeleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Password is required to delete the account")
		return
	}

	if err := ctrl.authService.DeleteAccount(userID, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrWrongPassword):
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthWrongPassword, "Password is incorrect")
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
		default:
			log.Error("Failed to delete account", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	log.Info("Account deleted", map[string]interface{}{
		"user_id": userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Account deleted. It can be restored within 30 days by logging in again",
	})
}

// RestoreAccount confirms an account restore using the token issued
// at login. Restoring an already-active account succeeds.
// POST /api/v1/auth/restore
func (ctrl *AuthController) RestoreAccount(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RestoreAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Restore token is required")
		return
	}

	user, tokens, err := ctrl.authService.RestoreAccount(req.RestoreToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRestoreToken):
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AccountRestoreInvalid, "Invalid or expired restore token")
		case errors.Is(err, service.ErrRestoreWindowExpired):
			apperrors.RespondWithError(c, http.StatusGone, apperrors.AccountRestoreExpired, "The restore window for this account has passed")
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
		default:
			log.Error("Account restore failed", err, nil)
			apperrors.InternalError(c, "")
		}
		return
	}

	log.Info("Account restored", map[string]interface{}{
		"user_id": user.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Account restored",
		"user":    userPayload(user),
		"tokens":  tokens,
	})
}
