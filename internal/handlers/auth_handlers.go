package handlers

import (
	"errors"
	"net/http"

	"club_checkin_backend/internal/middleware"
	"club_checkin_backend/internal/services"
	"club_checkin_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service.
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// RegisterUser handles POST /api/auth/register.
func (h *AuthHandler) RegisterUser(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "RegisterUser: Failed to bind JSON")
		utils.RespondValidationFailed(c, "Username, password and a valid email are required")
		return
	}

	account, err := h.authService.RegisterUser(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameExists), errors.Is(err, services.ErrEmailExists):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeConflict, "Username or email already exists", err.Error()))
		case errors.Is(err, services.ErrAccountValidation):
			utils.RespondValidationFailed(c, err.Error())
		default:
			utils.LogError(err, "RegisterUser: Error from authService.RegisterUser")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to register user", ""))
		}
		return
	}

	utils.LogInfo("Account registered", map[string]interface{}{"account_id": account.ID, "username": account.Username})
	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    account.Summary(),
	})
}

// LoginUser handles POST /api/auth/login.
func (h *AuthHandler) LoginUser(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, "Username and password are required")
		return
	}

	authResp, err := h.authService.LoginUser(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid credentials", ""))
		case errors.Is(err, services.ErrAccountValidation):
			utils.RespondValidationFailed(c, err.Error())
		default:
			utils.LogError(err, "LoginUser: Error from authService.LoginUser")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to login", ""))
		}
		return
	}
	c.JSON(http.StatusOK, authResp)
}

// VerifyToken handles GET /api/auth/verify. AuthMiddleware has already validated the token.
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	claims, ok := c.Get(middleware.ContextClaims)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Access token required", ""))
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "user": claims})
}

// GetCurrentUser returns the profile of the authenticated account.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	accountID := c.GetInt64(middleware.ContextAccountID)
	if accountID == 0 {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Access token required", ""))
		return
	}
	h.respondWithProfile(c, accountID)
}

// GetAccountByID returns any account's profile. Mounted behind the admin role check.
func (h *AuthHandler) GetAccountByID(c *gin.Context) {
	accountID, ok := utils.ParseID(c.Param("id"))
	if !ok {
		utils.RespondValidationFailed(c, "Invalid account ID format")
		return
	}
	h.respondWithProfile(c, accountID)
}

func (h *AuthHandler) respondWithProfile(c *gin.Context, accountID int64) {
	account, err := h.authService.GetUserProfile(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Account not found", ""))
			return
		}
		utils.LogError(err, "respondWithProfile: Error from authService.GetUserProfile for account "+utils.Int64ToStr(accountID))
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve user profile", ""))
		return
	}
	c.JSON(http.StatusOK, account)
}

// LogoutUser acknowledges a logout. Tokens are stateless; the client discards its copy.
func (h *AuthHandler) LogoutUser(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully. Please discard your token."})
}
