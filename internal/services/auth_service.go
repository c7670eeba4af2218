package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"club_checkin_backend/internal/models"
	"club_checkin_backend/internal/repositories"
	"club_checkin_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameExists     = errors.New("username already exists")
	ErrEmailExists        = errors.New("email already exists")
	ErrAccountValidation  = errors.New("account data validation error")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenGeneration    = errors.New("failed to generate token")
)

// LoginRequest DTO. Username may hold either the username or the email.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest DTO
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse DTO
type AuthResponse struct {
	Message   string                `json:"message"`
	Token     string                `json:"token"`
	ExpiresAt int64                 `json:"expires_at"`
	User      models.AccountSummary `json:"user"`
}

// AuthService covers staff registration, login and token verification.
type AuthService interface {
	RegisterUser(ctx context.Context, req RegisterRequest) (*models.Account, error)
	LoginUser(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	VerifyToken(token string) (*utils.Claims, error)
	GetUserProfile(ctx context.Context, accountID int64) (*models.Account, error)
}

// authService compares against dummyHash when no account matches, so both login failure paths cost one bcrypt run.
type authService struct {
	authRepo   repositories.AuthRepository
	db         *sql.DB
	tokens     *utils.TokenManager
	bcryptCost int
	dummyHash  []byte
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(authRepo repositories.AuthRepository, db *sql.DB, tokens *utils.TokenManager, bcryptCost int) (AuthService, error) {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("club-checkin-dummy-password"), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password hasher: %w", err)
	}
	return &authService{
		authRepo:   authRepo,
		db:         db,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		dummyHash:  dummy,
	}, nil
}

// RegisterUser creates a standard, active account.
func (s *authService) RegisterUser(ctx context.Context, req RegisterRequest) (*models.Account, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", ErrAccountValidation)
	}
	if !utils.IsValidEmail(email) {
		return nil, fmt.Errorf("%w: email format is invalid", ErrAccountValidation)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password is too long", ErrAccountValidation)
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.Account{
		Username: username,
		Email:    email,
		Role:     models.RoleStandard,
	}
	if err := s.authRepo.CreateAccount(ctx, s.db, account, string(hashedPassword)); err != nil {
		var dup *repositories.DuplicateKeyError
		if errors.As(err, &dup) {
			if dup.Constraint == repositories.ConstraintAccountEmail {
				return nil, ErrEmailExists
			}
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return account, nil
}

// LoginUser checks the credentials of an active account and issues a token.
func (s *authService) LoginUser(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	identifier := strings.TrimSpace(req.Username)
	if identifier == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrAccountValidation)
	}

	account, storedHash, err := s.authRepo.FindActiveAccountByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login attempt failed: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateAccessToken(account.ID, account.Username, account.Email, account.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	return &AuthResponse{
		Message:   "Login successful",
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
		User:      account.Summary(),
	}, nil
}

// VerifyToken returns the embedded claims. Bad signature and expiry are not distinguished.
func (s *authService) VerifyToken(token string) (*utils.Claims, error) {
	claims, err := s.tokens.ValidateToken(strings.TrimSpace(token))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// GetUserProfile retrieves an account by id.
func (s *authService) GetUserProfile(ctx context.Context, accountID int64) (*models.Account, error) {
	account, err := s.authRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user profile: %w", err)
	}
	return account, nil
}
