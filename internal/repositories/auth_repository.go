package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"club_checkin_backend/internal/models"
)

// AuthRepository defines the credential store operations.
type AuthRepository interface {
	CreateAccount(ctx context.Context, executor SQLExecutor, account *models.Account, passwordHash string) error
	// FindActiveAccountByIdentifier matches username OR email and returns the account with its password digest.
	FindActiveAccountByIdentifier(ctx context.Context, identifier string) (*models.Account, string, error)
	FindAccountByID(ctx context.Context, accountID int64) (*models.Account, error)
}

type authRepository struct {
	db *sql.DB
}

// NewAuthRepository creates a new instance of AuthRepository.
func NewAuthRepository(db *sql.DB) AuthRepository {
	return &authRepository{db: db}
}

const accountColumns = `id, username, email, rol, activo, created_at`

// CreateAccount inserts the account and fills in ID, Role, IsActive and CreatedAt from the row.
// Uniqueness of username and email is enforced by the table constraints.
func (r *authRepository) CreateAccount(ctx context.Context, executor SQLExecutor, account *models.Account, passwordHash string) error {
	query := `INSERT INTO usuarios (username, email, password, rol, activo)
	          VALUES ($1, $2, $3, $4, TRUE)
	          RETURNING ` + accountColumns

	role := account.Role
	if role == "" {
		role = models.RoleStandard
	}

	err := executor.QueryRowContext(ctx, query, account.Username, account.Email, passwordHash, role).Scan(
		&account.ID, &account.Username, &account.Email, &account.Role, &account.IsActive, &account.CreatedAt,
	)
	if err != nil {
		return wrapWriteError(err, "creating account")
	}
	return nil
}

func (r *authRepository) FindActiveAccountByIdentifier(ctx context.Context, identifier string) (*models.Account, string, error) {
	query := `SELECT ` + accountColumns + `, password
	          FROM usuarios
	          WHERE (username = $1 OR email = $1) AND activo = TRUE
	          ORDER BY id
	          LIMIT 1`

	account := &models.Account{}
	var passwordHash string
	err := r.db.QueryRowContext(ctx, query, identifier).Scan(
		&account.ID, &account.Username, &account.Email, &account.Role, &account.IsActive, &account.CreatedAt,
		&passwordHash,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("%w: finding account %q: %v", ErrDatabaseError, identifier, err)
	}
	return account, passwordHash, nil
}

func (r *authRepository) FindAccountByID(ctx context.Context, accountID int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM usuarios WHERE id = $1`

	account := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(
		&account.ID, &account.Username, &account.Email, &account.Role, &account.IsActive, &account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding account by ID %d: %v", ErrDatabaseError, accountID, err)
	}
	return account, nil
}
