package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"club_checkin_backend/internal/models"
)

// ClientRepository defines the customer store operations.
type ClientRepository interface {
	CreateClient(ctx context.Context, executor SQLExecutor, client *models.Client) error
	GetClientByID(ctx context.Context, id int64) (*models.Client, error)
	GetClients(ctx context.Context) ([]models.Client, error)
	UpdateClient(ctx context.Context, executor SQLExecutor, client *models.Client) error
	DeleteClient(ctx context.Context, executor SQLExecutor, id int64) error
	// RecordVisitByHash stamps ultima_visita on the first customer carrying hash.
	RecordVisitByHash(ctx context.Context, executor SQLExecutor, hash string, at time.Time) (*models.Identification, error)
}

type clientRepository struct {
	db *sql.DB
}

// NewClientRepository creates a new instance of ClientRepository.
func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

const clientColumns = `id, nombres, apellidos, correo, telefono, fecha_nacimiento, sexo, estatus,
	huella_biometrica, fecha_registro, ultima_visita`

func scanClient(row scanner) (*models.Client, error) {
	var (
		client                             models.Client
		names, surnames, sex, hash, status sql.NullString
		lastVisit                          sql.NullTime
	)
	err := row.Scan(
		&client.ID, &names, &surnames, &client.Email, &client.Phone, &client.DateOfBirth, &sex, &status,
		&hash, &client.RegisteredAt, &lastVisit,
	)
	if err != nil {
		return nil, err
	}
	client.Names = nullStringPtr(names)
	client.Surnames = nullStringPtr(surnames)
	client.Sex = nullStringPtr(sex)
	client.BiometricHash = nullStringPtr(hash)
	client.Status = models.ClientStatus(status.String)
	if lastVisit.Valid {
		t := lastVisit.Time
		client.LastVisitAt = &t
	}
	return &client, nil
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// CreateClient inserts a new customer; ID is filled from the row.
func (r *clientRepository) CreateClient(ctx context.Context, executor SQLExecutor, client *models.Client) error {
	query := `INSERT INTO clientes (nombres, apellidos, correo, telefono, fecha_nacimiento, sexo, estatus,
	                                huella_biometrica, fecha_registro)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`

	if client.RegisteredAt.IsZero() {
		client.RegisteredAt = time.Now()
	}
	if client.Status == "" {
		client.Status = models.ClientStatusActive
	}

	err := executor.QueryRowContext(ctx, query,
		client.Names, client.Surnames, client.Email, client.Phone, client.DateOfBirth, client.Sex,
		string(client.Status), client.BiometricHash, client.RegisteredAt,
	).Scan(&client.ID)
	if err != nil {
		return wrapWriteError(err, "creating client")
	}
	return nil
}

// GetClientByID retrieves a customer by id.
func (r *clientRepository) GetClientByID(ctx context.Context, id int64) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clientes WHERE id = $1`

	client, err := scanClient(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting client by ID %d: %v", ErrDatabaseError, id, err)
	}
	return client, nil
}

// GetClients returns every customer, newest registration first.
func (r *clientRepository) GetClients(ctx context.Context) ([]models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clientes ORDER BY fecha_registro DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying clients: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	clients := []models.Client{}
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning client: %v", ErrDatabaseError, err)
		}
		clients = append(clients, *client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating client rows: %v", ErrDatabaseError, err)
	}
	return clients, nil
}

// UpdateClient replaces every mutable column and refreshes client from the stored row.
// fecha_registro and ultima_visita are not touched.
func (r *clientRepository) UpdateClient(ctx context.Context, executor SQLExecutor, client *models.Client) error {
	query := `UPDATE clientes SET
	            nombres = $1, apellidos = $2, correo = $3, telefono = $4, fecha_nacimiento = $5,
	            sexo = $6, estatus = $7, huella_biometrica = $8
	          WHERE id = $9
	          RETURNING ` + clientColumns

	updated, err := scanClient(executor.QueryRowContext(ctx, query,
		client.Names, client.Surnames, client.Email, client.Phone, client.DateOfBirth,
		client.Sex, string(client.Status), client.BiometricHash, client.ID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return wrapWriteError(err, fmt.Sprintf("updating client ID %d", client.ID))
	}
	*client = *updated
	return nil
}

// DeleteClient removes a customer permanently.
func (r *clientRepository) DeleteClient(ctx context.Context, executor SQLExecutor, id int64) error {
	result, err := executor.ExecContext(ctx, `DELETE FROM clientes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting client ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting client ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordVisitByHash picks the lowest id carrying hash, so duplicates resolve to the oldest record.
// Lookup and update run as one statement; concurrent scans are last-writer-wins.
func (r *clientRepository) RecordVisitByHash(ctx context.Context, executor SQLExecutor, hash string, at time.Time) (*models.Identification, error) {
	query := `UPDATE clientes SET ultima_visita = $2
	          WHERE id = (SELECT id FROM clientes WHERE huella_biometrica = $1 ORDER BY id LIMIT 1)
	          RETURNING id, correo, estatus, ultima_visita`

	var (
		ident  models.Identification
		status string
	)
	err := executor.QueryRowContext(ctx, query, hash, at).Scan(&ident.ID, &ident.Email, &status, &ident.LastVisitAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: recording visit: %v", ErrDatabaseError, err)
	}
	ident.Status = models.ClientStatus(status)
	return &ident, nil
}
