package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"club_checkin_backend/internal/models"
	"club_checkin_backend/internal/repositories"
	"club_checkin_backend/pkg/utils"
)

var (
	ErrClientNotFound        = errors.New("client not found")
	ErrCorreoExists          = errors.New("correo already registered")
	ErrClientValidation      = errors.New("client data validation error")
	ErrDateFormat            = errors.New("invalid date format, please use YYYY-MM-DD")
	ErrBiometricHashRequired = errors.New("biometric hash is required")
)

// ClientRequest carries every mutable customer field.
// It is used for create and for update, which is a full replace.
type ClientRequest struct {
	Names         *string `json:"nombres"`
	Surnames      *string `json:"apellidos"`
	Email         string  `json:"correo" binding:"required,email"`
	Phone         string  `json:"telefono"`
	DateOfBirth   string  `json:"fechaNacimiento"` // YYYY-MM-DD or RFC3339
	Sex           *string `json:"sexo"`
	Status        string  `json:"estatus"`
	BiometricHash *string `json:"huellaBiometrica"`
}

// IdentifyRequest is the scanner payload.
type IdentifyRequest struct {
	BiometricHash string `json:"huellaBiometrica"`
}

// ClientService covers customer CRUD and fingerprint check-in.
type ClientService interface {
	CreateClient(ctx context.Context, req ClientRequest) (*models.Client, error)
	GetClientByID(ctx context.Context, clientID int64) (*models.Client, error)
	GetClients(ctx context.Context) ([]models.Client, error)
	UpdateClient(ctx context.Context, clientID int64, req ClientRequest) (*models.Client, error)
	DeleteClient(ctx context.Context, clientID int64) error
	IdentifyClient(ctx context.Context, biometricHash string) (*models.Identification, error)
}

type clientService struct {
	clientRepo repositories.ClientRepository
	db         *sql.DB
	now        func() time.Time
}

// NewClientService creates a new instance of ClientService.
func NewClientService(repo repositories.ClientRepository, db *sql.DB) ClientService {
	return &clientService{
		clientRepo: repo,
		db:         db,
		now:        time.Now,
	}
}

// buildClient validates req and maps it onto a Client. Empty optional fields become NULL.
func (s *clientService) buildClient(req ClientRequest) (*models.Client, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: correo is required", ErrClientValidation)
	}
	if !utils.IsValidEmail(email) {
		return nil, fmt.Errorf("%w: correo format is invalid", ErrClientValidation)
	}

	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		return nil, fmt.Errorf("%w: telefono is required", ErrClientValidation)
	}

	dob, err := s.parseDateOfBirth(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	status := models.ClientStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if status == "" {
		status = models.ClientStatusActive
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: estatus must be one of activo, vip, suspendido", ErrClientValidation)
	}

	return &models.Client{
		Names:         utils.NewNullString(req.Names),
		Surnames:      utils.NewNullString(req.Surnames),
		Email:         email,
		Phone:         phone,
		DateOfBirth:   dob,
		Sex:           utils.NewNullString(req.Sex),
		Status:        status,
		BiometricHash: utils.NewNullString(req.BiometricHash),
	}, nil
}

func (s *clientService) parseDateOfBirth(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: fechaNacimiento is required", ErrClientValidation)
	}
	dob, err := time.Parse("2006-01-02", raw)
	if err != nil {
		ts, tsErr := time.Parse(time.RFC3339, raw)
		if tsErr != nil {
			return time.Time{}, ErrDateFormat
		}
		u := ts.UTC()
		dob = time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	}
	if dob.After(s.now()) {
		return time.Time{}, fmt.Errorf("%w: fechaNacimiento cannot be in the future", ErrClientValidation)
	}
	return dob, nil
}

// mapClientWriteError relies on correo being the only unique column of clientes.
func mapClientWriteError(err error, op string) error {
	if errors.Is(err, repositories.ErrDuplicateKey) {
		return ErrCorreoExists
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrClientNotFound
	}
	return fmt.Errorf("failed to %s client in repository: %w", op, err)
}

func (s *clientService) CreateClient(ctx context.Context, req ClientRequest) (*models.Client, error) {
	client, err := s.buildClient(req)
	if err != nil {
		return nil, err
	}
	client.RegisteredAt = s.now()

	if err := s.clientRepo.CreateClient(ctx, s.db, client); err != nil {
		return nil, mapClientWriteError(err, "create")
	}
	if client.BiometricHash == nil {
		utils.LogWarn("Client registered without biometric hash", map[string]interface{}{"client_id": client.ID})
	}
	return client, nil
}

func (s *clientService) GetClientByID(ctx context.Context, clientID int64) (*models.Client, error) {
	client, err := s.clientRepo.GetClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client by ID: %w", err)
	}
	return client, nil
}

func (s *clientService) GetClients(ctx context.Context) ([]models.Client, error) {
	clients, err := s.clientRepo.GetClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get clients: %w", err)
	}
	return clients, nil
}

// UpdateClient replaces every mutable field; omitted optional fields are cleared.
func (s *clientService) UpdateClient(ctx context.Context, clientID int64, req ClientRequest) (*models.Client, error) {
	client, err := s.buildClient(req)
	if err != nil {
		return nil, err
	}
	client.ID = clientID

	if err := s.clientRepo.UpdateClient(ctx, s.db, client); err != nil {
		return nil, mapClientWriteError(err, "update")
	}
	return client, nil
}

func (s *clientService) DeleteClient(ctx context.Context, clientID int64) error {
	if err := s.clientRepo.DeleteClient(ctx, s.db, clientID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}

// IdentifyClient resolves a scan to a customer and records the visit.
// Every successful identification is a check-in; there is no read-only lookup.
func (s *clientService) IdentifyClient(ctx context.Context, biometricHash string) (*models.Identification, error) {
	hash := strings.TrimSpace(biometricHash)
	if hash == "" {
		return nil, ErrBiometricHashRequired
	}

	ident, err := s.clientRepo.RecordVisitByHash(ctx, s.db, hash, s.now())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to identify client: %w", err)
	}
	utils.LogInfo("Client checked in", map[string]interface{}{"client_id": ident.ID, "estatus": string(ident.Status)})
	return ident, nil
}
