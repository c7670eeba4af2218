package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"club_checkin_backend/internal/models"
	"club_checkin_backend/internal/repositories"
)

// fakeAuthRepo keeps accounts in memory and enforces the same unique constraints as the usuarios table.
type fakeAuthRepo struct {
	mu       sync.Mutex
	nextID   int64
	accounts []models.Account
	hashes   map[int64]string
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{hashes: map[int64]string{}}
}

func (r *fakeAuthRepo) CreateAccount(_ context.Context, _ repositories.SQLExecutor, account *models.Account, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Username == account.Username {
			return &repositories.DuplicateKeyError{Constraint: repositories.ConstraintAccountUsername, Message: "duplicate username"}
		}
		if a.Email == account.Email {
			return &repositories.DuplicateKeyError{Constraint: repositories.ConstraintAccountEmail, Message: "duplicate email"}
		}
	}
	r.nextID++
	account.ID = r.nextID
	if account.Role == "" {
		account.Role = models.RoleStandard
	}
	account.IsActive = true
	account.CreatedAt = time.Now()
	r.accounts = append(r.accounts, *account)
	r.hashes[account.ID] = passwordHash
	return nil
}

func (r *fakeAuthRepo) FindActiveAccountByIdentifier(_ context.Context, identifier string) (*models.Account, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if (a.Username == identifier || a.Email == identifier) && a.IsActive {
			acc := a
			return &acc, r.hashes[a.ID], nil
		}
	}
	return nil, "", repositories.ErrNotFound
}

func (r *fakeAuthRepo) FindAccountByID(_ context.Context, accountID int64) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.ID == accountID {
			acc := a
			return &acc, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// fakeClientRepo mirrors the clientes table: unique correo, non-unique fingerprint.
type fakeClientRepo struct {
	mu      sync.Mutex
	nextID  int64
	clients map[int64]models.Client
	visits  int
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: map[int64]models.Client{}}
}

func (r *fakeClientRepo) emailTaken(email string, except int64) bool {
	for id, c := range r.clients {
		if id != except && c.Email == email {
			return true
		}
	}
	return false
}

func (r *fakeClientRepo) CreateClient(_ context.Context, _ repositories.SQLExecutor, client *models.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailTaken(client.Email, 0) {
		return &repositories.DuplicateKeyError{Constraint: repositories.ConstraintClientEmail, Message: "duplicate correo"}
	}
	r.nextID++
	client.ID = r.nextID
	r.clients[client.ID] = *client
	return nil
}

func (r *fakeClientRepo) GetClientByID(_ context.Context, id int64) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &c, nil
}

func (r *fakeClientRepo) GetClients(_ context.Context) ([]models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Client{}
	for _, c := range r.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RegisteredAt.Equal(out[j].RegisteredAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].RegisteredAt.After(out[j].RegisteredAt)
	})
	return out, nil
}

func (r *fakeClientRepo) UpdateClient(_ context.Context, _ repositories.SQLExecutor, client *models.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.clients[client.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	if r.emailTaken(client.Email, client.ID) {
		return &repositories.DuplicateKeyError{Constraint: repositories.ConstraintClientEmail, Message: "duplicate correo"}
	}
	client.RegisteredAt = stored.RegisteredAt
	client.LastVisitAt = stored.LastVisitAt
	r.clients[client.ID] = *client
	return nil
}

func (r *fakeClientRepo) DeleteClient(_ context.Context, _ repositories.SQLExecutor, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.clients, id)
	return nil
}

func (r *fakeClientRepo) RecordVisitByHash(_ context.Context, _ repositories.SQLExecutor, hash string, at time.Time) (*models.Identification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var match *models.Client
	for id := range r.clients {
		c := r.clients[id]
		if c.BiometricHash != nil && *c.BiometricHash == hash && (match == nil || c.ID < match.ID) {
			match = &c
		}
	}
	if match == nil {
		return nil, repositories.ErrNotFound
	}
	visit := at
	match.LastVisitAt = &visit
	r.clients[match.ID] = *match
	r.visits++
	return &models.Identification{ID: match.ID, Email: match.Email, Status: match.Status, LastVisitAt: at}, nil
}

func strPtr(s string) *string {
	return &s
}
