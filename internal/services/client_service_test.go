package services

import (
	"context"
	"testing"
	"time"

	"club_checkin_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 10, 18, 30, 0, 0, time.UTC)

func newTestClientService() (*clientService, *fakeClientRepo) {
	repo := newFakeClientRepo()
	svc := &clientService{clientRepo: repo, now: func() time.Time { return fixedNow }}
	return svc, repo
}

func validClientRequest(email, hash string) ClientRequest {
	req := ClientRequest{
		Names:       strPtr("Ana"),
		Surnames:    strPtr("Pérez"),
		Email:       email,
		Phone:       "+34 600 000 000",
		DateOfBirth: "1990-04-12",
		Sex:         strPtr("femenino"),
		Status:      "vip",
	}
	if hash != "" {
		req.BiometricHash = strPtr(hash)
	}
	return req
}

func TestClientService_CreateClient(t *testing.T) {
	svc, _ := newTestClientService()

	client, err := svc.CreateClient(context.Background(), validClientRequest("ana@club.test", "fp_1"))

	require.NoError(t, err)
	assert.Equal(t, int64(1), client.ID)
	assert.Equal(t, models.ClientStatusVIP, client.Status)
	assert.Equal(t, time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC), client.DateOfBirth)
	assert.Equal(t, fixedNow, client.RegisteredAt)
	assert.Nil(t, client.LastVisitAt, "a new client has never visited")
	require.NotNil(t, client.BiometricHash)
	assert.Equal(t, "fp_1", *client.BiometricHash)
}

func TestClientService_CreateClient_Defaults(t *testing.T) {
	svc, _ := newTestClientService()

	client, err := svc.CreateClient(context.Background(), ClientRequest{
		Email:       "min@club.test",
		Phone:       "555",
		DateOfBirth: "2000-01-01T15:04:05Z",
		Names:       strPtr("   "),
	})

	require.NoError(t, err)
	assert.Equal(t, models.ClientStatusActive, client.Status)
	assert.Nil(t, client.Names, "blank optional fields are stored as NULL")
	assert.Nil(t, client.BiometricHash)
	assert.Equal(t, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), client.DateOfBirth)
}

func TestClientService_CreateClient_OffsetTimestampUsesUTCDate(t *testing.T) {
	svc, _ := newTestClientService()

	req := validClientRequest("ana@club.test", "")
	req.DateOfBirth = "1990-05-01T22:00:00-05:00"
	client, err := svc.CreateClient(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, time.Date(1990, 5, 2, 0, 0, 0, 0, time.UTC), client.DateOfBirth)
}

func TestClientService_CreateClient_Validation(t *testing.T) {
	svc, _ := newTestClientService()

	cases := map[string]func(*ClientRequest){
		"missing correo":   func(r *ClientRequest) { r.Email = "" },
		"invalid correo":   func(r *ClientRequest) { r.Email = "ana@" },
		"missing telefono": func(r *ClientRequest) { r.Phone = " " },
		"missing date":     func(r *ClientRequest) { r.DateOfBirth = "" },
		"future date":      func(r *ClientRequest) { r.DateOfBirth = "2099-01-01" },
		"unknown status":   func(r *ClientRequest) { r.Status = "gold" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validClientRequest("ana@club.test", "")
			mutate(&req)
			_, err := svc.CreateClient(context.Background(), req)
			assert.ErrorIs(t, err, ErrClientValidation)
		})
	}

	t.Run("malformed date", func(t *testing.T) {
		req := validClientRequest("ana@club.test", "")
		req.DateOfBirth = "12/04/1990"
		_, err := svc.CreateClient(context.Background(), req)
		assert.ErrorIs(t, err, ErrDateFormat)
	})
}

func TestClientService_CreateClient_DuplicateCorreo(t *testing.T) {
	svc, repo := newTestClientService()
	ctx := context.Background()

	first, err := svc.CreateClient(ctx, validClientRequest("ana@club.test", "fp_1"))
	require.NoError(t, err)

	other := validClientRequest("ana@club.test", "fp_2")
	other.Phone = "111"
	_, err = svc.CreateClient(ctx, other)

	assert.ErrorIs(t, err, ErrCorreoExists)
	assert.Len(t, repo.clients, 1)
	stored, err := svc.GetClientByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "+34 600 000 000", stored.Phone, "the existing record must be unchanged")
}

func TestClientService_GetClients(t *testing.T) {
	svc, _ := newTestClientService()
	ctx := context.Background()

	empty, err := svc.GetClients(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = svc.CreateClient(ctx, validClientRequest("a@club.test", ""))
	require.NoError(t, err)
	svc.now = func() time.Time { return fixedNow.Add(time.Minute) }
	_, err = svc.CreateClient(ctx, validClientRequest("b@club.test", ""))
	require.NoError(t, err)

	clients, err := svc.GetClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "b@club.test", clients[0].Email, "newest registration first")
}

func TestClientService_UpdateClient_FullReplace(t *testing.T) {
	svc, _ := newTestClientService()
	ctx := context.Background()

	created, err := svc.CreateClient(ctx, validClientRequest("ana@club.test", "fp_1"))
	require.NoError(t, err)

	updated, err := svc.UpdateClient(ctx, created.ID, ClientRequest{
		Email:       "ana.new@club.test",
		Phone:       "222",
		DateOfBirth: "1991-02-03",
		Status:      "suspendido",
	})
	require.NoError(t, err)

	listed, err := svc.GetClients(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	fetched := &listed[0]
	assert.Equal(t, updated, fetched)
	assert.Equal(t, "ana.new@club.test", fetched.Email)
	assert.Equal(t, models.ClientStatusSuspended, fetched.Status)
	assert.Nil(t, fetched.Names, "omitted optional fields are cleared")
	assert.Nil(t, fetched.BiometricHash)
	assert.Equal(t, fixedNow, fetched.RegisteredAt, "registration date is immutable")
}

func TestClientService_UpdateClient_Errors(t *testing.T) {
	svc, _ := newTestClientService()
	ctx := context.Background()

	_, err := svc.UpdateClient(ctx, 42, validClientRequest("x@club.test", ""))
	assert.ErrorIs(t, err, ErrClientNotFound)

	_, err = svc.CreateClient(ctx, validClientRequest("a@club.test", ""))
	require.NoError(t, err)
	second, err := svc.CreateClient(ctx, validClientRequest("b@club.test", ""))
	require.NoError(t, err)

	_, err = svc.UpdateClient(ctx, second.ID, validClientRequest("a@club.test", ""))
	assert.ErrorIs(t, err, ErrCorreoExists)
}

func TestClientService_DeleteClient(t *testing.T) {
	svc, _ := newTestClientService()
	ctx := context.Background()

	created, err := svc.CreateClient(ctx, validClientRequest("ana@club.test", "fp_1"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteClient(ctx, created.ID))
	_, err = svc.GetClientByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrClientNotFound)
	clients, err := svc.GetClients(ctx)
	require.NoError(t, err)
	assert.Empty(t, clients)

	assert.ErrorIs(t, svc.DeleteClient(ctx, created.ID), ErrClientNotFound)
}

func TestClientService_IdentifyClient(t *testing.T) {
	svc, _ := newTestClientService()
	ctx := context.Background()

	created, err := svc.CreateClient(ctx, validClientRequest("ana@club.test", "fp_1"))
	require.NoError(t, err)

	scanTime := fixedNow.Add(3 * time.Hour)
	svc.now = func() time.Time { return scanTime }

	ident, err := svc.IdentifyClient(ctx, " fp_1 ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, ident.ID)
	assert.Equal(t, "ana@club.test", ident.Email)
	assert.Equal(t, models.ClientStatusVIP, ident.Status)
	assert.Equal(t, scanTime, ident.LastVisitAt)

	clients, err := svc.GetClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	require.NotNil(t, clients[0].LastVisitAt)
	assert.Equal(t, scanTime, *clients[0].LastVisitAt)
}

func TestClientService_IdentifyClient_SuspendedStillIdentified(t *testing.T) {
	svc, _ := newTestClientService()
	ctx := context.Background()

	req := validClientRequest("ana@club.test", "fp_1")
	req.Status = "suspendido"
	_, err := svc.CreateClient(ctx, req)
	require.NoError(t, err)

	ident, err := svc.IdentifyClient(ctx, "fp_1")
	require.NoError(t, err)
	assert.Equal(t, models.ClientStatusSuspended, ident.Status)
}

func TestClientService_IdentifyClient_NoMatch(t *testing.T) {
	svc, repo := newTestClientService()
	ctx := context.Background()

	_, err := svc.CreateClient(ctx, validClientRequest("ana@club.test", "fp_1"))
	require.NoError(t, err)

	_, err = svc.IdentifyClient(ctx, "fp_unknown")
	assert.ErrorIs(t, err, ErrClientNotFound)
	assert.Zero(t, repo.visits)
	assert.Nil(t, repo.clients[1].LastVisitAt, "a failed scan must not touch any record")

	_, err = svc.IdentifyClient(ctx, "   ")
	assert.ErrorIs(t, err, ErrBiometricHashRequired)
}

func TestClientService_IdentifyClient_DuplicateHashPicksOldest(t *testing.T) {
	svc, _ := newTestClientService()
	ctx := context.Background()

	first, err := svc.CreateClient(ctx, validClientRequest("a@club.test", "fp_shared"))
	require.NoError(t, err)
	_, err = svc.CreateClient(ctx, validClientRequest("b@club.test", "fp_shared"))
	require.NoError(t, err)

	ident, err := svc.IdentifyClient(ctx, "fp_shared")
	require.NoError(t, err)
	assert.Equal(t, first.ID, ident.ID)
}
