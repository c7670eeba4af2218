package handlers

import (
	"errors"
	"net/http"

	"club_checkin_backend/internal/services"
	"club_checkin_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ClientHandler holds the client service.
type ClientHandler struct {
	clientService services.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(cs services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: cs}
}

// respondClientError maps service errors onto the wire contract.
// A duplicate correo is reported as 400 like any other rejected payload.
func respondClientError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, services.ErrClientNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client not found", ""))
	case errors.Is(err, services.ErrCorreoExists):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeConflict, "Correo is already registered", ""))
	case errors.Is(err, services.ErrClientValidation), errors.Is(err, services.ErrDateFormat):
		utils.RespondValidationFailed(c, err.Error())
	case errors.Is(err, services.ErrBiometricHashRequired):
		utils.RespondValidationFailed(c, "Biometric hash is required")
	default:
		utils.LogError(err, op+": unexpected error from clientService")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to "+op, ""))
	}
}

// CreateClient handles POST /api/clientes.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req services.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogDebug("CreateClient: Failed to bind JSON", map[string]interface{}{"error": err.Error()})
		utils.RespondValidationFailed(c, "Invalid request payload")
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), req)
	if err != nil {
		respondClientError(c, err, "create client")
		return
	}
	c.JSON(http.StatusCreated, client)
}

// GetClients handles GET /api/clientes. The full list is returned, newest first.
func (h *ClientHandler) GetClients(c *gin.Context) {
	clients, err := h.clientService.GetClients(c.Request.Context())
	if err != nil {
		respondClientError(c, err, "fetch clients")
		return
	}
	c.JSON(http.StatusOK, clients)
}

// GetClientByID handles GET /api/clientes/:id.
func (h *ClientHandler) GetClientByID(c *gin.Context) {
	clientID, ok := utils.ParseID(c.Param("id"))
	if !ok {
		utils.RespondValidationFailed(c, "Invalid client ID format")
		return
	}

	client, err := h.clientService.GetClientByID(c.Request.Context(), clientID)
	if err != nil {
		respondClientError(c, err, "fetch client")
		return
	}
	c.JSON(http.StatusOK, client)
}

// UpdateClient handles PUT /api/clientes/:id.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	clientID, ok := utils.ParseID(c.Param("id"))
	if !ok {
		utils.RespondValidationFailed(c, "Invalid client ID format")
		return
	}

	var req services.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload")
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), clientID, req)
	if err != nil {
		respondClientError(c, err, "update client")
		return
	}
	c.JSON(http.StatusOK, client)
}

// DeleteClient handles DELETE /api/clientes/:id.
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	clientID, ok := utils.ParseID(c.Param("id"))
	if !ok {
		utils.RespondValidationFailed(c, "Invalid client ID format")
		return
	}

	if err := h.clientService.DeleteClient(c.Request.Context(), clientID); err != nil {
		respondClientError(c, err, "delete client")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client deleted"})
}

// IdentifyClient handles POST /api/identificar: the front-desk scan.
func (h *ClientHandler) IdentifyClient(c *gin.Context) {
	var req services.IdentifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, "Biometric hash is required")
		return
	}

	ident, err := h.clientService.IdentifyClient(c.Request.Context(), req.BiometricHash)
	if err != nil {
		respondClientError(c, err, "identify client")
		return
	}
	c.JSON(http.StatusOK, ident)
}
