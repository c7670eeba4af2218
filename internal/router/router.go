package router

import (
	"database/sql"
	"net/http"
	"strings"

	"club_checkin_backend/internal/config"
	"club_checkin_backend/internal/handlers"
	"club_checkin_backend/internal/middleware"
	"club_checkin_backend/internal/repositories"
	"club_checkin_backend/internal/services"
	"club_checkin_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Options controls how the API is mounted.
type Options struct {
	// AuthRequired puts the customer and identification routes behind the bearer middleware.
	AuthRequired bool
	// StaticDir, when set, is served for every unmatched path outside /api.
	StaticDir string
}

// Setup wires repositories, services and handlers onto engine.
func Setup(engine *gin.Engine, db *sql.DB, cfg *config.Config) error {
	tokens, err := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiration)
	if err != nil {
		return err
	}

	authRepo := repositories.NewAuthRepository(db)
	clientRepo := repositories.NewClientRepository(db)

	authService, err := services.NewAuthService(authRepo, db, tokens, cfg.BcryptCost)
	if err != nil {
		return err
	}
	clientService := services.NewClientService(clientRepo, db)

	Mount(engine, authService, clientService, Options{
		AuthRequired: cfg.AuthRequired,
		StaticDir:    cfg.StaticDir,
	})
	return nil
}

// Mount registers every route under /api.
func Mount(engine *gin.Engine, authService services.AuthService, clientService services.ClientService, opts Options) {
	authHandler := handlers.NewAuthHandler(authService)
	clientHandler := handlers.NewClientHandler(clientService)
	requireToken := middleware.AuthMiddleware(authService)

	api := engine.Group("/api")
	SetupAuthRoutes(api, authHandler, requireToken)

	customers := api.Group("")
	if opts.AuthRequired {
		customers.Use(requireToken)
	} else {
		utils.LogWarn("Customer routes are mounted without authentication", map[string]interface{}{"auth_required": false})
	}
	SetupClientRoutes(customers, clientHandler)
	SetupIdentificationRoutes(customers, clientHandler)

	var static gin.HandlerFunc
	if opts.StaticDir != "" {
		static = gin.WrapH(http.FileServer(http.Dir(opts.StaticDir)))
	}
	engine.NoRoute(func(c *gin.Context) {
		if static != nil && !strings.HasPrefix(c.Request.URL.Path, "/api/") {
			static(c)
			return
		}
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Route not found", ""))
	})
}
