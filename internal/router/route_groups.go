package router

import (
	"club_checkin_backend/internal/handlers"
	"club_checkin_backend/internal/middleware"
	"club_checkin_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes mounts /auth. register and login are public; the rest require a token.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler, requireToken gin.HandlerFunc) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.RegisterUser)
		authRoutes.POST("/login", authHandler.LoginUser)

		authRequiredRoutes := authRoutes.Group("")
		authRequiredRoutes.Use(requireToken)
		{
			authRequiredRoutes.GET("/verify", authHandler.VerifyToken)
			authRequiredRoutes.GET("/me", authHandler.GetCurrentUser)
			authRequiredRoutes.POST("/logout", authHandler.LogoutUser)
			authRequiredRoutes.GET("/usuarios/:id", middleware.RoleAuthMiddleware(models.RoleAdmin), authHandler.GetAccountByID)
		}
	}
}

// SetupClientRoutes mounts /clientes.
func SetupClientRoutes(group *gin.RouterGroup, clientHandler *handlers.ClientHandler) {
	clientRoutes := group.Group("/clientes")
	{
		clientRoutes.POST("", clientHandler.CreateClient)
		clientRoutes.GET("", clientHandler.GetClients)
		clientRoutes.GET("/:id", clientHandler.GetClientByID)
		clientRoutes.PUT("/:id", clientHandler.UpdateClient)
		clientRoutes.DELETE("/:id", clientHandler.DeleteClient)
	}
}

// SetupIdentificationRoutes mounts the scanner endpoint.
func SetupIdentificationRoutes(group *gin.RouterGroup, clientHandler *handlers.ClientHandler) {
	group.POST("/identificar", clientHandler.IdentifyClient)
}
