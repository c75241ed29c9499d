package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Gestion-api/internal/application/auth"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	JWTSecret string
}

// Router registra las rutas de la API. Authenticate corre sobre todo /api/v1
// (resuelve la identidad si hay token); el allow-list real son las rutas que
// no montan RequireAuth/RequireRole: register, login, /health y /docs.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api/v1", Authenticate(deps.JWTSecret))

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Accounts (protegido)
	accounts := api.Group("/accounts")
	accountHandler := NewAccountHandler(deps.AuthUC)
	accounts.Get("/me", RequireAuth(), accountHandler.Me)
	accounts.Get("/", RequireRole(entity.RoleAdmin), accountHandler.List)
	accounts.Put("/:id/approve", RequireRole(entity.RoleAdmin), authHandler.Approve)
	accounts.Put("/:id/reject", RequireRole(entity.RoleAdmin), authHandler.Reject)
	accounts.Put("/:id/change-password", RequireAuth(), authHandler.ChangePassword)
}
