package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/pkg/jwt"
)

// Locals keys para la identidad autenticada en Fiber.
const (
	LocalEmail = "auth_email"
	LocalRole  = "auth_role"
)

// Authenticate extrae y valida el Bearer Token JWT y deja {email, rol} en
// c.Locals. Nunca corta la request: sin header, con formato malo o con token
// inválido/expirado la request sigue como anónima (algunas rutas son públicas
// a propósito) y son RequireAuth / RequireRole quienes deniegan después.
func Authenticate(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Next()
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Next()
		}
		email, role, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil || email == "" {
			// Token forjado, alterado o vencido: la request queda sin identidad.
			return c.Next()
		}
		c.Locals(LocalEmail, email)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// RequireAuth deniega con 401 si la request no tiene identidad autenticada.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetEmail(c) == "" {
			return unauthenticated(c)
		}
		return c.Next()
	}
}

// RequireRole deniega con 401 si no hay identidad y con 403 si el rol no está
// en el conjunto permitido. La respuesta de 403 es uniforme: no revela si el
// recurso pedido existe.
func RequireRole(roles ...entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetEmail(c) == "" {
			return unauthenticated(c)
		}
		role := GetRole(c)
		for _, allowed := range roles {
			if role == string(allowed) {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code:    "FORBIDDEN",
			Message: "no tenés permisos para esta operación",
		})
	}
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Code:    "UNAUTHENTICATED",
		Message: "se requiere un token Bearer válido",
	})
}

// GetEmail devuelve el email autenticado del contexto ("" si la request es anónima).
func GetEmail(c *fiber.Ctx) string {
	v := c.Locals(LocalEmail)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetRole devuelve el rol autenticado del contexto ("" si la request es anónima).
func GetRole(c *fiber.Ctx) string {
	v := c.Locals(LocalRole)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
