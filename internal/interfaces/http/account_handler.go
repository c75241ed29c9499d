package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Gestion-api/internal/application/auth"
	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// AccountHandler consultas sobre cuentas (perfil propio y cola de aprobación).
type AccountHandler struct {
	uc *auth.AuthUseCase
}

// NewAccountHandler construye el handler de cuentas.
func NewAccountHandler(uc *auth.AuthUseCase) *AccountHandler {
	return &AccountHandler{uc: uc}
}

// Me godoc
// @Summary      Cuenta propia
// @Description  Devuelve la cuenta de la identidad autenticada (subject del token).
// @Tags         accounts
// @Produce      json
// @Success      200  {object}  dto.AccountResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/accounts/me [get]
func (h *AccountHandler) Me(c *fiber.Ctx) error {
	account, err := h.uc.GetByEmail(GetEmail(c))
	if err != nil {
		return internalError(c, err)
	}
	if account == nil {
		// Token válido pero la cuenta ya no está en el directorio.
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "la cuenta del token no existe"})
	}
	return c.JSON(account)
}

// List godoc
// @Summary      Listar cuentas por estado
// @Description  Cola de revisión para administradores (por defecto las PENDING).
// @Tags         accounts
// @Produce      json
// @Param        status  query  string  false  "PENDING | ACCEPTED | REJECTED"
// @Param        limit   query  int     false  "máximo por página"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}   dto.AccountResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/accounts [get]
func (h *AccountHandler) List(c *fiber.Ctx) error {
	status := entity.Status(c.Query("status", string(entity.StatusPending)))
	switch status {
	case entity.StatusPending, entity.StatusAccepted, entity.StatusRejected:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status debe ser PENDING, ACCEPTED o REJECTED"})
	}

	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	accounts, err := h.uc.ListByStatus(status, page)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(accounts)
}
