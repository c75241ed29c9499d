package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Gestion-api/internal/application/auth"
	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/domain"
)

// AuthHandler maneja registro, login, aprobación y cambio de password.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar cuenta
// @Description  Crea una cuenta en estado PENDING; un admin debe aprobarla antes del primer login.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "name, email, password, role"
// @Success      201   {object}  dto.AccountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Name == "" || in.Email == "" || in.Password == "" || in.Role == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name, email, password y role son requeridos"})
	}
	account, err := h.uc.Register(in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "ya existe una cuenta con ese email"})
		case errors.Is(err, domain.ErrWeakPassword):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "WEAK_PASSWORD", Message: "el password debe tener al menos 8 caracteres e incluir mayúscula, minúscula, dígito y símbolo"})
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "role debe ser ADMIN, FINANCE, HR o EMPLOYEE"})
		}
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(account)
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Verifica credenciales y emite un JWT si la cuenta está ACCEPTED.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email y password son requeridos"})
	}
	out, err := h.uc.Login(in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			// Mismo código y mensaje para email desconocido y password incorrecto.
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_CREDENTIALS", Message: "credenciales inválidas"})
		case errors.Is(err, domain.ErrPendingApproval):
			// Rechazo de negocio tipado: credenciales correctas, cuenta sin aprobar.
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "PENDING_APPROVAL", Message: "no podés iniciar sesión hasta que un administrador apruebe tu registro"})
		}
		return internalError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar registro
// @Description  Transiciona la cuenta a ACCEPTED (idempotente). Solo ADMIN.
// @Tags         accounts
// @Produce      json
// @Param        id  path  int  true  "ID de la cuenta"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/accounts/{id}/approve [put]
func (h *AuthHandler) Approve(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Approve, "cuenta aprobada")
}

// Reject godoc
// @Summary      Rechazar registro
// @Description  Transiciona la cuenta a REJECTED (idempotente). Solo ADMIN.
// @Tags         accounts
// @Produce      json
// @Param        id  path  int  true  "ID de la cuenta"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/accounts/{id}/reject [put]
func (h *AuthHandler) Reject(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Reject, "cuenta rechazada")
}

func (h *AuthHandler) transition(c *fiber.Ctx, fn func(int64) error, okMsg string) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	if err := fn(id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "no existe una cuenta con ese id"})
		}
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"message": okMsg})
}

// ChangePassword godoc
// @Summary      Cambiar password
// @Description  Autoservicio sobre la propia cuenta; un ADMIN puede cambiar cualquier cuenta.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        id    path  int                        true  "ID de la cuenta"
// @Param        body  body  dto.ChangePasswordRequest  true  "oldPassword, newPassword"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/accounts/{id}/change-password [put]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	var in dto.ChangePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.OldPassword == "" || in.NewPassword == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "oldPassword y newPassword son requeridos"})
	}

	// La operación está atada a la identidad autenticada: un no-admin solo
	// puede tocar su propia cuenta. La respuesta es un 403 uniforme aunque el
	// id no exista, para no revelar qué cuentas hay.
	if GetRole(c) != "ADMIN" {
		target, err := h.uc.GetByID(id)
		if err != nil {
			return internalError(c, err)
		}
		if target == nil || target.Email != GetEmail(c) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "no tenés permisos para esta operación"})
		}
	}

	if err := h.uc.ChangePassword(id, in.OldPassword, in.NewPassword); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "no existe una cuenta con ese id"})
		case errors.Is(err, domain.ErrWrongPassword):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "WRONG_OLD_PASSWORD", Message: "el password actual es incorrecto"})
		case errors.Is(err, domain.ErrPasswordUnchanged):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "PASSWORD_UNCHANGED", Message: "el password nuevo debe ser distinto al actual"})
		case errors.Is(err, domain.ErrWeakPassword):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "WEAK_PASSWORD", Message: "el password debe tener al menos 8 caracteres e incluir mayúscula, minúscula, dígito y símbolo"})
		}
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"message": "password actualizado"})
}

func parseID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

func internalError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
