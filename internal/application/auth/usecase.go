package auth

import (
	"strings"
	"time"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
	"github.com/jhoicas/Gestion-api/pkg/jwt"
	"github.com/jhoicas/Gestion-api/pkg/password"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de identidad y acceso: registro, aprobación,
// login y cambio de password.
type AuthUseCase struct {
	repo   repository.AccountRepository
	jwtCfg JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(repo repository.AccountRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{repo: repo, jwtCfg: jwtCfg}
}

// NormalizeEmail deja el email como se persiste y se busca: sin espacios y en minúsculas.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register crea una cuenta nueva en estado PENDING: valida rol y política de
// password, hashea con bcrypt y persiste. Devuelve domain.ErrEmailAlreadyExists
// si el email ya existe y domain.ErrWeakPassword si la política lo rechaza.
func (uc *AuthUseCase) Register(in dto.RegisterRequest) (*dto.AccountResponse, error) {
	email := NormalizeEmail(in.Email)
	role, ok := entity.ParseRole(in.Role)
	if !ok {
		return nil, domain.ErrInvalidInput
	}

	// Chequeo temprano para la respuesta amable; el constraint único de la DB
	// es quien decide si dos registros del mismo email corren en paralelo.
	exists, err := uc.repo.ExistsByEmail(email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailAlreadyExists
	}

	if !password.IsAcceptable(in.Password) {
		return nil, domain.ErrWeakPassword
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	account := &entity.Account{
		Name:         in.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Status:       entity.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(account); err != nil {
		return nil, err
	}
	return toAccountResponse(account), nil
}

// Login verifica credenciales y, si la cuenta está ACCEPTED, emite un JWT.
// Email desconocido y password incorrecto devuelven el mismo
// domain.ErrInvalidCredentials, con una comparación bcrypt de relleno en el
// camino "no existe" para no filtrar por timing cuál de los dos falló.
// Una cuenta PENDING o REJECTED con credenciales correctas devuelve
// domain.ErrPendingApproval: es un rechazo de negocio, no de seguridad.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	account, err := uc.repo.GetByEmail(NormalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if account == nil {
		password.VerifyDummy(in.Password)
		return nil, domain.ErrInvalidCredentials
	}
	if !password.Verify(in.Password, account.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	if account.Status != entity.StatusAccepted {
		return nil, domain.ErrPendingApproval
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, account.Email, string(account.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		Status:    string(account.Status),
		Account:   *toAccountResponse(account),
	}, nil
}

// Approve transiciona la cuenta a ACCEPTED. Es idempotente y pisa cualquier
// estado anterior (un Reject equivocado se corrige con un Approve posterior).
func (uc *AuthUseCase) Approve(accountID int64) error {
	return uc.repo.UpdateStatus(accountID, entity.StatusAccepted)
}

// Reject transiciona la cuenta a REJECTED, con el mismo contrato que Approve.
func (uc *AuthUseCase) Reject(accountID int64) error {
	return uc.repo.UpdateStatus(accountID, entity.StatusRejected)
}

// ChangePassword verifica el password actual y guarda el hash del nuevo.
// Orden de chequeos: existencia, password viejo, nuevo != viejo (en texto,
// antes de hashear), política del nuevo.
func (uc *AuthUseCase) ChangePassword(accountID int64, oldPassword, newPassword string) error {
	account, err := uc.repo.GetByID(accountID)
	if err != nil {
		return err
	}
	if account == nil {
		return domain.ErrNotFound
	}
	if !password.Verify(oldPassword, account.PasswordHash) {
		return domain.ErrWrongPassword
	}
	if oldPassword == newPassword {
		return domain.ErrPasswordUnchanged
	}
	if !password.IsAcceptable(newPassword) {
		return domain.ErrWeakPassword
	}
	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	return uc.repo.UpdatePasswordHash(accountID, hash)
}

// GetByID obtiene una cuenta por ID (sin hash). Devuelve (nil, nil) si no existe.
func (uc *AuthUseCase) GetByID(id int64) (*dto.AccountResponse, error) {
	account, err := uc.repo.GetByID(id)
	if err != nil || account == nil {
		return nil, err
	}
	return toAccountResponse(account), nil
}

// GetByEmail obtiene una cuenta por email (para /accounts/me con el subject del token).
func (uc *AuthUseCase) GetByEmail(email string) (*dto.AccountResponse, error) {
	account, err := uc.repo.GetByEmail(NormalizeEmail(email))
	if err != nil || account == nil {
		return nil, err
	}
	return toAccountResponse(account), nil
}

// ListByStatus lista cuentas por estado (cola de aprobación del admin).
func (uc *AuthUseCase) ListByStatus(status entity.Status, page dto.PageRequest) ([]*dto.AccountResponse, error) {
	accounts, err := uc.repo.ListByStatus(status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	return out, nil
}

func toAccountResponse(a *entity.Account) *dto.AccountResponse {
	if a == nil {
		return nil
	}
	return &dto.AccountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Role:      string(a.Role),
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
