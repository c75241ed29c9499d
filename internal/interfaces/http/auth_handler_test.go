package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestion-api/internal/application/auth"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Gestion-api/internal/interfaces/http"
	"github.com/jhoicas/Gestion-api/pkg/password"
)

// memRepo repositorio en memoria con el contrato del adaptador PostgreSQL.
type memRepo struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[int64]*entity.Account
}

func newMemRepo() *memRepo {
	return &memRepo{nextID: 1, accounts: map[int64]*entity.Account{}}
}

func (r *memRepo) Create(a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Email == a.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	a.ID = r.nextID
	r.nextID++
	cp := *a
	r.accounts[a.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(id int64) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.accounts[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (r *memRepo) GetByEmail(email string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memRepo) ExistsByEmail(email string) (bool, error) {
	a, _ := r.GetByEmail(email)
	return a != nil, nil
}

func (r *memRepo) UpdateStatus(id int64, status entity.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Status = status
	return nil
}

func (r *memRepo) UpdatePasswordHash(id int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.PasswordHash = hash
	return nil
}

func (r *memRepo) ListByStatus(status entity.Status, limit, offset int) ([]*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Account
	for _, a := range r.accounts {
		if a.Status == status {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

// seed inserta una cuenta ya aprobada (o en el estado dado) con password conocida.
func (r *memRepo) seed(t *testing.T, email string, role entity.Role, status entity.Status, pw string) *entity.Account {
	t.Helper()
	hash, err := password.Hash(pw)
	require.NoError(t, err)
	now := time.Now()
	a := &entity.Account{
		Name: "Sembrada", Email: email, PasswordHash: hash,
		Role: role, Status: status, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, r.Create(a))
	return a
}

const seedPassword = "Secreta1!"

// newTestServer levanta la app completa (router real) sobre el repo en memoria.
func newTestServer() (*fiber.App, *memRepo) {
	repo := newMemRepo()
	uc := auth.NewAuthUseCase(repo, auth.JWTConfig{
		Secret:     testJWTSecret,
		ExpMinutes: testExpMin,
		Issuer:     testIssuer,
	})
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{AuthUC: uc, JWTSecret: testJWTSecret})
	return app, repo
}

func jsonRequest(t *testing.T, app *fiber.App, method, path, token string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// loginToken hace login por el endpoint real y devuelve el token emitido.
func loginToken(t *testing.T, app *fiber.App, email, pw string) string {
	t.Helper()
	resp := jsonRequest(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email": email, "password": pw,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func decodeError(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// Register
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_Crea201SinHash(t *testing.T) {
	app, _ := newTestServer()
	resp := jsonRequest(t, app, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"name": "Ana", "email": "ana@example.com", "password": seedPassword, "role": "HR",
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "PENDING", body["status"])
	assert.NotContains(t, body, "password_hash", "la respuesta nunca incluye el hash")
	assert.NotContains(t, body, "password")
}

func TestRegister_EmailDuplicado400(t *testing.T) {
	app, repo := newTestServer()
	repo.seed(t, "ana@example.com", entity.RoleHR, entity.StatusPending, seedPassword)

	resp := jsonRequest(t, app, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"name": "Otra", "email": "ana@example.com", "password": seedPassword, "role": "HR",
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "EMAIL_EXISTS", decodeError(t, resp))
}

func TestRegister_PasswordDebil400(t *testing.T) {
	app, _ := newTestServer()
	resp := jsonRequest(t, app, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"name": "Ana", "email": "ana@example.com", "password": "NoSymbol1", "role": "HR",
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "WEAK_PASSWORD", decodeError(t, resp))
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_Aceptada200ConToken(t *testing.T) {
	app, repo := newTestServer()
	repo.seed(t, "ana@example.com", entity.RoleFinance, entity.StatusAccepted, seedPassword)

	resp := jsonRequest(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email": "ana@example.com", "password": seedPassword,
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "Bearer", body["tokenType"])
	assert.Equal(t, "ACCEPTED", body["status"])
}

// Password incorrecto y email inexistente: mismo status y mismo código.
func TestLogin_CredencialesInvalidas_RespuestaUniforme(t *testing.T) {
	app, repo := newTestServer()
	repo.seed(t, "ana@example.com", entity.RoleHR, entity.StatusAccepted, seedPassword)

	respWrongPw := jsonRequest(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email": "ana@example.com", "password": "Incorrecta1!",
	})
	defer respWrongPw.Body.Close()
	respNoUser := jsonRequest(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email": "nadie@example.com", "password": seedPassword,
	})
	defer respNoUser.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, respWrongPw.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, respNoUser.StatusCode)
	assert.Equal(t, decodeError(t, respWrongPw), decodeError(t, respNoUser))
}

func TestLogin_Pendiente403SinToken(t *testing.T) {
	app, repo := newTestServer()
	repo.seed(t, "ana@example.com", entity.RoleHR, entity.StatusPending, seedPassword)

	resp := jsonRequest(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email": "ana@example.com", "password": seedPassword,
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "PENDING_APPROVAL", decodeError(t, resp))
}

// ──────────────────────────────────────────────────────────────────────────────
// Approve / Reject
// ──────────────────────────────────────────────────────────────────────────────

func TestApprove_FlujoCompleto(t *testing.T) {
	app, repo := newTestServer()
	repo.seed(t, "admin@example.com", entity.RoleAdmin, entity.StatusAccepted, seedPassword)
	pending := repo.seed(t, "ana@example.com", entity.RoleHR, entity.StatusPending, seedPassword)

	adminToken := loginToken(t, app, "admin@example.com", seedPassword)

	resp := jsonRequest(t, app, http.MethodPut,
		fmt.Sprintf("/api/v1/accounts/%d/approve", pending.ID), adminToken, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// La cuenta aprobada ya puede iniciar sesión.
	loginToken(t, app, "ana@example.com", seedPassword)
}

func TestApprove_SinToken401(t *testing.T) {
	app, repo := newTestServer()
	pending := repo.seed(t, "ana@example.com", entity.RoleHR, entity.StatusPending, seedPassword)

	resp := jsonRequest(t, app, http.MethodPut,
		fmt.Sprintf("/api/v1/accounts/%d/approve", pending.ID), "", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestApprove_SinRolAdmin403(t *testing.T) {
	app, repo := newTestServer()
	repo.seed(t, "empleada@example.com", entity.RoleEmployee, entity.StatusAccepted, seedPassword)
	pending := repo.seed(t, "ana@example.com", entity.RoleHR, entity.StatusPending, seedPassword)

	token := loginToken(t, app, "empleada@example.com", seedPassword)

	resp := jsonRequest(t, app, http.MethodPut,
		fmt.Sprintf("/api/v1/accounts/%d/approve", pending.ID), token, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decodeError(t, resp))
}

func TestReject_IdInexistente404(t *testing.T) {
	app, repo := newTestServer()
	repo.seed(t, "admin@example.com", entity.RoleAdmin, entity.StatusAccepted, seedPassword)
	adminToken := loginToken(t, app, "admin@example.com", seedPassword)

	resp := jsonRequest(t, app, http.MethodPut, "/api/v1/accounts/999/reject", adminToken, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// ChangePassword
// ──────────────────────────────────────────────────────────────────────────────

func TestChangePassword_CuentaPropia200(t *testing.T) {
	app, repo := newTestServer()
	a := repo.seed(t, "ana@example.com", entity.RoleHR, entity.StatusAccepted, seedPassword)
	token := loginToken(t, app, "ana@example.com", seedPassword)

	resp := jsonRequest(t, app, http.MethodPut,
		fmt.Sprintf("/api/v1/accounts/%d/change-password", a.ID), token, fiber.Map{
			"oldPassword": seedPassword, "newPassword": "NuevaClave2$",
		})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// El password nuevo queda activo.
	loginToken(t, app, "ana@example.com", "NuevaClave2$")
}

// Un no-admin apuntando a una cuenta ajena (o inexistente) recibe un 403
// uniforme: la respuesta no revela si el id existe.
func TestChangePassword_CuentaAjena403Uniforme(t *testing.T) {
	app, repo := newTestServer()
	repo.seed(t, "ana@example.com", entity.RoleHR, entity.StatusAccepted, seedPassword)
	otra := repo.seed(t, "otra@example.com", entity.RoleHR, entity.StatusAccepted, seedPassword)
	token := loginToken(t, app, "ana@example.com", seedPassword)

	body := fiber.Map{"oldPassword": seedPassword, "newPassword": "NuevaClave2$"}

	respAjena := jsonRequest(t, app, http.MethodPut,
		fmt.Sprintf("/api/v1/accounts/%d/change-password", otra.ID), token, body)
	defer respAjena.Body.Close()
	respInexistente := jsonRequest(t, app, http.MethodPut,
		"/api/v1/accounts/999/change-password", token, body)
	defer respInexistente.Body.Close()

	assert.Equal(t, http.StatusForbidden, respAjena.StatusCode)
	assert.Equal(t, http.StatusForbidden, respInexistente.StatusCode)
	assert.Equal(t, decodeError(t, respAjena), decodeError(t, respInexistente))
}

func TestChangePassword_AdminSobreOtraCuenta200(t *testing.T) {
	app, repo := newTestServer()
	repo.seed(t, "admin@example.com", entity.RoleAdmin, entity.StatusAccepted, seedPassword)
	otra := repo.seed(t, "ana@example.com", entity.RoleHR, entity.StatusAccepted, seedPassword)
	adminToken := loginToken(t, app, "admin@example.com", seedPassword)

	resp := jsonRequest(t, app, http.MethodPut,
		fmt.Sprintf("/api/v1/accounts/%d/change-password", otra.ID), adminToken, fiber.Map{
			"oldPassword": seedPassword, "newPassword": "NuevaClave2$",
		})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestChangePassword_Errores400(t *testing.T) {
	app, repo := newTestServer()
	a := repo.seed(t, "ana@example.com", entity.RoleHR, entity.StatusAccepted, seedPassword)
	token := loginToken(t, app, "ana@example.com", seedPassword)
	path := fmt.Sprintf("/api/v1/accounts/%d/change-password", a.ID)

	respWrong := jsonRequest(t, app, http.MethodPut, path, token, fiber.Map{
		"oldPassword": "Incorrecta1!", "newPassword": "NuevaClave2$",
	})
	defer respWrong.Body.Close()
	assert.Equal(t, http.StatusBadRequest, respWrong.StatusCode)
	assert.Equal(t, "WRONG_OLD_PASSWORD", decodeError(t, respWrong))

	respSame := jsonRequest(t, app, http.MethodPut, path, token, fiber.Map{
		"oldPassword": seedPassword, "newPassword": seedPassword,
	})
	defer respSame.Body.Close()
	assert.Equal(t, http.StatusBadRequest, respSame.StatusCode)
	assert.Equal(t, "PASSWORD_UNCHANGED", decodeError(t, respSame))

	respWeak := jsonRequest(t, app, http.MethodPut, path, token, fiber.Map{
		"oldPassword": seedPassword, "newPassword": "debil",
	})
	defer respWeak.Body.Close()
	assert.Equal(t, http.StatusBadRequest, respWeak.StatusCode)
	assert.Equal(t, "WEAK_PASSWORD", decodeError(t, respWeak))
}

// ──────────────────────────────────────────────────────────────────────────────
// Accounts (me / listado)
// ──────────────────────────────────────────────────────────────────────────────

func TestMe_DevuelveCuentaPropia(t *testing.T) {
	app, repo := newTestServer()
	repo.seed(t, "ana@example.com", entity.RoleHR, entity.StatusAccepted, seedPassword)
	token := loginToken(t, app, "ana@example.com", seedPassword)

	resp := jsonRequest(t, app, http.MethodGet, "/api/v1/accounts/me", token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ana@example.com", body["email"])
	assert.Equal(t, "HR", body["role"])
}

func TestList_SoloAdmin(t *testing.T) {
	app, repo := newTestServer()
	repo.seed(t, "admin@example.com", entity.RoleAdmin, entity.StatusAccepted, seedPassword)
	repo.seed(t, "pendiente@example.com", entity.RoleEmployee, entity.StatusPending, seedPassword)
	repo.seed(t, "empleada@example.com", entity.RoleEmployee, entity.StatusAccepted, seedPassword)

	adminToken := loginToken(t, app, "admin@example.com", seedPassword)
	resp := jsonRequest(t, app, http.MethodGet, "/api/v1/accounts/?status=PENDING", adminToken, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "pendiente@example.com", list[0]["email"])

	empToken := loginToken(t, app, "empleada@example.com", seedPassword)
	respForbidden := jsonRequest(t, app, http.MethodGet, "/api/v1/accounts/?status=PENDING", empToken, nil)
	defer respForbidden.Body.Close()
	assert.Equal(t, http.StatusForbidden, respForbidden.StatusCode)
}
