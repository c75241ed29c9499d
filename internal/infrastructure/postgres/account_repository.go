package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo implementación del puerto AccountRepository sobre PostgreSQL.
// Es el único dueño del registro Account: toda mutación pasa por acá y cada
// operación toca una sola fila en un único statement.
type AccountRepo struct {
	pool *pgxpool.Pool
}

// NewAccountRepository construye el adaptador de persistencia para cuentas.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// Create persiste una cuenta nueva y asigna el ID generado por la DB.
func (r *AccountRepo) Create(a *entity.Account) error {
	query := `
		INSERT INTO accounts (name, email, password_hash, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.pool.QueryRow(context.Background(), query,
		a.Name, a.Email, a.PasswordHash, a.Role, a.Status, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID obtiene una cuenta por ID. Devuelve (nil, nil) si no existe.
func (r *AccountRepo) GetByID(id int64) (*entity.Account, error) {
	query := `
		SELECT id, name, email, password_hash, role, status, created_at, updated_at
		FROM accounts WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(context.Background(), query, id), "get account by id")
}

// GetByEmail obtiene una cuenta por email. Devuelve (nil, nil) si no existe.
func (r *AccountRepo) GetByEmail(email string) (*entity.Account, error) {
	query := `
		SELECT id, name, email, password_hash, role, status, created_at, updated_at
		FROM accounts WHERE email = $1 LIMIT 1`
	return r.scanOne(r.pool.QueryRow(context.Background(), query, email), "get account by email")
}

// ExistsByEmail verifica si ya hay una cuenta con ese email.
func (r *AccountRepo) ExistsByEmail(email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists account by email: %w", err)
	}
	return exists, nil
}

// UpdateStatus cambia el estado de aprobación. domain.ErrNotFound si el ID no existe.
func (r *AccountRepo) UpdateStatus(id int64, status entity.Status) error {
	tag, err := r.pool.Exec(context.Background(),
		`UPDATE accounts SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("update account status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdatePasswordHash reemplaza el hash de password. domain.ErrNotFound si el ID no existe.
func (r *AccountRepo) UpdatePasswordHash(id int64, hash string) error {
	tag, err := r.pool.Exec(context.Background(),
		`UPDATE accounts SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		id, hash, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("update account password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByStatus lista cuentas por estado con paginación (cola de aprobación del admin).
func (r *AccountRepo) ListByStatus(status entity.Status, limit, offset int) ([]*entity.Account, error) {
	query := `
		SELECT id, name, email, password_hash, role, status, created_at, updated_at
		FROM accounts WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(context.Background(), query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Account
	for rows.Next() {
		var a entity.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

func (r *AccountRepo) scanOne(row pgx.Row, op string) (*entity.Account, error) {
	var a entity.Account
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &a, nil
}
