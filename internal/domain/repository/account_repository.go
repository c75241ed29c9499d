package repository

import "github.com/jhoicas/Gestion-api/internal/domain/entity"

// AccountRepository define el puerto de persistencia para Account (DIP).
// Las implementaciones devuelven (nil, nil) cuando la cuenta no existe en los Get;
// las mutaciones por ID devuelven domain.ErrNotFound si el ID no existe.
type AccountRepository interface {
	// Create persiste una cuenta nueva y asigna a.ID.
	// Devuelve domain.ErrEmailAlreadyExists si el email ya está tomado
	// (el constraint único de la DB decide bajo concurrencia).
	Create(a *entity.Account) error
	GetByID(id int64) (*entity.Account, error)
	GetByEmail(email string) (*entity.Account, error)
	ExistsByEmail(email string) (bool, error)
	// UpdateStatus cambia solo status + updated_at en un único UPDATE (atómico por fila).
	UpdateStatus(id int64, status entity.Status) error
	// UpdatePasswordHash cambia solo password_hash + updated_at.
	UpdatePasswordHash(id int64, hash string) error
	ListByStatus(status entity.Status, limit, offset int) ([]*entity.Account, error)
}
