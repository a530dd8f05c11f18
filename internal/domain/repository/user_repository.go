package repository

import (
	"context"
	"time"

	"github.com/jhoicas/vero-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los Get devuelven (nil, nil) si no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByIDForUpdate bloquea la fila (SELECT FOR UPDATE) dentro de una transacción.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error)
	// ListByRole filtra por rol; role vacío devuelve todos.
	ListByRole(ctx context.Context, role string) ([]*entity.User, error)
	UpdateStatus(ctx context.Context, id, status string, at time.Time) error
	UpdateStellarKeys(ctx context.Context, id, publicKey, sealedSecret string, at time.Time) error
}
