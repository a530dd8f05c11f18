package ports

import (
	"context"

	"github.com/jhoicas/vero-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace rollback; en otro caso commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repos) error) error
}
