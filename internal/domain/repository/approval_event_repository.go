package repository

import (
	"context"

	"github.com/jhoicas/vero-api/internal/domain/entity"
)

// ApprovalEventRepository auditoría de transiciones de aprobación.
type ApprovalEventRepository interface {
	Create(ctx context.Context, e *entity.ApprovalEvent) error
	ListByEntity(ctx context.Context, entityType, entityID string) ([]*entity.ApprovalEvent, error)
}
