package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/vero-api/internal/domain/entity"
	"github.com/jhoicas/vero-api/internal/domain/repository"
)

var _ repository.ApprovalEventRepository = (*ApprovalEventRepo)(nil)

// ApprovalEventRepo auditoría append-only de aprobaciones.
type ApprovalEventRepo struct {
	q Querier
}

func NewApprovalEventRepository(q Querier) *ApprovalEventRepo {
	return &ApprovalEventRepo{q: q}
}

func (r *ApprovalEventRepo) Create(ctx context.Context, e *entity.ApprovalEvent) error {
	query := `
		INSERT INTO approval_events (id, entity_type, entity_id, from_status, to_status, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.q.Exec(ctx, query, e.ID, e.EntityType, e.EntityID, e.FromStatus, e.ToStatus, e.ActorID, e.CreatedAt); err != nil {
		return fmt.Errorf("insert approval event: %w", err)
	}
	return nil
}

func (r *ApprovalEventRepo) ListByEntity(ctx context.Context, entityType, entityID string) ([]*entity.ApprovalEvent, error) {
	query := `
		SELECT id, entity_type, entity_id, from_status, to_status, actor_id, created_at
		FROM approval_events
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("list approval events: %w", err)
	}
	defer rows.Close()
	var list []*entity.ApprovalEvent
	for rows.Next() {
		var e entity.ApprovalEvent
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.FromStatus, &e.ToStatus, &e.ActorID, &e.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
