package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/vero-api/internal/domain"
	"github.com/jhoicas/vero-api/internal/domain/entity"
	"github.com/jhoicas/vero-api/internal/domain/repository"
)

var _ repository.PartyRepository = (*PartyRepo)(nil)

// PartyRepo cedentes y sacados comparten la tabla parties, discriminados por kind.
type PartyRepo struct {
	q Querier
}

func NewPartyRepository(q Querier) *PartyRepo {
	return &PartyRepo{q: q}
}

const partyColumns = `id, kind, name, document, COALESCE(address, ''), COALESCE(stellar_public_key, ''),
	status, consultor_id, fund_id, created_at, updated_at`

func (r *PartyRepo) Create(ctx context.Context, p *entity.Party) error {
	query := `
		INSERT INTO parties (id, kind, name, document, address, stellar_public_key, status,
			consultor_id, fund_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Kind, p.Name, p.Document, nullIfEmpty(p.Address), nullIfEmpty(p.StellarPublicKey),
		p.Status, p.ConsultorID, p.FundID, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert party: %w", err)
	}
	return nil
}

func (r *PartyRepo) GetByID(ctx context.Context, kind, id string) (*entity.Party, error) {
	return r.getOne(ctx, `SELECT `+partyColumns+` FROM parties WHERE id = $1 AND kind = $2`, id, kind)
}

func (r *PartyRepo) GetByIDForUpdate(ctx context.Context, kind, id string) (*entity.Party, error) {
	return r.getOne(ctx, `SELECT `+partyColumns+` FROM parties WHERE id = $1 AND kind = $2 FOR UPDATE`, id, kind)
}

func (r *PartyRepo) List(ctx context.Context, kind string, filter repository.PartyFilter) ([]*entity.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties
		WHERE kind = $1 AND ($2 = '' OR consultor_id::text = $2) AND ($3 = '' OR fund_id::text = $3)
		ORDER BY created_at DESC, id`
	rows, err := r.q.Query(ctx, query, kind, filter.ConsultorID, filter.FundID)
	if err != nil {
		return nil, fmt.Errorf("list parties: %w", err)
	}
	defer rows.Close()
	var list []*entity.Party
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PartyRepo) UpdateStatus(ctx context.Context, kind, id, status string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE parties SET status = $3, updated_at = $4 WHERE id = $1 AND kind = $2`, id, kind, status, at)
	if err != nil {
		return fmt.Errorf("update party status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PartyRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Party, error) {
	p, err := scanParty(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get party: %w", err)
	}
	return p, nil
}

func scanParty(row pgx.Row) (*entity.Party, error) {
	var p entity.Party
	err := row.Scan(
		&p.ID, &p.Kind, &p.Name, &p.Document, &p.Address, &p.StellarPublicKey,
		&p.Status, &p.ConsultorID, &p.FundID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
