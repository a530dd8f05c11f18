package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/vero-api/internal/domain"
	"github.com/jhoicas/vero-api/internal/domain/entity"
	"github.com/jhoicas/vero-api/internal/domain/repository"
)

var _ repository.ReceivableRepository = (*ReceivableRepo)(nil)

// ReceivableRepo implementación de ReceivableRepository sobre PostgreSQL.
type ReceivableRepo struct {
	q Querier
}

// NewReceivableRepository construye el adaptador de recebíveis.
func NewReceivableRepository(q Querier) *ReceivableRepo {
	return &ReceivableRepo{q: q}
}

const receivableColumns = `id, fund_id, sacado_id, face_value, due_date, status,
	paid_value, paid_at, distributed_at, created_at, updated_at`

func (r *ReceivableRepo) Create(ctx context.Context, rc *entity.Receivable) error {
	query := `
		INSERT INTO receivables (id, fund_id, sacado_id, face_value, due_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		rc.ID, rc.FundID, rc.SacadoID, rc.FaceValue, rc.DueDate, rc.Status, rc.CreatedAt, rc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert receivable: %w", err)
	}
	return nil
}

func (r *ReceivableRepo) GetByID(ctx context.Context, id string) (*entity.Receivable, error) {
	return r.getOne(ctx, `SELECT `+receivableColumns+` FROM receivables WHERE id = $1`, id)
}

func (r *ReceivableRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Receivable, error) {
	return r.getOne(ctx, `SELECT `+receivableColumns+` FROM receivables WHERE id = $1 FOR UPDATE`, id)
}

func (r *ReceivableRepo) List(ctx context.Context, filter repository.ReceivableFilter) ([]*entity.Receivable, error) {
	query := `SELECT ` + receivableColumns + ` FROM receivables
		WHERE ($1 = '' OR fund_id::text = $1)
		  AND ($2 = '' OR fund_id IN (SELECT id FROM funds WHERE consultor_id::text = $2))
		  AND ($3 = '' OR fund_id IN (SELECT fund_id FROM orders WHERE investor_id::text = $3 AND status = 'COMPLETED'))
		ORDER BY created_at DESC, id`
	rows, err := r.q.Query(ctx, query, filter.FundID, filter.ConsultorID, filter.InvestorID)
	if err != nil {
		return nil, fmt.Errorf("list receivables: %w", err)
	}
	defer rows.Close()
	var list []*entity.Receivable
	for rows.Next() {
		rc, err := scanReceivable(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, rc)
	}
	return list, rows.Err()
}

// MarkPaid registra el pago del sacado; solo aplica a recebíveis PENDING.
func (r *ReceivableRepo) MarkPaid(ctx context.Context, id string, paidValue decimal.Decimal, paidAt time.Time) error {
	query := `
		UPDATE receivables SET status = 'PAID', paid_value = $2, paid_at = $3, updated_at = $3
		WHERE id = $1 AND status = 'PENDING'`
	tag, err := r.q.Exec(ctx, query, id, paidValue, paidAt)
	if err != nil {
		return fmt.Errorf("mark receivable paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

// MarkDistributed compare-and-swap PAID -> DISTRIBUTED.
func (r *ReceivableRepo) MarkDistributed(ctx context.Context, id string, at time.Time) (bool, error) {
	query := `
		UPDATE receivables SET status = 'DISTRIBUTED', distributed_at = $2, updated_at = $2
		WHERE id = $1 AND status = 'PAID'`
	tag, err := r.q.Exec(ctx, query, id, at)
	if err != nil {
		return false, fmt.Errorf("mark receivable distributed: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ReceivableRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Receivable, error) {
	rc, err := scanReceivable(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receivable: %w", err)
	}
	return rc, nil
}

func scanReceivable(row pgx.Row) (*entity.Receivable, error) {
	var rc entity.Receivable
	err := row.Scan(
		&rc.ID, &rc.FundID, &rc.SacadoID, &rc.FaceValue, &rc.DueDate, &rc.Status,
		&rc.PaidValue, &rc.PaidAt, &rc.DistributedAt, &rc.CreatedAt, &rc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

var _ repository.DistributionRepository = (*DistributionRepo)(nil)

// DistributionRepo ledger de pagos por recebível.
type DistributionRepo struct {
	q Querier
}

func NewDistributionRepository(q Querier) *DistributionRepo {
	return &DistributionRepo{q: q}
}

// CreateBatch inserta las filas dentro de la tx del llamador; la unicidad (receivable_id, order_id) evita duplicados.
func (r *DistributionRepo) CreateBatch(ctx context.Context, rows []*entity.Distribution) error {
	if len(rows) == 0 {
		return nil
	}
	query := `
		INSERT INTO distributions (id, receivable_id, order_id, investor_id, investor_email,
			investor_public_key, quotas, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, d := range rows {
		_, err := r.q.Exec(ctx, query,
			d.ID, d.ReceivableID, d.OrderID, d.InvestorID, d.InvestorEmail,
			nullIfEmpty(d.InvestorPublicKey), d.Quotas, d.Amount, d.CreatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert distribution: %w", err)
		}
	}
	return nil
}

func (r *DistributionRepo) ListByReceivable(ctx context.Context, receivableID string) ([]*entity.Distribution, error) {
	query := `
		SELECT d.id, d.receivable_id, d.order_id, d.investor_id, d.investor_email, COALESCE(d.investor_public_key, ''),
			d.quotas, d.amount, d.created_at
		FROM distributions d
		JOIN orders o ON o.id = d.order_id
		WHERE d.receivable_id = $1
		ORDER BY o.created_at, o.id`
	rows, err := r.q.Query(ctx, query, receivableID)
	if err != nil {
		return nil, fmt.Errorf("list distributions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Distribution
	for rows.Next() {
		var d entity.Distribution
		if err := rows.Scan(
			&d.ID, &d.ReceivableID, &d.OrderID, &d.InvestorID, &d.InvestorEmail, &d.InvestorPublicKey,
			&d.Quotas, &d.Amount, &d.CreatedAt,
		); err != nil {
			return nil, err
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}
