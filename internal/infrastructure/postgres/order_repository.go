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

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de órdenes. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, fund_id, investor_id, quantity, price, total, status, COALESCE(tx_hash, ''), created_at, updated_at`

// Create persiste una orden PENDING.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (id, fund_id, investor_id, quantity, price, total, status, tx_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.FundID, o.InvestorID, o.Quantity, o.Price, o.Total, o.Status,
		nullIfEmpty(o.TxHash), o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetByIDForUpdate obtiene y bloquea la orden.
func (r *OrderRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

// List órdenes por inversor (vacío = todas), más recientes primero.
func (r *OrderRepo) List(ctx context.Context, investorID string) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
		WHERE ($1 = '' OR investor_id::text = $1)
		ORDER BY created_at DESC, id`
	rows, err := r.q.Query(ctx, query, investorID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado; txHash vacío conserva el existente.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status, txHash string, at time.Time) error {
	query := `UPDATE orders SET status = $2, tx_hash = COALESCE($3, tx_hash), updated_at = $4 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, status, nullIfEmpty(txHash), at)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Totals cuotas COMPLETED y PENDING del fondo.
func (r *OrderRepo) Totals(ctx context.Context, fundID string) (repository.OrderTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(quantity) FILTER (WHERE status = 'COMPLETED'), 0),
			COALESCE(SUM(quantity) FILTER (WHERE status = 'PENDING'), 0)
		FROM orders WHERE fund_id = $1`
	var t repository.OrderTotals
	if err := r.q.QueryRow(ctx, query, fundID).Scan(&t.Completed, &t.Pending); err != nil {
		return t, fmt.Errorf("order totals: %w", err)
	}
	return t, nil
}

// CompletedHoldings órdenes COMPLETED con datos del inversor, de la más antigua a la más reciente.
func (r *OrderRepo) CompletedHoldings(ctx context.Context, fundID string) ([]entity.QuotaHolding, error) {
	query := `
		SELECT o.id, o.investor_id, u.email, COALESCE(u.stellar_public_key, ''), o.quantity, o.created_at
		FROM orders o
		JOIN users u ON u.id = o.investor_id
		WHERE o.fund_id = $1 AND o.status = 'COMPLETED'
		ORDER BY o.created_at, o.id`
	rows, err := r.q.Query(ctx, query, fundID)
	if err != nil {
		return nil, fmt.Errorf("completed holdings: %w", err)
	}
	defer rows.Close()
	var list []entity.QuotaHolding
	for rows.Next() {
		var h entity.QuotaHolding
		if err := rows.Scan(&h.OrderID, &h.InvestorID, &h.InvestorEmail, &h.InvestorPublicKey, &h.Quantity, &h.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, h)
	}
	return list, rows.Err()
}

func (r *OrderRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(
		&o.ID, &o.FundID, &o.InvestorID, &o.Quantity, &o.Price, &o.Total, &o.Status,
		&o.TxHash, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
