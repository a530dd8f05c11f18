package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/vero-api/internal/domain"
	"github.com/jhoicas/vero-api/internal/domain/entity"
	"github.com/jhoicas/vero-api/internal/domain/repository"
)

var _ repository.FundRepository = (*FundRepo)(nil)

// FundRepo implementación de FundRepository sobre PostgreSQL.
type FundRepo struct {
	q Querier
}

// NewFundRepository construye el adaptador de fondos. Pasar pool o tx (Querier).
func NewFundRepository(q Querier) *FundRepo {
	return &FundRepo{q: q}
}

const fundColumns = `id, name, symbol, max_supply, total_issued, price, target_amount, status,
	consultor_id, COALESCE(contract_address, ''), created_at, updated_at`

// Create persiste un fondo nuevo. Símbolo repetido -> ErrSymbolTaken.
func (r *FundRepo) Create(ctx context.Context, f *entity.Fund) error {
	query := `
		INSERT INTO funds (id, name, symbol, max_supply, total_issued, price, target_amount, status,
			consultor_id, contract_address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		f.ID, f.Name, f.Symbol, f.MaxSupply, f.TotalIssued, f.Price, f.TargetAmount, f.Status,
		f.ConsultorID, nullIfEmpty(f.ContractAddress), f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) && constraintName(err) == "funds_symbol_key" {
			return domain.ErrSymbolTaken
		}
		return fmt.Errorf("insert fund: %w", err)
	}
	return nil
}

// GetByID obtiene un fondo por ID.
func (r *FundRepo) GetByID(ctx context.Context, id string) (*entity.Fund, error) {
	return r.getOne(ctx, `SELECT `+fundColumns+` FROM funds WHERE id = $1`, id)
}

// GetBySymbol obtiene un fondo por símbolo normalizado.
func (r *FundRepo) GetBySymbol(ctx context.Context, symbol string) (*entity.Fund, error) {
	return r.getOne(ctx, `SELECT `+fundColumns+` FROM funds WHERE symbol = $1`, symbol)
}

// GetByIDForUpdate obtiene el fondo y bloquea la fila (SELECT FOR UPDATE).
func (r *FundRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Fund, error) {
	return r.getOne(ctx, `SELECT `+fundColumns+` FROM funds WHERE id = $1 FOR UPDATE`, id)
}

// List lista fondos por filtros opcionales, más recientes primero.
func (r *FundRepo) List(ctx context.Context, filter repository.FundFilter) ([]*entity.Fund, error) {
	query := `SELECT ` + fundColumns + ` FROM funds
		WHERE ($1 = '' OR consultor_id::text = $1) AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC, id`
	rows, err := r.q.Query(ctx, query, filter.ConsultorID, filter.Status)
	if err != nil {
		return nil, fmt.Errorf("list funds: %w", err)
	}
	defer rows.Close()
	var list []*entity.Fund
	for rows.Next() {
		f, err := scanFund(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, f)
	}
	return list, rows.Err()
}

// Update persiste estado, emisión y contrato. El CHECK funds_supply_check respalda TotalIssued <= MaxSupply.
func (r *FundRepo) Update(ctx context.Context, f *entity.Fund) error {
	query := `
		UPDATE funds SET status = $2, total_issued = $3, contract_address = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, f.ID, f.Status, f.TotalIssued, nullIfEmpty(f.ContractAddress), f.UpdatedAt)
	if err != nil {
		if constraintName(err) == "funds_supply_check" {
			return domain.ErrExceedsMaxSupply
		}
		return fmt.Errorf("update fund: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Metrics agrega cuotas vendidas/reservadas y el valor nominal de los recebíveis.
func (r *FundRepo) Metrics(ctx context.Context, fundID string) (entity.FundMetrics, error) {
	query := `
		SELECT
			COALESCE((SELECT SUM(quantity) FROM orders WHERE fund_id = $1 AND status = 'COMPLETED'), 0),
			COALESCE((SELECT SUM(quantity) FROM orders WHERE fund_id = $1 AND status = 'PENDING'), 0),
			COALESCE((SELECT SUM(face_value) FROM receivables WHERE fund_id = $1), 0)`
	var m entity.FundMetrics
	if err := r.q.QueryRow(ctx, query, fundID).Scan(&m.TotalSold, &m.TotalReserved, &m.TotalReceivables); err != nil {
		return m, fmt.Errorf("fund metrics: %w", err)
	}
	return m, nil
}

func (r *FundRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Fund, error) {
	f, err := scanFund(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fund: %w", err)
	}
	return f, nil
}

func scanFund(row pgx.Row) (*entity.Fund, error) {
	var f entity.Fund
	err := row.Scan(
		&f.ID, &f.Name, &f.Symbol, &f.MaxSupply, &f.TotalIssued, &f.Price, &f.TargetAmount, &f.Status,
		&f.ConsultorID, &f.ContractAddress, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
