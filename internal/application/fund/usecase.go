// Package fund casos de uso de fondos: alta, consulta con métricas y emisión de cuotas.
package fund

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/vero-api/internal/application/dto"
	"github.com/jhoicas/vero-api/internal/application/ports"
	"github.com/jhoicas/vero-api/internal/domain"
	"github.com/jhoicas/vero-api/internal/domain/access"
	"github.com/jhoicas/vero-api/internal/domain/entity"
	"github.com/jhoicas/vero-api/internal/domain/repository"
	"github.com/jhoicas/vero-api/internal/domain/symbol"
	"github.com/jhoicas/vero-api/pkg/logger"
)

// UseCase casos de uso de Fund.
type UseCase struct {
	funds repository.FundRepository
	users repository.UserRepository
	tx    ports.TxRunner
	log   *logger.Logger
	now   func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(funds repository.FundRepository, users repository.UserRepository, tx ports.TxRunner, log *logger.Logger) *UseCase {
	return &UseCase{funds: funds, users: users, tx: tx, log: log.Component("fund"), now: time.Now}
}

// Create da de alta un fondo en estado PENDING. El consultor debe estar APPROVED y el símbolo libre.
func (uc *UseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateFundRequest) (*dto.FundResponse, error) {
	if err := access.Require(actor, access.CreateFund); err != nil {
		return nil, err
	}
	creator, err := uc.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("fund: obtener consultor: %w", err)
	}
	if creator == nil {
		return nil, domain.ErrUserNotFound
	}
	if creator.Status != entity.StatusApproved {
		return nil, domain.ErrPendingApproval
	}
	if in.MaxSupply <= 0 {
		return nil, domain.NewValidationError("maxSupply", "gt", "maxSupply debe ser positivo")
	}
	if !in.Price.IsPositive() {
		return nil, domain.NewValidationError("price", "gt", "price debe ser positivo")
	}
	if in.TargetAmount != nil && !in.TargetAmount.IsPositive() {
		return nil, domain.NewValidationError("targetAmount", "gt", "targetAmount debe ser positivo")
	}
	sym, err := symbol.Normalize(in.Symbol)
	if err != nil {
		return nil, err
	}
	existing, err := uc.funds.GetBySymbol(ctx, sym)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrSymbolTaken
	}

	now := uc.now()
	f := &entity.Fund{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Symbol:       sym,
		MaxSupply:    in.MaxSupply,
		Price:        in.Price,
		TargetAmount: in.TargetAmount,
		Status:       entity.StatusPending,
		ConsultorID:  actor.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.funds.Create(ctx, f); err != nil {
		return nil, err
	}
	uc.log.Info().Str("fund_id", f.ID).Str("symbol", f.Symbol).Str("consultor_id", f.ConsultorID).Msg("fondo creado")
	out := dto.FromFund(f, entity.FundMetrics{TotalReceivables: decimal.Zero})
	return &out, nil
}

// List devuelve los fondos con métricas. Un CONSULTANT solo ve los propios.
func (uc *UseCase) List(ctx context.Context, actor access.Actor, status string) ([]dto.FundResponse, error) {
	filter := repository.FundFilter{Status: status}
	if actor.IsConsultant() {
		filter.ConsultorID = actor.UserID
	}
	funds, err := uc.funds.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FundResponse, 0, len(funds))
	for _, f := range funds {
		m, err := uc.funds.Metrics(ctx, f.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.FromFund(f, m))
	}
	return out, nil
}

// Get devuelve un fondo con sus métricas.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.FundResponse, error) {
	f, err := uc.funds.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("%w: fondo %s", domain.ErrNotFound, id)
	}
	m, err := uc.funds.Metrics(ctx, f.ID)
	if err != nil {
		return nil, err
	}
	out := dto.FromFund(f, m)
	return &out, nil
}

// Issue emite amount cuotas. La fila del fondo queda bloqueada durante la tx para que
// emisiones concurrentes no superen MaxSupply.
func (uc *UseCase) Issue(ctx context.Context, actor access.Actor, fundID string, amount int64) (*dto.FundResponse, error) {
	if err := access.Require(actor, access.IssueQuotas); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, domain.NewValidationError("amount", "gt", "amount debe ser positivo")
	}
	return uc.mutate(ctx, fundID, func(f *entity.Fund) error {
		if !f.CanIssue(amount) {
			return domain.WithDetails(domain.ErrExceedsMaxSupply, map[string]interface{}{
				"requested":   amount,
				"totalIssued": f.TotalIssued,
				"maxSupply":   f.MaxSupply,
			})
		}
		f.TotalIssued += amount
		uc.log.Info().Str("fund_id", f.ID).Int64("amount", amount).Int64("total_issued", f.TotalIssued).Msg("cuotas emitidas")
		return nil
	})
}

// Deactivate pasa el fondo a INACTIVE; deja de aceptar órdenes.
func (uc *UseCase) Deactivate(ctx context.Context, actor access.Actor, fundID string) (*dto.FundResponse, error) {
	if err := access.Require(actor, access.DeactivateFund); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, fundID, func(f *entity.Fund) error {
		f.Status = entity.FundStatusInactive
		return nil
	})
}

// SetContractAddress registra la dirección del contrato del token del fondo.
func (uc *UseCase) SetContractAddress(ctx context.Context, actor access.Actor, fundID, address string) (*dto.FundResponse, error) {
	if err := access.Require(actor, access.SetFundContract); err != nil {
		return nil, err
	}
	if address == "" {
		return nil, domain.NewValidationError("contractAddress", "required", "contractAddress es requerido")
	}
	return uc.mutate(ctx, fundID, func(f *entity.Fund) error {
		f.ContractAddress = address
		return nil
	})
}

// mutate bloquea el fondo, aplica fn y persiste en la misma transacción.
func (uc *UseCase) mutate(ctx context.Context, fundID string, fn func(f *entity.Fund) error) (*dto.FundResponse, error) {
	var out dto.FundResponse
	err := uc.tx.Run(ctx, func(repos repository.Repos) error {
		f, err := repos.Funds.GetByIDForUpdate(ctx, fundID)
		if err != nil {
			return err
		}
		if f == nil {
			return fmt.Errorf("%w: fondo %s", domain.ErrNotFound, fundID)
		}
		if err := fn(f); err != nil {
			return err
		}
		f.UpdatedAt = uc.now()
		if err := repos.Funds.Update(ctx, f); err != nil {
			return err
		}
		m, err := repos.Funds.Metrics(ctx, f.ID)
		if err != nil {
			return err
		}
		out = dto.FromFund(f, m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
