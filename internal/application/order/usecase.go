// Package order casos de uso de órdenes de compra de cuotas.
package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/vero-api/internal/application/dto"
	"github.com/jhoicas/vero-api/internal/application/ports"
	"github.com/jhoicas/vero-api/internal/domain"
	"github.com/jhoicas/vero-api/internal/domain/access"
	"github.com/jhoicas/vero-api/internal/domain/entity"
	"github.com/jhoicas/vero-api/internal/domain/repository"
	"github.com/jhoicas/vero-api/pkg/logger"
)

// UseCase reserva, completa y cancela órdenes. Toda mutación bloquea la fila del fondo.
type UseCase struct {
	orders repository.OrderRepository
	funds  repository.FundRepository
	tx     ports.TxRunner
	log    *logger.Logger
	now    func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(orders repository.OrderRepository, funds repository.FundRepository, tx ports.TxRunner, log *logger.Logger) *UseCase {
	return &UseCase{orders: orders, funds: funds, tx: tx, log: log.Component("order"), now: time.Now}
}

// PlaceOrder crea una orden PENDING que reserva quantity cuotas al precio del fondo.
// Disponible para reservar = TotalIssued - Σ COMPLETED - Σ PENDING, calculado con el fondo bloqueado.
func (uc *UseCase) PlaceOrder(ctx context.Context, actor access.Actor, fundID string, quantity int64) (*dto.OrderResponse, error) {
	if err := access.Require(actor, access.PlaceOrder); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "gt", "quantity debe ser positivo")
	}
	var out dto.OrderResponse
	err := uc.tx.Run(ctx, func(repos repository.Repos) error {
		f, err := repos.Funds.GetByIDForUpdate(ctx, fundID)
		if err != nil {
			return err
		}
		if f == nil {
			return fmt.Errorf("%w: fondo %s", domain.ErrNotFound, fundID)
		}
		if f.Status != entity.StatusApproved {
			return domain.WithDetails(domain.ErrFundNotAvailable, map[string]interface{}{"fundStatus": f.Status})
		}
		totals, err := repos.Orders.Totals(ctx, f.ID)
		if err != nil {
			return err
		}
		reservable := f.ReservableQuotas(entity.FundMetrics{TotalSold: totals.Completed, TotalReserved: totals.Pending})
		if quantity > reservable {
			return domain.WithDetails(domain.ErrInsufficientQuotas, map[string]interface{}{
				"requested":   quantity,
				"available":   reservable,
				"totalIssued": f.TotalIssued,
				"totalSold":   totals.Completed,
			})
		}
		now := uc.now()
		o := &entity.Order{
			ID:         uuid.New().String(),
			FundID:     f.ID,
			InvestorID: actor.UserID,
			Quantity:   quantity,
			Price:      f.Price,
			Total:      f.Price.Mul(decimal.NewFromInt(quantity)),
			Status:     entity.OrderPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := repos.Orders.Create(ctx, o); err != nil {
			return err
		}
		out = dto.FromOrder(o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", out.ID).Str("fund_id", fundID).Int64("quantity", quantity).Msg("orden reservada")
	return &out, nil
}

// Complete marca la orden como COMPLETED con el hash (obligatorio) de la transacción on-chain.
// Revalida con el fondo bloqueado que Σ COMPLETED no supere TotalIssued.
func (uc *UseCase) Complete(ctx context.Context, actor access.Actor, orderID, txHash string) (*dto.OrderResponse, error) {
	if err := access.Require(actor, access.CompleteOrder); err != nil {
		return nil, err
	}
	txHash = strings.TrimSpace(txHash)
	if txHash == "" {
		return nil, domain.NewValidationError("txHash", "required", "txHash es requerido")
	}
	return uc.transition(ctx, orderID, func(repos repository.Repos, o *entity.Order) error {
		f, err := repos.Funds.GetByIDForUpdate(ctx, o.FundID)
		if err != nil {
			return err
		}
		if f == nil {
			return fmt.Errorf("%w: fondo %s", domain.ErrNotFound, o.FundID)
		}
		totals, err := repos.Orders.Totals(ctx, f.ID)
		if err != nil {
			return err
		}
		if totals.Completed+o.Quantity > f.TotalIssued {
			return domain.WithDetails(domain.ErrInsufficientQuotas, map[string]interface{}{
				"requested":   o.Quantity,
				"available":   f.TotalIssued - totals.Completed,
				"totalIssued": f.TotalIssued,
				"totalSold":   totals.Completed,
			})
		}
		o.Status, o.TxHash = entity.OrderCompleted, txHash
		return nil
	})
}

// Cancel pasa una orden PENDING a FAILED y libera la reserva.
// El MANAGER cancela cualquiera; el INVESTOR solo las propias.
func (uc *UseCase) Cancel(ctx context.Context, actor access.Actor, orderID string) (*dto.OrderResponse, error) {
	if err := access.Require(actor, access.CancelOrder); err != nil {
		return nil, err
	}
	return uc.transition(ctx, orderID, func(_ repository.Repos, o *entity.Order) error {
		if err := access.CanCancelOrder(actor, o.InvestorID); err != nil {
			return err
		}
		o.Status = entity.OrderFailed
		return nil
	})
}

func (uc *UseCase) transition(ctx context.Context, orderID string, fn func(repos repository.Repos, o *entity.Order) error) (*dto.OrderResponse, error) {
	var out dto.OrderResponse
	err := uc.tx.Run(ctx, func(repos repository.Repos) error {
		o, err := repos.Orders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return fmt.Errorf("%w: orden %s", domain.ErrNotFound, orderID)
		}
		if o.Status != entity.OrderPending {
			return domain.WithDetails(domain.ErrOrderNotPending, map[string]interface{}{"orderStatus": o.Status})
		}
		if err := fn(repos, o); err != nil {
			return err
		}
		o.UpdatedAt = uc.now()
		if err := repos.Orders.UpdateStatus(ctx, o.ID, o.Status, o.TxHash, o.UpdatedAt); err != nil {
			return err
		}
		out = dto.FromOrder(o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", out.ID).Str("status", out.Status).Msg("orden actualizada")
	return &out, nil
}

// List: el INVESTOR ve sus órdenes, el CONSULTANT las de sus fondos y el MANAGER todas.
func (uc *UseCase) List(ctx context.Context, actor access.Actor) ([]dto.OrderResponse, error) {
	investorID := ""
	if actor.Role == entity.RoleInvestor {
		investorID = actor.UserID
	}
	orders, err := uc.orders.List(ctx, investorID)
	if err != nil {
		return nil, err
	}
	var owned map[string]bool
	if actor.IsConsultant() {
		funds, err := uc.funds.List(ctx, repository.FundFilter{ConsultorID: actor.UserID})
		if err != nil {
			return nil, err
		}
		owned = make(map[string]bool, len(funds))
		for _, f := range funds {
			owned[f.ID] = true
		}
	}
	out := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		if owned != nil && !owned[o.FundID] {
			continue
		}
		out = append(out, dto.FromOrder(o))
	}
	return out, nil
}
