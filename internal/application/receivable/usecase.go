// Package receivable casos de uso de recebíveis: alta, pago y distribución pro-rata a los inversores.
package receivable

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
	"github.com/jhoicas/vero-api/internal/domain/distribution"
	"github.com/jhoicas/vero-api/internal/domain/entity"
	"github.com/jhoicas/vero-api/internal/domain/repository"
	"github.com/jhoicas/vero-api/pkg/logger"
)

// UseCase casos de uso de Receivable.
type UseCase struct {
	repos    repository.Repos
	tx       ports.TxRunner
	pdf      ports.StatementPDFGenerator
	receipts ports.ReceiptBuilder
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso. repos son los repositorios fuera de transacción (lecturas).
func NewUseCase(repos repository.Repos, tx ports.TxRunner, pdf ports.StatementPDFGenerator, receipts ports.ReceiptBuilder, log *logger.Logger) *UseCase {
	return &UseCase{repos: repos, tx: tx, pdf: pdf, receipts: receipts, log: log.Component("receivable"), now: time.Now}
}

// Create registra un recebível PENDING de un sacado del fondo.
func (uc *UseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateReceivableRequest) (*dto.ReceivableResponse, error) {
	if err := access.Require(actor, access.CreateReceivable); err != nil {
		return nil, err
	}
	if !in.FaceValue.IsPositive() {
		return nil, domain.NewValidationError("faceValue", "gt", "faceValue debe ser positivo")
	}
	if !isCents(in.FaceValue) {
		return nil, domain.NewValidationError("faceValue", "precision", "faceValue admite hasta 2 decimales")
	}
	if in.DueDate.IsZero() {
		return nil, domain.NewValidationError("dueDate", "required", "dueDate es requerido")
	}
	f, err := uc.repos.Funds.GetByID(ctx, in.FundID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("%w: fondo %s", domain.ErrNotFound, in.FundID)
	}
	sacado, err := uc.repos.Parties.GetByID(ctx, entity.PartySacado, in.SacadoID)
	if err != nil {
		return nil, err
	}
	if sacado == nil {
		return nil, fmt.Errorf("%w: sacado %s", domain.ErrNotFound, in.SacadoID)
	}
	if sacado.FundID != f.ID {
		return nil, domain.NewValidationError("sacadoId", "fund", "el sacado no pertenece al fondo")
	}
	now := uc.now()
	r := &entity.Receivable{
		ID:        uuid.New().String(),
		FundID:    f.ID,
		SacadoID:  sacado.ID,
		FaceValue: in.FaceValue,
		DueDate:   in.DueDate,
		Status:    entity.ReceivablePending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repos.Receivables.Create(ctx, r); err != nil {
		return nil, err
	}
	uc.log.Info().Str("receivable_id", r.ID).Str("fund_id", f.ID).Str("face_value", r.FaceValue.String()).Msg("recebível registrado")
	out := dto.FromReceivable(r)
	return &out, nil
}

// List lista recebíveis, opcionalmente de un fondo. El CONSULTANT ve los de sus fondos,
// el INVESTOR los de fondos donde tiene cuotas COMPLETED y el MANAGER todos.
func (uc *UseCase) List(ctx context.Context, actor access.Actor, fundID string) ([]dto.ReceivableResponse, error) {
	filter := repository.ReceivableFilter{FundID: fundID}
	switch actor.Role {
	case entity.RoleManager:
	case entity.RoleConsultant:
		filter.ConsultorID = actor.UserID
	case entity.RoleInvestor:
		filter.InvestorID = actor.UserID
	default:
		return nil, domain.ErrForbidden
	}
	items, err := uc.repos.Receivables.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReceivableResponse, 0, len(items))
	for _, r := range items {
		out = append(out, dto.FromReceivable(r))
	}
	return out, nil
}

// MarkPaid registra el pago del sacado: solo PENDING -> PAID, paidValue > 0 y en centavos.
func (uc *UseCase) MarkPaid(ctx context.Context, actor access.Actor, id string, paidValue decimal.Decimal) (*dto.ReceivableResponse, error) {
	if err := access.Require(actor, access.MarkReceivablePaid); err != nil {
		return nil, err
	}
	if !paidValue.IsPositive() {
		return nil, domain.NewValidationError("paidValue", "gt", "paidValue debe ser positivo")
	}
	if !isCents(paidValue) {
		return nil, domain.NewValidationError("paidValue", "precision", "paidValue admite hasta 2 decimales")
	}
	var out dto.ReceivableResponse
	err := uc.tx.Run(ctx, func(repos repository.Repos) error {
		r, err := lockReceivable(ctx, repos, id)
		if err != nil {
			return err
		}
		if r.Status != entity.ReceivablePending {
			return domain.WithDetails(domain.ErrInvalidTransition, map[string]interface{}{"receivableStatus": r.Status})
		}
		now := uc.now()
		if err := repos.Receivables.MarkPaid(ctx, r.ID, paidValue, now); err != nil {
			return err
		}
		r.Status, r.PaidValue, r.PaidAt, r.UpdatedAt = entity.ReceivablePaid, &paidValue, &now, now
		out = dto.FromReceivable(r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Distribute reparte el valor pagado entre las órdenes COMPLETED del fondo, persiste el ledger
// y pasa el recebível a DISTRIBUTED (compare-and-swap sobre PAID), todo en una transacción.
func (uc *UseCase) Distribute(ctx context.Context, actor access.Actor, id string) (*dto.DistributeResponse, error) {
	if err := access.Require(actor, access.Distribute); err != nil {
		return nil, err
	}
	var out dto.DistributeResponse
	err := uc.tx.Run(ctx, func(repos repository.Repos) error {
		r, err := lockReceivable(ctx, repos, id)
		if err != nil {
			return err
		}
		if r.Status != entity.ReceivablePaid {
			return domain.WithDetails(domain.ErrReceivableNotPaid, map[string]interface{}{"receivableStatus": r.Status})
		}
		if r.PaidValue == nil {
			return domain.ErrMissingPaidValue
		}
		holdings, err := repos.Orders.CompletedHoldings(ctx, r.FundID)
		if err != nil {
			return err
		}
		result, err := distribution.Allocate(*r.PaidValue, holdings)
		if err != nil {
			return err
		}

		now := uc.now()
		rows := make([]*entity.Distribution, 0, len(result.Shares))
		lines := make([]dto.DistributionLine, 0, len(result.Shares))
		for _, sh := range result.Shares {
			d := &entity.Distribution{
				ID:                uuid.New().String(),
				ReceivableID:      r.ID,
				OrderID:           sh.Holding.OrderID,
				InvestorID:        sh.Holding.InvestorID,
				InvestorEmail:     sh.Holding.InvestorEmail,
				InvestorPublicKey: sh.Holding.InvestorPublicKey,
				Quotas:            sh.Holding.Quantity,
				Amount:            sh.Amount,
				CreatedAt:         now,
			}
			rows = append(rows, d)
			lines = append(lines, dto.FromDistribution(d))
		}
		if err := repos.Distributions.CreateBatch(ctx, rows); err != nil {
			return err
		}
		ok, err := repos.Receivables.MarkDistributed(ctx, r.ID, now)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: el recebível ya fue distribuido", domain.ErrReceivableNotPaid)
		}
		r.Status, r.DistributedAt, r.UpdatedAt = entity.ReceivableDistributed, &now, now
		out = dto.DistributeResponse{
			Receivable:    dto.FromReceivable(r),
			Distributions: lines,
			TotalQuotas:   result.TotalQuotas,
			TotalToPay:    result.TotalToPay,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("receivable_id", id).
		Int("investors", len(out.Distributions)).
		Int64("total_quotas", out.TotalQuotas).
		Str("total_to_pay", out.TotalToPay.StringFixed(2)).
		Msg("recebível distribuido")
	return &out, nil
}

// ListDistributions devuelve el ledger de pagos de un recebível.
func (uc *UseCase) ListDistributions(ctx context.Context, actor access.Actor, id string) ([]dto.DistributionLine, error) {
	if err := access.Require(actor, access.ViewDistributions); err != nil {
		return nil, err
	}
	r, err := uc.repos.Receivables.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: recebível %s", domain.ErrNotFound, id)
	}
	rows, err := uc.repos.Distributions.ListByReceivable(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DistributionLine, 0, len(rows))
	for _, d := range rows {
		out = append(out, dto.FromDistribution(d))
	}
	return out, nil
}

// StatementPDF genera el extracto PDF de un recebível ya distribuido.
func (uc *UseCase) StatementPDF(ctx context.Context, actor access.Actor, id string) (pdfBytes []byte, filename string, err error) {
	st, err := uc.statement(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.pdf.GenerateStatementPDF(ctx, st)
	if err != nil {
		return nil, "", fmt.Errorf("receivable: generar pdf: %w", err)
	}
	return pdfBytes, fmt.Sprintf("distribucion_%s_%s.pdf", st.Fund.Symbol, shortID(id)), nil
}

// Receipt genera el comprobante XML canónico de la distribución.
func (uc *UseCase) Receipt(ctx context.Context, actor access.Actor, id string) (*ports.Receipt, string, error) {
	st, err := uc.statement(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	rc, err := uc.receipts.BuildReceipt(st)
	if err != nil {
		return nil, "", fmt.Errorf("receivable: generar comprobante: %w", err)
	}
	return rc, fmt.Sprintf("distribucion_%s_%s.xml", st.Fund.Symbol, shortID(id)), nil
}

func (uc *UseCase) statement(ctx context.Context, actor access.Actor, id string) (*ports.DistributionStatement, error) {
	if err := access.Require(actor, access.ViewDistributions); err != nil {
		return nil, err
	}
	r, err := uc.repos.Receivables.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: recebível %s", domain.ErrNotFound, id)
	}
	if r.Status != entity.ReceivableDistributed {
		return nil, fmt.Errorf("%w: el recebível aún no fue distribuido", domain.ErrInvalidInput)
	}
	f, err := uc.repos.Funds.GetByID(ctx, r.FundID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("%w: fondo %s", domain.ErrNotFound, r.FundID)
	}
	sacado, err := uc.repos.Parties.GetByID(ctx, entity.PartySacado, r.SacadoID)
	if err != nil {
		return nil, err
	}
	rows, err := uc.repos.Distributions.ListByReceivable(ctx, id)
	if err != nil {
		return nil, err
	}
	st := &ports.DistributionStatement{
		Fund:          f,
		Receivable:    r,
		Sacado:        sacado,
		Distributions: rows,
		TotalToPay:    decimal.Zero,
		GeneratedAt:   uc.now(),
	}
	for _, d := range rows {
		st.TotalQuotas += d.Quotas
		st.TotalToPay = st.TotalToPay.Add(d.Amount)
	}
	return st, nil
}

func lockReceivable(ctx context.Context, repos repository.Repos, id string) (*entity.Receivable, error) {
	r, err := repos.Receivables.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: recebível %s", domain.ErrNotFound, id)
	}
	return r, nil
}

// isCents indica si v no tiene fracción por debajo del centavo; la distribución reparte centavos exactos.
func isCents(v decimal.Decimal) bool {
	return v.Equal(v.Round(2))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
