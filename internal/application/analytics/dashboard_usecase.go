// Package analytics contiene el resumen operativo del dashboard del gestor.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/vero-api/internal/application/dto"
	"github.com/jhoicas/vero-api/internal/domain/access"
	"github.com/jhoicas/vero-api/internal/domain/entity"
	"github.com/jhoicas/vero-api/internal/domain/repository"
)

// DashboardUseCase genera el resumen de la plataforma: aprobaciones pendientes, cuotas y recebíveis.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, now: time.Now}
}

// GetSummary construye el DashboardSummaryDTO. Solo MANAGER.
//
// Tres llamadas en paralelo:
//  1. PendingApprovals          → cola de aprobación
//  2. QuotaTotals               → emisión, ventas y reservas
//  3. ReceivableTotals(mes)     → recebíveis abiertos, por distribuir y distribuidos en el mes
func (uc *DashboardUseCase) GetSummary(ctx context.Context, actor access.Actor) (*dto.DashboardSummaryDTO, error) {
	if err := access.Require(actor, access.ViewDashboard); err != nil {
		return nil, err
	}
	now := uc.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type pendingResult struct {
		v   entity.PendingApprovals
		err error
	}
	type quotasResult struct {
		v   entity.QuotaTotals
		err error
	}
	type receivablesResult struct {
		v   entity.ReceivableTotals
		err error
	}

	pendingCh := make(chan pendingResult, 1)
	quotasCh := make(chan quotasResult, 1)
	recCh := make(chan receivablesResult, 1)

	go func() {
		v, err := uc.analyticsRepo.PendingApprovals(ctx)
		pendingCh <- pendingResult{v, err}
	}()
	go func() {
		v, err := uc.analyticsRepo.QuotaTotals(ctx)
		quotasCh <- quotasResult{v, err}
	}()
	go func() {
		v, err := uc.analyticsRepo.ReceivableTotals(ctx, monthStart, now)
		recCh <- receivablesResult{v, err}
	}()

	pending := <-pendingCh
	quotas := <-quotasCh
	rec := <-recCh

	if pending.err != nil {
		return nil, fmt.Errorf("dashboard: aprobaciones pendientes: %w", pending.err)
	}
	if quotas.err != nil {
		return nil, fmt.Errorf("dashboard: cuotas: %w", quotas.err)
	}
	if rec.err != nil {
		return nil, fmt.Errorf("dashboard: recebíveis: %w", rec.err)
	}

	return &dto.DashboardSummaryDTO{
		PendingApprovals: dto.PendingApprovalsDTO{
			Users:    pending.v.Users,
			Funds:    pending.v.Funds,
			Cedentes: pending.v.Cedentes,
			Sacados:  pending.v.Sacados,
			Total:    pending.v.Users + pending.v.Funds + pending.v.Cedentes + pending.v.Sacados,
		},
		Quotas: dto.QuotaTotalsDTO{
			ActiveFunds: quotas.v.ActiveFunds,
			Issued:      quotas.v.Issued,
			Sold:        quotas.v.Sold,
			Reserved:    quotas.v.Reserved,
			Available:   quotas.v.Issued - quotas.v.Sold,
		},
		Receivables: dto.ReceivableTotalsDTO{
			OpenFaceValue:        rec.v.OpenFaceValue.Round(2),
			AwaitingDistribution: rec.v.AwaitingDistribution.Round(2),
			DistributedThisMonth: rec.v.DistributedValue.Round(2),
			DistributedCount:     rec.v.DistributedCount,
		},
		DateLabel: monthLabel(now),
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
