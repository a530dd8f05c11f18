// Package party casos de uso de cedentes y sacados registrados por consultores.
package party

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/vero-api/internal/application/dto"
	"github.com/jhoicas/vero-api/internal/domain"
	"github.com/jhoicas/vero-api/internal/domain/access"
	"github.com/jhoicas/vero-api/internal/domain/entity"
	"github.com/jhoicas/vero-api/internal/domain/repository"
	"github.com/jhoicas/vero-api/pkg/logger"
)

// UseCase alta y listado de cedentes/sacados.
type UseCase struct {
	parties repository.PartyRepository
	funds   repository.FundRepository
	log     *logger.Logger
	now     func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(parties repository.PartyRepository, funds repository.FundRepository, log *logger.Logger) *UseCase {
	return &UseCase{parties: parties, funds: funds, log: log.Component("party"), now: time.Now}
}

// Create registra un cedente o sacado en un fondo del consultor.
// Un fondo inexistente o ajeno responde igual (ErrNotFound) para no revelar fondos de otros.
func (uc *UseCase) Create(ctx context.Context, actor access.Actor, kind string, in dto.CreatePartyRequest) (*dto.PartyResponse, error) {
	if err := access.Require(actor, access.CreateParty); err != nil {
		return nil, err
	}
	if kind != entity.PartyCedente && kind != entity.PartySacado {
		return nil, domain.NewValidationError("kind", "oneof", "tipo de contraparte inválido")
	}
	f, err := uc.funds.GetByID(ctx, in.FundID)
	if err != nil {
		return nil, fmt.Errorf("party: obtener fondo: %w", err)
	}
	if f == nil || f.ConsultorID != actor.UserID {
		return nil, fmt.Errorf("%w: fondo no accesible", domain.ErrNotFound)
	}
	now := uc.now()
	p := &entity.Party{
		ID:               uuid.New().String(),
		Kind:             kind,
		Name:             strings.TrimSpace(in.Name),
		Document:         strings.TrimSpace(in.Document),
		Address:          in.Address,
		StellarPublicKey: in.StellarPublicKey,
		Status:           entity.StatusPending,
		ConsultorID:      actor.UserID,
		FundID:           f.ID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.parties.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.log.Info().Str("kind", kind).Str("party_id", p.ID).Str("fund_id", f.ID).Msg("contraparte registrada")
	out := dto.FromParty(p)
	return &out, nil
}

// List lista cedentes o sacados; un CONSULTANT solo ve los propios. fundID vacío no filtra.
func (uc *UseCase) List(ctx context.Context, actor access.Actor, kind, fundID string) ([]dto.PartyResponse, error) {
	filter := repository.PartyFilter{FundID: fundID}
	if actor.IsConsultant() {
		filter.ConsultorID = actor.UserID
	}
	items, err := uc.parties.List(ctx, kind, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PartyResponse, 0, len(items))
	for _, p := range items {
		out = append(out, dto.FromParty(p))
	}
	return out, nil
}
