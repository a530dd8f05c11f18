// Package approval orquesta las decisiones del gestor sobre usuarios, fondos, cedentes y sacados.
package approval

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/vero-api/internal/application/dto"
	"github.com/jhoicas/vero-api/internal/application/ports"
	"github.com/jhoicas/vero-api/internal/domain"
	"github.com/jhoicas/vero-api/internal/domain/access"
	domainapproval "github.com/jhoicas/vero-api/internal/domain/approval"
	"github.com/jhoicas/vero-api/internal/domain/entity"
	"github.com/jhoicas/vero-api/internal/domain/repository"
	"github.com/jhoicas/vero-api/pkg/logger"
)

// UseCase aplica la máquina de estados de aprobación con bloqueo de fila y auditoría en la misma tx.
type UseCase struct {
	tx  ports.TxRunner
	log *logger.Logger
	now func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx ports.TxRunner, log *logger.Logger) *UseCase {
	return &UseCase{tx: tx, log: log.Component("approval"), now: time.Now}
}

// ApproveUser decide sobre un CONSULTANT o INVESTOR. Los MANAGER no son aprobables.
func (uc *UseCase) ApproveUser(ctx context.Context, actor access.Actor, userID, decision string) (*dto.UserResponse, error) {
	if err := access.Require(actor, access.ApproveUser); err != nil {
		return nil, err
	}
	var out dto.UserResponse
	err := uc.tx.Run(ctx, func(repos repository.Repos) error {
		user, err := repos.Users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUserNotFound
		}
		if !user.RequiresApproval() {
			return domain.ErrNotApprovableTarget
		}
		next, err := domainapproval.Decide(user.Status, decision)
		if err != nil {
			return err
		}
		now := uc.now()
		if err := repos.Users.UpdateStatus(ctx, user.ID, next, now); err != nil {
			return err
		}
		if err := uc.audit(ctx, repos, entity.ApprovalTargetUser, user.ID, user.Status, next, actor, now); err != nil {
			return err
		}
		user.Status, user.UpdatedAt = next, now
		out = dto.FromUser(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ApproveFund decide sobre un fondo. Un fondo INACTIVE no vuelve al ciclo de aprobación.
func (uc *UseCase) ApproveFund(ctx context.Context, actor access.Actor, fundID, decision string) (*dto.FundResponse, error) {
	if err := access.Require(actor, access.ApproveFund); err != nil {
		return nil, err
	}
	var out dto.FundResponse
	err := uc.tx.Run(ctx, func(repos repository.Repos) error {
		fund, err := repos.Funds.GetByIDForUpdate(ctx, fundID)
		if err != nil {
			return err
		}
		if fund == nil {
			return fmt.Errorf("%w: fondo %s", domain.ErrNotFound, fundID)
		}
		next, err := domainapproval.Decide(fund.Status, decision)
		if err != nil {
			return err
		}
		now := uc.now()
		prev := fund.Status
		fund.Status, fund.UpdatedAt = next, now
		if err := repos.Funds.Update(ctx, fund); err != nil {
			return err
		}
		if err := uc.audit(ctx, repos, entity.ApprovalTargetFund, fund.ID, prev, next, actor, now); err != nil {
			return err
		}
		metrics, err := repos.Funds.Metrics(ctx, fund.ID)
		if err != nil {
			return err
		}
		out = dto.FromFund(fund, metrics)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ApproveCedente decide sobre un cedente.
func (uc *UseCase) ApproveCedente(ctx context.Context, actor access.Actor, id, decision string) (*dto.PartyResponse, error) {
	return uc.approveParty(ctx, actor, entity.PartyCedente, id, decision)
}

// ApproveSacado decide sobre un sacado.
func (uc *UseCase) ApproveSacado(ctx context.Context, actor access.Actor, id, decision string) (*dto.PartyResponse, error) {
	return uc.approveParty(ctx, actor, entity.PartySacado, id, decision)
}

func (uc *UseCase) approveParty(ctx context.Context, actor access.Actor, kind, id, decision string) (*dto.PartyResponse, error) {
	if err := access.Require(actor, access.ApproveParty); err != nil {
		return nil, err
	}
	var out dto.PartyResponse
	err := uc.tx.Run(ctx, func(repos repository.Repos) error {
		party, err := repos.Parties.GetByIDForUpdate(ctx, kind, id)
		if err != nil {
			return err
		}
		if party == nil {
			return fmt.Errorf("%w: %s %s", domain.ErrNotFound, kind, id)
		}
		next, err := domainapproval.Decide(party.Status, decision)
		if err != nil {
			return err
		}
		now := uc.now()
		if err := repos.Parties.UpdateStatus(ctx, kind, party.ID, next, now); err != nil {
			return err
		}
		// CEDENTE/SACADO coinciden con los tipos de auditoría.
		if err := uc.audit(ctx, repos, kind, party.ID, party.Status, next, actor, now); err != nil {
			return err
		}
		party.Status, party.UpdatedAt = next, now
		out = dto.FromParty(party)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (uc *UseCase) audit(ctx context.Context, repos repository.Repos, entityType, entityID, from, to string, actor access.Actor, at time.Time) error {
	ev := &entity.ApprovalEvent{
		ID:         uuid.New().String(),
		EntityType: entityType,
		EntityID:   entityID,
		FromStatus: from,
		ToStatus:   to,
		ActorID:    actor.UserID,
		CreatedAt:  at,
	}
	if err := repos.ApprovalEvents.Create(ctx, ev); err != nil {
		return fmt.Errorf("approval: registrar evento: %w", err)
	}
	uc.log.Info().
		Str("entity", entityType).
		Str("entity_id", entityID).
		Str("from", from).
		Str("to", to).
		Str("actor_id", actor.UserID).
		Msg("transición de aprobación")
	return nil
}
