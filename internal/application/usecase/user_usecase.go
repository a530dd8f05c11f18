package usecase

import (
	"context"

	"github.com/jhoicas/vero-api/internal/application/dto"
	"github.com/jhoicas/vero-api/internal/domain"
	"github.com/jhoicas/vero-api/internal/domain/access"
	"github.com/jhoicas/vero-api/internal/domain/entity"
	"github.com/jhoicas/vero-api/internal/domain/repository"
)

// UserUseCase consultas de usuarios para el gestor.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// List devuelve los usuarios, filtrados por rol si role no está vacío.
func (uc *UserUseCase) List(ctx context.Context, actor access.Actor, role string) ([]dto.UserResponse, error) {
	if err := access.Require(actor, access.ListUsers); err != nil {
		return nil, err
	}
	if role != "" && !entity.ValidRole(role) {
		return nil, domain.NewValidationError("role", "oneof", "role debe ser CONSULTANT, MANAGER o INVESTOR")
	}
	users, err := uc.repo.ListByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.FromUser(u))
	}
	return out, nil
}
