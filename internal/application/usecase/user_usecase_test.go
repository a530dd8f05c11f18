package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vero-api/internal/application/usecase"
	"github.com/jhoicas/vero-api/internal/domain"
	"github.com/jhoicas/vero-api/internal/domain/access"
	"github.com/jhoicas/vero-api/internal/domain/entity"
	"github.com/jhoicas/vero-api/internal/infrastructure/memory"
)

func TestUserList(t *testing.T) {
	store := memory.NewStore()
	users := store.Repos().Users
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, users.Create(ctx, &entity.User{ID: "c1", Email: "c@vero.com", Role: entity.RoleConsultant, Status: entity.StatusPending, CreatedAt: now}))
	require.NoError(t, users.Create(ctx, &entity.User{ID: "i1", Email: "i@vero.com", Role: entity.RoleInvestor, Status: entity.StatusPending, CreatedAt: now.Add(time.Second)}))
	uc := usecase.NewUserUseCase(users)
	manager := access.Actor{UserID: "m1", Role: entity.RoleManager}

	all, err := uc.List(ctx, manager, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "i1", all[0].ID)

	investors, err := uc.List(ctx, manager, entity.RoleInvestor)
	require.NoError(t, err)
	assert.Len(t, investors, 1)

	_, err = uc.List(ctx, manager, "ADMIN")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.List(ctx, access.Actor{UserID: "i1", Role: entity.RoleInvestor}, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
