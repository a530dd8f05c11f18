package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vero-api/internal/domain/entity"
	"github.com/jhoicas/vero-api/internal/domain/repository"
	"github.com/jhoicas/vero-api/internal/infrastructure/memory"
)

var errAbort = errors.New("abort")

func seedFund(t *testing.T, store *memory.Store) *entity.Fund {
	t.Helper()
	f := &entity.Fund{
		ID: "f1", Name: "Fundo", Symbol: "FND", MaxSupply: 1000, TotalIssued: 100,
		Price: decimal.NewFromInt(10), Status: entity.StatusApproved, ConsultorID: "c1", CreatedAt: time.Now(),
	}
	require.NoError(t, store.Repos().Funds.Create(context.Background(), f))
	return f
}

func TestRun_RollbackNoPierdeEscriturasAjenas(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedFund(t, store)

	inside := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- store.Run(ctx, func(repos repository.Repos) error {
			f, err := repos.Funds.GetByIDForUpdate(ctx, "f1")
			if err != nil {
				return err
			}
			f.TotalIssued = 900
			if err := repos.Funds.Update(ctx, f); err != nil {
				return err
			}
			close(inside)
			<-release
			return errAbort
		})
	}()

	<-inside
	require.NoError(t, store.Repos().Users.Create(ctx, &entity.User{ID: "u1", Email: "u1@vero.com", Role: entity.RoleInvestor, Status: entity.StatusPending}))
	close(release)
	assert.ErrorIs(t, <-done, errAbort)

	u, err := store.Repos().Users.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "u1@vero.com", u.Email)

	f, err := store.Repos().Funds.GetByID(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), f.TotalIssued)
}

func TestRun_RollbackDeshaceTodasLasEscrituras(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedFund(t, store)
	now := time.Now()
	require.NoError(t, store.Repos().Receivables.Create(ctx, &entity.Receivable{
		ID: "r1", FundID: "f1", SacadoID: "s1", FaceValue: decimal.NewFromInt(100), Status: entity.ReceivablePending, CreatedAt: now,
	}))

	err := store.Run(ctx, func(repos repository.Repos) error {
		if err := repos.Orders.Create(ctx, &entity.Order{ID: "o1", FundID: "f1", InvestorID: "i1", Quantity: 10, Status: entity.OrderPending, CreatedAt: now}); err != nil {
			return err
		}
		if err := repos.Receivables.MarkPaid(ctx, "r1", decimal.NewFromInt(50), now); err != nil {
			return err
		}
		if err := repos.Distributions.CreateBatch(ctx, []*entity.Distribution{{ID: "d1", ReceivableID: "r1", OrderID: "o1", Amount: decimal.NewFromInt(50)}}); err != nil {
			return err
		}
		if err := repos.ApprovalEvents.Create(ctx, &entity.ApprovalEvent{ID: "e1", EntityType: entity.ApprovalTargetFund, EntityID: "f1"}); err != nil {
			return err
		}
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	o, err := store.Repos().Orders.GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Nil(t, o)

	r, err := store.Repos().Receivables.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, entity.ReceivablePending, r.Status)
	assert.Nil(t, r.PaidValue)

	rows, err := store.Repos().Distributions.ListByReceivable(ctx, "r1")
	require.NoError(t, err)
	assert.Empty(t, rows)

	events, err := store.Repos().ApprovalEvents.ListByEntity(ctx, entity.ApprovalTargetFund, "f1")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestRun_CommitPersiste(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedFund(t, store)

	require.NoError(t, store.Run(ctx, func(repos repository.Repos) error {
		return repos.Orders.Create(ctx, &entity.Order{ID: "o1", FundID: "f1", InvestorID: "i1", Quantity: 10, Status: entity.OrderPending, CreatedAt: time.Now()})
	}))

	totals, err := store.Repos().Orders.Totals(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), totals.Pending)
}

func TestRun_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := memory.NewStore().Run(ctx, func(repository.Repos) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
