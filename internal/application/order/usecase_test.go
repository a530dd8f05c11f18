package order_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vero-api/internal/application/order"
	"github.com/jhoicas/vero-api/internal/domain"
	"github.com/jhoicas/vero-api/internal/domain/access"
	"github.com/jhoicas/vero-api/internal/domain/entity"
	"github.com/jhoicas/vero-api/internal/infrastructure/memory"
	"github.com/jhoicas/vero-api/pkg/logger"
)

var (
	manager  = access.Actor{UserID: "m1", Role: entity.RoleManager}
	investor = access.Actor{UserID: "i1", Role: entity.RoleInvestor}
	other    = access.Actor{UserID: "i2", Role: entity.RoleInvestor}
)

func setup(t *testing.T, status string, issued int64) (*order.UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	require.NoError(t, repos.Funds.Create(context.Background(), &entity.Fund{
		ID: "f1", Name: "F", Symbol: "FND", MaxSupply: 1000, TotalIssued: issued,
		Price: decimal.NewFromInt(10), Status: status, ConsultorID: "c1", CreatedAt: time.Now(),
	}))
	return order.NewUseCase(repos.Orders, repos.Funds, store, logger.Nop()), store
}

func TestPlaceOrder(t *testing.T) {
	uc, _ := setup(t, entity.StatusApproved, 500)
	o, err := uc.PlaceOrder(context.Background(), investor, "f1", 100)
	require.NoError(t, err)

	assert.Equal(t, entity.OrderPending, o.Status)
	assert.True(t, o.Price.Equal(decimal.NewFromInt(10)))
	assert.True(t, o.Total.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, "i1", o.InvestorID)
}

func TestPlaceOrder_Reglas(t *testing.T) {
	ctx := context.Background()

	uc, _ := setup(t, entity.StatusPending, 500)
	_, err := uc.PlaceOrder(ctx, investor, "f1", 1)
	assert.ErrorIs(t, err, domain.ErrFundNotAvailable)

	uc, _ = setup(t, entity.StatusApproved, 500)
	_, err = uc.PlaceOrder(ctx, manager, "f1", 1)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.PlaceOrder(ctx, investor, "f1", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.PlaceOrder(ctx, investor, "nope", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPlaceOrder_ReservaDescuentaPendientes(t *testing.T) {
	uc, _ := setup(t, entity.StatusApproved, 100)
	ctx := context.Background()

	_, err := uc.PlaceOrder(ctx, investor, "f1", 60)
	require.NoError(t, err)

	_, err = uc.PlaceOrder(ctx, other, "f1", 41)
	assert.ErrorIs(t, err, domain.ErrInsufficientQuotas)
	var detailed *domain.DetailedError
	require.ErrorAs(t, err, &detailed)
	assert.Equal(t, int64(40), detailed.Details["available"])
	assert.Equal(t, int64(41), detailed.Details["requested"])

	_, err = uc.PlaceOrder(ctx, other, "f1", 40)
	assert.NoError(t, err)
}

func TestPlaceOrder_ConcurrenteNoSobrevende(t *testing.T) {
	uc, store := setup(t, entity.StatusApproved, 100)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = uc.PlaceOrder(ctx, investor, "f1", 7)
		}()
	}
	wg.Wait()

	totals, err := store.Repos().Orders.Totals(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, int64(98), totals.Pending)
}

func TestComplete(t *testing.T) {
	uc, store := setup(t, entity.StatusApproved, 500)
	ctx := context.Background()
	o, err := uc.PlaceOrder(ctx, investor, "f1", 100)
	require.NoError(t, err)

	_, err = uc.Complete(ctx, investor, o.ID, "abc")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	for _, hash := range []string{"", "   "} {
		_, err = uc.Complete(ctx, manager, o.ID, hash)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "txHash", verr.Fields[0].Field)
	}
	pending, err := store.Repos().Orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderPending, pending.Status)

	done, err := uc.Complete(ctx, manager, o.ID, "abc")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCompleted, done.Status)
	assert.Equal(t, "abc", done.TxHash)

	_, err = uc.Complete(ctx, manager, o.ID, "abc")
	assert.ErrorIs(t, err, domain.ErrOrderNotPending)

	m, err := store.Repos().Funds.Metrics(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), m.TotalSold)
}

func TestComplete_NuncaSuperaEmitido(t *testing.T) {
	uc, store := setup(t, entity.StatusApproved, 100)
	ctx := context.Background()
	// orden previa al ajuste: se inserta directamente una PENDING mayor que lo emitido
	require.NoError(t, store.Repos().Orders.Create(ctx, &entity.Order{
		ID: "o-big", FundID: "f1", InvestorID: "i1", Quantity: 150, Status: entity.OrderPending, CreatedAt: time.Now(),
	}))

	_, err := uc.Complete(ctx, manager, "o-big", "h")
	assert.ErrorIs(t, err, domain.ErrInsufficientQuotas)

	o, err := store.Repos().Orders.GetByID(ctx, "o-big")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderPending, o.Status)
}

func TestCancel(t *testing.T) {
	uc, _ := setup(t, entity.StatusApproved, 500)
	ctx := context.Background()
	o, err := uc.PlaceOrder(ctx, investor, "f1", 10)
	require.NoError(t, err)

	_, err = uc.Cancel(ctx, other, o.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err := uc.Cancel(ctx, investor, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderFailed, out.Status)

	_, err = uc.Cancel(ctx, manager, o.ID)
	assert.ErrorIs(t, err, domain.ErrOrderNotPending)

	// la cancelación libera la reserva
	_, err = uc.PlaceOrder(ctx, other, "f1", 500)
	assert.NoError(t, err)
}

func TestList(t *testing.T) {
	uc, _ := setup(t, entity.StatusApproved, 500)
	ctx := context.Background()
	_, err := uc.PlaceOrder(ctx, investor, "f1", 10)
	require.NoError(t, err)
	_, err = uc.PlaceOrder(ctx, other, "f1", 10)
	require.NoError(t, err)

	mine, err := uc.List(ctx, investor)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := uc.List(ctx, manager)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	owner, err := uc.List(ctx, access.Actor{UserID: "c1", Role: entity.RoleConsultant})
	require.NoError(t, err)
	assert.Len(t, owner, 2)

	stranger, err := uc.List(ctx, access.Actor{UserID: "c9", Role: entity.RoleConsultant})
	require.NoError(t, err)
	assert.Empty(t, stranger)
}
