package receivable_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vero-api/internal/application/dto"
	"github.com/jhoicas/vero-api/internal/application/ports"
	"github.com/jhoicas/vero-api/internal/application/receivable"
	"github.com/jhoicas/vero-api/internal/domain"
	"github.com/jhoicas/vero-api/internal/domain/access"
	"github.com/jhoicas/vero-api/internal/domain/entity"
	"github.com/jhoicas/vero-api/internal/infrastructure/memory"
	"github.com/jhoicas/vero-api/pkg/logger"
)

const (
	fundID   = "0b7d3c52-1f6e-4a3b-8f0e-5c9d2a7b6e41"
	sacadoID = "6a2e9f10-3c4b-4d8e-a1f2-7b8c9d0e1f23"
)

var (
	manager  = access.Actor{UserID: "m1", Role: entity.RoleManager}
	investor = access.Actor{UserID: "i1", Role: entity.RoleInvestor}
)

type mockPDF struct{ mock.Mock }

func (m *mockPDF) GenerateStatementPDF(ctx context.Context, st *ports.DistributionStatement) ([]byte, error) {
	args := m.Called(ctx, st)
	return args.Get(0).([]byte), args.Error(1)
}

type mockReceipts struct{ mock.Mock }

func (m *mockReceipts) BuildReceipt(st *ports.DistributionStatement) (*ports.Receipt, error) {
	args := m.Called(st)
	return args.Get(0).(*ports.Receipt), args.Error(1)
}

type fixture struct {
	uc       *receivable.UseCase
	store    *memory.Store
	pdf      *mockPDF
	receipts *mockReceipts
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()
	now := time.Now()
	require.NoError(t, repos.Funds.Create(ctx, &entity.Fund{
		ID: fundID, Name: "Fundo", Symbol: "FND", MaxSupply: 1000, TotalIssued: 500,
		Price: decimal.NewFromInt(10), Status: entity.StatusApproved, ConsultorID: "c1", CreatedAt: now,
	}))
	require.NoError(t, repos.Parties.Create(ctx, &entity.Party{
		ID: sacadoID, Kind: entity.PartySacado, Name: "Sacado", Document: "12345", Status: entity.StatusApproved, ConsultorID: "c1", FundID: fundID,
	}))
	f := &fixture{store: store, pdf: &mockPDF{}, receipts: &mockReceipts{}}
	f.uc = receivable.NewUseCase(repos, store, f.pdf, f.receipts, logger.Nop())
	return f
}

func (f *fixture) completedOrder(t *testing.T, id, investorID string, qty int64, at time.Time) {
	t.Helper()
	ctx := context.Background()
	repos := f.store.Repos()
	if u, _ := repos.Users.GetByID(ctx, investorID); u == nil {
		require.NoError(t, repos.Users.Create(ctx, &entity.User{ID: investorID, Email: investorID + "@vero.com", Role: entity.RoleInvestor, Status: entity.StatusApproved}))
	}
	require.NoError(t, repos.Orders.Create(ctx, &entity.Order{
		ID: id, FundID: fundID, InvestorID: investorID, Quantity: qty, Status: entity.OrderCompleted, CreatedAt: at,
	}))
}

func (f *fixture) paidReceivable(t *testing.T, paid int64) string {
	t.Helper()
	ctx := context.Background()
	r, err := f.uc.Create(ctx, manager, dto.CreateReceivableRequest{
		FundID: fundID, SacadoID: sacadoID, FaceValue: decimal.NewFromInt(5000), DueDate: time.Now().AddDate(0, 1, 0),
	})
	require.NoError(t, err)
	_, err = f.uc.MarkPaid(ctx, manager, r.ID, decimal.NewFromInt(paid))
	require.NoError(t, err)
	return r.ID
}

func TestCreate_Reglas(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	in := dto.CreateReceivableRequest{FundID: fundID, SacadoID: sacadoID, FaceValue: decimal.NewFromInt(100), DueDate: time.Now()}

	_, err := f.uc.Create(ctx, investor, in)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	bad := in
	bad.FaceValue = decimal.Zero
	_, err = f.uc.Create(ctx, manager, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bad = in
	bad.SacadoID = "no-existe"
	_, err = f.uc.Create(ctx, manager, bad)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, f.store.Repos().Parties.Create(ctx, &entity.Party{ID: "s-otro", Kind: entity.PartySacado, FundID: "otro-fondo"}))
	bad = in
	bad.SacadoID = "s-otro"
	_, err = f.uc.Create(ctx, manager, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	r, err := f.uc.Create(ctx, manager, in)
	require.NoError(t, err)
	assert.Equal(t, entity.ReceivablePending, r.Status)
}

func TestList_VisibilidadPorRol(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, err := f.uc.Create(ctx, manager, dto.CreateReceivableRequest{FundID: fundID, SacadoID: sacadoID, FaceValue: decimal.NewFromInt(100), DueDate: time.Now()})
	require.NoError(t, err)

	count := func(actor access.Actor) int {
		t.Helper()
		items, err := f.uc.List(ctx, actor, "")
		require.NoError(t, err)
		return len(items)
	}

	assert.Equal(t, 1, count(manager))
	assert.Equal(t, 1, count(access.Actor{UserID: "c1", Role: entity.RoleConsultant}))
	assert.Equal(t, 0, count(access.Actor{UserID: "c2", Role: entity.RoleConsultant}))

	// el inversor solo ve recebíveis de fondos donde tiene cuotas COMPLETED
	assert.Equal(t, 0, count(investor))
	require.NoError(t, f.store.Repos().Orders.Create(ctx, &entity.Order{ID: "o-pend", FundID: fundID, InvestorID: investor.UserID, Quantity: 5, Status: entity.OrderPending, CreatedAt: time.Now()}))
	assert.Equal(t, 0, count(investor))
	f.completedOrder(t, "o1", investor.UserID, 10, time.Now())
	assert.Equal(t, 1, count(investor))

	items, err := f.uc.List(ctx, manager, "otro-fondo")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMarkPaid(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	id := f.paidReceivable(t, 2000)

	_, err := f.uc.MarkPaid(ctx, manager, id, decimal.NewFromInt(2000))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.uc.MarkPaid(ctx, manager, id, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValoresFraccionDeCentavo(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.completedOrder(t, "o1", "i1", 30, time.Now())
	f.completedOrder(t, "o2", "i2", 70, time.Now())

	_, err := f.uc.Create(ctx, manager, dto.CreateReceivableRequest{
		FundID: fundID, SacadoID: sacadoID, FaceValue: decimal.RequireFromString("100.005"), DueDate: time.Now(),
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "faceValue", verr.Fields[0].Field)

	r, err := f.uc.Create(ctx, manager, dto.CreateReceivableRequest{
		FundID: fundID, SacadoID: sacadoID, FaceValue: decimal.NewFromInt(100), DueDate: time.Now(),
	})
	require.NoError(t, err)

	_, err = f.uc.MarkPaid(ctx, manager, r.ID, decimal.RequireFromString("0.004"))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "paidValue", verr.Fields[0].Field)

	stored, err := f.store.Repos().Receivables.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReceivablePending, stored.Status)

	_, err = f.uc.Distribute(ctx, manager, r.ID)
	assert.ErrorIs(t, err, domain.ErrReceivableNotPaid)

	_, err = f.uc.MarkPaid(ctx, manager, r.ID, decimal.RequireFromString("99.99"))
	require.NoError(t, err)
	out, err := f.uc.Distribute(ctx, manager, r.ID)
	require.NoError(t, err)
	sum := decimal.Zero
	for _, l := range out.Distributions {
		sum = sum.Add(l.Amount)
	}
	assert.True(t, sum.Equal(decimal.RequireFromString("99.99")), sum.String())
}

func TestDistribute_TreintaSetenta(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	t0 := time.Now().Add(-time.Hour)
	f.completedOrder(t, "o1", "i1", 30, t0)
	f.completedOrder(t, "o2", "i2", 70, t0.Add(time.Minute))
	id := f.paidReceivable(t, 1000)

	out, err := f.uc.Distribute(ctx, manager, id)
	require.NoError(t, err)

	assert.Equal(t, int64(100), out.TotalQuotas)
	assert.True(t, out.TotalToPay.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, entity.ReceivableDistributed, out.Receivable.Status)
	require.Len(t, out.Distributions, 2)
	assert.Equal(t, "i1@vero.com", out.Distributions[0].InvestorEmail)
	assert.True(t, out.Distributions[0].Amount.Equal(decimal.NewFromInt(300)))
	assert.True(t, out.Distributions[1].Amount.Equal(decimal.NewFromInt(700)))

	lines, err := f.uc.ListDistributions(ctx, manager, id)
	require.NoError(t, err)
	assert.Len(t, lines, 2)

	_, err = f.uc.Distribute(ctx, manager, id)
	assert.ErrorIs(t, err, domain.ErrReceivableNotPaid)
}

func TestDistribute_SinCuotasNoTocaEstado(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	id := f.paidReceivable(t, 1000)

	_, err := f.uc.Distribute(ctx, manager, id)
	assert.ErrorIs(t, err, domain.ErrNoQuotaHolders)

	r, err := f.store.Repos().Receivables.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.ReceivablePaid, r.Status)
}

func TestDistribute_RequierePagado(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.completedOrder(t, "o1", "i1", 10, time.Now())
	r, err := f.uc.Create(ctx, manager, dto.CreateReceivableRequest{FundID: fundID, SacadoID: sacadoID, FaceValue: decimal.NewFromInt(100), DueDate: time.Now()})
	require.NoError(t, err)

	_, err = f.uc.Distribute(ctx, manager, r.ID)
	assert.ErrorIs(t, err, domain.ErrReceivableNotPaid)

	_, err = f.uc.Distribute(ctx, investor, r.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.Distribute(ctx, manager, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDistribute_ConcurrenteUnaSolaVez(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.completedOrder(t, "o1", "i1", 10, time.Now())
	id := f.paidReceivable(t, 999)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.uc.Distribute(ctx, manager, id); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, ok)

	rows, err := f.store.Repos().Distributions.ListByReceivable(ctx, id)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestStatementPDFYReceipt(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.completedOrder(t, "o1", "i1", 100, time.Now())
	id := f.paidReceivable(t, 2000)

	_, _, err := f.uc.StatementPDF(ctx, manager, id)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Distribute(ctx, manager, id)
	require.NoError(t, err)

	isStatement := mock.MatchedBy(func(st *ports.DistributionStatement) bool {
		return st.TotalQuotas == 100 && st.TotalToPay.Equal(decimal.NewFromInt(2000)) && st.Sacado != nil && st.Fund.Symbol == "FND"
	})
	f.pdf.On("GenerateStatementPDF", mock.Anything, isStatement).Return([]byte("%PDF-1.4"), nil).Once()
	f.receipts.On("BuildReceipt", isStatement).Return(&ports.Receipt{XML: []byte("<x/>"), Digest: "abc"}, nil).Once()

	pdf, name, err := f.uc.StatementPDF(ctx, manager, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), pdf)
	assert.Contains(t, name, "distribucion_FND_")

	rc, name, err := f.uc.Receipt(ctx, manager, id)
	require.NoError(t, err)
	assert.Equal(t, "abc", rc.Digest)
	assert.Contains(t, name, ".xml")

	f.pdf.AssertExpectations(t)
	f.receipts.AssertExpectations(t)
}
