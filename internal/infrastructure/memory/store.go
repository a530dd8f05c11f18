// Package memory implementa los repositorios y el TxRunner en memoria.
// Se usa en tests de casos de uso y del API, y como backend local con DB_DRIVER=memory.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/vero-api/internal/application/ports"
	"github.com/jhoicas/vero-api/internal/domain"
	"github.com/jhoicas/vero-api/internal/domain/entity"
	"github.com/jhoicas/vero-api/internal/domain/repository"
)

var (
	_ ports.TxRunner                 = (*Store)(nil)
	_ repository.AnalyticsRepository = analyticsRepo{}
)

// Store guarda todas las entidades en mapas protegidos por mutex.
// Run serializa las transacciones (equivale a bloquear todas las filas). Cada escritura hecha dentro
// de una transacción deja en el journal cómo deshacerse; si fn falla se revierten solo esas escrituras,
// así las escrituras concurrentes fuera de transacción sobreviven al rollback.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data tables
}

type tables struct {
	users         map[string]entity.User
	funds         map[string]entity.Fund
	parties       map[string]entity.Party
	receivables   map[string]entity.Receivable
	orders        map[string]entity.Order
	distributions []entity.Distribution
	events        []entity.ApprovalEvent
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{data: tables{
		users:       map[string]entity.User{},
		funds:       map[string]entity.Fund{},
		parties:     map[string]entity.Party{},
		receivables: map[string]entity.Receivable{},
		orders:      map[string]entity.Order{},
	}}
}

// txLog acumula las operaciones inversas de una transacción. nil fuera de transacción.
type txLog struct {
	undo []func()
}

func (l *txLog) record(fn func()) {
	if l != nil {
		l.undo = append(l.undo, fn)
	}
}

// rollback aplica el journal en orden inverso. Se llama con mu tomado.
func (l *txLog) rollback() {
	for i := len(l.undo) - 1; i >= 0; i-- {
		l.undo[i]()
	}
	l.undo = nil
}

// restoreKey captura el valor actual de m[k] y devuelve la operación que lo repone.
func restoreKey[V any](m map[string]V, k string) func() {
	prev, existed := m[k]
	return func() {
		if existed {
			m[k] = prev
		} else {
			delete(m, k)
		}
	}
}

// Repos devuelve los repositorios sobre el store (fuera de transacción).
func (s *Store) Repos() repository.Repos {
	return s.repos(nil)
}

func (s *Store) repos(tx *txLog) repository.Repos {
	return repository.Repos{
		Users:          userRepo{s, tx},
		Funds:          fundRepo{s, tx},
		Parties:        partyRepo{s, tx},
		Receivables:    receivableRepo{s, tx},
		Distributions:  distributionRepo{s, tx},
		Orders:         orderRepo{s, tx},
		ApprovalEvents: eventRepo{s, tx},
	}
}

// Analytics devuelve las consultas agregadas del dashboard sobre el store.
func (s *Store) Analytics() repository.AnalyticsRepository {
	return analyticsRepo{s}
}

// Run ejecuta fn en exclusión mutua; si fn devuelve error se deshacen las escrituras de fn.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &txLog{}
	if err := fn(s.repos(tx)); err != nil {
		s.mu.Lock()
		tx.rollback()
		s.mu.Unlock()
		return err
	}
	return nil
}

// ── Users ────────────────────────────────────────────────────────────────────

type userRepo struct {
	s  *Store
	tx *txLog
}

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.data.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.tx.record(restoreKey(r.s.data.users, u.ID))
	r.s.data.users[u.ID] = *u
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if u, ok := r.s.data.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r userRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error) {
	return r.GetByID(ctx, id)
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.data.users {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r userRepo) ListByRole(_ context.Context, role string) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.User, 0)
	for _, u := range r.s.data.users {
		if role == "" || u.Role == role {
			u := u
			out = append(out, &u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out, nil
}

func (r userRepo) UpdateStatus(_ context.Context, id, status string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.data.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	r.tx.record(restoreKey(r.s.data.users, id))
	u.Status, u.UpdatedAt = status, at
	r.s.data.users[id] = u
	return nil
}

func (r userRepo) UpdateStellarKeys(_ context.Context, id, publicKey, sealedSecret string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.data.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	r.tx.record(restoreKey(r.s.data.users, id))
	u.StellarPublicKey, u.StellarSecretKey, u.UpdatedAt = publicKey, sealedSecret, at
	r.s.data.users[id] = u
	return nil
}

// ── Funds ────────────────────────────────────────────────────────────────────

type fundRepo struct {
	s  *Store
	tx *txLog
}

func (r fundRepo) Create(_ context.Context, f *entity.Fund) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.data.funds {
		if existing.Symbol == f.Symbol {
			return domain.ErrSymbolTaken
		}
	}
	r.tx.record(restoreKey(r.s.data.funds, f.ID))
	r.s.data.funds[f.ID] = *f
	return nil
}

func (r fundRepo) GetByID(_ context.Context, id string) (*entity.Fund, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if f, ok := r.s.data.funds[id]; ok {
		return &f, nil
	}
	return nil, nil
}

func (r fundRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Fund, error) {
	return r.GetByID(ctx, id)
}

func (r fundRepo) GetBySymbol(_ context.Context, symbol string) (*entity.Fund, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, f := range r.s.data.funds {
		if f.Symbol == symbol {
			f := f
			return &f, nil
		}
	}
	return nil, nil
}

func (r fundRepo) List(_ context.Context, filter repository.FundFilter) ([]*entity.Fund, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Fund, 0)
	for _, f := range r.s.data.funds {
		if filter.ConsultorID != "" && f.ConsultorID != filter.ConsultorID {
			continue
		}
		if filter.Status != "" && f.Status != filter.Status {
			continue
		}
		f := f
		out = append(out, &f)
	}
	sort.Slice(out, func(i, j int) bool { return newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out, nil
}

func (r fundRepo) Update(_ context.Context, f *entity.Fund) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.data.funds[f.ID]
	if !ok {
		return domain.ErrNotFound
	}
	r.tx.record(restoreKey(r.s.data.funds, f.ID))
	cur.Status, cur.TotalIssued, cur.ContractAddress, cur.UpdatedAt = f.Status, f.TotalIssued, f.ContractAddress, f.UpdatedAt
	r.s.data.funds[f.ID] = cur
	return nil
}

func (r fundRepo) Metrics(_ context.Context, fundID string) (entity.FundMetrics, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m := entity.FundMetrics{TotalReceivables: decimal.Zero}
	for _, o := range r.s.data.orders {
		if o.FundID != fundID {
			continue
		}
		switch o.Status {
		case entity.OrderCompleted:
			m.TotalSold += o.Quantity
		case entity.OrderPending:
			m.TotalReserved += o.Quantity
		}
	}
	for _, rc := range r.s.data.receivables {
		if rc.FundID == fundID {
			m.TotalReceivables = m.TotalReceivables.Add(rc.FaceValue)
		}
	}
	return m, nil
}

// ── Parties ──────────────────────────────────────────────────────────────────

type partyRepo struct {
	s  *Store
	tx *txLog
}

func (r partyRepo) Create(_ context.Context, p *entity.Party) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.tx.record(restoreKey(r.s.data.parties, p.ID))
	r.s.data.parties[p.ID] = *p
	return nil
}

func (r partyRepo) GetByID(_ context.Context, kind, id string) (*entity.Party, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if p, ok := r.s.data.parties[id]; ok && p.Kind == kind {
		return &p, nil
	}
	return nil, nil
}

func (r partyRepo) GetByIDForUpdate(ctx context.Context, kind, id string) (*entity.Party, error) {
	return r.GetByID(ctx, kind, id)
}

func (r partyRepo) List(_ context.Context, kind string, filter repository.PartyFilter) ([]*entity.Party, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Party, 0)
	for _, p := range r.s.data.parties {
		if p.Kind != kind {
			continue
		}
		if filter.ConsultorID != "" && p.ConsultorID != filter.ConsultorID {
			continue
		}
		if filter.FundID != "" && p.FundID != filter.FundID {
			continue
		}
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out, nil
}

func (r partyRepo) UpdateStatus(_ context.Context, kind, id, status string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.data.parties[id]
	if !ok || p.Kind != kind {
		return domain.ErrNotFound
	}
	r.tx.record(restoreKey(r.s.data.parties, id))
	p.Status, p.UpdatedAt = status, at
	r.s.data.parties[id] = p
	return nil
}

// ── Receivables ──────────────────────────────────────────────────────────────

type receivableRepo struct {
	s  *Store
	tx *txLog
}

func (r receivableRepo) Create(_ context.Context, rc *entity.Receivable) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.tx.record(restoreKey(r.s.data.receivables, rc.ID))
	r.s.data.receivables[rc.ID] = *rc
	return nil
}

func (r receivableRepo) GetByID(_ context.Context, id string) (*entity.Receivable, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if rc, ok := r.s.data.receivables[id]; ok {
		return &rc, nil
	}
	return nil, nil
}

func (r receivableRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Receivable, error) {
	return r.GetByID(ctx, id)
}

func (r receivableRepo) List(_ context.Context, filter repository.ReceivableFilter) ([]*entity.Receivable, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	held := map[string]bool{}
	if filter.InvestorID != "" {
		for _, o := range r.s.data.orders {
			if o.InvestorID == filter.InvestorID && o.Status == entity.OrderCompleted {
				held[o.FundID] = true
			}
		}
	}
	out := make([]*entity.Receivable, 0)
	for _, rc := range r.s.data.receivables {
		if filter.FundID != "" && rc.FundID != filter.FundID {
			continue
		}
		if filter.ConsultorID != "" && r.s.data.funds[rc.FundID].ConsultorID != filter.ConsultorID {
			continue
		}
		if filter.InvestorID != "" && !held[rc.FundID] {
			continue
		}
		rc := rc
		out = append(out, &rc)
	}
	sort.Slice(out, func(i, j int) bool { return newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out, nil
}

func (r receivableRepo) MarkPaid(_ context.Context, id string, paidValue decimal.Decimal, paidAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rc, ok := r.s.data.receivables[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.tx.record(restoreKey(r.s.data.receivables, id))
	rc.Status, rc.PaidValue, rc.PaidAt, rc.UpdatedAt = entity.ReceivablePaid, &paidValue, &paidAt, paidAt
	r.s.data.receivables[id] = rc
	return nil
}

func (r receivableRepo) MarkDistributed(_ context.Context, id string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rc, ok := r.s.data.receivables[id]
	if !ok || rc.Status != entity.ReceivablePaid {
		return false, nil
	}
	r.tx.record(restoreKey(r.s.data.receivables, id))
	rc.Status, rc.DistributedAt, rc.UpdatedAt = entity.ReceivableDistributed, &at, at
	r.s.data.receivables[id] = rc
	return true, nil
}

// ── Distributions ────────────────────────────────────────────────────────────

type distributionRepo struct {
	s  *Store
	tx *txLog
}

func (r distributionRepo) CreateBatch(_ context.Context, rows []*entity.Distribution) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make(map[string]bool, len(rows))
	for _, d := range rows {
		ids[d.ID] = true
		r.s.data.distributions = append(r.s.data.distributions, *d)
	}
	r.tx.record(func() {
		kept := r.s.data.distributions[:0]
		for _, d := range r.s.data.distributions {
			if !ids[d.ID] {
				kept = append(kept, d)
			}
		}
		r.s.data.distributions = kept
	})
	return nil
}

func (r distributionRepo) ListByReceivable(_ context.Context, receivableID string) ([]*entity.Distribution, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Distribution, 0)
	for _, d := range r.s.data.distributions {
		if d.ReceivableID == receivableID {
			d := d
			out = append(out, &d)
		}
	}
	return out, nil
}

// ── Orders ───────────────────────────────────────────────────────────────────

type orderRepo struct {
	s  *Store
	tx *txLog
}

func (r orderRepo) Create(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.tx.record(restoreKey(r.s.data.orders, o.ID))
	r.s.data.orders[o.ID] = *o
	return nil
}

func (r orderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if o, ok := r.s.data.orders[id]; ok {
		return &o, nil
	}
	return nil, nil
}

func (r orderRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r orderRepo) List(_ context.Context, investorID string) ([]*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Order, 0)
	for _, o := range r.s.data.orders {
		if investorID == "" || o.InvestorID == investorID {
			o := o
			out = append(out, &o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out, nil
}

func (r orderRepo) UpdateStatus(_ context.Context, id, status, txHash string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.data.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.tx.record(restoreKey(r.s.data.orders, id))
	o.Status, o.UpdatedAt = status, at
	if txHash != "" {
		o.TxHash = txHash
	}
	r.s.data.orders[id] = o
	return nil
}

func (r orderRepo) Totals(_ context.Context, fundID string) (repository.OrderTotals, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var t repository.OrderTotals
	for _, o := range r.s.data.orders {
		if o.FundID != fundID {
			continue
		}
		switch o.Status {
		case entity.OrderCompleted:
			t.Completed += o.Quantity
		case entity.OrderPending:
			t.Pending += o.Quantity
		}
	}
	return t, nil
}

func (r orderRepo) CompletedHoldings(_ context.Context, fundID string) ([]entity.QuotaHolding, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.QuotaHolding, 0)
	for _, o := range r.s.data.orders {
		if o.FundID != fundID || o.Status != entity.OrderCompleted {
			continue
		}
		inv := r.s.data.users[o.InvestorID]
		out = append(out, entity.QuotaHolding{
			OrderID:           o.ID,
			InvestorID:        o.InvestorID,
			InvestorEmail:     inv.Email,
			InvestorPublicKey: inv.StellarPublicKey,
			Quantity:          o.Quantity,
			CreatedAt:         o.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].OrderID < out[j].OrderID
	})
	return out, nil
}

// ── Approval events ──────────────────────────────────────────────────────────

type eventRepo struct {
	s  *Store
	tx *txLog
}

func (r eventRepo) Create(_ context.Context, e *entity.ApprovalEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.data.events = append(r.s.data.events, *e)
	id := e.ID
	r.tx.record(func() {
		kept := r.s.data.events[:0]
		for _, ev := range r.s.data.events {
			if ev.ID != id {
				kept = append(kept, ev)
			}
		}
		r.s.data.events = kept
	})
	return nil
}

func (r eventRepo) ListByEntity(_ context.Context, entityType, entityID string) ([]*entity.ApprovalEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.ApprovalEvent, 0)
	for _, e := range r.s.data.events {
		if e.EntityType == entityType && e.EntityID == entityID {
			e := e
			out = append(out, &e)
		}
	}
	return out, nil
}

func newerFirst(a, b time.Time, idA, idB string) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return idA < idB
}

// ── Analytics ────────────────────────────────────────────────────────────────

type analyticsRepo struct{ s *Store }

func (r analyticsRepo) PendingApprovals(_ context.Context) (entity.PendingApprovals, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out entity.PendingApprovals
	for _, u := range r.s.data.users {
		if u.Status == entity.StatusPending && u.RequiresApproval() {
			out.Users++
		}
	}
	for _, f := range r.s.data.funds {
		if f.Status == entity.StatusPending {
			out.Funds++
		}
	}
	for _, p := range r.s.data.parties {
		if p.Status != entity.StatusPending {
			continue
		}
		switch p.Kind {
		case entity.PartyCedente:
			out.Cedentes++
		case entity.PartySacado:
			out.Sacados++
		}
	}
	return out, nil
}

func (r analyticsRepo) QuotaTotals(_ context.Context) (entity.QuotaTotals, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out entity.QuotaTotals
	approved := map[string]bool{}
	for _, f := range r.s.data.funds {
		if f.Status == entity.StatusApproved {
			approved[f.ID] = true
			out.ActiveFunds++
			out.Issued += f.TotalIssued
		}
	}
	for _, o := range r.s.data.orders {
		if !approved[o.FundID] {
			continue
		}
		switch o.Status {
		case entity.OrderCompleted:
			out.Sold += o.Quantity
		case entity.OrderPending:
			out.Reserved += o.Quantity
		}
	}
	return out, nil
}

func (r analyticsRepo) ReceivableTotals(_ context.Context, from, to time.Time) (entity.ReceivableTotals, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := entity.ReceivableTotals{OpenFaceValue: decimal.Zero, AwaitingDistribution: decimal.Zero, DistributedValue: decimal.Zero}
	for _, rc := range r.s.data.receivables {
		switch rc.Status {
		case entity.ReceivablePending:
			out.OpenFaceValue = out.OpenFaceValue.Add(rc.FaceValue)
		case entity.ReceivablePaid:
			if rc.PaidValue != nil {
				out.AwaitingDistribution = out.AwaitingDistribution.Add(*rc.PaidValue)
			}
		case entity.ReceivableDistributed:
			if rc.DistributedAt == nil || rc.DistributedAt.Before(from) || rc.DistributedAt.After(to) {
				continue
			}
			out.DistributedCount++
			if rc.PaidValue != nil {
				out.DistributedValue = out.DistributedValue.Add(*rc.PaidValue)
			}
		}
	}
	return out, nil
}
