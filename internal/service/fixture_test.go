package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go-bakery-pos/internal/model"
	"go-bakery-pos/internal/repository"
	"go-bakery-pos/internal/testutil"
	"go-bakery-pos/internal/ws"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	clock  = time.Date(2026, 10, 15, 9, 30, 0, 0, time.Local)
	cashir = model.Actor{ID: 2, Name: "Marta", Email: "marta@padaria.local"}
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

// recorder captures published events.
type recorder struct {
	mu     sync.Mutex
	events []ws.Event
}

func (r *recorder) Publish(ev ws.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) ofType(typ string) []ws.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ws.Event
	for _, ev := range r.events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

type bumpCounter struct {
	mu    sync.Mutex
	bumps int
}

func (b *bumpCounter) Bump(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bumps++
	return nil
}

func (b *bumpCounter) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bumps
}

type fixture struct {
	ctx    context.Context
	db     *gorm.DB
	store  repository.Store
	events *recorder
	cache  *bumpCounter
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	return &fixture{
		ctx:    context.Background(),
		db:     db,
		store:  repository.NewStore(db),
		events: &recorder{},
		cache:  &bumpCounter{},
	}
}

func (f *fixture) orders(policy StockPolicy, hooks ...StatusHook) OrderService {
	return NewOrderService(f.store, f.events, f.cache, nil, OrderOptions{
		Policy: policy,
		Now:    func() time.Time { return clock },
		Hooks:  hooks,
	})
}

func (f *fixture) product(t *testing.T, name, price string) *model.Product {
	t.Helper()
	p := &model.Product{Name: name, Price: dec(price), Category: "Paes", Unit: "un", Active: true}
	require.NoError(t, f.store.Products().Create(f.ctx, p))
	return p
}

func (f *fixture) stock(t *testing.T, productID uint, qty, min string) {
	t.Helper()
	e := &model.StockEntry{ProductID: productID, Quantity: dec(qty), Minimum: dec(min), LastUpdated: clock}
	require.NoError(t, f.store.Stock().Create(f.ctx, e))
}

func (f *fixture) quantity(t *testing.T, productID uint) decimal.Decimal {
	t.Helper()
	e, err := f.store.Stock().FindByProduct(f.ctx, productID)
	require.NoError(t, err)
	return e.Quantity
}

func (f *fixture) customer(t *testing.T, name string) *model.Customer {
	t.Helper()
	c := &model.Customer{Name: name, EntityType: model.EntityIndividual, Active: true}
	require.NoError(t, f.store.Customers().Create(f.ctx, c))
	return c
}

func line(productID uint, qty string) LineRequest {
	return LineRequest{ProductID: productID, Quantity: dec(qty)}
}
