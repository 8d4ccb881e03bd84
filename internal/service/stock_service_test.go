package service

import (
	"sort"
	"testing"

	"go-bakery-pos/internal/ws"
	"go-bakery-pos/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockCreateAndThresholds(t *testing.T) {
	f := newFixture(t)
	svc := NewStockService(f.store, f.events, f.cache, nil)
	p := f.product(t, "Pao frances", "0.60")

	entry, err := svc.Create(f.ctx, StockRequest{ProductID: p.ID, Quantity: dec("100"), Minimum: dec("10"), Maximum: decPtr("300"), Location: "Vitrine"}, cashir)
	require.NoError(t, err)
	requireDecimal(t, "100", entry.Quantity)
	require.NotNil(t, entry.ProductName)
	assert.Equal(t, "Pao frances", *entry.ProductName)

	_, err = svc.Create(f.ctx, StockRequest{ProductID: p.ID, Quantity: dec("1")}, cashir)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = svc.Create(f.ctx, StockRequest{ProductID: 999, Quantity: dec("1")}, cashir)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = svc.Create(f.ctx, StockRequest{ProductID: p.ID, Quantity: dec("-1")}, cashir)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.UpdateThresholds(f.ctx, entry.ID, ThresholdRequest{Minimum: dec("50"), Maximum: decPtr("20")}, cashir)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	updated, err := svc.UpdateThresholds(f.ctx, entry.ID, ThresholdRequest{Minimum: dec("120"), Location: "Deposito"}, cashir)
	require.NoError(t, err)
	requireDecimal(t, "120", updated.Minimum)
	assert.Nil(t, updated.Maximum)
	assert.Equal(t, "Deposito", updated.Location)

	// Raising the minimum above the quantity raises an alert
	assert.Len(t, f.events.ofType(ws.TypeStockAlert), 1)
}

func TestStockAddSubtractNeverNegative(t *testing.T) {
	f := newFixture(t)
	svc := NewStockService(f.store, f.events, f.cache, nil)
	p := f.product(t, "Croissant", "6.00")
	f.stock(t, p.ID, "10", "2")

	steps := []struct {
		op   string
		qty  string
		want string
		err  error
	}{
		{"add", "5", "15", nil},
		{"sub", "7.5", "7.5", nil},
		{"sub", "8", "7.5", apperror.ErrInsufficientStock},
		{"sub", "7.5", "0", nil},
		{"sub", "0.001", "0", apperror.ErrInsufficientStock},
		{"add", "0", "0", apperror.ErrValidation},
		{"sub", "-3", "0", apperror.ErrValidation},
		{"add", "2.25", "2.25", nil},
	}
	for _, st := range steps {
		var err error
		if st.op == "add" {
			_, err = svc.Add(f.ctx, p.ID, dec(st.qty), cashir)
		} else {
			_, err = svc.Subtract(f.ctx, p.ID, dec(st.qty), cashir)
		}
		if st.err != nil {
			assert.ErrorIs(t, err, st.err, "%s %s", st.op, st.qty)
		} else {
			require.NoError(t, err, "%s %s", st.op, st.qty)
		}
		got := f.quantity(t, p.ID)
		requireDecimal(t, st.want, got)
		assert.False(t, got.IsNegative())
	}

	_, err := svc.Add(f.ctx, 999, dec("1"), cashir)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestStockSetQuantityAndAvailability(t *testing.T) {
	f := newFixture(t)
	svc := NewStockService(f.store, f.events, f.cache, nil)
	p := f.product(t, "Baguete", "8.00")
	f.stock(t, p.ID, "4", "1")
	without := f.product(t, "Cafe", "5.00")

	entry, err := svc.SetQuantity(f.ctx, p.ID, dec("12.5"), cashir)
	require.NoError(t, err)
	requireDecimal(t, "12.5", entry.Quantity)

	_, err = svc.SetQuantity(f.ctx, p.ID, dec("-1"), cashir)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	ok, err := svc.CheckAvailability(f.ctx, p.ID, dec("12.5"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CheckAvailability(f.ctx, p.ID, dec("13"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.CheckAvailability(f.ctx, without.ID, dec("1"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStockBelowMinimumSet(t *testing.T) {
	f := newFixture(t)
	svc := NewStockService(f.store, f.events, f.cache, nil)

	fixtures := []struct {
		name, qty, min string
		below          bool
	}{
		{"Broa", "3", "5", true},
		{"Bolo", "5", "5", false},
		{"Cuca", "0", "1", true},
		{"Rosca", "20", "2", false},
	}
	var want []string
	for _, fx := range fixtures {
		p := f.product(t, fx.name, "1.00")
		f.stock(t, p.ID, fx.qty, fx.min)
		if fx.below {
			want = append(want, fx.name)
		}
	}

	for i := 0; i < 2; i++ {
		entries, err := svc.BelowMinimum(f.ctx)
		require.NoError(t, err)
		var got []string
		for _, e := range entries {
			require.NotNil(t, e.ProductName)
			got = append(got, *e.ProductName)
			assert.True(t, e.BelowMinimum())
		}
		sort.Strings(got)
		assert.Equal(t, want, got)
	}
}

func TestStockDelete(t *testing.T) {
	f := newFixture(t)
	svc := NewStockService(f.store, f.events, f.cache, nil)
	p := f.product(t, "Sonho", "4.50")
	entry, err := svc.Create(f.ctx, StockRequest{ProductID: p.ID, Quantity: dec("3")}, cashir)
	require.NoError(t, err)

	got, err := svc.GetByProduct(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)

	require.NoError(t, svc.Delete(f.ctx, entry.ID, cashir))
	_, err = svc.Get(f.ctx, entry.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(f.ctx, entry.ID, cashir), apperror.ErrNotFound)

	list, err := svc.List(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
