package service

import (
	"testing"

	"go-bakery-pos/internal/model"
	"go-bakery-pos/internal/ws"
	"go-bakery-pos/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogProductLifecycle(t *testing.T) {
	f := newFixture(t)
	svc := NewCatalogService(f.store, f.events, f.cache, nil)

	supplier, err := svc.CreateSupplier(f.ctx, SupplierRequest{Name: "Moinho Sul", TaxID: "12.345.678/0001-95"}, cashir)
	require.NoError(t, err)
	require.NotNil(t, supplier.TaxID)
	assert.Equal(t, "12345678000195", *supplier.TaxID)

	p, err := svc.CreateProduct(f.ctx, ProductRequest{
		Name:       "  Pao de centeio ",
		Category:   "Paes",
		Price:      dec("9.90"),
		CostPrice:  decPtr("4.10"),
		Unit:       "un",
		SupplierID: &supplier.ID,
	}, cashir)
	require.NoError(t, err)
	assert.Equal(t, "Pao de centeio", p.Name)
	assert.True(t, p.Active)
	assert.Equal(t, "marta@padaria.local", p.CreatedBy)
	// A new active product changes the overview counts
	assert.Equal(t, 1, f.cache.count())

	other, err := svc.CreateSupplier(f.ctx, SupplierRequest{Name: "Laticinios Serra"}, cashir)
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(f.ctx, p.ID, ProductRequest{
		Name: "Pao de centeio", Category: "Paes", Price: dec("10.50"), SupplierID: &other.ID,
	}, cashir)
	require.NoError(t, err)
	requireDecimal(t, "10.50", updated.Price)
	require.NotNil(t, updated.SupplierName)
	assert.Equal(t, "Laticinios Serra", *updated.SupplierName)

	byCategory, err := svc.ProductsByCategory(f.ctx, "paes")
	require.NoError(t, err)
	assert.Len(t, byCategory, 1)

	require.NoError(t, svc.DeactivateProduct(f.ctx, p.ID, cashir))
	active, err := svc.ListActiveProducts(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
	all, err := svc.ListProducts(f.ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.DeleteProduct(f.ctx, p.ID, cashir))
	_, err = svc.GetProduct(f.ctx, p.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	assert.NotEmpty(t, f.events.ofType(ws.TypeCatalogUpdate))
}

func TestCatalogProductValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewCatalogService(f.store, f.events, f.cache, nil)
	missing := uint(42)

	tests := []struct {
		name string
		req  ProductRequest
		want error
	}{
		{"blank name", ProductRequest{Name: "   ", Price: dec("1")}, apperror.ErrValidation},
		{"negative price", ProductRequest{Name: "Sonho", Price: dec("-1")}, apperror.ErrValidation},
		{"cost above price", ProductRequest{Name: "Sonho", Price: dec("4"), CostPrice: decPtr("5")}, apperror.ErrValidation},
		{"unknown supplier", ProductRequest{Name: "Sonho", Price: dec("4"), SupplierID: &missing}, apperror.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateProduct(f.ctx, tt.req, cashir)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCatalogDeleteReferencedProduct(t *testing.T) {
	f := newFixture(t)
	svc := NewCatalogService(f.store, f.events, f.cache, nil)
	orders := f.orders(PolicyNone)

	p := f.product(t, "Pao frances", "0.60")
	f.stock(t, p.ID, "10", "0")

	err := svc.DeleteProduct(f.ctx, p.ID, cashir)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = orders.CreateSale(f.ctx, SaleRequest{Items: []LineRequest{line(p.ID, "1")}, PaymentMethod: "CASH"}, cashir)
	require.NoError(t, err)
	entry, err := f.store.Stock().FindByProduct(f.ctx, p.ID)
	require.NoError(t, err)
	require.NoError(t, f.store.Stock().Delete(f.ctx, entry.ID))

	// Still referenced by the sale
	err = svc.DeleteProduct(f.ctx, p.ID, cashir)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	// Deactivation always works
	require.NoError(t, svc.DeactivateProduct(f.ctx, p.ID, cashir))
	got, err := svc.GetProduct(f.ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
}

func TestCatalogSuppliers(t *testing.T) {
	f := newFixture(t)
	svc := NewCatalogService(f.store, f.events, f.cache, nil)

	s, err := svc.CreateSupplier(f.ctx, SupplierRequest{Name: "Moinho Sul", TaxID: "12345678000195", Email: "vendas@moinho.com.br"}, cashir)
	require.NoError(t, err)

	_, err = svc.CreateSupplier(f.ctx, SupplierRequest{Name: "Copia", TaxID: "12.345.678/0001-95"}, cashir)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = svc.CreateSupplier(f.ctx, SupplierRequest{Name: "Curto", TaxID: "123"}, cashir)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.CreateSupplier(f.ctx, SupplierRequest{Name: "Sem email", Email: "nope"}, cashir)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	// Updating keeps its own tax id
	updated, err := svc.UpdateSupplier(f.ctx, s.ID, SupplierRequest{Name: "Moinho Sul Ltda", TaxID: "12345678000195"}, cashir)
	require.NoError(t, err)
	assert.Equal(t, "Moinho Sul Ltda", updated.Name)

	found, err := svc.GetSupplierByTaxID(f.ctx, "12.345.678/0001-95")
	require.NoError(t, err)
	assert.Equal(t, s.ID, found.ID)

	p, err := NewCatalogService(f.store, nil, nil, nil).CreateProduct(f.ctx, ProductRequest{Name: "Farinha", Price: dec("6"), SupplierID: &s.ID}, cashir)
	require.NoError(t, err)

	err = svc.DeleteSupplier(f.ctx, s.ID, cashir)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	require.NoError(t, svc.DeactivateSupplier(f.ctx, s.ID, cashir))
	active, err := svc.ListActiveSuppliers(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, f.store.Products().Delete(f.ctx, p.ID))
	require.NoError(t, svc.DeleteSupplier(f.ctx, s.ID, cashir))
	all, err := svc.ListSuppliers(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCatalogInactiveProductCannotBeSold(t *testing.T) {
	f := newFixture(t)
	svc := NewCatalogService(f.store, f.events, f.cache, nil)
	p, err := svc.CreateProduct(f.ctx, ProductRequest{Name: "Panetone", Price: dec("39.90"), Active: boolPtr(false)}, cashir)
	require.NoError(t, err)
	assert.False(t, p.Active)
	f.stock(t, p.ID, "10", "0")

	_, err = f.orders(PolicyNone).CreateSale(f.ctx, SaleRequest{Items: []LineRequest{line(p.ID, "1")}, PaymentMethod: "CASH"}, model.System)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func boolPtr(b bool) *bool { return &b }
