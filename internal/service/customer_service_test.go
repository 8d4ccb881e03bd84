package service

import (
	"testing"

	"go-bakery-pos/internal/model"
	"go-bakery-pos/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerRegistry(t *testing.T) {
	f := newFixture(t)
	svc := NewCustomerService(f.store, f.events, f.cache, nil)

	joana, err := svc.Create(f.ctx, CustomerRequest{Name: "Joana Lima", TaxID: "123.456.789-09", Phone: "11 99999-0000"}, cashir)
	require.NoError(t, err)
	assert.Equal(t, model.EntityIndividual, joana.EntityType)
	require.NotNil(t, joana.TaxID)
	assert.Equal(t, "12345678909", *joana.TaxID)
	assert.True(t, joana.Active)

	escola, err := svc.Create(f.ctx, CustomerRequest{Name: "Escola Aurora", EntityType: "company", TaxID: "98.765.432/0001-10"}, cashir)
	require.NoError(t, err)
	assert.Equal(t, model.EntityCompany, escola.EntityType)

	// Without a tax id
	_, err = svc.Create(f.ctx, CustomerRequest{Name: "Balcao"}, cashir)
	require.NoError(t, err)

	found, err := svc.GetByTaxID(f.ctx, "12345678909")
	require.NoError(t, err)
	assert.Equal(t, joana.ID, found.ID)

	_, err = svc.GetByTaxID(f.ctx, "1234")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	byName, err := svc.SearchByName(f.ctx, "aurora")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, escola.ID, byName[0].ID)

	_, err = svc.SearchByName(f.ctx, " ")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	all, err := svc.List(f.ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCustomerValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewCustomerService(f.store, f.events, f.cache, nil)
	_, err := svc.Create(f.ctx, CustomerRequest{Name: "Joana", TaxID: "12345678909"}, cashir)
	require.NoError(t, err)

	tests := []struct {
		name string
		req  CustomerRequest
		want error
	}{
		{"blank name", CustomerRequest{Name: ""}, apperror.ErrValidation},
		{"bad entity type", CustomerRequest{Name: "X", EntityType: "ALIEN"}, apperror.ErrValidation},
		{"cnpj for individual", CustomerRequest{Name: "X", TaxID: "98765432000110"}, apperror.ErrValidation},
		{"cpf for company", CustomerRequest{Name: "X", EntityType: model.EntityCompany, TaxID: "12345678909"}, apperror.ErrValidation},
		{"bad email", CustomerRequest{Name: "X", Email: "x@"}, apperror.ErrValidation},
		{"duplicate tax id", CustomerRequest{Name: "Outra", TaxID: "123.456.789-09"}, apperror.ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(f.ctx, tt.req, cashir)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCustomerUpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	svc := NewCustomerService(f.store, f.events, f.cache, nil)
	orders := f.orders(PolicyNone)

	c, err := svc.Create(f.ctx, CustomerRequest{Name: "Joana", TaxID: "12345678909"}, cashir)
	require.NoError(t, err)
	other, err := svc.Create(f.ctx, CustomerRequest{Name: "Pedro", TaxID: "11144477735"}, cashir)
	require.NoError(t, err)

	updated, err := svc.Update(f.ctx, c.ID, CustomerRequest{Name: "Joana Lima", TaxID: "12345678909", Address: "Rua das Flores, 10"}, cashir)
	require.NoError(t, err)
	assert.Equal(t, "Joana Lima", updated.Name)
	assert.Equal(t, "Rua das Flores, 10", updated.Address)

	_, err = svc.Update(f.ctx, c.ID, CustomerRequest{Name: "Joana", TaxID: "11144477735"}, cashir)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = svc.Update(f.ctx, 404, CustomerRequest{Name: "Ninguem"}, cashir)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	p := f.product(t, "Bolo", "50.00")
	_, err = orders.CreateCommission(f.ctx, CommissionRequest{CustomerID: c.ID, DeliveryDate: "2026-10-20", Items: []LineRequest{line(p.ID, "1")}}, cashir)
	require.NoError(t, err)

	err = svc.Delete(f.ctx, c.ID, cashir)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	require.NoError(t, svc.Deactivate(f.ctx, c.ID, cashir))
	active, err := svc.ListActive(f.ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, other.ID, active[0].ID)

	require.NoError(t, svc.Delete(f.ctx, other.ID, cashir))
	_, err = svc.Get(f.ctx, other.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
