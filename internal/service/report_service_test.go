package service

import (
	"context"
	"testing"
	"time"

	"go-bakery-pos/internal/cache"
	"go-bakery-pos/internal/repository"
	"go-bakery-pos/pkg/apperror"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func today() Period {
	start := time.Date(clock.Year(), clock.Month(), clock.Day(), 0, 0, 0, 0, clock.Location())
	return Period{Start: start, End: start.AddDate(0, 0, 1)}
}

func TestReportsFollowCommittedWrites(t *testing.T) {
	f := newFixture(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	rc := cache.NewReportCache(client, time.Minute, nil)

	orders := NewOrderService(f.store, f.events, rc, nil, OrderOptions{Now: func() time.Time { return clock }})
	reports := NewReportService(repository.NewReportRepo(f.db), rc)

	pao := f.product(t, "Pao frances", "0.60")
	bolo := f.product(t, "Bolo", "30.00")
	f.stock(t, pao.ID, "100", "10")
	f.stock(t, bolo.ID, "2", "3")
	joana := f.customer(t, "Joana")

	_, err := orders.CreateSale(f.ctx, SaleRequest{Items: []LineRequest{line(pao.ID, "5")}, PaymentMethod: "CASH"}, cashir)
	require.NoError(t, err)

	summary, err := reports.SalesSummary(f.ctx, today())
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.Count)
	requireDecimal(t, "3", summary.TotalSold)

	// A second sale bumps the cache version, so the summary is recomputed
	_, err = orders.CreateSale(f.ctx, SaleRequest{
		CustomerID:    &joana.ID,
		Items:         []LineRequest{line(bolo.ID, "1"), line(pao.ID, "10")},
		PaymentMethod: "PIX",
		Discount:      decPtr("1"),
	}, cashir)
	require.NoError(t, err)

	summary, err = reports.SalesSummary(f.ctx, today())
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Count)
	requireDecimal(t, "38", summary.TotalSold)
	requireDecimal(t, "1", summary.TotalDiscounts)
	requireDecimal(t, "19", summary.AverageTicket)

	top, err := reports.TopProducts(f.ctx, today())
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Pao frances", top[0].ProductName)
	requireDecimal(t, "15", top[0].Quantity)

	methods, err := reports.PaymentMethods(f.ctx, today())
	require.NoError(t, err)
	require.Len(t, methods, 2)
	assert.Equal(t, "PIX", methods[0].PaymentMethod)

	low, err := reports.LowStock(f.ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Bolo", low[0].ProductName)
	requireDecimal(t, "2", low[0].Shortfall)

	customers, err := reports.TopCustomers(f.ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Joana", customers[0].CustomerName)
	requireDecimal(t, "35", customers[0].Amount)
}

func TestDashboardComposesReports(t *testing.T) {
	f := newFixture(t)
	orders := f.orders(PolicyNone)
	reports := NewReportService(repository.NewReportRepo(f.db), cache.NewReportCache(nil, 0, nil))

	pao := f.product(t, "Pao frances", "0.50")
	f.stock(t, pao.ID, "20", "0")
	c := f.customer(t, "Joana")
	_, err := orders.CreateSale(f.ctx, SaleRequest{Items: []LineRequest{line(pao.ID, "4")}, PaymentMethod: "DEBIT"}, cashir)
	require.NoError(t, err)
	_, err = orders.CreateCommission(f.ctx, CommissionRequest{CustomerID: c.ID, DeliveryDate: "2026-10-16", Items: []LineRequest{line(pao.ID, "50")}}, cashir)
	require.NoError(t, err)

	d, err := reports.Dashboard(f.ctx, today())
	require.NoError(t, err)
	assert.Equal(t, int64(1), d.Overview.ActiveProducts)
	requireDecimal(t, "8", d.Overview.StockValuation)
	assert.Equal(t, int64(1), d.Sales.Count)
	assert.Len(t, d.TopProducts, 1)
	assert.Len(t, d.PaymentMethods, 1)
	assert.Empty(t, d.LowStock)
	require.Len(t, d.Commissions, 1)
	assert.Equal(t, "PENDING", d.Commissions[0].Status)
	requireDecimal(t, "25", d.Commissions[0].Amount)
	assert.Empty(t, d.TopCustomers)
}

func TestReportsRejectInvertedPeriod(t *testing.T) {
	f := newFixture(t)
	reports := NewReportService(repository.NewReportRepo(f.db), cache.NewReportCache(nil, 0, nil))
	p := today()
	inverted := Period{Start: p.End, End: p.Start}

	_, err := reports.SalesSummary(context.Background(), inverted)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	_, err = reports.Dashboard(context.Background(), inverted)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}
