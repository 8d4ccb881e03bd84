package repository

import (
	"context"
	"testing"
	"time"

	"go-bakery-pos/internal/model"
	"go-bakery-pos/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string) *model.Product {
	t.Helper()
	p := &model.Product{Name: name, Price: dec(price), Category: "Paes", Unit: "un", Active: true}
	require.NoError(t, NewProductRepo(db).Create(context.Background(), p))
	return p
}

func seedStock(t *testing.T, db *gorm.DB, productID uint, qty, min string) *model.StockEntry {
	t.Helper()
	e := &model.StockEntry{ProductID: productID, Quantity: dec(qty), Minimum: dec(min), LastUpdated: time.Now()}
	require.NoError(t, NewStockRepo(db).Create(context.Background(), e))
	return e
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func newTestDB(t *testing.T) *gorm.DB {
	return testutil.NewDB(t)
}
