package repository

import (
	"context"
	"testing"

	"go-bakery-pos/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockRepoAdjust(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewStockRepo(db)
	p := seedProduct(t, db, "Pao frances", "0.60")
	seedStock(t, db, p.ID, "100", "10")

	entry, err := repo.Adjust(ctx, p.ID, dec("-5"), "tester")
	require.NoError(t, err)
	requireDecimal(t, "95", entry.Quantity)
	assert.Equal(t, "tester", entry.UpdatedBy)
	require.NotNil(t, entry.ProductName)
	assert.Equal(t, "Pao frances", *entry.ProductName)

	_, err = repo.Adjust(ctx, p.ID, dec("-200"), "tester")
	assert.ErrorIs(t, err, apperror.ErrInsufficientStock)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Contains(t, err.Error(), "available 95")
	assert.Contains(t, err.Error(), `"Pao frances"`)

	entry, err = repo.FindByProduct(ctx, p.ID)
	require.NoError(t, err)
	requireDecimal(t, "95", entry.Quantity)

	entry, err = repo.Adjust(ctx, p.ID, dec("-95"), "tester")
	require.NoError(t, err)
	assert.True(t, entry.Quantity.IsZero())

	entry, err = repo.Adjust(ctx, p.ID, dec("2.5"), "tester")
	require.NoError(t, err)
	requireDecimal(t, "2.5", entry.Quantity)
}

func TestStockRepoThresholdsKeepConcurrentQuantity(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewStockRepo(db)
	p := seedProduct(t, db, "Pao frances", "0.60")
	seeded := seedStock(t, db, p.ID, "100", "10")

	// Threshold edit reads the row, a sale commits, then the edit is saved
	stale, err := repo.FindByProduct(ctx, p.ID)
	require.NoError(t, err)
	requireDecimal(t, "100", stale.Quantity)

	_, err = repo.Adjust(ctx, p.ID, dec("-60"), "caixa")
	require.NoError(t, err)

	max := dec("150")
	require.NoError(t, repo.UpdateThresholds(ctx, stale.ID, dec("20"), &max, "Vitrine", "gerente"))

	entry, err := repo.FindByProduct(ctx, p.ID)
	require.NoError(t, err)
	requireDecimal(t, "40", entry.Quantity)
	requireDecimal(t, "20", entry.Minimum)
	require.NotNil(t, entry.Maximum)
	requireDecimal(t, "150", *entry.Maximum)
	assert.Equal(t, "Vitrine", entry.Location)
	assert.Equal(t, "gerente", entry.UpdatedBy)

	require.NoError(t, repo.UpdateThresholds(ctx, seeded.ID, dec("20"), nil, "", "gerente"))
	entry, err = repo.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Nil(t, entry.Maximum)
	requireDecimal(t, "40", entry.Quantity)

	err = repo.UpdateThresholds(ctx, seeded.ID+99, dec("1"), nil, "", "gerente")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestStockRepoAdjustMissingEntry(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Sonho", "4.50")

	_, err := NewStockRepo(db).Adjust(context.Background(), p.ID, dec("1"), "tester")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestStockRepoBelowMinimum(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewStockRepo(db)

	broa := seedProduct(t, db, "Broa", "1.20")
	bolo := seedProduct(t, db, "Bolo de cenoura", "25.00")
	cuca := seedProduct(t, db, "Cuca", "18.00")
	seedStock(t, db, broa.ID, "3", "5")
	seedStock(t, db, bolo.ID, "1", "2")
	seedStock(t, db, cuca.ID, "5", "5") // equal to minimum is not below

	entries, err := repo.BelowMinimum(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, bolo.ID, entries[0].ProductID)
	assert.Equal(t, broa.ID, entries[1].ProductID)
	for _, e := range entries {
		assert.True(t, e.BelowMinimum())
	}
}

func TestStockRepoSetQuantity(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewStockRepo(db)
	p := seedProduct(t, db, "Rosca", "12.00")
	seedStock(t, db, p.ID, "4", "1")

	entry, err := repo.SetQuantity(ctx, p.ID, dec("40"), "tester")
	require.NoError(t, err)
	requireDecimal(t, "40", entry.Quantity)

	_, err = repo.SetQuantity(ctx, p.ID+100, dec("1"), "tester")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
