package repository

import (
	"context"
	"fmt"
	"time"

	"go-bakery-pos/internal/model"
	"go-bakery-pos/pkg/apperror"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StockRepository interface {
	Create(ctx context.Context, entry *model.StockEntry) error
	FindAll(ctx context.Context) ([]model.StockEntry, error)
	FindByID(ctx context.Context, id uint) (*model.StockEntry, error)
	FindByProduct(ctx context.Context, productID uint) (*model.StockEntry, error)
	BelowMinimum(ctx context.Context) ([]model.StockEntry, error)
	UpdateThresholds(ctx context.Context, id uint, minimum decimal.Decimal, maximum *decimal.Decimal, location, updatedBy string) error
	SetQuantity(ctx context.Context, productID uint, qty decimal.Decimal, updatedBy string) (*model.StockEntry, error)
	Adjust(ctx context.Context, productID uint, delta decimal.Decimal, updatedBy string) (*model.StockEntry, error)
	Delete(ctx context.Context, id uint) error
}

type stockRepo struct {
	db *gorm.DB
}

func NewStockRepo(db *gorm.DB) StockRepository {
	return &stockRepo{db}
}

func (r *stockRepo) withProduct(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.StockEntry{}).
		Select("estoque.*, produtos.name AS product_name").
		Joins("LEFT JOIN produtos ON produtos.id = estoque.product_id")
}

func (r *stockRepo) Create(ctx context.Context, entry *model.StockEntry) error {
	return translateError(r.db.WithContext(ctx).Create(entry).Error, "stock entry")
}

func (r *stockRepo) FindAll(ctx context.Context) ([]model.StockEntry, error) {
	var entries []model.StockEntry
	err := r.withProduct(ctx).Order("produtos.name ASC").Find(&entries).Error
	return entries, err
}

func (r *stockRepo) FindByID(ctx context.Context, id uint) (*model.StockEntry, error) {
	var entry model.StockEntry
	if err := r.withProduct(ctx).Where("estoque.id = ?", id).First(&entry).Error; err != nil {
		return nil, translateError(err, "stock entry")
	}
	return &entry, nil
}

func (r *stockRepo) FindByProduct(ctx context.Context, productID uint) (*model.StockEntry, error) {
	var entry model.StockEntry
	if err := r.withProduct(ctx).Where("estoque.product_id = ?", productID).First(&entry).Error; err != nil {
		return nil, translateError(err, "stock entry")
	}
	return &entry, nil
}

// BelowMinimum returns entries with quantity strictly under minimum, by product name.
func (r *stockRepo) BelowMinimum(ctx context.Context) ([]model.StockEntry, error) {
	var entries []model.StockEntry
	err := r.withProduct(ctx).
		Where("estoque.quantity < estoque.minimum").
		Order("produtos.name ASC").
		Find(&entries).Error
	return entries, err
}

// UpdateThresholds never writes quantity; that column belongs to Adjust
// and SetQuantity.
func (r *stockRepo) UpdateThresholds(ctx context.Context, id uint, minimum decimal.Decimal, maximum *decimal.Decimal, location, updatedBy string) error {
	var max interface{}
	if maximum != nil {
		max = *maximum
	}
	res := r.db.WithContext(ctx).Model(&model.StockEntry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"minimum":    minimum,
			"maximum":    max,
			"location":   location,
			"updated_at": time.Now(),
			"updated_by": updatedBy,
		})
	if res.Error != nil {
		return translateError(res.Error, "stock entry")
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("stock entry %d not found", id)
	}
	return nil
}

func (r *stockRepo) SetQuantity(ctx context.Context, productID uint, qty decimal.Decimal, updatedBy string) (*model.StockEntry, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&model.StockEntry{}).
		Where("product_id = ?", productID).
		Updates(map[string]interface{}{
			"quantity":     qty,
			"last_updated": now,
			"updated_at":   now,
			"updated_by":   updatedBy,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperror.NotFound("stock entry for product %d not found", productID)
	}
	return r.FindByProduct(ctx, productID)
}

// Adjust applies delta in a single conditional UPDATE so concurrent callers
// can never drive the quantity below zero. When no row matches it tells
// a missing entry apart from a shortfall.
func (r *stockRepo) Adjust(ctx context.Context, productID uint, delta decimal.Decimal, updatedBy string) (*model.StockEntry, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&model.StockEntry{}).
		Where("product_id = ? AND quantity + ? >= 0", productID, delta).
		Updates(map[string]interface{}{
			"quantity":     gorm.Expr("quantity + ?", delta),
			"last_updated": now,
			"updated_at":   now,
			"updated_by":   updatedBy,
		})
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		current, err := r.FindByProduct(ctx, productID)
		if err != nil {
			return nil, err
		}
		name := fmt.Sprintf("product %d", productID)
		if current.ProductName != nil {
			name = *current.ProductName
		}
		return nil, apperror.InsufficientStock(
			"insufficient stock for %q: available %s, requested %s",
			name, current.Quantity.String(), delta.Neg().String(),
		)
	}
	return r.FindByProduct(ctx, productID)
}

func (r *stockRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.StockEntry{}, id)
	if res.Error != nil {
		return translateError(res.Error, "stock entry")
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("stock entry %d not found", id)
	}
	return nil
}
