package repository

import (
	"context"
	"time"

	"go-bakery-pos/internal/model"
	"go-bakery-pos/pkg/apperror"

	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context) ([]model.Product, error)
	FindActive(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindByCategory(ctx context.Context, category string) ([]model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	SetActive(ctx context.Context, id uint, active bool, updatedBy string) error
	Delete(ctx context.Context, id uint) error
	IsReferenced(ctx context.Context, id uint) (bool, error)
	CountBySupplier(ctx context.Context, supplierID uint) (int64, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

// withSupplier selects the product columns plus the supplier display name.
func (r *productRepo) withSupplier(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.Product{}).
		Select("produtos.*, fornecedores.name AS supplier_name").
		Joins("LEFT JOIN fornecedores ON fornecedores.id = produtos.supplier_id")
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return translateError(r.db.WithContext(ctx).Create(product).Error, "product")
}

func (r *productRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.withSupplier(ctx).Order("produtos.name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindActive(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.withSupplier(ctx).Where("produtos.active = ?", true).Order("produtos.name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := r.withSupplier(ctx).Where("produtos.id = ?", id).First(&product).Error; err != nil {
		return nil, translateError(err, "product")
	}
	return &product, nil
}

func (r *productRepo) FindByCategory(ctx context.Context, category string) ([]model.Product, error) {
	var products []model.Product
	err := r.withSupplier(ctx).
		Where("LOWER(produtos.category) = LOWER(?)", category).
		Order("produtos.name ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return translateError(r.db.WithContext(ctx).Save(product).Error, "product")
}

func (r *productRepo) SetActive(ctx context.Context, id uint, active bool, updatedBy string) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"active":     active,
			"updated_by": updatedBy,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("product %d not found", id)
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, id)
	if res.Error != nil {
		return translateError(res.Error, "product")
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("product %d not found", id)
	}
	return nil
}

// IsReferenced reports whether a stock entry or any line item points at the product.
func (r *productRepo) IsReferenced(ctx context.Context, id uint) (bool, error) {
	db := r.db.WithContext(ctx)
	for _, m := range []interface{}{&model.StockEntry{}, &model.SaleItem{}, &model.CommissionItem{}} {
		var count int64
		if err := db.Model(m).Where("product_id = ?", id).Count(&count).Error; err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (r *productRepo) CountBySupplier(ctx context.Context, supplierID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("supplier_id = ?", supplierID).Count(&count).Error
	return count, err
}
