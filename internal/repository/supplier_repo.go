package repository

import (
	"context"
	"time"

	"go-bakery-pos/internal/model"
	"go-bakery-pos/pkg/apperror"

	"gorm.io/gorm"
)

type SupplierRepository interface {
	Create(ctx context.Context, supplier *model.Supplier) error
	FindAll(ctx context.Context) ([]model.Supplier, error)
	FindActive(ctx context.Context) ([]model.Supplier, error)
	FindByID(ctx context.Context, id uint) (*model.Supplier, error)
	FindByTaxID(ctx context.Context, taxID string) (*model.Supplier, error)
	TaxIDTaken(ctx context.Context, taxID string, excludeID uint) (bool, error)
	Update(ctx context.Context, supplier *model.Supplier) error
	SetActive(ctx context.Context, id uint, active bool, updatedBy string) error
	Delete(ctx context.Context, id uint) error
}

type supplierRepo struct {
	db *gorm.DB
}

func NewSupplierRepo(db *gorm.DB) SupplierRepository {
	return &supplierRepo{db}
}

func (r *supplierRepo) Create(ctx context.Context, supplier *model.Supplier) error {
	return translateError(r.db.WithContext(ctx).Create(supplier).Error, "supplier")
}

func (r *supplierRepo) FindAll(ctx context.Context) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := r.db.WithContext(ctx).Order("name ASC").Find(&suppliers).Error
	return suppliers, err
}

func (r *supplierRepo) FindActive(ctx context.Context) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("name ASC").Find(&suppliers).Error
	return suppliers, err
}

func (r *supplierRepo) FindByID(ctx context.Context, id uint) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, id).Error; err != nil {
		return nil, translateError(err, "supplier")
	}
	return &supplier, nil
}

func (r *supplierRepo) FindByTaxID(ctx context.Context, taxID string) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := r.db.WithContext(ctx).Where("tax_id = ?", taxID).First(&supplier).Error; err != nil {
		return nil, translateError(err, "supplier")
	}
	return &supplier, nil
}

// TaxIDTaken reports whether another supplier already uses taxID.
func (r *supplierRepo) TaxIDTaken(ctx context.Context, taxID string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Supplier{}).
		Where("tax_id = ? AND id <> ?", taxID, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *supplierRepo) Update(ctx context.Context, supplier *model.Supplier) error {
	return translateError(r.db.WithContext(ctx).Save(supplier).Error, "supplier")
}

func (r *supplierRepo) SetActive(ctx context.Context, id uint, active bool, updatedBy string) error {
	res := r.db.WithContext(ctx).Model(&model.Supplier{}).
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
		return apperror.NotFound("supplier %d not found", id)
	}
	return nil
}

func (r *supplierRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Supplier{}, id)
	if res.Error != nil {
		return translateError(res.Error, "supplier")
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("supplier %d not found", id)
	}
	return nil
}
