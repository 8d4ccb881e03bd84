package repository

import (
	"context"
	"strings"
	"time"

	"go-bakery-pos/internal/model"
	"go-bakery-pos/pkg/apperror"

	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) error
	FindAll(ctx context.Context) ([]model.Customer, error)
	FindActive(ctx context.Context) ([]model.Customer, error)
	FindByID(ctx context.Context, id uint) (*model.Customer, error)
	FindByTaxID(ctx context.Context, taxID string) (*model.Customer, error)
	SearchByName(ctx context.Context, name string) ([]model.Customer, error)
	TaxIDTaken(ctx context.Context, taxID string, excludeID uint) (bool, error)
	HasTransactions(ctx context.Context, id uint) (bool, error)
	Update(ctx context.Context, customer *model.Customer) error
	SetActive(ctx context.Context, id uint, active bool, updatedBy string) error
	Delete(ctx context.Context, id uint) error
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db}
}

func (r *customerRepo) Create(ctx context.Context, customer *model.Customer) error {
	return translateError(r.db.WithContext(ctx).Create(customer).Error, "customer")
}

func (r *customerRepo) FindAll(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).Order("name ASC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) FindActive(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("name ASC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) FindByID(ctx context.Context, id uint) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		return nil, translateError(err, "customer")
	}
	return &customer, nil
}

func (r *customerRepo) FindByTaxID(ctx context.Context, taxID string) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.WithContext(ctx).Where("tax_id = ?", taxID).First(&customer).Error; err != nil {
		return nil, translateError(err, "customer")
	}
	return &customer, nil
}

func (r *customerRepo) SearchByName(ctx context.Context, name string) ([]model.Customer, error) {
	var customers []model.Customer
	pattern := "%" + strings.ToLower(strings.TrimSpace(name)) + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", pattern).
		Order("name ASC").
		Find(&customers).Error
	return customers, err
}

// TaxIDTaken checks active and inactive customers alike.
func (r *customerRepo) TaxIDTaken(ctx context.Context, taxID string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("tax_id = ? AND id <> ?", taxID, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *customerRepo) HasTransactions(ctx context.Context, id uint) (bool, error) {
	db := r.db.WithContext(ctx)
	for _, m := range []interface{}{&model.Sale{}, &model.Commission{}} {
		var count int64
		if err := db.Model(m).Where("customer_id = ?", id).Count(&count).Error; err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (r *customerRepo) Update(ctx context.Context, customer *model.Customer) error {
	return translateError(r.db.WithContext(ctx).Save(customer).Error, "customer")
}

func (r *customerRepo) SetActive(ctx context.Context, id uint, active bool, updatedBy string) error {
	res := r.db.WithContext(ctx).Model(&model.Customer{}).
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
		return apperror.NotFound("customer %d not found", id)
	}
	return nil
}

func (r *customerRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Customer{}, id)
	if res.Error != nil {
		return translateError(res.Error, "customer")
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("customer %d not found", id)
	}
	return nil
}
