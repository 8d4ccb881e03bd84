package repository

import (
	"context"
	"time"

	"go-bakery-pos/internal/model"
	"go-bakery-pos/pkg/apperror"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommissionRepository interface {
	Create(ctx context.Context, commission *model.Commission) error
	FindAll(ctx context.Context) ([]model.Commission, error)
	FindByID(ctx context.Context, id uint) (*model.Commission, error)
	FindByStatus(ctx context.Context, status model.Status) ([]model.Commission, error)
	FindByDeliveryDate(ctx context.Context, day time.Time) ([]model.Commission, error)
	UpdateStatus(ctx context.Context, id uint, status model.Status, stockCommitted bool, updatedBy string) error
	Delete(ctx context.Context, id uint) error
}

type commissionRepo struct {
	db *gorm.DB
}

func NewCommissionRepo(db *gorm.DB) CommissionRepository {
	return &commissionRepo{db}
}

func preloadCommissionItems(db *gorm.DB) *gorm.DB {
	return db.Select("itens_encomenda.*, produtos.name AS product_name").
		Joins("LEFT JOIN produtos ON produtos.id = itens_encomenda.product_id").
		Order("itens_encomenda.id ASC")
}

func (r *commissionRepo) query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.Commission{}).
		Select("encomendas.*, clientes.name AS customer_name").
		Joins("LEFT JOIN clientes ON clientes.id = encomendas.customer_id").
		Preload("Items", preloadCommissionItems)
}

// Create writes the header and then its items.
func (r *commissionRepo) Create(ctx context.Context, commission *model.Commission) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(commission).Error; err != nil {
		return translateError(err, "commission")
	}
	if len(commission.Items) == 0 {
		return nil
	}
	for i := range commission.Items {
		commission.Items[i].CommissionID = commission.ID
	}
	return translateError(db.Create(&commission.Items).Error, "commission item")
}

func (r *commissionRepo) FindAll(ctx context.Context) ([]model.Commission, error) {
	var commissions []model.Commission
	err := r.query(ctx).Order("encomendas.delivery_date ASC, encomendas.id ASC").Find(&commissions).Error
	return commissions, err
}

func (r *commissionRepo) FindByID(ctx context.Context, id uint) (*model.Commission, error) {
	var commission model.Commission
	if err := r.query(ctx).Where("encomendas.id = ?", id).First(&commission).Error; err != nil {
		return nil, translateError(err, "commission")
	}
	return &commission, nil
}

func (r *commissionRepo) FindByStatus(ctx context.Context, status model.Status) ([]model.Commission, error) {
	var commissions []model.Commission
	err := r.query(ctx).
		Where("encomendas.status = ?", status).
		Order("encomendas.delivery_date ASC, encomendas.id ASC").
		Find(&commissions).Error
	return commissions, err
}

// FindByDeliveryDate matches the calendar day of day in its own location.
func (r *commissionRepo) FindByDeliveryDate(ctx context.Context, day time.Time) ([]model.Commission, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var commissions []model.Commission
	err := r.query(ctx).
		Where("encomendas.delivery_date >= ? AND encomendas.delivery_date < ?", start, end).
		Order("encomendas.id ASC").
		Find(&commissions).Error
	return commissions, err
}

func (r *commissionRepo) UpdateStatus(ctx context.Context, id uint, status model.Status, stockCommitted bool, updatedBy string) error {
	res := r.db.WithContext(ctx).Model(&model.Commission{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":          status,
			"stock_committed": stockCommitted,
			"updated_by":      updatedBy,
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("commission %d not found", id)
	}
	return nil
}

// Delete removes the items and then the header.
func (r *commissionRepo) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("commission_id = ?", id).Delete(&model.CommissionItem{}).Error; err != nil {
		return err
	}
	res := db.Delete(&model.Commission{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("commission %d not found", id)
	}
	return nil
}
