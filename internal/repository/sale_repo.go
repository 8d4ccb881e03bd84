package repository

import (
	"context"
	"time"

	"go-bakery-pos/internal/model"
	"go-bakery-pos/pkg/apperror"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaleRepository interface {
	Create(ctx context.Context, sale *model.Sale) error
	FindAll(ctx context.Context) ([]model.Sale, error)
	FindByID(ctx context.Context, id uint) (*model.Sale, error)
	FindByPeriod(ctx context.Context, start, end time.Time) ([]model.Sale, error)
	TotalByPeriod(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
	UpdateStatus(ctx context.Context, id uint, status model.Status, updatedBy string) error
	Delete(ctx context.Context, id uint) error
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func preloadSaleItems(db *gorm.DB) *gorm.DB {
	return db.Select("itens_venda.*, produtos.name AS product_name").
		Joins("LEFT JOIN produtos ON produtos.id = itens_venda.product_id").
		Order("itens_venda.id ASC")
}

func (r *saleRepo) query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.Sale{}).
		Select("vendas.*, clientes.name AS customer_name").
		Joins("LEFT JOIN clientes ON clientes.id = vendas.customer_id").
		Preload("Items", preloadSaleItems)
}

// Create writes the header and then its items.
func (r *saleRepo) Create(ctx context.Context, sale *model.Sale) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(sale).Error; err != nil {
		return translateError(err, "sale")
	}
	if len(sale.Items) == 0 {
		return nil
	}
	for i := range sale.Items {
		sale.Items[i].SaleID = sale.ID
	}
	return translateError(db.Create(&sale.Items).Error, "sale item")
}

func (r *saleRepo) FindAll(ctx context.Context) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.query(ctx).Order("vendas.sold_at DESC, vendas.id DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindByID(ctx context.Context, id uint) (*model.Sale, error) {
	var sale model.Sale
	if err := r.query(ctx).Where("vendas.id = ?", id).First(&sale).Error; err != nil {
		return nil, translateError(err, "sale")
	}
	return &sale, nil
}

// FindByPeriod returns sales with start <= sold_at < end.
func (r *saleRepo) FindByPeriod(ctx context.Context, start, end time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.query(ctx).
		Where("vendas.sold_at >= ? AND vendas.sold_at < ?", start, end).
		Order("vendas.sold_at ASC, vendas.id ASC").
		Find(&sales).Error
	return sales, err
}

// TotalByPeriod sums the final amount of finalized sales in [start, end).
func (r *saleRepo) TotalByPeriod(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("COALESCE(SUM(final_amount), 0)").
		Where("status = ? AND sold_at >= ? AND sold_at < ?", model.StatusFinalized, start, end).
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total.Round(2), nil
}

func (r *saleRepo) UpdateStatus(ctx context.Context, id uint, status model.Status, updatedBy string) error {
	res := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_by": updatedBy,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("sale %d not found", id)
	}
	return nil
}

// Delete removes the items and then the header.
func (r *saleRepo) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("sale_id = ?", id).Delete(&model.SaleItem{}).Error; err != nil {
		return err
	}
	res := db.Delete(&model.Sale{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("sale %d not found", id)
	}
	return nil
}
