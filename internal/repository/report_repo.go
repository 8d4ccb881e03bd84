package repository

import (
	"context"
	"time"

	"go-bakery-pos/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportRepository runs the read-only aggregation queries behind /relatorios.
type ReportRepository interface {
	SalesSummary(ctx context.Context, start, end time.Time) (*SalesSummary, error)
	TopProducts(ctx context.Context, start, end time.Time, limit int) ([]ProductSales, error)
	SalesByPaymentMethod(ctx context.Context, start, end time.Time) ([]PaymentMethodTotal, error)
	LowStock(ctx context.Context) ([]LowStockRow, error)
	CommissionsByStatus(ctx context.Context) ([]StatusTotal, error)
	TopCustomers(ctx context.Context, limit int) ([]CustomerPurchases, error)
	Overview(ctx context.Context) (*Overview, error)
}

// SalesSummary covers finalized sales only.
type SalesSummary struct {
	Count          int64           `json:"count"`
	TotalSold      decimal.Decimal `json:"total_sold"`
	TotalDiscounts decimal.Decimal `json:"total_discounts"`
	AverageTicket  decimal.Decimal `json:"average_ticket"`
}

type ProductSales struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Amount      decimal.Decimal `json:"amount"`
}

type PaymentMethodTotal struct {
	PaymentMethod string          `json:"payment_method"`
	Count         int64           `json:"count"`
	Amount        decimal.Decimal `json:"amount"`
}

type LowStockRow struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Minimum     decimal.Decimal `json:"minimum"`
	Shortfall   decimal.Decimal `json:"shortfall"`
}

type StatusTotal struct {
	Status string          `json:"status"`
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

type CustomerPurchases struct {
	CustomerID   uint            `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	Purchases    int64           `json:"purchases"`
	Amount       decimal.Decimal `json:"amount"`
}

// Overview holds the headline numbers of the dashboard.
type Overview struct {
	ActiveProducts int64           `json:"active_products"`
	LowStockCount  int64           `json:"low_stock_count"`
	StockValuation decimal.Decimal `json:"stock_valuation"`
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db}
}

func (r *reportRepo) SalesSummary(ctx context.Context, start, end time.Time) (*SalesSummary, error) {
	var summary SalesSummary
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("COUNT(*), COALESCE(SUM(final_amount), 0), COALESCE(SUM(discount), 0)").
		Where("status = ? AND sold_at >= ? AND sold_at < ?", model.StatusFinalized, start, end).
		Row().Scan(&summary.Count, &summary.TotalSold, &summary.TotalDiscounts)
	if err != nil {
		return nil, err
	}

	summary.TotalSold = summary.TotalSold.Round(2)
	summary.TotalDiscounts = summary.TotalDiscounts.Round(2)
	if summary.Count > 0 {
		summary.AverageTicket = summary.TotalSold.Div(decimal.NewFromInt(summary.Count)).Round(2)
	}
	return &summary, nil
}

func (r *reportRepo) TopProducts(ctx context.Context, start, end time.Time, limit int) ([]ProductSales, error) {
	rows, err := r.db.WithContext(ctx).Table("itens_venda").
		Select("itens_venda.product_id, produtos.name, SUM(itens_venda.quantity) AS qty, SUM(itens_venda.subtotal) AS amount").
		Joins("JOIN vendas ON vendas.id = itens_venda.sale_id").
		Joins("JOIN produtos ON produtos.id = itens_venda.product_id").
		Where("vendas.status = ? AND vendas.sold_at >= ? AND vendas.sold_at < ?", model.StatusFinalized, start, end).
		Group("itens_venda.product_id, produtos.name").
		Order("qty DESC, produtos.name ASC").
		Limit(limit).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []ProductSales{}
	for rows.Next() {
		var data ProductSales
		if err := rows.Scan(&data.ProductID, &data.ProductName, &data.Quantity, &data.Amount); err != nil {
			return nil, err
		}
		data.Amount = data.Amount.Round(2)
		results = append(results, data)
	}
	return results, rows.Err()
}

func (r *reportRepo) SalesByPaymentMethod(ctx context.Context, start, end time.Time) ([]PaymentMethodTotal, error) {
	rows, err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("payment_method, COUNT(*), COALESCE(SUM(final_amount), 0) AS amount").
		Where("status = ? AND sold_at >= ? AND sold_at < ?", model.StatusFinalized, start, end).
		Group("payment_method").
		Order("amount DESC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []PaymentMethodTotal{}
	for rows.Next() {
		var data PaymentMethodTotal
		if err := rows.Scan(&data.PaymentMethod, &data.Count, &data.Amount); err != nil {
			return nil, err
		}
		data.Amount = data.Amount.Round(2)
		results = append(results, data)
	}
	return results, rows.Err()
}

// LowStock lists entries under minimum, largest shortfall first.
func (r *reportRepo) LowStock(ctx context.Context) ([]LowStockRow, error) {
	rows, err := r.db.WithContext(ctx).Table("estoque").
		Select("estoque.product_id, produtos.name, estoque.quantity, estoque.minimum, estoque.minimum - estoque.quantity AS shortfall").
		Joins("JOIN produtos ON produtos.id = estoque.product_id").
		Where("estoque.quantity < estoque.minimum").
		Order("shortfall DESC, produtos.name ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []LowStockRow{}
	for rows.Next() {
		var data LowStockRow
		if err := rows.Scan(&data.ProductID, &data.ProductName, &data.Quantity, &data.Minimum, &data.Shortfall); err != nil {
			return nil, err
		}
		results = append(results, data)
	}
	return results, rows.Err()
}

func (r *reportRepo) CommissionsByStatus(ctx context.Context) ([]StatusTotal, error) {
	rows, err := r.db.WithContext(ctx).Model(&model.Commission{}).
		Select("status, COUNT(*), COALESCE(SUM(total), 0)").
		Group("status").
		Order("status ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []StatusTotal{}
	for rows.Next() {
		var data StatusTotal
		if err := rows.Scan(&data.Status, &data.Count, &data.Amount); err != nil {
			return nil, err
		}
		data.Amount = data.Amount.Round(2)
		results = append(results, data)
	}
	return results, rows.Err()
}

// TopCustomers ranks active customers by the value of their finalized sales.
func (r *reportRepo) TopCustomers(ctx context.Context, limit int) ([]CustomerPurchases, error) {
	rows, err := r.db.WithContext(ctx).Table("clientes").
		Select("clientes.id, clientes.name, COUNT(vendas.id), COALESCE(SUM(vendas.final_amount), 0) AS amount").
		Joins("JOIN vendas ON vendas.customer_id = clientes.id AND vendas.status = ?", model.StatusFinalized).
		Where("clientes.active = ?", true).
		Group("clientes.id, clientes.name").
		Order("amount DESC, clientes.name ASC").
		Limit(limit).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []CustomerPurchases{}
	for rows.Next() {
		var data CustomerPurchases
		if err := rows.Scan(&data.CustomerID, &data.CustomerName, &data.Purchases, &data.Amount); err != nil {
			return nil, err
		}
		data.Amount = data.Amount.Round(2)
		results = append(results, data)
	}
	return results, rows.Err()
}

func (r *reportRepo) Overview(ctx context.Context) (*Overview, error) {
	var stats Overview
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Product{}).Where("active = ?", true).Count(&stats.ActiveProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.StockEntry{}).Where("quantity < minimum").Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}

	// Valuation at current sale price
	err := db.Table("estoque").
		Select("COALESCE(SUM(estoque.quantity * produtos.price), 0)").
		Joins("JOIN produtos ON produtos.id = estoque.product_id").
		Row().Scan(&stats.StockValuation)
	if err != nil {
		return nil, err
	}
	stats.StockValuation = stats.StockValuation.Round(2)
	return &stats, nil
}
