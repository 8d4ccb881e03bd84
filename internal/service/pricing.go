package service

import (
	"context"
	"errors"
	"sort"

	"go-bakery-pos/internal/model"
	"go-bakery-pos/internal/repository"
	"go-bakery-pos/pkg/apperror"

	"github.com/shopspring/decimal"
)

// LineRequest is one requested product line. UnitPrice overrides the catalog
// price when given.
type LineRequest struct {
	ProductID uint             `json:"product_id"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

func validateLines(lines []LineRequest) error {
	if len(lines) == 0 {
		return apperror.Validation("at least one item is required")
	}
	for i, l := range lines {
		if l.ProductID == 0 {
			return apperror.Validation("item %d: product_id is required", i+1)
		}
		if !l.Quantity.IsPositive() {
			return apperror.Validation("item %d: quantity must be greater than 0", i+1)
		}
		if l.UnitPrice != nil && !l.UnitPrice.IsPositive() {
			return apperror.Validation("item %d: unit_price must be greater than 0", i+1)
		}
	}
	return nil
}

// priceLines resolves every product, snapshots its price and returns the
// items with their subtotals plus the exact total.
func priceLines(ctx context.Context, products repository.ProductRepository, lines []LineRequest) ([]model.LineItem, decimal.Decimal, error) {
	items := make([]model.LineItem, 0, len(lines))
	total := decimal.Zero
	for _, l := range lines {
		product, err := products.FindByID(ctx, l.ProductID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if !product.Active {
			return nil, decimal.Zero, apperror.Validation("product %q is inactive", product.Name)
		}

		price := product.Price
		if l.UnitPrice != nil {
			price = *l.UnitPrice
		}
		subtotal := l.Quantity.Mul(price)
		total = total.Add(subtotal)

		name := product.Name
		items = append(items, model.LineItem{
			ProductID:   product.ID,
			Quantity:    l.Quantity,
			UnitPrice:   price,
			Subtotal:    subtotal,
			ProductName: &name,
		})
	}
	return items, total, nil
}

type demand struct {
	productID uint
	name      string
	quantity  decimal.Decimal
}

// aggregateDemand sums quantities per product, ordered by product id so row
// locks are always taken in the same order.
func aggregateDemand(items []model.LineItem) []demand {
	byProduct := make(map[uint]*demand)
	for _, it := range items {
		d, ok := byProduct[it.ProductID]
		if !ok {
			d = &demand{productID: it.ProductID, quantity: decimal.Zero}
			if it.ProductName != nil {
				d.name = *it.ProductName
			}
			byProduct[it.ProductID] = d
		}
		d.quantity = d.quantity.Add(it.Quantity)
	}
	out := make([]demand, 0, len(byProduct))
	for _, d := range byProduct {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].productID < out[j].productID })
	return out
}

// precheckStock rejects the whole transaction when any product is short.
// It is advisory; Adjust is the authoritative guard.
func precheckStock(ctx context.Context, stock repository.StockRepository, items []model.LineItem) error {
	for _, d := range aggregateDemand(items) {
		entry, err := stock.FindByProduct(ctx, d.productID)
		if err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				return apperror.InsufficientStock("insufficient stock for %q: no stock entry", d.name)
			}
			return err
		}
		if entry.Quantity.LessThan(d.quantity) {
			return apperror.InsufficientStock("insufficient stock for %q: available %s, requested %s",
				d.name, entry.Quantity.String(), d.quantity.String())
		}
	}
	return nil
}

// moveStock applies sign*quantity for every product in items and returns the
// resulting ledger entries.
func moveStock(ctx context.Context, stock repository.StockRepository, items []model.LineItem, sign int64, actor model.Actor) ([]*model.StockEntry, error) {
	var touched []*model.StockEntry
	for _, d := range aggregateDemand(items) {
		entry, err := stock.Adjust(ctx, d.productID, d.quantity.Mul(decimal.NewFromInt(sign)), actor.Label())
		if err != nil {
			return nil, err
		}
		touched = append(touched, entry)
	}
	return touched, nil
}

func saleLineItems(items []model.SaleItem) []model.LineItem {
	out := make([]model.LineItem, len(items))
	for i, it := range items {
		out[i] = it.LineItem
	}
	return out
}

func commissionLineItems(items []model.CommissionItem) []model.LineItem {
	out := make([]model.LineItem, len(items))
	for i, it := range items {
		out[i] = it.LineItem
	}
	return out
}
