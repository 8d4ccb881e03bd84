package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that take part in one unit of work.
type Store interface {
	Products() ProductRepository
	Suppliers() SupplierRepository
	Customers() CustomerRepository
	Stock() StockRepository
	Sales() SaleRepository
	Commissions() CommissionRepository

	// WithTx runs fn inside a database transaction. Repositories obtained
	// from the Store passed to fn share that transaction; fn returning an
	// error rolls everything back.
	WithTx(ctx context.Context, fn func(tx Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Products() ProductRepository       { return NewProductRepo(s.db) }
func (s *gormStore) Suppliers() SupplierRepository     { return NewSupplierRepo(s.db) }
func (s *gormStore) Customers() CustomerRepository     { return NewCustomerRepo(s.db) }
func (s *gormStore) Stock() StockRepository            { return NewStockRepo(s.db) }
func (s *gormStore) Sales() SaleRepository             { return NewSaleRepo(s.db) }
func (s *gormStore) Commissions() CommissionRepository { return NewCommissionRepo(s.db) }

func (s *gormStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
