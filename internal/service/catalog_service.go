package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go-bakery-pos/internal/model"
	"go-bakery-pos/internal/repository"
	"go-bakery-pos/pkg/apperror"
	"go-bakery-pos/pkg/taxid"

	"github.com/shopspring/decimal"
)

type ProductRequest struct {
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Price       decimal.Decimal  `json:"price" validate:"gte=0"`
	CostPrice   *decimal.Decimal `json:"cost_price,omitempty" validate:"omitempty,gte=0"`
	Unit        string           `json:"unit"`
	SupplierID  *uint            `json:"supplier_id,omitempty"`
	Active      *bool            `json:"active,omitempty"`
}

type SupplierRequest struct {
	Name    string `json:"name" validate:"required"`
	TaxID   string `json:"tax_id"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
	Active  *bool  `json:"active,omitempty"`
}

type CatalogService interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	ListActiveProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
	ProductsByCategory(ctx context.Context, category string) ([]model.Product, error)
	CreateProduct(ctx context.Context, req ProductRequest, actor model.Actor) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uint, req ProductRequest, actor model.Actor) (*model.Product, error)
	DeactivateProduct(ctx context.Context, id uint, actor model.Actor) error
	DeleteProduct(ctx context.Context, id uint, actor model.Actor) error

	ListSuppliers(ctx context.Context) ([]model.Supplier, error)
	ListActiveSuppliers(ctx context.Context) ([]model.Supplier, error)
	GetSupplier(ctx context.Context, id uint) (*model.Supplier, error)
	GetSupplierByTaxID(ctx context.Context, raw string) (*model.Supplier, error)
	CreateSupplier(ctx context.Context, req SupplierRequest, actor model.Actor) (*model.Supplier, error)
	UpdateSupplier(ctx context.Context, id uint, req SupplierRequest, actor model.Actor) (*model.Supplier, error)
	DeactivateSupplier(ctx context.Context, id uint, actor model.Actor) error
	DeleteSupplier(ctx context.Context, id uint, actor model.Actor) error
}

type catalogService struct {
	store  repository.Store
	notify notifier
}

func NewCatalogService(store repository.Store, events Publisher, cache CacheInvalidator, log *slog.Logger) CatalogService {
	return &catalogService{store: store, notify: newNotifier(events, cache, log)}
}

func (s *catalogService) validateProduct(ctx context.Context, req *ProductRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if err := validationError(req); err != nil {
		return err
	}
	if req.CostPrice != nil && req.CostPrice.GreaterThan(req.Price) {
		return apperror.Validation("cost_price %s must not exceed price %s", req.CostPrice.String(), req.Price.String())
	}
	if req.SupplierID != nil {
		if _, err := s.store.Suppliers().FindByID(ctx, *req.SupplierID); err != nil {
			return err
		}
	}
	return nil
}

func applyProduct(p *model.Product, req ProductRequest) {
	p.Name = req.Name
	p.Description = strings.TrimSpace(req.Description)
	p.Category = strings.TrimSpace(req.Category)
	p.Price = req.Price
	p.CostPrice = req.CostPrice
	p.Unit = strings.TrimSpace(req.Unit)
	p.SupplierID = req.SupplierID
	if req.Active != nil {
		p.Active = *req.Active
	}
}

func (s *catalogService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.store.Products().FindAll(ctx)
}

func (s *catalogService) ListActiveProducts(ctx context.Context) ([]model.Product, error) {
	return s.store.Products().FindActive(ctx)
}

func (s *catalogService) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	return s.store.Products().FindByID(ctx, id)
}

func (s *catalogService) ProductsByCategory(ctx context.Context, category string) ([]model.Product, error) {
	return s.store.Products().FindByCategory(ctx, strings.TrimSpace(category))
}

func (s *catalogService) CreateProduct(ctx context.Context, req ProductRequest, actor model.Actor) (*model.Product, error) {
	// 1. Validasi
	if err := s.validateProduct(ctx, &req); err != nil {
		return nil, err
	}

	// 2. New products start active unless stated otherwise
	product := &model.Product{Active: true}
	applyProduct(product, req)
	product.CreatedBy = actor.Label()
	product.UpdatedBy = actor.Label()

	// 3. Simpan
	if err := s.store.Products().Create(ctx, product); err != nil {
		return nil, err
	}

	// 4. Broadcast
	s.notify.catalogChanged("product_created", product, actor, fmt.Sprintf("%s created product '%s'", actor.Name, product.Name))
	s.notify.invalidate(ctx)
	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uint, req ProductRequest, actor model.Actor) (*model.Product, error) {
	if err := s.validateProduct(ctx, &req); err != nil {
		return nil, err
	}

	product, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyProduct(product, req)
	product.UpdatedBy = actor.Label()

	if err := s.store.Products().Update(ctx, product); err != nil {
		return nil, err
	}
	// Reload so the supplier display name follows a supplier change
	if product, err = s.store.Products().FindByID(ctx, id); err != nil {
		return nil, err
	}

	s.notify.catalogChanged("product_updated", product, actor, fmt.Sprintf("%s updated product '%s'", actor.Name, product.Name))
	s.notify.invalidate(ctx)
	return product, nil
}

// DeactivateProduct only flips the flag and never fails on references.
func (s *catalogService) DeactivateProduct(ctx context.Context, id uint, actor model.Actor) error {
	if err := s.store.Products().SetActive(ctx, id, false, actor.Label()); err != nil {
		return err
	}
	s.notify.catalogChanged("product_deactivated", map[string]interface{}{"id": id}, actor,
		fmt.Sprintf("%s deactivated product #%d", actor.Name, id))
	s.notify.invalidate(ctx)
	return nil
}

// DeleteProduct is rejected while stock or any transaction references the product.
func (s *catalogService) DeleteProduct(ctx context.Context, id uint, actor model.Actor) error {
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Products().FindByID(ctx, id); err != nil {
			return err
		}
		referenced, err := tx.Products().IsReferenced(ctx, id)
		if err != nil {
			return err
		}
		if referenced {
			return apperror.Conflict("product %d is referenced by stock or transactions; deactivate it instead", id)
		}
		return tx.Products().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.notify.catalogChanged("product_deleted", map[string]interface{}{"id": id}, actor,
		fmt.Sprintf("%s deleted product #%d", actor.Name, id))
	s.notify.invalidate(ctx)
	return nil
}

func (s *catalogService) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	return s.store.Suppliers().FindAll(ctx)
}

func (s *catalogService) ListActiveSuppliers(ctx context.Context) ([]model.Supplier, error) {
	return s.store.Suppliers().FindActive(ctx)
}

func (s *catalogService) GetSupplier(ctx context.Context, id uint) (*model.Supplier, error) {
	return s.store.Suppliers().FindByID(ctx, id)
}

func (s *catalogService) GetSupplierByTaxID(ctx context.Context, raw string) (*model.Supplier, error) {
	tax, err := taxid.Parse(raw, taxid.CompanyLength)
	if err != nil {
		return nil, apperror.Validation("%s", err.Error())
	}
	if tax == "" {
		return nil, apperror.Validation("tax id is required")
	}
	return s.store.Suppliers().FindByTaxID(ctx, tax)
}

// prepareSupplier validates req and returns the normalized tax id, or nil.
func (s *catalogService) prepareSupplier(ctx context.Context, req *SupplierRequest, excludeID uint) (*string, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validationError(req); err != nil {
		return nil, err
	}
	tax, err := taxid.Parse(req.TaxID, taxid.CompanyLength)
	if err != nil {
		return nil, apperror.Validation("%s", err.Error())
	}
	if tax == "" {
		return nil, nil
	}
	taken, err := s.store.Suppliers().TaxIDTaken(ctx, tax, excludeID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.Conflict("tax id %s is already registered to another supplier", tax)
	}
	return &tax, nil
}

func applySupplier(sp *model.Supplier, req SupplierRequest, tax *string) {
	sp.Name = req.Name
	sp.TaxID = tax
	sp.Phone = strings.TrimSpace(req.Phone)
	sp.Email = strings.TrimSpace(req.Email)
	sp.Address = strings.TrimSpace(req.Address)
	if req.Active != nil {
		sp.Active = *req.Active
	}
}

func (s *catalogService) CreateSupplier(ctx context.Context, req SupplierRequest, actor model.Actor) (*model.Supplier, error) {
	tax, err := s.prepareSupplier(ctx, &req, 0)
	if err != nil {
		return nil, err
	}
	supplier := &model.Supplier{Active: true}
	applySupplier(supplier, req, tax)
	supplier.CreatedBy = actor.Label()
	supplier.UpdatedBy = actor.Label()

	if err := s.store.Suppliers().Create(ctx, supplier); err != nil {
		return nil, err
	}
	s.notify.catalogChanged("supplier_created", supplier, actor, fmt.Sprintf("%s created supplier '%s'", actor.Name, supplier.Name))
	return supplier, nil
}

func (s *catalogService) UpdateSupplier(ctx context.Context, id uint, req SupplierRequest, actor model.Actor) (*model.Supplier, error) {
	supplier, err := s.store.Suppliers().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tax, err := s.prepareSupplier(ctx, &req, id)
	if err != nil {
		return nil, err
	}
	applySupplier(supplier, req, tax)
	supplier.UpdatedBy = actor.Label()

	if err := s.store.Suppliers().Update(ctx, supplier); err != nil {
		return nil, err
	}
	s.notify.catalogChanged("supplier_updated", supplier, actor, fmt.Sprintf("%s updated supplier '%s'", actor.Name, supplier.Name))
	return supplier, nil
}

func (s *catalogService) DeactivateSupplier(ctx context.Context, id uint, actor model.Actor) error {
	if err := s.store.Suppliers().SetActive(ctx, id, false, actor.Label()); err != nil {
		return err
	}
	s.notify.catalogChanged("supplier_deactivated", map[string]interface{}{"id": id}, actor,
		fmt.Sprintf("%s deactivated supplier #%d", actor.Name, id))
	return nil
}

// DeleteSupplier is rejected while any product points at the supplier.
func (s *catalogService) DeleteSupplier(ctx context.Context, id uint, actor model.Actor) error {
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Suppliers().FindByID(ctx, id); err != nil {
			return err
		}
		count, err := tx.Products().CountBySupplier(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return apperror.Conflict("supplier %d is referenced by %d product(s); deactivate it instead", id, count)
		}
		return tx.Suppliers().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.notify.catalogChanged("supplier_deleted", map[string]interface{}{"id": id}, actor,
		fmt.Sprintf("%s deleted supplier #%d", actor.Name, id))
	return nil
}
