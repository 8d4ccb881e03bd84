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
)

type CustomerRequest struct {
	Name       string           `json:"name" validate:"required"`
	EntityType model.EntityType `json:"entity_type" validate:"omitempty,oneof=INDIVIDUAL COMPANY"`
	TaxID      string           `json:"tax_id"`
	Phone      string           `json:"phone"`
	Email      string           `json:"email" validate:"omitempty,email"`
	Address    string           `json:"address"`
	Active     *bool            `json:"active,omitempty"`
}

type CustomerService interface {
	List(ctx context.Context) ([]model.Customer, error)
	ListActive(ctx context.Context) ([]model.Customer, error)
	Get(ctx context.Context, id uint) (*model.Customer, error)
	GetByTaxID(ctx context.Context, raw string) (*model.Customer, error)
	SearchByName(ctx context.Context, name string) ([]model.Customer, error)
	Create(ctx context.Context, req CustomerRequest, actor model.Actor) (*model.Customer, error)
	Update(ctx context.Context, id uint, req CustomerRequest, actor model.Actor) (*model.Customer, error)
	Deactivate(ctx context.Context, id uint, actor model.Actor) error
	Delete(ctx context.Context, id uint, actor model.Actor) error
}

type customerService struct {
	store  repository.Store
	notify notifier
}

func NewCustomerService(store repository.Store, events Publisher, cache CacheInvalidator, log *slog.Logger) CustomerService {
	return &customerService{store: store, notify: newNotifier(events, cache, log)}
}

func (s *customerService) List(ctx context.Context) ([]model.Customer, error) {
	return s.store.Customers().FindAll(ctx)
}

func (s *customerService) ListActive(ctx context.Context) ([]model.Customer, error) {
	return s.store.Customers().FindActive(ctx)
}

func (s *customerService) Get(ctx context.Context, id uint) (*model.Customer, error) {
	return s.store.Customers().FindByID(ctx, id)
}

// GetByTaxID accepts a CPF or CNPJ with or without punctuation.
func (s *customerService) GetByTaxID(ctx context.Context, raw string) (*model.Customer, error) {
	tax := taxid.Normalize(raw)
	if len(tax) != taxid.IndividualLength && len(tax) != taxid.CompanyLength {
		return nil, apperror.Validation("tax id must have %d or %d digits", taxid.IndividualLength, taxid.CompanyLength)
	}
	return s.store.Customers().FindByTaxID(ctx, tax)
}

func (s *customerService) SearchByName(ctx context.Context, name string) ([]model.Customer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperror.Validation("nome is required")
	}
	return s.store.Customers().SearchByName(ctx, name)
}

// prepare validates req and returns the normalized tax id, or nil.
func (s *customerService) prepare(ctx context.Context, req *CustomerRequest, excludeID uint) (*string, error) {
	// 1. Validasi Struct Dasar
	req.Name = strings.TrimSpace(req.Name)
	req.EntityType = model.EntityType(strings.ToUpper(strings.TrimSpace(string(req.EntityType))))
	if err := validationError(req); err != nil {
		return nil, err
	}
	if req.EntityType == "" {
		req.EntityType = model.EntityIndividual
	}

	// 2. Normalize tax id for the entity type
	tax, err := taxid.Parse(req.TaxID, req.EntityType.TaxIDLength())
	if err != nil {
		return nil, apperror.Validation("%s", err.Error())
	}
	if tax == "" {
		return nil, nil
	}

	// 3. Unique across active and inactive customers
	taken, err := s.store.Customers().TaxIDTaken(ctx, tax, excludeID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.Conflict("tax id %s is already registered to another customer", tax)
	}
	return &tax, nil
}

func applyCustomer(c *model.Customer, req CustomerRequest, tax *string) {
	c.Name = req.Name
	c.EntityType = req.EntityType
	c.TaxID = tax
	c.Phone = strings.TrimSpace(req.Phone)
	c.Email = strings.TrimSpace(req.Email)
	c.Address = strings.TrimSpace(req.Address)
	if req.Active != nil {
		c.Active = *req.Active
	}
}

func (s *customerService) Create(ctx context.Context, req CustomerRequest, actor model.Actor) (*model.Customer, error) {
	tax, err := s.prepare(ctx, &req, 0)
	if err != nil {
		return nil, err
	}
	customer := &model.Customer{Active: true}
	applyCustomer(customer, req, tax)
	customer.CreatedBy = actor.Label()
	customer.UpdatedBy = actor.Label()

	if err := s.store.Customers().Create(ctx, customer); err != nil {
		return nil, err
	}
	s.notify.catalogChanged("customer_created", customer, actor, fmt.Sprintf("%s registered customer '%s'", actor.Name, customer.Name))
	return customer, nil
}

func (s *customerService) Update(ctx context.Context, id uint, req CustomerRequest, actor model.Actor) (*model.Customer, error) {
	customer, err := s.store.Customers().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tax, err := s.prepare(ctx, &req, id)
	if err != nil {
		return nil, err
	}
	applyCustomer(customer, req, tax)
	customer.UpdatedBy = actor.Label()

	if err := s.store.Customers().Update(ctx, customer); err != nil {
		return nil, err
	}
	s.notify.catalogChanged("customer_updated", customer, actor, fmt.Sprintf("%s updated customer '%s'", actor.Name, customer.Name))
	s.notify.invalidate(ctx)
	return customer, nil
}

func (s *customerService) Deactivate(ctx context.Context, id uint, actor model.Actor) error {
	if err := s.store.Customers().SetActive(ctx, id, false, actor.Label()); err != nil {
		return err
	}
	s.notify.catalogChanged("customer_deactivated", map[string]interface{}{"id": id}, actor,
		fmt.Sprintf("%s deactivated customer #%d", actor.Name, id))
	s.notify.invalidate(ctx)
	return nil
}

// Delete is rejected once the customer has any sale or commission.
func (s *customerService) Delete(ctx context.Context, id uint, actor model.Actor) error {
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Customers().FindByID(ctx, id); err != nil {
			return err
		}
		used, err := tx.Customers().HasTransactions(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return apperror.Conflict("customer %d has transaction history; deactivate it instead", id)
		}
		return tx.Customers().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.notify.catalogChanged("customer_deleted", map[string]interface{}{"id": id}, actor,
		fmt.Sprintf("%s deleted customer #%d", actor.Name, id))
	return nil
}
