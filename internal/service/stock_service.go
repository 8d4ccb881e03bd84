package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go-bakery-pos/internal/model"
	"go-bakery-pos/internal/repository"
	"go-bakery-pos/pkg/apperror"
	"go-bakery-pos/pkg/validator"

	"github.com/shopspring/decimal"
)

type StockRequest struct {
	ProductID uint             `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal  `json:"quantity" validate:"gte=0"`
	Minimum   decimal.Decimal  `json:"minimum" validate:"gte=0"`
	Maximum   *decimal.Decimal `json:"maximum,omitempty" validate:"omitempty,gte=0"`
	Location  string           `json:"location"`
}

// ThresholdRequest updates the alert thresholds of an existing entry.
type ThresholdRequest struct {
	Minimum  decimal.Decimal  `json:"minimum" validate:"gte=0"`
	Maximum  *decimal.Decimal `json:"maximum,omitempty" validate:"omitempty,gte=0"`
	Location string           `json:"location"`
}

type StockService interface {
	List(ctx context.Context) ([]model.StockEntry, error)
	Get(ctx context.Context, id uint) (*model.StockEntry, error)
	GetByProduct(ctx context.Context, productID uint) (*model.StockEntry, error)
	BelowMinimum(ctx context.Context) ([]model.StockEntry, error)
	CheckAvailability(ctx context.Context, productID uint, needed decimal.Decimal) (bool, error)

	Create(ctx context.Context, req StockRequest, actor model.Actor) (*model.StockEntry, error)
	UpdateThresholds(ctx context.Context, id uint, req ThresholdRequest, actor model.Actor) (*model.StockEntry, error)
	SetQuantity(ctx context.Context, productID uint, qty decimal.Decimal, actor model.Actor) (*model.StockEntry, error)
	Adjust(ctx context.Context, productID uint, delta decimal.Decimal, actor model.Actor) (*model.StockEntry, error)
	Add(ctx context.Context, productID uint, qty decimal.Decimal, actor model.Actor) (*model.StockEntry, error)
	Subtract(ctx context.Context, productID uint, qty decimal.Decimal, actor model.Actor) (*model.StockEntry, error)
	Delete(ctx context.Context, id uint, actor model.Actor) error
}

type stockService struct {
	store  repository.Store
	notify notifier
	now    func() time.Time
}

func NewStockService(store repository.Store, events Publisher, cache CacheInvalidator, log *slog.Logger) StockService {
	return &stockService{store: store, notify: newNotifier(events, cache, log), now: time.Now}
}

func validationError(data interface{}) error {
	if errs := validator.ValidateStruct(data); len(errs) > 0 {
		return apperror.Validation("%s", validator.Message(errs))
	}
	return nil
}

func checkThresholds(min decimal.Decimal, max *decimal.Decimal) error {
	if max != nil && max.LessThan(min) {
		return apperror.Validation("maximum %s must not be below minimum %s", max.String(), min.String())
	}
	return nil
}

func (s *stockService) List(ctx context.Context) ([]model.StockEntry, error) {
	return s.store.Stock().FindAll(ctx)
}

func (s *stockService) Get(ctx context.Context, id uint) (*model.StockEntry, error) {
	return s.store.Stock().FindByID(ctx, id)
}

func (s *stockService) GetByProduct(ctx context.Context, productID uint) (*model.StockEntry, error) {
	return s.store.Stock().FindByProduct(ctx, productID)
}

func (s *stockService) BelowMinimum(ctx context.Context) ([]model.StockEntry, error) {
	return s.store.Stock().BelowMinimum(ctx)
}

// CheckAvailability reports quantity >= needed. A product without an entry
// is simply unavailable.
func (s *stockService) CheckAvailability(ctx context.Context, productID uint, needed decimal.Decimal) (bool, error) {
	entry, err := s.store.Stock().FindByProduct(ctx, productID)
	if errors.Is(err, apperror.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return entry.Quantity.GreaterThanOrEqual(needed), nil
}

func (s *stockService) Create(ctx context.Context, req StockRequest, actor model.Actor) (*model.StockEntry, error) {
	// 1. Validasi Struct Dasar
	if err := validationError(&req); err != nil {
		return nil, err
	}
	if err := checkThresholds(req.Minimum, req.Maximum); err != nil {
		return nil, err
	}

	entry := &model.StockEntry{
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		Minimum:     req.Minimum,
		Maximum:     req.Maximum,
		Location:    strings.TrimSpace(req.Location),
		LastUpdated: s.now(),
	}
	entry.CreatedBy = actor.Label()
	entry.UpdatedBy = actor.Label()

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		// 2. Product must exist and have no entry yet
		if _, err := tx.Products().FindByID(ctx, req.ProductID); err != nil {
			return err
		}
		_, err := tx.Stock().FindByProduct(ctx, req.ProductID)
		switch {
		case err == nil:
			return apperror.Conflict("product %d already has a stock entry", req.ProductID)
		case !errors.Is(err, apperror.ErrNotFound):
			return err
		}
		return tx.Stock().Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	created, err := s.store.Stock().FindByID(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	s.notify.stockChanged("entry_created", created, actor)
	s.notify.invalidate(ctx)
	return created, nil
}

func (s *stockService) UpdateThresholds(ctx context.Context, id uint, req ThresholdRequest, actor model.Actor) (*model.StockEntry, error) {
	if err := validationError(&req); err != nil {
		return nil, err
	}
	if err := checkThresholds(req.Minimum, req.Maximum); err != nil {
		return nil, err
	}

	err := s.store.Stock().UpdateThresholds(ctx, id, req.Minimum, req.Maximum, strings.TrimSpace(req.Location), actor.Label())
	if err != nil {
		return nil, err
	}
	entry, err := s.store.Stock().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.notify.stockChanged("thresholds_updated", entry, actor)
	s.notify.invalidate(ctx)
	return entry, nil
}

// SetQuantity overwrites the quantity, for stocktake corrections.
func (s *stockService) SetQuantity(ctx context.Context, productID uint, qty decimal.Decimal, actor model.Actor) (*model.StockEntry, error) {
	if qty.IsNegative() {
		return nil, apperror.Validation("quantity must be greater than or equal to 0")
	}
	entry, err := s.store.Stock().SetQuantity(ctx, productID, qty, actor.Label())
	if err != nil {
		return nil, err
	}
	s.notify.stockChanged("quantity_set", entry, actor)
	s.notify.invalidate(ctx)
	return entry, nil
}

func (s *stockService) Adjust(ctx context.Context, productID uint, delta decimal.Decimal, actor model.Actor) (*model.StockEntry, error) {
	entry, err := s.store.Stock().Adjust(ctx, productID, delta, actor.Label())
	if err != nil {
		return nil, err
	}
	action := "added"
	if delta.IsNegative() {
		action = "removed"
	}
	s.notify.stockChanged(action, entry, actor)
	s.notify.invalidate(ctx)
	return entry, nil
}

func (s *stockService) Add(ctx context.Context, productID uint, qty decimal.Decimal, actor model.Actor) (*model.StockEntry, error) {
	if !qty.IsPositive() {
		return nil, apperror.Validation("quantity must be greater than 0")
	}
	return s.Adjust(ctx, productID, qty, actor)
}

func (s *stockService) Subtract(ctx context.Context, productID uint, qty decimal.Decimal, actor model.Actor) (*model.StockEntry, error) {
	if !qty.IsPositive() {
		return nil, apperror.Validation("quantity must be greater than 0")
	}
	return s.Adjust(ctx, productID, qty.Neg(), actor)
}

func (s *stockService) Delete(ctx context.Context, id uint, actor model.Actor) error {
	if err := s.store.Stock().Delete(ctx, id); err != nil {
		return err
	}
	s.notify.catalogChanged("stock_entry_deleted", map[string]interface{}{"id": id}, actor,
		fmt.Sprintf("%s deleted stock entry #%d", actor.Name, id))
	s.notify.invalidate(ctx)
	return nil
}
