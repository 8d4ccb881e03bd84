package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go-bakery-pos/internal/model"
	"go-bakery-pos/internal/repository"
	"go-bakery-pos/pkg/apperror"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// StockPolicy decides when a commission touches the stock ledger.
type StockPolicy string

const (
	// PolicyNone never moves stock for commissions.
	PolicyNone StockPolicy = "none"
	// PolicyReserve deducts at creation and returns on cancel or delete.
	PolicyReserve StockPolicy = "reserve"
	// PolicyFulfil deducts when the commission is delivered.
	PolicyFulfil StockPolicy = "fulfil"
)

func ParseStockPolicy(raw string) (StockPolicy, error) {
	switch p := StockPolicy(strings.ToLower(strings.TrimSpace(raw))); p {
	case "":
		return PolicyNone, nil
	case PolicyNone, PolicyReserve, PolicyFulfil:
		return p, nil
	default:
		return "", fmt.Errorf("unknown commission stock policy %q", raw)
	}
}

// StatusHook is called after a status change has been committed.
type StatusHook interface {
	OnStatusChange(ctx context.Context, kind model.Kind, id uint, from, to model.Status)
}

// StatusHookFunc adapts a function to StatusHook.
type StatusHookFunc func(ctx context.Context, kind model.Kind, id uint, from, to model.Status)

func (f StatusHookFunc) OnStatusChange(ctx context.Context, kind model.Kind, id uint, from, to model.Status) {
	f(ctx, kind, id, from, to)
}

// LogStatusHook records every committed status change.
func LogStatusHook(log *slog.Logger) StatusHook {
	return StatusHookFunc(func(ctx context.Context, kind model.Kind, id uint, from, to model.Status) {
		log.InfoContext(ctx, "transaction status changed", "kind", kind, "id", id, "from", from, "to", to)
	})
}

type SaleRequest struct {
	CustomerID    *uint            `json:"customer_id,omitempty"`
	Items         []LineRequest    `json:"items"`
	PaymentMethod string           `json:"payment_method"`
	Discount      *decimal.Decimal `json:"discount,omitempty"`
	Notes         string           `json:"notes"`
}

type CommissionRequest struct {
	CustomerID   uint             `json:"customer_id"`
	DeliveryDate string           `json:"delivery_date"` // YYYY-MM-DD
	Items        []LineRequest    `json:"items"`
	DownPayment  *decimal.Decimal `json:"down_payment,omitempty"`
	Notes        string           `json:"notes"`
}

type OrderService interface {
	CreateSale(ctx context.Context, req SaleRequest, actor model.Actor) (*model.Sale, error)
	CreateCommission(ctx context.Context, req CommissionRequest, actor model.Actor) (*model.Commission, error)
	UpdateStatus(ctx context.Context, kind model.Kind, id uint, status string, actor model.Actor) error
	Delete(ctx context.Context, kind model.Kind, id uint, actor model.Actor) error

	ListSales(ctx context.Context) ([]model.Sale, error)
	GetSale(ctx context.Context, id uint) (*model.Sale, error)
	SalesByPeriod(ctx context.Context, start, end time.Time) ([]model.Sale, error)
	TotalByPeriod(ctx context.Context, start, end time.Time) (decimal.Decimal, error)

	ListCommissions(ctx context.Context) ([]model.Commission, error)
	GetCommission(ctx context.Context, id uint) (*model.Commission, error)
	CommissionsByStatus(ctx context.Context, status string) ([]model.Commission, error)
	CommissionsByDeliveryDate(ctx context.Context, day time.Time) ([]model.Commission, error)
}

// OrderOptions configures the orchestrator. Zero values mean PolicyNone,
// time.Now and no hooks.
type OrderOptions struct {
	Policy StockPolicy
	Now    func() time.Time
	Hooks  []StatusHook
}

type orderService struct {
	store  repository.Store
	notify notifier
	policy StockPolicy
	now    func() time.Time
	hooks  []StatusHook
}

func NewOrderService(store repository.Store, events Publisher, cache CacheInvalidator, log *slog.Logger, opts OrderOptions) OrderService {
	if opts.Policy == "" {
		opts.Policy = PolicyNone
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &orderService{
		store:  store,
		notify: newNotifier(events, cache, log),
		policy: opts.Policy,
		now:    opts.Now,
		hooks:  opts.Hooks,
	}
}

func parsePaymentMethod(raw string) (model.PaymentMethod, error) {
	if strings.TrimSpace(raw) == "" {
		return "", apperror.Validation("payment_method is required")
	}
	m := model.PaymentMethod(strings.ToUpper(strings.TrimSpace(raw)))
	for _, allowed := range model.PaymentMethods {
		if m == allowed {
			return m, nil
		}
	}
	return "", apperror.Validation("payment_method must be one of CASH, DEBIT, CREDIT, PIX")
}

func nonNegative(field string, v *decimal.Decimal) (decimal.Decimal, error) {
	if v == nil {
		return decimal.Zero, nil
	}
	if v.IsNegative() {
		return decimal.Zero, apperror.Validation("%s must not be negative", field)
	}
	return *v, nil
}

func (s *orderService) CreateSale(ctx context.Context, req SaleRequest, actor model.Actor) (*model.Sale, error) {
	// 1. Validasi input
	if err := validateLines(req.Items); err != nil {
		return nil, err
	}
	method, err := parsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}
	discount, err := nonNegative("discount", req.Discount)
	if err != nil {
		return nil, err
	}

	var sale *model.Sale
	var touched []*model.StockEntry

	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		// 2. Customer is optional but must exist when given
		if req.CustomerID != nil {
			if _, err := tx.Customers().FindByID(ctx, *req.CustomerID); err != nil {
				return err
			}
		}

		// 3. Price the lines
		items, total, err := priceLines(ctx, tx.Products(), req.Items)
		if err != nil {
			return err
		}
		final := total.Sub(discount)
		if final.IsNegative() {
			return apperror.Validation("discount %s exceeds total %s", discount.String(), total.String())
		}

		// 4. Reject the whole sale when any product is short
		if err := precheckStock(ctx, tx.Stock(), items); err != nil {
			return err
		}

		// 5. Persist header and items
		sale = &model.Sale{
			CustomerID:    req.CustomerID,
			SoldAt:        s.now(),
			Status:        model.StatusFinalized,
			Total:         total,
			Discount:      discount,
			FinalAmount:   final,
			PaymentMethod: method,
			Notes:         strings.TrimSpace(req.Notes),
		}
		sale.CreatedBy = actor.Label()
		sale.UpdatedBy = actor.Label()
		for _, it := range items {
			sale.Items = append(sale.Items, model.SaleItem{LineItem: it})
		}
		if err := tx.Sales().Create(ctx, sale); err != nil {
			return err
		}

		// 6. Deduct stock; the conditional update is the final guard
		touched, err = moveStock(ctx, tx.Stock(), items, -1, actor)
		return err
	})
	if err != nil {
		return nil, err
	}

	// 7. Side effects only after commit
	s.notify.transactionChanged("sale_created", transactionData(model.KindSale, sale.ID, sale.Status, sale.FinalAmount), actor,
		fmt.Sprintf("%s registered sale #%d (%s)", actor.Name, sale.ID, formatMoney(sale.FinalAmount)))
	s.afterStockMove("sale_created", touched, actor)
	s.notify.invalidate(ctx)

	return s.store.Sales().FindByID(ctx, sale.ID)
}

func (s *orderService) CreateCommission(ctx context.Context, req CommissionRequest, actor model.Actor) (*model.Commission, error) {
	// 1. Validasi input
	if err := validateLines(req.Items); err != nil {
		return nil, err
	}
	if req.CustomerID == 0 {
		return nil, apperror.Validation("customer_id is required")
	}
	delivery, err := s.parseDeliveryDate(req.DeliveryDate)
	if err != nil {
		return nil, err
	}
	downPayment, err := nonNegative("down_payment", req.DownPayment)
	if err != nil {
		return nil, err
	}

	var commission *model.Commission
	var touched []*model.StockEntry

	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		// 2. Customer is mandatory
		if _, err := tx.Customers().FindByID(ctx, req.CustomerID); err != nil {
			return err
		}

		// 3. Price the lines
		items, total, err := priceLines(ctx, tx.Products(), req.Items)
		if err != nil {
			return err
		}
		if downPayment.GreaterThan(total) {
			return apperror.Validation("down payment %s exceeds total %s", downPayment.String(), total.String())
		}

		commission = &model.Commission{
			CustomerID:   req.CustomerID,
			OrderedAt:    s.now(),
			DeliveryDate: delivery,
			Status:       model.StatusPending,
			Total:        total,
			DownPayment:  downPayment,
			BalanceDue:   total.Sub(downPayment),
			Notes:        strings.TrimSpace(req.Notes),
		}
		commission.CreatedBy = actor.Label()
		commission.UpdatedBy = actor.Label()
		for _, it := range items {
			commission.Items = append(commission.Items, model.CommissionItem{LineItem: it})
		}

		// 4. Reserve stock up front when configured
		if s.policy == PolicyReserve {
			if err := precheckStock(ctx, tx.Stock(), items); err != nil {
				return err
			}
			commission.StockCommitted = true
		}

		// 5. Persist header and items
		if err := tx.Commissions().Create(ctx, commission); err != nil {
			return err
		}

		if commission.StockCommitted {
			touched, err = moveStock(ctx, tx.Stock(), items, -1, actor)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 6. Side effects only after commit
	s.notify.transactionChanged("commission_created", transactionData(model.KindCommission, commission.ID, commission.Status, commission.Total), actor,
		fmt.Sprintf("%s registered commission #%d for %s (%s)", actor.Name, commission.ID, delivery.Format(DateLayout), formatMoney(commission.Total)))
	s.afterStockMove("commission_reserved", touched, actor)
	s.notify.invalidate(ctx)

	return s.store.Commissions().FindByID(ctx, commission.ID)
}

// parseDeliveryDate requires a calendar date that is not before today.
func (s *orderService) parseDeliveryDate(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, apperror.Validation("delivery_date is required")
	}
	now := s.now()
	day, err := time.ParseInLocation(DateLayout, strings.TrimSpace(raw), now.Location())
	if err != nil {
		return time.Time{}, apperror.Validation("delivery_date must be a date in YYYY-MM-DD format")
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) {
		return time.Time{}, apperror.Validation("delivery_date %s is before today", day.Format(DateLayout))
	}
	return day, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, kind model.Kind, id uint, raw string, actor model.Actor) error {
	// 1. Unknown statuses fail before anything is touched
	to, err := parseStatus(kind, raw)
	if err != nil {
		return err
	}

	var from model.Status
	var touched []*model.StockEntry

	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		switch kind {
		case model.KindSale:
			sale, err := tx.Sales().FindByID(ctx, id)
			if err != nil {
				return err
			}
			from = sale.Status
			if from == to {
				return nil
			}
			if err := checkTransition(kind, from, to); err != nil {
				return err
			}
			// 2. A cancelled sale hands its stock back
			if to == model.StatusCancelled {
				if touched, err = moveStock(ctx, tx.Stock(), saleLineItems(sale.Items), 1, actor); err != nil {
					return err
				}
			}
			return tx.Sales().UpdateStatus(ctx, id, to, actor.Label())

		default:
			commission, err := tx.Commissions().FindByID(ctx, id)
			if err != nil {
				return err
			}
			from = commission.Status
			if from == to {
				return nil
			}
			if err := checkTransition(kind, from, to); err != nil {
				return err
			}

			// 3. Ledger effects depend on the stock policy
			committed := commission.StockCommitted
			items := commissionLineItems(commission.Items)
			switch {
			case to == model.StatusCancelled && committed:
				if touched, err = moveStock(ctx, tx.Stock(), items, 1, actor); err != nil {
					return err
				}
				committed = false
			case to == model.StatusDelivered && s.policy == PolicyFulfil && !committed:
				if touched, err = moveStock(ctx, tx.Stock(), items, -1, actor); err != nil {
					return err
				}
				committed = true
			}
			return tx.Commissions().UpdateStatus(ctx, id, to, committed, actor.Label())
		}
	})
	if err != nil {
		return err
	}
	if from == to {
		return nil
	}

	// 4. Hooks and events after commit
	for _, h := range s.hooks {
		h.OnStatusChange(ctx, kind, id, from, to)
	}
	s.notify.transactionChanged("status_changed",
		map[string]interface{}{"kind": kind, "id": id, "from": from, "to": to}, actor,
		fmt.Sprintf("%s moved %s #%d from %s to %s", actor.Name, strings.ToLower(string(kind)), id, from, to))
	s.afterStockMove("status_changed", touched, actor)
	s.notify.invalidate(ctx)
	return nil
}

func (s *orderService) Delete(ctx context.Context, kind model.Kind, id uint, actor model.Actor) error {
	var touched []*model.StockEntry

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		switch kind {
		case model.KindSale:
			sale, err := tx.Sales().FindByID(ctx, id)
			if err != nil {
				return err
			}
			// Cancelled sales already returned their stock
			if sale.Status != model.StatusCancelled {
				if touched, err = moveStock(ctx, tx.Stock(), saleLineItems(sale.Items), 1, actor); err != nil {
					return err
				}
			}
			return tx.Sales().Delete(ctx, id)

		case model.KindCommission:
			commission, err := tx.Commissions().FindByID(ctx, id)
			if err != nil {
				return err
			}
			if commission.Status == model.StatusDelivered {
				return apperror.Validation("commission #%d was delivered and cannot be deleted", id)
			}
			if commission.StockCommitted {
				if touched, err = moveStock(ctx, tx.Stock(), commissionLineItems(commission.Items), 1, actor); err != nil {
					return err
				}
			}
			return tx.Commissions().Delete(ctx, id)

		default:
			return apperror.Validation("unknown transaction kind %q", kind)
		}
	})
	if err != nil {
		return err
	}

	s.notify.transactionChanged("deleted", map[string]interface{}{"kind": kind, "id": id}, actor,
		fmt.Sprintf("%s deleted %s #%d", actor.Name, strings.ToLower(string(kind)), id))
	s.afterStockMove("transaction_deleted", touched, actor)
	s.notify.invalidate(ctx)
	return nil
}

func (s *orderService) afterStockMove(action string, touched []*model.StockEntry, actor model.Actor) {
	for _, entry := range touched {
		s.notify.stockChanged(action, entry, actor)
	}
}

func transactionData(kind model.Kind, id uint, status model.Status, amount decimal.Decimal) map[string]interface{} {
	return map[string]interface{}{
		"kind":   kind,
		"id":     id,
		"status": status,
		"amount": amount.Round(2),
	}
}

func (s *orderService) ListSales(ctx context.Context) ([]model.Sale, error) {
	return s.store.Sales().FindAll(ctx)
}

func (s *orderService) GetSale(ctx context.Context, id uint) (*model.Sale, error) {
	return s.store.Sales().FindByID(ctx, id)
}

func checkPeriod(start, end time.Time) error {
	if end.Before(start) {
		return apperror.Validation("period start must not be after its end")
	}
	return nil
}

// SalesByPeriod returns sales with start <= sold_at < end.
func (s *orderService) SalesByPeriod(ctx context.Context, start, end time.Time) ([]model.Sale, error) {
	if err := checkPeriod(start, end); err != nil {
		return nil, err
	}
	return s.store.Sales().FindByPeriod(ctx, start, end)
}

func (s *orderService) TotalByPeriod(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	if err := checkPeriod(start, end); err != nil {
		return decimal.Zero, err
	}
	return s.store.Sales().TotalByPeriod(ctx, start, end)
}

func (s *orderService) ListCommissions(ctx context.Context) ([]model.Commission, error) {
	return s.store.Commissions().FindAll(ctx)
}

func (s *orderService) GetCommission(ctx context.Context, id uint) (*model.Commission, error) {
	return s.store.Commissions().FindByID(ctx, id)
}

func (s *orderService) CommissionsByStatus(ctx context.Context, raw string) ([]model.Commission, error) {
	status, err := parseStatus(model.KindCommission, raw)
	if err != nil {
		return nil, err
	}
	return s.store.Commissions().FindByStatus(ctx, status)
}

func (s *orderService) CommissionsByDeliveryDate(ctx context.Context, day time.Time) ([]model.Commission, error) {
	return s.store.Commissions().FindByDeliveryDate(ctx, day)
}
