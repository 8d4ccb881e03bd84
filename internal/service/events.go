package service

import (
	"context"
	"fmt"
	"log/slog"

	"go-bakery-pos/internal/model"
	"go-bakery-pos/internal/ws"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Publisher receives live events for websocket clients. *ws.Hub implements it.
type Publisher interface {
	Publish(ev ws.Event)
}

// CacheInvalidator is told about every committed write that changes report
// results. *cache.ReportCache implements it.
type CacheInvalidator interface {
	Bump(ctx context.Context) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(ws.Event) {}

type nopInvalidator struct{}

func (nopInvalidator) Bump(context.Context) error { return nil }

var moneyPrinter = message.NewPrinter(language.BrazilianPortuguese)

// formatMoney renders an amount the way receipts show it, e.g. "R$ 1.234,50".
func formatMoney(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return moneyPrinter.Sprintf("R$ %.2f", f)
}

// notifier bundles the post-commit side effects shared by the services.
type notifier struct {
	events Publisher
	cache  CacheInvalidator
	log    *slog.Logger
}

func newNotifier(events Publisher, cache CacheInvalidator, log *slog.Logger) notifier {
	if events == nil {
		events = nopPublisher{}
	}
	if cache == nil {
		cache = nopInvalidator{}
	}
	if log == nil {
		log = slog.Default()
	}
	return notifier{events: events, cache: cache, log: log}
}

func (n notifier) invalidate(ctx context.Context) {
	if err := n.cache.Bump(context.WithoutCancel(ctx)); err != nil {
		n.log.Warn("report cache bump failed", "err", err)
	}
}

// stockChanged publishes the new ledger state and, when it fell under the
// minimum, an alert.
func (n notifier) stockChanged(action string, entry *model.StockEntry, actor model.Actor) {
	name := fmt.Sprintf("product %d", entry.ProductID)
	if entry.ProductName != nil {
		name = *entry.ProductName
	}
	data := map[string]interface{}{
		"product_id":   entry.ProductID,
		"product_name": name,
		"quantity":     entry.Quantity,
		"minimum":      entry.Minimum,
	}
	n.events.Publish(ws.Event{
		Type:    ws.TypeStockUpdate,
		Action:  action,
		Data:    data,
		User:    actor,
		Message: fmt.Sprintf("%s: %s now at %s", actor.Name, name, entry.Quantity.String()),
	})
	if entry.BelowMinimum() {
		n.events.Publish(ws.Event{
			Type:    ws.TypeStockAlert,
			Action:  "below_minimum",
			Data:    data,
			User:    actor,
			Message: fmt.Sprintf("%s below minimum (%s < %s)", name, entry.Quantity.String(), entry.Minimum.String()),
		})
	}
}

func (n notifier) catalogChanged(action string, data interface{}, actor model.Actor, msg string) {
	n.events.Publish(ws.Event{Type: ws.TypeCatalogUpdate, Action: action, Data: data, User: actor, Message: msg})
}

func (n notifier) transactionChanged(action string, data interface{}, actor model.Actor, msg string) {
	n.events.Publish(ws.Event{Type: ws.TypeTransactionUpdate, Action: action, Data: data, User: actor, Message: msg})
}
