package handler

import (
	"context"
	"log/slog"

	"go-bakery-pos/internal/model"
	"go-bakery-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type StockHandler struct {
	service service.StockService
	log     *slog.Logger
}

func NewStockHandler(s service.StockService, log *slog.Logger) *StockHandler {
	return &StockHandler{service: s, log: log}
}

func (h *StockHandler) GetEntries(c *fiber.Ctx) error {
	entries, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(entries)
}

// GetAlerts lists entries below their minimum.
func (h *StockHandler) GetAlerts(c *fiber.Ctx) error {
	entries, err := h.service.BelowMinimum(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(entries)
}

func (h *StockHandler) GetEntry(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	entry, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(entry)
}

func (h *StockHandler) GetByProduct(c *fiber.Ctx) error {
	productID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	entry, err := h.service.GetByProduct(c.UserContext(), productID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(entry)
}

func (h *StockHandler) CheckAvailability(c *fiber.Ctx) error {
	productID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	qty, err := readQuantity(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	ok, err := h.service.CheckAvailability(c.UserContext(), productID, qty)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"product_id": productID, "quantity": qty, "available": ok})
}

func (h *StockHandler) CreateEntry(c *fiber.Ctx) error {
	var req service.StockRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	entry, err := h.service.Create(c.UserContext(), req, getActor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Stock entry created", "data": entry})
}

func (h *StockHandler) UpdateThresholds(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	var req service.ThresholdRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	entry, err := h.service.UpdateThresholds(c.UserContext(), id, req, getActor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Stock entry updated", "data": entry})
}

func (h *StockHandler) DeleteEntry(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.service.Delete(c.UserContext(), id, getActor(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Stock entry deleted"})
}

func (h *StockHandler) SetQuantity(c *fiber.Ctx) error {
	return h.move(c, "Quantity set", h.service.SetQuantity)
}

func (h *StockHandler) AddQuantity(c *fiber.Ctx) error {
	return h.move(c, "Stock added", h.service.Add)
}

func (h *StockHandler) RemoveQuantity(c *fiber.Ctx) error {
	return h.move(c, "Stock removed", h.service.Subtract)
}

type stockMove func(ctx context.Context, productID uint, qty decimal.Decimal, actor model.Actor) (*model.StockEntry, error)

func (h *StockHandler) move(c *fiber.Ctx, msg string, fn stockMove) error {
	productID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	qty, err := readQuantity(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	entry, err := fn(c.UserContext(), productID, qty, getActor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": msg, "data": entry})
}
