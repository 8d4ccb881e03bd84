package handler

import (
	"log/slog"

	"go-bakery-pos/internal/model"
	"go-bakery-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler serves both transaction kinds through one orchestrator.
type OrderHandler struct {
	service service.OrderService
	log     *slog.Logger
}

func NewOrderHandler(s service.OrderService, log *slog.Logger) *OrderHandler {
	return &OrderHandler{service: s, log: log}
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) GetSales(c *fiber.Ctx) error {
	sales, err := h.service.ListSales(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(sales)
}

func (h *OrderHandler) GetSale(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	sale, err := h.service.GetSale(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(sale)
}

// GetSalesByPeriod handles GET /vendas/periodo?inicio=YYYY-MM-DD&fim=YYYY-MM-DD
func (h *OrderHandler) GetSalesByPeriod(c *fiber.Ctx) error {
	p, err := parsePeriod(c, false)
	if err != nil {
		return respondError(c, h.log, err)
	}
	sales, err := h.service.SalesByPeriod(c.UserContext(), p.Start, p.End)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(sales)
}

func (h *OrderHandler) GetTotalByPeriod(c *fiber.Ctx) error {
	p, err := parsePeriod(c, false)
	if err != nil {
		return respondError(c, h.log, err)
	}
	total, err := h.service.TotalByPeriod(c.UserContext(), p.Start, p.End)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"period": p, "total": total})
}

func (h *OrderHandler) CreateSale(c *fiber.Ctx) error {
	var req service.SaleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	sale, err := h.service.CreateSale(c.UserContext(), req, getActor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Sale registered", "data": sale})
}

func (h *OrderHandler) UpdateSaleStatus(c *fiber.Ctx) error {
	return h.updateStatus(c, model.KindSale)
}

func (h *OrderHandler) DeleteSale(c *fiber.Ctx) error {
	return h.delete(c, model.KindSale)
}

func (h *OrderHandler) GetCommissions(c *fiber.Ctx) error {
	commissions, err := h.service.ListCommissions(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(commissions)
}

func (h *OrderHandler) GetCommission(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	commission, err := h.service.GetCommission(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(commission)
}

func (h *OrderHandler) GetCommissionsByStatus(c *fiber.Ctx) error {
	commissions, err := h.service.CommissionsByStatus(c.UserContext(), c.Params("status"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(commissions)
}

func (h *OrderHandler) GetCommissionsByDeliveryDate(c *fiber.Ctx) error {
	day, err := parseDay(c.Params("data"), "data")
	if err != nil {
		return respondError(c, h.log, err)
	}
	commissions, err := h.service.CommissionsByDeliveryDate(c.UserContext(), day)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(commissions)
}

func (h *OrderHandler) CreateCommission(c *fiber.Ctx) error {
	var req service.CommissionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	commission, err := h.service.CreateCommission(c.UserContext(), req, getActor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Commission registered", "data": commission})
}

func (h *OrderHandler) UpdateCommissionStatus(c *fiber.Ctx) error {
	return h.updateStatus(c, model.KindCommission)
}

func (h *OrderHandler) DeleteCommission(c *fiber.Ctx) error {
	return h.delete(c, model.KindCommission)
}

func (h *OrderHandler) updateStatus(c *fiber.Ctx, kind model.Kind) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	if err := h.service.UpdateStatus(c.UserContext(), kind, id, req.Status, getActor(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Status updated"})
}

func (h *OrderHandler) delete(c *fiber.Ctx, kind model.Kind) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.service.Delete(c.UserContext(), kind, id, getActor(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Deleted"})
}
