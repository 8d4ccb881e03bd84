package handler

import (
	"log/slog"

	"go-bakery-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
	log     *slog.Logger
}

func NewReportHandler(s service.ReportService, log *slog.Logger) *ReportHandler {
	return &ReportHandler{service: s, log: log}
}

// GetSalesSummary handles GET /relatorios/vendas?inicio=&fim= (defaults to today)
func (h *ReportHandler) GetSalesSummary(c *fiber.Ctx) error {
	p, err := parsePeriod(c, true)
	if err != nil {
		return respondError(c, h.log, err)
	}
	summary, err := h.service.SalesSummary(c.UserContext(), p)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"period": p, "data": summary})
}

func (h *ReportHandler) GetTopProducts(c *fiber.Ctx) error {
	p, err := parsePeriod(c, true)
	if err != nil {
		return respondError(c, h.log, err)
	}
	rows, err := h.service.TopProducts(c.UserContext(), p)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"period": p, "data": rows})
}

func (h *ReportHandler) GetPaymentMethods(c *fiber.Ctx) error {
	p, err := parsePeriod(c, true)
	if err != nil {
		return respondError(c, h.log, err)
	}
	rows, err := h.service.PaymentMethods(c.UserContext(), p)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"period": p, "data": rows})
}

func (h *ReportHandler) GetLowStock(c *fiber.Ctx) error {
	rows, err := h.service.LowStock(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(rows)
}

func (h *ReportHandler) GetCommissionsByStatus(c *fiber.Ctx) error {
	rows, err := h.service.CommissionsByStatus(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(rows)
}

func (h *ReportHandler) GetTopCustomers(c *fiber.Ctx) error {
	rows, err := h.service.TopCustomers(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(rows)
}

func (h *ReportHandler) GetDashboard(c *fiber.Ctx) error {
	p, err := parsePeriod(c, true)
	if err != nil {
		return respondError(c, h.log, err)
	}
	d, err := h.service.Dashboard(c.UserContext(), p)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(d)
}
