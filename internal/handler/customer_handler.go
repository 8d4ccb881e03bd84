package handler

import (
	"log/slog"

	"go-bakery-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CustomerHandler struct {
	service service.CustomerService
	log     *slog.Logger
}

func NewCustomerHandler(s service.CustomerService, log *slog.Logger) *CustomerHandler {
	return &CustomerHandler{service: s, log: log}
}

func (h *CustomerHandler) GetCustomers(c *fiber.Ctx) error {
	customers, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(customers)
}

func (h *CustomerHandler) GetActiveCustomers(c *fiber.Ctx) error {
	customers, err := h.service.ListActive(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(customers)
}

func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	customer, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(customer)
}

func (h *CustomerHandler) GetCustomerByTaxID(c *fiber.Ctx) error {
	customer, err := h.service.GetByTaxID(c.UserContext(), c.Params("doc"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(customer)
}

// SearchCustomers handles GET /clientes/busca?nome=
func (h *CustomerHandler) SearchCustomers(c *fiber.Ctx) error {
	customers, err := h.service.SearchByName(c.UserContext(), c.Query("nome"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(customers)
}

func (h *CustomerHandler) CreateCustomer(c *fiber.Ctx) error {
	var req service.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	customer, err := h.service.Create(c.UserContext(), req, getActor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Customer created", "data": customer})
}

func (h *CustomerHandler) UpdateCustomer(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	var req service.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	customer, err := h.service.Update(c.UserContext(), id, req, getActor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Customer updated", "data": customer})
}

func (h *CustomerHandler) DeactivateCustomer(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.service.Deactivate(c.UserContext(), id, getActor(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Customer deactivated"})
}

func (h *CustomerHandler) DeleteCustomer(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.service.Delete(c.UserContext(), id, getActor(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Customer deleted"})
}
