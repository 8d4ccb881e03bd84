package handler

import (
	"log/slog"

	"go-bakery-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	service service.CatalogService
	log     *slog.Logger
}

func NewCatalogHandler(s service.CatalogService, log *slog.Logger) *CatalogHandler {
	return &CatalogHandler{service: s, log: log}
}

func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(products)
}

func (h *CatalogHandler) GetActiveProducts(c *fiber.Ctx) error {
	products, err := h.service.ListActiveProducts(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(products)
}

func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(product)
}

func (h *CatalogHandler) GetProductsByCategory(c *fiber.Ctx) error {
	products, err := h.service.ProductsByCategory(c.UserContext(), c.Params("categoria"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(products)
}

func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	product, err := h.service.CreateProduct(c.UserContext(), req, getActor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	product, err := h.service.UpdateProduct(c.UserContext(), id, req, getActor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

func (h *CatalogHandler) DeactivateProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.service.DeactivateProduct(c.UserContext(), id, getActor(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Product deactivated"})
}

func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.service.DeleteProduct(c.UserContext(), id, getActor(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

func (h *CatalogHandler) GetSuppliers(c *fiber.Ctx) error {
	suppliers, err := h.service.ListSuppliers(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(suppliers)
}

func (h *CatalogHandler) GetActiveSuppliers(c *fiber.Ctx) error {
	suppliers, err := h.service.ListActiveSuppliers(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(suppliers)
}

func (h *CatalogHandler) GetSupplier(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	supplier, err := h.service.GetSupplier(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(supplier)
}

func (h *CatalogHandler) GetSupplierByTaxID(c *fiber.Ctx) error {
	supplier, err := h.service.GetSupplierByTaxID(c.UserContext(), c.Params("cnpj"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(supplier)
}

func (h *CatalogHandler) CreateSupplier(c *fiber.Ctx) error {
	var req service.SupplierRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	supplier, err := h.service.CreateSupplier(c.UserContext(), req, getActor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Supplier created", "data": supplier})
}

func (h *CatalogHandler) UpdateSupplier(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	var req service.SupplierRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	supplier, err := h.service.UpdateSupplier(c.UserContext(), id, req, getActor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Supplier updated", "data": supplier})
}

func (h *CatalogHandler) DeactivateSupplier(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.service.DeactivateSupplier(c.UserContext(), id, getActor(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Supplier deactivated"})
}

func (h *CatalogHandler) DeleteSupplier(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.service.DeleteSupplier(c.UserContext(), id, getActor(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Supplier deleted"})
}
