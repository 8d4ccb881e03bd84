package handler

import (
	"go-bakery-pos/internal/middleware"
	"go-bakery-pos/internal/model"
	"go-bakery-pos/internal/repository"
	"go-bakery-pos/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups every HTTP handler mounted under /api.
type Handlers struct {
	Auth      *AuthHandler
	Catalog   *CatalogHandler
	Customers *CustomerHandler
	Stock     *StockHandler
	Orders    *OrderHandler
	Reports   *ReportHandler
}

// RegisterRoutes mounts the API on router. Reads need a valid session;
// writes need the matching privilege. Static segments are registered before
// the /:id routes they would otherwise shadow.
func RegisterRoutes(router fiber.Router, h Handlers, signer *jwt.Signer, users repository.UserRepository) {
	api := router.Group("/api")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", h.Auth.Login)
	auth.Post("/reset-password", h.Auth.ResetPassword)
	auth.Post("/validate-token", h.Auth.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(signer, users))
	protected.Get("/roles", h.Auth.GetRoles)
	protected.Get("/privileges", h.Auth.GetPrivileges)

	produtos := protected.Group("/produtos")
	produtos.Get("/", h.Catalog.GetProducts)
	produtos.Get("/ativos", h.Catalog.GetActiveProducts)
	produtos.Get("/categoria/:categoria", h.Catalog.GetProductsByCategory)
	produtos.Get("/:id", h.Catalog.GetProduct)
	produtos.Post("/", middleware.RequirePrivilege(model.PrivProductWrite), h.Catalog.CreateProduct)
	produtos.Put("/:id", middleware.RequirePrivilege(model.PrivProductWrite), h.Catalog.UpdateProduct)
	produtos.Patch("/:id/inativar", middleware.RequirePrivilege(model.PrivProductWrite), h.Catalog.DeactivateProduct)
	produtos.Delete("/:id", middleware.RequirePrivilege(model.PrivProductWrite), h.Catalog.DeleteProduct)

	fornecedores := protected.Group("/fornecedores")
	fornecedores.Get("/", h.Catalog.GetSuppliers)
	fornecedores.Get("/ativos", h.Catalog.GetActiveSuppliers)
	fornecedores.Get("/cnpj/:cnpj", h.Catalog.GetSupplierByTaxID)
	fornecedores.Get("/:id", h.Catalog.GetSupplier)
	fornecedores.Post("/", middleware.RequirePrivilege(model.PrivSupplierWrite), h.Catalog.CreateSupplier)
	fornecedores.Put("/:id", middleware.RequirePrivilege(model.PrivSupplierWrite), h.Catalog.UpdateSupplier)
	fornecedores.Patch("/:id/inativar", middleware.RequirePrivilege(model.PrivSupplierWrite), h.Catalog.DeactivateSupplier)
	fornecedores.Delete("/:id", middleware.RequirePrivilege(model.PrivSupplierWrite), h.Catalog.DeleteSupplier)

	clientes := protected.Group("/clientes")
	clientes.Get("/", h.Customers.GetCustomers)
	clientes.Get("/ativos", h.Customers.GetActiveCustomers)
	clientes.Get("/busca", h.Customers.SearchCustomers)
	clientes.Get("/cpf/:doc", h.Customers.GetCustomerByTaxID)
	clientes.Get("/:id", h.Customers.GetCustomer)
	clientes.Post("/", middleware.RequirePrivilege(model.PrivCustomerWrite), h.Customers.CreateCustomer)
	clientes.Put("/:id", middleware.RequirePrivilege(model.PrivCustomerWrite), h.Customers.UpdateCustomer)
	clientes.Patch("/:id/inativar", middleware.RequirePrivilege(model.PrivCustomerWrite), h.Customers.DeactivateCustomer)
	clientes.Delete("/:id", middleware.RequirePrivilege(model.PrivCustomerWrite), h.Customers.DeleteCustomer)

	estoque := protected.Group("/estoque")
	estoque.Get("/", h.Stock.GetEntries)
	estoque.Get("/alertas", h.Stock.GetAlerts)
	estoque.Get("/produto/:id", h.Stock.GetByProduct)
	estoque.Get("/produto/:id/disponibilidade", h.Stock.CheckAvailability)
	estoque.Get("/:id", h.Stock.GetEntry)
	estoque.Post("/", middleware.RequirePrivilege(model.PrivStockWrite), h.Stock.CreateEntry)
	estoque.Put("/:id", middleware.RequirePrivilege(model.PrivStockWrite), h.Stock.UpdateThresholds)
	estoque.Delete("/:id", middleware.RequirePrivilege(model.PrivStockWrite), h.Stock.DeleteEntry)
	estoque.Patch("/produto/:id/quantidade", middleware.RequirePrivilege(model.PrivStockWrite), h.Stock.SetQuantity)
	estoque.Patch("/produto/:id/adicionar", middleware.RequirePrivilege(model.PrivStockWrite), h.Stock.AddQuantity)
	estoque.Patch("/produto/:id/remover", middleware.RequirePrivilege(model.PrivStockWrite), h.Stock.RemoveQuantity)

	vendas := protected.Group("/vendas")
	vendas.Get("/", h.Orders.GetSales)
	vendas.Get("/periodo", h.Orders.GetSalesByPeriod)
	vendas.Get("/total", h.Orders.GetTotalByPeriod)
	vendas.Get("/:id", h.Orders.GetSale)
	vendas.Post("/", middleware.RequirePrivilege(model.PrivSaleCreate), h.Orders.CreateSale)
	vendas.Patch("/:id/status", middleware.RequirePrivilege(model.PrivSaleCancel), h.Orders.UpdateSaleStatus)
	vendas.Delete("/:id", middleware.RequirePrivilege(model.PrivSaleCancel), h.Orders.DeleteSale)

	encomendas := protected.Group("/encomendas")
	encomendas.Get("/", h.Orders.GetCommissions)
	encomendas.Get("/status/:status", h.Orders.GetCommissionsByStatus)
	encomendas.Get("/entrega/:data", h.Orders.GetCommissionsByDeliveryDate)
	encomendas.Get("/:id", h.Orders.GetCommission)
	encomendas.Post("/", middleware.RequirePrivilege(model.PrivCommissionCreate), h.Orders.CreateCommission)
	encomendas.Patch("/:id/status", middleware.RequirePrivilege(model.PrivCommissionUpdate), h.Orders.UpdateCommissionStatus)
	encomendas.Delete("/:id", middleware.RequirePrivilege(model.PrivCommissionDelete), h.Orders.DeleteCommission)

	relatorios := protected.Group("/relatorios", middleware.RequirePrivilege(model.PrivReportView))
	relatorios.Get("/vendas", h.Reports.GetSalesSummary)
	relatorios.Get("/produtos-mais-vendidos", h.Reports.GetTopProducts)
	relatorios.Get("/formas-pagamento", h.Reports.GetPaymentMethods)
	relatorios.Get("/estoque-baixo", h.Reports.GetLowStock)
	relatorios.Get("/encomendas-status", h.Reports.GetCommissionsByStatus)
	relatorios.Get("/clientes-ativos", h.Reports.GetTopCustomers)
	relatorios.Get("/dashboard", h.Reports.GetDashboard)
}
