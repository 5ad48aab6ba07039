package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/technova/ventas-api/internal/application/auth"
	"github.com/technova/ventas-api/internal/application/catalog"
	"github.com/technova/ventas-api/internal/application/sales"
	"github.com/technova/ventas-api/internal/application/stock"
	"github.com/technova/ventas-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.UseCase
	ProductUC  *catalog.ProductUseCase
	ClientUC   *catalog.ClientUseCase
	ServiceUC  *catalog.ServiceUseCase
	CreateSale *sales.CreateSaleUseCase
	DeleteSale *sales.DeleteSaleUseCase
	SaleLines  *sales.SaleLineUseCase
	SaleQuery  *sales.SaleQueryUseCase
	SaleExport *sales.SaleExportUseCase
	StockUC    *stock.MovementUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido; alta, edición y baja solo admin)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", RequireRole(entity.RoleAdmin), productHandler.Create)
	products.Put("/:id", RequireRole(entity.RoleAdmin), productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Delete)

	// Clients (protegido)
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", RequireRole(entity.RoleAdmin), clientHandler.Delete)

	// Services (protegido; mantenimiento solo admin)
	services := protected.Group("/services")
	serviceHandler := NewServiceHandler(deps.ServiceUC)
	services.Get("/", serviceHandler.List)
	services.Get("/:id", serviceHandler.GetByID)
	services.Post("/", RequireRole(entity.RoleAdmin), serviceHandler.Create)
	services.Put("/:id", RequireRole(entity.RoleAdmin), serviceHandler.Update)
	services.Delete("/:id", RequireRole(entity.RoleAdmin), serviceHandler.Delete)

	// Sales (protegido)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.CreateSale, deps.DeleteSale, deps.SaleLines, deps.SaleQuery, deps.SaleExport)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Delete("/:id", saleHandler.Delete)
	salesGroup.Put("/:id/estado", saleHandler.UpdateEstado)
	salesGroup.Post("/:id/lines/products", saleHandler.AddProductLine)
	salesGroup.Post("/:id/lines/services", saleHandler.AddServiceLine)
	salesGroup.Delete("/:id/lines/:lineId", saleHandler.RemoveLine)
	salesGroup.Get("/:id/pdf", saleHandler.ReceiptPDF)
	salesGroup.Get("/:id/xml", saleHandler.ExportXML)

	// Stock (protegido; ajustes manuales solo admin)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stockGroup.Post("/adjust", RequireRole(entity.RoleAdmin), stockHandler.Adjust)
	stockGroup.Get("/movements/product/:productId", stockHandler.MovementsByProduct)
	stockGroup.Get("/movements/sale/:saleId", stockHandler.MovementsBySale)
}
