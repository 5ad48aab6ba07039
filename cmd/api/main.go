package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/technova/ventas-api/internal/application/auth"
	"github.com/technova/ventas-api/internal/application/catalog"
	"github.com/technova/ventas-api/internal/application/sales"
	"github.com/technova/ventas-api/internal/application/stock"
	infrapdf "github.com/technova/ventas-api/internal/infrastructure/pdf"
	"github.com/technova/ventas-api/internal/infrastructure/postgres"
	"github.com/technova/ventas-api/internal/infrastructure/xmlexport"
	httpRouter "github.com/technova/ventas-api/internal/interfaces/http"
	"github.com/technova/ventas-api/pkg/config"
	"github.com/technova/ventas-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios sobre el pool (lecturas fuera de tx)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	serviceRepo := postgres.NewServiceRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Libro de stock: único escritor de existencias
	ledger := stock.NewLedger(txRunner, log)

	// Casos de uso
	authUC := auth.NewUseCase(userRepo, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	productUC := catalog.NewProductUseCase(productRepo)
	clientUC := catalog.NewClientUseCase(clientRepo)
	serviceUC := catalog.NewServiceUseCase(serviceRepo)
	createSaleUC := sales.NewCreateSaleUseCase(txRunner, ledger, clientRepo, serviceRepo, productRepo)
	deleteSaleUC := sales.NewDeleteSaleUseCase(txRunner, ledger, log)
	saleLineUC := sales.NewSaleLineUseCase(txRunner, ledger, productRepo, serviceRepo, log)
	saleQueryUC := sales.NewSaleQueryUseCase(saleRepo)
	saleExportUC := sales.NewSaleExportUseCase(
		saleRepo, clientRepo, productRepo, serviceRepo,
		infrapdf.NewReceiptGenerator(cfg.App.Name),
		xmlexport.NewExporter(),
	)
	stockUC := stock.NewMovementUseCase(ledger, movementRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "TechNova Ventas API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		ProductUC:  productUC,
		ClientUC:   clientUC,
		ServiceUC:  serviceUC,
		CreateSale: createSaleUC,
		DeleteSale: deleteSaleUC,
		SaleLines:  saleLineUC,
		SaleQuery:  saleQueryUC,
		SaleExport: saleExportUC,
		StockUC:    stockUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
