package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Lotes-api/internal/application/ledger"
	"github.com/jhoicas/Lotes-api/internal/application/usecase"
	"github.com/jhoicas/Lotes-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LedgerUC   *ledger.LedgerUseCase
	BatchQuery *ledger.BatchQueryUseCase
	ProductUC  *usecase.ProductUseCase
	CategoryUC *usecase.CategoryUseCase
	SupplierUC *usecase.SupplierUseCase
	UnitUC     *usecase.UnitUseCase
	Logger     *logger.Logger
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Batches: el ledger de lotes (protegido)
	batches := protected.Group("/batches")
	batchHandler := NewBatchHandler(deps.LedgerUC, deps.BatchQuery, deps.Logger)
	batches.Post("/", batchHandler.Create)
	batches.Get("/", batchHandler.List)
	batches.Get("/summary", batchHandler.Summary)
	batches.Get("/report", batchHandler.Report)
	batches.Get("/:id", batchHandler.GetByID)
	batches.Delete("/:id", RequireRole("admin", "bodeguero"), batchHandler.Delete)
	batches.Get("/:id/can-delete", batchHandler.CanDelete)
	batches.Post("/:id/stock-in", RequireRole("admin", "bodeguero"), batchHandler.StockIn)
	batches.Post("/:id/stock-out", batchHandler.StockOut)
	batches.Post("/:id/adjust", RequireRole("admin", "bodeguero"), batchHandler.Adjust)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	// Catálogos auxiliares (protegido)
	catalogHandler := NewCatalogHandler(deps.CategoryUC, deps.SupplierUC, deps.UnitUC)
	categories := protected.Group("/categories")
	categories.Post("/", catalogHandler.CreateCategory)
	categories.Get("/", catalogHandler.ListCategories)

	suppliers := protected.Group("/suppliers")
	suppliers.Post("/", catalogHandler.CreateSupplier)
	suppliers.Get("/", catalogHandler.ListSuppliers)

	units := protected.Group("/units")
	units.Post("/", catalogHandler.CreateUnit)
	units.Get("/", catalogHandler.ListUnits)
}
