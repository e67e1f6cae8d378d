package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/auth"
	appcomposition "github.com/jhoicas/Almacen-api/internal/application/composition"
	"github.com/jhoicas/Almacen-api/internal/application/packaging"
	"github.com/jhoicas/Almacen-api/internal/application/stock"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	ProductUC    *usecase.ProductUseCase
	PalletUC     *usecase.PalletUseCase
	PackagingUC  *packaging.UseCase
	StockUC      *stock.UseCase
	Consolidator *stock.Consolidator
	ComposeUC    *appcomposition.ComposeUseCase
	LifecycleUC  *appcomposition.LifecycleUseCase
	JWTSecret    string
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

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Jerarquía de empaques (protegido)
	packagingHandler := NewPackagingHandler(deps.PackagingUC)
	products.Post("/:id/units", packagingHandler.AddUnit)
	products.Get("/:id/units", packagingHandler.GetHierarchy)
	products.Get("/:id/base-unit", packagingHandler.GetBaseUnit)
	products.Post("/:id/conversion-rules/rebuild", packagingHandler.RebuildRules)
	protected.Delete("/units/:id", packagingHandler.RemoveUnit)

	// Stock (protegido)
	stockHandler := NewStockHandler(deps.StockUC, deps.Consolidator)
	protected.Post("/stock", stockHandler.Append)
	products.Get("/:id/stock/consolidated", stockHandler.Consolidated)
	products.Get("/:id/stock/by-packaging/:unitId", stockHandler.ByPackaging)

	// Pallets (protegido)
	pallets := protected.Group("/pallets")
	palletHandler := NewPalletHandler(deps.PalletUC)
	pallets.Post("/", palletHandler.Create)
	pallets.Get("/", palletHandler.List)
	pallets.Get("/:id", palletHandler.GetByID)

	// Composiciones (protegido)
	compositions := protected.Group("/compositions")
	compositionHandler := NewCompositionHandler(deps.ComposeUC, deps.LifecycleUC)
	compositions.Post("/evaluate", compositionHandler.Evaluate)
	compositions.Post("/", compositionHandler.Create)
	compositions.Get("/", compositionHandler.List)
	compositions.Get("/:id", compositionHandler.GetByID)
	compositions.Put("/:id", compositionHandler.Update)
	compositions.Post("/:id/validate", compositionHandler.Validate)
	// aprobar requiere supervisor o admin
	compositions.Post("/:id/approve",
		RequireRoles(entity.RoleSupervisor, entity.RoleAdmin), compositionHandler.Approve)
	compositions.Post("/:id/execute", compositionHandler.Execute)
	compositions.Post("/:id/disassemble", compositionHandler.Disassemble)
}
