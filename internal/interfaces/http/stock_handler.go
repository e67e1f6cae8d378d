package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/stock"
)

// StockHandler maneja el stock físico y sus vistas consolidadas (protegido).
type StockHandler struct {
	uc           *stock.UseCase
	consolidator *stock.Consolidator
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.UseCase, consolidator *stock.Consolidator) *StockHandler {
	return &StockHandler{uc: uc, consolidator: consolidator}
}

// Append registra una línea de stock.
// POST /api/stock
func (h *StockHandler) Append(c *fiber.Ctx) error {
	var in dto.AppendStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	line, err := h.uc.Append(in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": line.ID})
}

// Consolidated devuelve el total del producto en unidades base.
// GET /api/products/:id/stock/consolidated
func (h *StockHandler) Consolidated(c *fiber.Ctx) error {
	productID := c.Params("id")
	consolidated, err := h.consolidator.Consolidate(productID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ConsolidatedStockResponse{
		ProductID:      productID,
		TotalBaseUnits: consolidated.TotalBaseUnits,
		LocationsCount: consolidated.LocationsCount,
	})
}

// ByPackaging re-expresa el total como paquetes completos del empaque dado.
// GET /api/products/:id/stock/by-packaging/:unitId
func (h *StockHandler) ByPackaging(c *fiber.Ctx) error {
	productID := c.Params("id")
	unitID := c.Params("unitId")
	view, err := h.consolidator.ByPackaging(productID, unitID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.PackagingStockResponse{
		ProductID:          productID,
		UnitID:             unitID,
		AvailablePackages:  view.AvailablePackages,
		RemainingBaseUnits: view.RemainingBaseUnits,
		TotalBaseUnits:     view.TotalBaseUnits,
	})
}
