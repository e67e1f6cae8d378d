package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/packaging"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// PackagingHandler maneja la jerarquía de empaques de un producto (protegido).
type PackagingHandler struct {
	uc *packaging.UseCase
}

// NewPackagingHandler construye el handler.
func NewPackagingHandler(uc *packaging.UseCase) *PackagingHandler {
	return &PackagingHandler{uc: uc}
}

// AddUnit agrega una unidad de empaque a la jerarquía del producto.
// POST /api/products/:id/units
func (h *PackagingHandler) AddUnit(c *fiber.Ctx) error {
	var in dto.AddUnitRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	unit, err := h.uc.AddUnit(packaging.UnitInput{
		ProductID:        c.Params("id"),
		Name:             in.Name,
		BaseUnitQuantity: in.BaseUnitQuantity,
		IsBaseUnit:       in.IsBaseUnit,
		ParentID:         in.ParentID,
		Barcode:          in.Barcode,
		WidthCm:          in.WidthCm,
		LengthCm:         in.LengthCm,
		HeightCm:         in.HeightCm,
		WeightKg:         in.WeightKg,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toUnitResponse(unit))
}

// GetHierarchy devuelve las unidades activas del producto, la base primero.
// GET /api/products/:id/units
func (h *PackagingHandler) GetHierarchy(c *fiber.Ctx) error {
	units, err := h.uc.GetHierarchy(c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.PackagingUnitResponse, 0, len(units))
	for _, u := range units {
		out = append(out, toUnitResponse(u))
	}
	return c.JSON(fiber.Map{"total": len(out), "units": out})
}

// GetBaseUnit devuelve la unidad base del producto.
// GET /api/products/:id/base-unit
func (h *PackagingHandler) GetBaseUnit(c *fiber.Ctx) error {
	unit, err := h.uc.GetBaseUnit(c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toUnitResponse(unit))
}

// RemoveUnit desactiva una unidad de empaque.
// DELETE /api/units/:id
func (h *PackagingHandler) RemoveUnit(c *fiber.Ctx) error {
	if err := h.uc.RemoveUnit(c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RebuildRules regenera el cache de reglas de conversión del producto.
// POST /api/products/:id/conversion-rules/rebuild
func (h *PackagingHandler) RebuildRules(c *fiber.Ctx) error {
	if err := h.uc.RebuildConversionRules(c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "reglas regeneradas"})
}

func toUnitResponse(u *entity.PackagingUnit) dto.PackagingUnitResponse {
	return dto.PackagingUnitResponse{
		ID:               u.ID,
		ProductID:        u.ProductID,
		Name:             u.Name,
		BaseUnitQuantity: u.BaseUnitQuantity,
		IsBaseUnit:       u.IsBaseUnit,
		ParentID:         u.ParentID,
		Level:            u.Level,
		Barcode:          u.Barcode,
		WidthCm:          u.WidthCm,
		LengthCm:         u.LengthCm,
		HeightCm:         u.HeightCm,
		WeightKg:         u.WeightKg,
		Active:           u.Active,
		CreatedAt:        u.CreatedAt,
	}
}
