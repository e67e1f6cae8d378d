package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
)

// PalletHandler maneja las peticiones HTTP de pallets (protegido).
type PalletHandler struct {
	uc *usecase.PalletUseCase
}

// NewPalletHandler construye el handler.
func NewPalletHandler(uc *usecase.PalletUseCase) *PalletHandler {
	return &PalletHandler{uc: uc}
}

// Create da de alta un pallet.
func (h *PalletHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePalletRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	pallet, err := h.uc.Create(in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(pallet)
}

// GetByID obtiene un pallet.
func (h *PalletHandler) GetByID(c *fiber.Ctx) error {
	pallet, err := h.uc.Get(c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(pallet)
}

// List lista pallets paginados.
func (h *PalletHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	pallets, err := h.uc.List(page)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(pallets), "pallets": pallets})
}
