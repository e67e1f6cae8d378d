package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddUnitRequest alta de unidad de empaque dentro de la jerarquía de un producto.
type AddUnitRequest struct {
	Name             string          `json:"name"`
	BaseUnitQuantity decimal.Decimal `json:"base_unit_quantity"`
	IsBaseUnit       bool            `json:"is_base_unit"`
	ParentID         *string         `json:"parent_id,omitempty"`
	Barcode          *string         `json:"barcode,omitempty"`
	WidthCm          decimal.Decimal `json:"width_cm"`
	LengthCm         decimal.Decimal `json:"length_cm"`
	HeightCm         decimal.Decimal `json:"height_cm"`
	WeightKg         decimal.Decimal `json:"weight_kg"`
}

// PackagingUnitResponse representación HTTP de una unidad de empaque.
type PackagingUnitResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	Name             string          `json:"name"`
	BaseUnitQuantity decimal.Decimal `json:"base_unit_quantity"`
	IsBaseUnit       bool            `json:"is_base_unit"`
	ParentID         *string         `json:"parent_id,omitempty"`
	Level            int             `json:"level"`
	Barcode          *string         `json:"barcode,omitempty"`
	WidthCm          decimal.Decimal `json:"width_cm"`
	LengthCm         decimal.Decimal `json:"length_cm"`
	HeightCm         decimal.Decimal `json:"height_cm"`
	WeightKg         decimal.Decimal `json:"weight_kg"`
	Active           bool            `json:"active"`
	CreatedAt        time.Time       `json:"created_at"`
}
