package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest alta de producto. QtyPrecision omitido toma el
// default configurado del motor (nil ≠ 0: cero significa solo enteros).
type CreateProductRequest struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	WeightKg     decimal.Decimal `json:"weight_kg"`
	WidthCm      decimal.Decimal `json:"width_cm"`
	LengthCm     decimal.Decimal `json:"length_cm"`
	HeightCm     decimal.Decimal `json:"height_cm"`
	QtyPrecision *int32          `json:"qty_precision,omitempty"`
}

// ProductResponse representación HTTP de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	WeightKg     decimal.Decimal `json:"weight_kg"`
	WidthCm      decimal.Decimal `json:"width_cm"`
	LengthCm     decimal.Decimal `json:"length_cm"`
	HeightCm     decimal.Decimal `json:"height_cm"`
	QtyPrecision int32           `json:"qty_precision"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
