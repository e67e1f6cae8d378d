package dto

import "github.com/shopspring/decimal"

// AppendStockRequest alta de una línea de stock físico.
type AppendStockRequest struct {
	ProductID  string          `json:"product_id"`
	PositionID string          `json:"position_id"`
	UnitID     *string         `json:"unit_id,omitempty"` // nil = unidades base
	Quantity   decimal.Decimal `json:"quantity"`
}

// ConsolidatedStockResponse total consolidado en unidades base.
type ConsolidatedStockResponse struct {
	ProductID      string          `json:"product_id"`
	TotalBaseUnits decimal.Decimal `json:"total_base_units"`
	LocationsCount int             `json:"locations_count"`
}

// PackagingStockResponse total re-expresado en paquetes de un empaque.
type PackagingStockResponse struct {
	ProductID          string          `json:"product_id"`
	UnitID             string          `json:"unit_id"`
	AvailablePackages  decimal.Decimal `json:"available_packages"`
	RemainingBaseUnits decimal.Decimal `json:"remaining_base_units"`
	TotalBaseUnits     decimal.Decimal `json:"total_base_units"`
}
