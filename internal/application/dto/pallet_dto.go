package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePalletRequest alta de pallet.
type CreatePalletRequest struct {
	Code        string          `json:"code"`
	WidthCm     decimal.Decimal `json:"width_cm"`
	LengthCm    decimal.Decimal `json:"length_cm"`
	MaxHeightCm decimal.Decimal `json:"max_height_cm"`
	MaxWeightKg decimal.Decimal `json:"max_weight_kg"`
}

// PalletResponse representación HTTP de un pallet.
type PalletResponse struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	WidthCm     decimal.Decimal `json:"width_cm"`
	LengthCm    decimal.Decimal `json:"length_cm"`
	MaxHeightCm decimal.Decimal `json:"max_height_cm"`
	MaxWeightKg decimal.Decimal `json:"max_weight_kg"`
	VolumeM3    decimal.Decimal `json:"volume_m3"`
	Occupied    bool            `json:"occupied"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
}
