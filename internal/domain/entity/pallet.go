package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Pallet representa el soporte físico sobre el que se arma una UCP.
// WidthCm/LengthCm definen la huella; MaxHeightCm es la altura máxima de
// apilado permitida sobre la base y MaxWeightKg el límite de carga.
type Pallet struct {
	ID          string
	Code        string // código visible/escaneable del pallet
	WidthCm     decimal.Decimal
	LengthCm    decimal.Decimal
	MaxHeightCm decimal.Decimal
	MaxWeightKg decimal.Decimal
	Occupied    bool // true cuando una UCP ejecutada lo está usando
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// VolumeM3 devuelve el volumen útil (huella × altura máxima de apilado) en m³.
func (p *Pallet) VolumeM3() decimal.Decimal {
	return p.WidthCm.Mul(p.LengthCm).Mul(p.MaxHeightCm).Div(decimal.NewFromInt(1_000_000))
}
