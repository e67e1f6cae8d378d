package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PackagingUnit representa un nivel de empaque de un producto (unidad, caja,
// carga de pallet). BaseUnitQuantity indica cuántas unidades base contiene un
// ejemplar de este empaque; la unidad base siempre tiene factor 1. ParentID es
// una referencia (no propiedad) al empaque más grueso de la cadena; Level es la
// profundidad desde la unidad base (1 = base) y se recalcula por producto.
type PackagingUnit struct {
	ID               string
	ProductID        string
	Name             string
	BaseUnitQuantity decimal.Decimal
	IsBaseUnit       bool
	ParentID         *string
	Level            int
	Barcode          *string // único global entre unidades activas
	WidthCm          decimal.Decimal
	LengthCm         decimal.Decimal
	HeightCm         decimal.Decimal
	WeightKg         decimal.Decimal // peso de un ejemplar completo de este empaque
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// FootprintCm2 devuelve el área de huella (ancho × largo) en cm².
func (u *PackagingUnit) FootprintCm2() decimal.Decimal {
	return u.WidthCm.Mul(u.LengthCm)
}

// VolumeM3 devuelve el volumen de un ejemplar en m³ (dimensiones en cm).
func (u *PackagingUnit) VolumeM3() decimal.Decimal {
	return u.WidthCm.Mul(u.LengthCm).Mul(u.HeightCm).Div(decimal.NewFromInt(1_000_000))
}
