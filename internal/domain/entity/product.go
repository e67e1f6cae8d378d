package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del almacén. Las dimensiones y el peso
// corresponden a la unidad base; los empaques superiores llevan los suyos en
// PackagingUnit. QtyPrecision define cuántos decimales admite una cantidad al
// convertir desde unidades base (0 = solo enteros).
type Product struct {
	ID           string
	SKU          string // código único
	Name         string
	Description  string
	WeightKg     decimal.Decimal
	WidthCm      decimal.Decimal
	LengthCm     decimal.Decimal
	HeightCm     decimal.Decimal
	QtyPrecision int32
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
