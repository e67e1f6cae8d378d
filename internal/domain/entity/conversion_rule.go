package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConversionRule es una regla derivada de conversión entre dos empaques del
// mismo producto: Factor = from.BaseUnitQuantity / to.BaseUnitQuantity. Es un
// cache reconstruible desde PackagingUnit; nunca es autoritativa y se puede
// borrar y regenerar sin pérdida.
type ConversionRule struct {
	ID         string
	ProductID  string
	FromUnitID string
	ToUnitID   string
	Factor     decimal.Decimal
	CreatedAt  time.Time
}
