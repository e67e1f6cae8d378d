package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PositionStaging posición lógica donde queda el stock devuelto por un desarme de UCP.
const PositionStaging = "STAGING"

// StockLine es una tenencia física de producto en una posición, registrada en
// la unidad de empaque con la que se contó (UnitID nil = unidades base).
// El ciclo de vida es append/retire: una línea nunca muta su cantidad; al
// consumirse se retira y, si queda remanente, se agrega una línea nueva.
type StockLine struct {
	ID         string
	ProductID  string
	PositionID string
	UnitID     *string
	Quantity   decimal.Decimal
	Active     bool
	CreatedAt  time.Time
	RetiredAt  *time.Time
}
