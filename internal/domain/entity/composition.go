package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/domain/composition"
)

// Estados del ciclo de vida de una composición.
// DRAFT --validate--> VALIDATED --approve--> APPROVED --execute--> EXECUTED
// EXECUTED --disassemble--> DRAFT (devuelve stock y libera el pallet).
const (
	CompositionStatusDraft     = "DRAFT"
	CompositionStatusValidated = "VALIDATED"
	CompositionStatusApproved  = "APPROVED"
	CompositionStatusExecuted  = "EXECUTED"
)

// CompositionLine línea desnormalizada producto+empaque+cantidad+capa,
// persistida para render de UI; distinta del arrangement efímero del packer.
type CompositionLine struct {
	ID            string
	CompositionID string
	ProductID     string
	UnitID        string
	Quantity      decimal.Decimal
	Layer         int
}

// Composition una composición guardada con nombre: el request que la originó,
// el último Result calculado y el estado del ciclo de vida. Version es el
// contador optimista: toda transición o edición debe presentar la versión
// observada y falla con ErrConcurrentModification si no coincide.
type Composition struct {
	ID        string
	Name      string
	PalletID  string
	Status    string
	Version   int64
	Request   composition.Request
	Result    *composition.Result
	Lines     []CompositionLine
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanEdit indica si el request aún admite edición (todo menos EXECUTED).
func (c *Composition) CanEdit() bool {
	return c.Status != CompositionStatusExecuted
}
