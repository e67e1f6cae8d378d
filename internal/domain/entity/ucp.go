package entity

import "time"

// Estados de una UCP (Unidad de Carga Paletizada).
const (
	UCPStatusFormed       = "FORMADA"   // montada sobre un pallet por un execute
	UCPStatusDisassembled = "DESARMADA" // desarmada; el stock volvió a posiciones
)

// UCP es la agrupación física de producto montada sobre un pallet como
// resultado de ejecutar una composición aprobada.
type UCP struct {
	ID            string
	Code          string
	PalletID      string
	CompositionID string
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
