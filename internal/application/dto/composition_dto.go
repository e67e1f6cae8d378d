package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/domain/composition"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// CreateCompositionRequest alta de una composición en DRAFT.
type CreateCompositionRequest struct {
	Name    string              `json:"name"`
	Request composition.Request `json:"request"`
}

// UpdateCompositionRequest edición del request (requiere la versión observada).
type UpdateCompositionRequest struct {
	Version int64               `json:"version"`
	Request composition.Request `json:"request"`
}

// TransitionRequest cuerpo común de validate/approve/execute/disassemble.
type TransitionRequest struct {
	Version int64 `json:"version"`
}

// CompositionLineResponse línea desnormalizada para render.
type CompositionLineResponse struct {
	ProductID string          `json:"product_id"`
	UnitID    string          `json:"unit_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Layer     int             `json:"layer"`
}

// CompositionResponse representación HTTP de una composición.
type CompositionResponse struct {
	ID        string                    `json:"id"`
	Name      string                    `json:"name"`
	PalletID  string                    `json:"pallet_id"`
	Status    string                    `json:"status"`
	Version   int64                     `json:"version"`
	Request   composition.Request       `json:"request"`
	Result    *composition.Result       `json:"result,omitempty"`
	Lines     []CompositionLineResponse `json:"lines"`
	CreatedBy string                    `json:"created_by"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

// ToCompositionResponse mapea la entidad al DTO HTTP.
func ToCompositionResponse(c *entity.Composition) CompositionResponse {
	lines := make([]CompositionLineResponse, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, CompositionLineResponse{
			ProductID: l.ProductID,
			UnitID:    l.UnitID,
			Quantity:  l.Quantity,
			Layer:     l.Layer,
		})
	}
	return CompositionResponse{
		ID:        c.ID,
		Name:      c.Name,
		PalletID:  c.PalletID,
		Status:    c.Status,
		Version:   c.Version,
		Request:   c.Request,
		Result:    c.Result,
		Lines:     lines,
		CreatedBy: c.CreatedBy,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
