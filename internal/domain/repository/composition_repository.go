package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// CompositionRepository puerto de persistencia de composiciones.
// Update y UpdateStatus son optimistas: reciben la versión que el caller
// observó y devuelven domain.ErrConcurrentModification si la fila ya avanzó
// (patrón CAS, sin locks sostenidos entre llamadas).
type CompositionRepository interface {
	Create(comp *entity.Composition) error
	GetByID(id string) (*entity.Composition, error)
	List(limit, offset int) ([]*entity.Composition, error)
	// Update persiste request, result, líneas y status, e incrementa Version.
	Update(comp *entity.Composition, expectedVersion int64) error
	ExistsActiveLineByUnit(unitID string) (bool, error)
}
