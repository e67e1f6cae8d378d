package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// UCPRepository puerto de persistencia de UCPs (unidades de carga paletizada).
type UCPRepository interface {
	Create(ucp *entity.UCP) error
	GetByComposition(compositionID string) (*entity.UCP, error)
	Update(ucp *entity.UCP) error
}
