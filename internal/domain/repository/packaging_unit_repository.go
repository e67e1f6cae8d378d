package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// PackagingUnitRepository puerto de persistencia de la jerarquía de empaques.
// ListByProduct devuelve solo unidades activas; GetByBarcode busca entre
// activas de cualquier producto (el barcode es único global).
type PackagingUnitRepository interface {
	Create(unit *entity.PackagingUnit) error
	GetByID(id string) (*entity.PackagingUnit, error)
	GetByBarcode(barcode string) (*entity.PackagingUnit, error)
	ListByProduct(productID string) ([]*entity.PackagingUnit, error)
	Update(unit *entity.PackagingUnit) error
	Deactivate(id string) error
}
