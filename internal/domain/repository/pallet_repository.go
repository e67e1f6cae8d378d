package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// PalletRepository puerto de persistencia de pallets.
// SetOccupied marca/desmarca la ocupación física (usado por execute/disassemble).
type PalletRepository interface {
	Create(pallet *entity.Pallet) error
	GetByID(id string) (*entity.Pallet, error)
	List(limit, offset int) ([]*entity.Pallet, error)
	Update(pallet *entity.Pallet) error
	SetOccupied(id string, occupied bool) error
}
