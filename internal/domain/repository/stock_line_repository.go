package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// StockLineRepository puerto de persistencia del stock físico.
// El ciclo de vida es append/retire: Append agrega una línea nueva y Retire
// marca una existente como retirada; la cantidad de una línea nunca se muta.
// ListActiveByProductForUpdate bloquea las filas (SELECT FOR UPDATE) para la
// deducción transaccional de execute.
type StockLineRepository interface {
	Append(line *entity.StockLine) error
	Retire(id string) error
	GetByID(id string) (*entity.StockLine, error)
	ListActiveByProduct(productID string) ([]*entity.StockLine, error)
	ListActiveByProductForUpdate(productID string) ([]*entity.StockLine, error)
	ExistsActiveByUnit(unitID string) (bool, error)
}
