package composition

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Es la única puerta con efectos externos del
// ciclo de vida: execute y disassemble deben ser todo-o-nada (deducción de
// stock + alta de UCP + ocupación del pallet + cambio de estado, juntos).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockLineRepository,
		ucpRepo repository.UCPRepository,
		palletRepo repository.PalletRepository,
		compRepo repository.CompositionRepository,
	) error) error
}
