package memory

import (
	"context"

	appcomposition "github.com/jhoicas/Almacen-api/internal/application/composition"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ appcomposition.TxRunner = (*TxRunner)(nil)

// TxRunner versión en memoria del runner transaccional: ejecuta fn contra los
// mismos repositorios compartidos. No hay rollback real; los tests que ejercitan
// fallas parciales deben verificar el estado explícitamente.
type TxRunner struct {
	Stock        repository.StockLineRepository
	UCPs         repository.UCPRepository
	Pallets      repository.PalletRepository
	Compositions repository.CompositionRepository
}

// NewTxRunner construye el runner con los repositorios compartidos.
func NewTxRunner(
	stock repository.StockLineRepository,
	ucps repository.UCPRepository,
	pallets repository.PalletRepository,
	comps repository.CompositionRepository,
) *TxRunner {
	return &TxRunner{Stock: stock, UCPs: ucps, Pallets: pallets, Compositions: comps}
}

// Run ejecuta fn con los repositorios compartidos.
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockLineRepository,
	ucpRepo repository.UCPRepository,
	palletRepo repository.PalletRepository,
	compRepo repository.CompositionRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(r.Stock, r.UCPs, r.Pallets, r.Compositions)
}
