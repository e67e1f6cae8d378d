package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	appcomposition "github.com/jhoicas/Almacen-api/internal/application/composition"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ appcomposition.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Es la puerta
// de entrada de execute/disassemble: deducción de stock, alta de UCP, ocupación
// del pallet y avance de estado se confirman juntos o no se confirma nada.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockLineRepository,
	ucpRepo repository.UCPRepository,
	palletRepo repository.PalletRepository,
	compRepo repository.CompositionRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	stockRepo := NewStockLineRepository(tx)
	ucpRepo := NewUCPRepository(tx)
	palletRepo := NewPalletRepository(tx)
	compRepo := NewCompositionRepository(tx)

	if err := fn(stockRepo, ucpRepo, palletRepo, compRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
