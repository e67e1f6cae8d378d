package stock_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/stock"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type consolidatorFixture struct {
	c      *stock.Consolidator
	stock  *memory.StockLineRepository
	units  *memory.PackagingUnitRepository
	caja   *entity.PackagingUnit
	unidad *entity.PackagingUnit
}

func newConsolidatorFixture(t *testing.T) *consolidatorFixture {
	t.Helper()
	stockRepo := memory.NewStockLineRepository()
	unitRepo := memory.NewPackagingUnitRepository()

	unidad := &entity.PackagingUnit{
		ID: "unidad", ProductID: "P1", Name: "unidad",
		BaseUnitQuantity: dec("1"), IsBaseUnit: true, Level: 1, Active: true,
	}
	caja := &entity.PackagingUnit{
		ID: "caja", ProductID: "P1", Name: "caja",
		BaseUnitQuantity: dec("12"), Level: 2, Active: true,
	}
	require.NoError(t, unitRepo.Create(unidad))
	require.NoError(t, unitRepo.Create(caja))

	return &consolidatorFixture{
		c:      stock.NewConsolidator(stockRepo, unitRepo),
		stock:  stockRepo,
		units:  unitRepo,
		caja:   caja,
		unidad: unidad,
	}
}

func (f *consolidatorFixture) addLine(t *testing.T, id, position string, unitID *string, qty string) {
	t.Helper()
	require.NoError(t, f.stock.Append(&entity.StockLine{
		ID: id, ProductID: "P1", PositionID: position,
		UnitID: unitID, Quantity: dec(qty), Active: true, CreatedAt: time.Now(),
	}))
}

func TestConsolidate_EmpaquesMezclados(t *testing.T) {
	f := newConsolidatorFixture(t)
	cajaID := f.caja.ID
	f.addLine(t, "sl-1", "A-01", &cajaID, "3") // 36 base
	f.addLine(t, "sl-2", "A-02", nil, "10")    // 10 base
	f.addLine(t, "sl-3", "A-01", &cajaID, "1") // 12 base, misma posición que sl-1

	got, err := f.c.Consolidate("P1")
	require.NoError(t, err)
	assert.True(t, got.TotalBaseUnits.Equal(dec("58")), "36+10+12, fue %s", got.TotalBaseUnits)
	assert.Equal(t, 2, got.LocationsCount, "dos posiciones distintas")
}

func TestConsolidate_IgnoraLineasRetiradas(t *testing.T) {
	f := newConsolidatorFixture(t)
	f.addLine(t, "sl-1", "A-01", nil, "20")
	f.addLine(t, "sl-2", "A-02", nil, "5")
	require.NoError(t, f.stock.Retire("sl-1"))

	got, err := f.c.Consolidate("P1")
	require.NoError(t, err)
	assert.True(t, got.TotalBaseUnits.Equal(dec("5")))
	assert.Equal(t, 1, got.LocationsCount)
}

func TestByPackaging_InvarianteDeReexpresion(t *testing.T) {
	f := newConsolidatorFixture(t)
	f.addLine(t, "sl-1", "A-01", nil, "58")

	view, err := f.c.ByPackaging("P1", "caja")
	require.NoError(t, err)
	assert.True(t, view.AvailablePackages.Equal(dec("4")), "58/12 = 4 cajas completas")
	assert.True(t, view.RemainingBaseUnits.Equal(dec("10")))

	// Invariante: paquetes × factor + remanente == total
	recompuesto := view.AvailablePackages.Mul(f.caja.BaseUnitQuantity).Add(view.RemainingBaseUnits)
	assert.True(t, recompuesto.Equal(view.TotalBaseUnits),
		"la re-expresión debe reconstruir el total exacto")
}

func TestByPackaging_UnidadDeOtroProducto(t *testing.T) {
	f := newConsolidatorFixture(t)
	otra := &entity.PackagingUnit{
		ID: "caja-p2", ProductID: "P2", Name: "caja",
		BaseUnitQuantity: dec("6"), IsBaseUnit: false, Level: 2, Active: true,
	}
	require.NoError(t, f.units.Create(otra))

	_, err := f.c.ByPackaging("P1", "caja-p2")
	assert.ErrorIs(t, err, domain.ErrUnitNotFound)
}

func TestAvailable(t *testing.T) {
	f := newConsolidatorFixture(t)
	cajaID := f.caja.ID
	f.addLine(t, "sl-1", "A-01", &cajaID, "2") // 24 base

	ok, needed, err := f.c.Available("P1", &cajaID, dec("2"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, needed.Equal(dec("24")))

	ok, _, err = f.c.Available("P1", &cajaID, dec("3"))
	require.NoError(t, err)
	assert.False(t, ok, "3 cajas = 36 base > 24 disponibles")
}
