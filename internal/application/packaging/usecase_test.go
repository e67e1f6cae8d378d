package packaging_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/packaging"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	uc    *packaging.UseCase
	units *memory.PackagingUnitRepository
	stock *memory.StockLineRepository
	comps *memory.CompositionRepository
	rules *memory.ConversionRuleRepository
}

func newFixture() *fixture {
	units := memory.NewPackagingUnitRepository()
	stock := memory.NewStockLineRepository()
	comps := memory.NewCompositionRepository()
	rules := memory.NewConversionRuleRepository()
	return &fixture{
		uc:    packaging.NewUseCase(units, stock, comps, rules),
		units: units,
		stock: stock,
		comps: comps,
		rules: rules,
	}
}

func baseInput(productID string) packaging.UnitInput {
	return packaging.UnitInput{
		ProductID:        productID,
		Name:             "unidad",
		BaseUnitQuantity: dec("1"),
		IsBaseUnit:       true,
		WidthCm:          dec("10"),
		LengthCm:         dec("10"),
		HeightCm:         dec("10"),
		WeightKg:         dec("0.5"),
	}
}

func cajaInput(productID string, factor string) packaging.UnitInput {
	return packaging.UnitInput{
		ProductID:        productID,
		Name:             "caja",
		BaseUnitQuantity: dec(factor),
		WidthCm:          dec("40"),
		LengthCm:         dec("30"),
		HeightCm:         dec("25"),
		WeightKg:         dec("6.5"),
	}
}

func TestAddUnit_PrimeraDebeSerBase(t *testing.T) {
	f := newFixture()

	_, err := f.uc.AddUnit(cajaInput("P1", "12"))
	assert.ErrorIs(t, err, domain.ErrNoBaseUnit,
		"la base debe establecerse antes que cualquier otro empaque")

	base, err := f.uc.AddUnit(baseInput("P1"))
	require.NoError(t, err)
	assert.True(t, base.IsBaseUnit)
	assert.Equal(t, 1, base.Level, "la base siempre es nivel 1")
}

func TestAddUnit_SegundaBaseRechazada(t *testing.T) {
	f := newFixture()
	_, err := f.uc.AddUnit(baseInput("P1"))
	require.NoError(t, err)

	segunda := baseInput("P1")
	segunda.Name = "unidad-bis"
	_, err = f.uc.AddUnit(segunda)
	assert.ErrorIs(t, err, domain.ErrInvalidHierarchy, "un producto tiene exactamente una base")
}

func TestAddUnit_BaseConFactorDistintoDeUno(t *testing.T) {
	f := newFixture()
	in := baseInput("P1")
	in.BaseUnitQuantity = dec("2")
	_, err := f.uc.AddUnit(in)
	assert.ErrorIs(t, err, domain.ErrInvalidHierarchy)
}

func TestAddUnit_FactorNoPositivo(t *testing.T) {
	f := newFixture()
	_, err := f.uc.AddUnit(baseInput("P1"))
	require.NoError(t, err)

	in := cajaInput("P1", "0")
	_, err = f.uc.AddUnit(in)
	assert.ErrorIs(t, err, domain.ErrInvalidHierarchy)
}

func TestAddUnit_BarcodeGlobalUnico(t *testing.T) {
	f := newFixture()
	_, err := f.uc.AddUnit(baseInput("P1"))
	require.NoError(t, err)
	_, err = f.uc.AddUnit(baseInput("P2"))
	require.NoError(t, err)

	code := "7701234567890"
	inA := cajaInput("P1", "12")
	inA.Barcode = &code
	_, err = f.uc.AddUnit(inA)
	require.NoError(t, err)

	// mismo barcode en otro producto: colisión global
	inB := cajaInput("P2", "6")
	inB.Barcode = &code
	_, err = f.uc.AddUnit(inB)
	assert.ErrorIs(t, err, domain.ErrInvalidHierarchy)
}

func TestAddUnit_PadreInexistente(t *testing.T) {
	f := newFixture()
	_, err := f.uc.AddUnit(baseInput("P1"))
	require.NoError(t, err)

	fantasma := "no-existe"
	in := cajaInput("P1", "12")
	in.ParentID = &fantasma
	_, err = f.uc.AddUnit(in)
	assert.ErrorIs(t, err, domain.ErrInvalidHierarchy)
}

func TestAddUnit_NivelesPorFactorAscendente(t *testing.T) {
	f := newFixture()
	base, err := f.uc.AddUnit(baseInput("P1"))
	require.NoError(t, err)

	// insertar fuera de orden: primero la carga de pallet, después la caja
	carga := cajaInput("P1", "480")
	carga.Name = "carga-pallet"
	_, err = f.uc.AddUnit(carga)
	require.NoError(t, err)
	_, err = f.uc.AddUnit(cajaInput("P1", "12"))
	require.NoError(t, err)

	units, err := f.uc.GetHierarchy("P1")
	require.NoError(t, err)
	require.Len(t, units, 3)
	assert.Equal(t, base.ID, units[0].ID, "la base encabeza la jerarquía")
	assert.Equal(t, "caja", units[1].Name)
	assert.Equal(t, "carga-pallet", units[2].Name)
	for i, u := range units {
		assert.Equal(t, i+1, u.Level)
	}

	// el cache de conversión quedó regenerado: 3 unidades = 6 reglas
	rules, err := f.rules.ListByProduct("P1")
	require.NoError(t, err)
	assert.Len(t, rules, 6)
}

func TestRemoveUnit_ConStockActivo(t *testing.T) {
	f := newFixture()
	_, err := f.uc.AddUnit(baseInput("P1"))
	require.NoError(t, err)
	caja, err := f.uc.AddUnit(cajaInput("P1", "12"))
	require.NoError(t, err)

	require.NoError(t, f.stock.Append(&entity.StockLine{
		ID: "sl-1", ProductID: "P1", PositionID: "A-01",
		UnitID: &caja.ID, Quantity: dec("3"), Active: true, CreatedAt: time.Now(),
	}))

	err = f.uc.RemoveUnit(caja.ID)
	assert.ErrorIs(t, err, domain.ErrUnitInUse,
		"una unidad referenciada por stock activo no puede retirarse")
}

func TestRemoveUnit_BaseConHermanos(t *testing.T) {
	f := newFixture()
	base, err := f.uc.AddUnit(baseInput("P1"))
	require.NoError(t, err)
	_, err = f.uc.AddUnit(cajaInput("P1", "12"))
	require.NoError(t, err)

	err = f.uc.RemoveUnit(base.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidHierarchy,
		"la base no se retira mientras existan otros empaques")
}

func TestRemoveUnit_LibreSeDesactiva(t *testing.T) {
	f := newFixture()
	_, err := f.uc.AddUnit(baseInput("P1"))
	require.NoError(t, err)
	caja, err := f.uc.AddUnit(cajaInput("P1", "12"))
	require.NoError(t, err)

	require.NoError(t, f.uc.RemoveUnit(caja.ID))

	units, err := f.uc.GetHierarchy("P1")
	require.NoError(t, err)
	assert.Len(t, units, 1, "solo queda la base activa")

	// retirar dos veces es not found
	err = f.uc.RemoveUnit(caja.ID)
	assert.ErrorIs(t, err, domain.ErrUnitNotFound)
}

func TestGetBaseUnit(t *testing.T) {
	f := newFixture()
	_, err := f.uc.GetBaseUnit("P1")
	assert.ErrorIs(t, err, domain.ErrNoBaseUnit)

	base, err := f.uc.AddUnit(baseInput("P1"))
	require.NoError(t, err)
	got, err := f.uc.GetBaseUnit("P1")
	require.NoError(t, err)
	assert.Equal(t, base.ID, got.ID)
}
