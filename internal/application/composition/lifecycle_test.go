package composition_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcomposition "github.com/jhoicas/Almacen-api/internal/application/composition"
	"github.com/jhoicas/Almacen-api/internal/application/stock"
	"github.com/jhoicas/Almacen-api/internal/domain"
	domcomp "github.com/jhoicas/Almacen-api/internal/domain/composition"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// worldFixture arma un almacén completo en memoria: producto con jerarquía
// unidad/caja, stock en empaques mezclados y dos pallets libres.
type worldFixture struct {
	lifecycle *appcomposition.LifecycleUseCase
	comps     *memory.CompositionRepository
	stockRepo *memory.StockLineRepository
	pallets   *memory.PalletRepository
	ucps      *memory.UCPRepository
	consol    *stock.Consolidator
}

func newWorld(t *testing.T) *worldFixture {
	t.Helper()
	products := memory.NewProductRepository()
	units := memory.NewPackagingUnitRepository()
	stockRepo := memory.NewStockLineRepository()
	pallets := memory.NewPalletRepository()
	comps := memory.NewCompositionRepository()
	ucps := memory.NewUCPRepository()

	now := time.Now()
	require.NoError(t, products.Create(&entity.Product{
		ID: "P1", SKU: "SKU-1", Name: "Detergente",
		WeightKg: dec("0.5"), WidthCm: dec("10"), LengthCm: dec("10"), HeightCm: dec("10"),
		Active: true, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, units.Create(&entity.PackagingUnit{
		ID: "unidad", ProductID: "P1", Name: "unidad",
		BaseUnitQuantity: dec("1"), IsBaseUnit: true, Level: 1,
		WidthCm: dec("10"), LengthCm: dec("10"), HeightCm: dec("10"), WeightKg: dec("0.5"),
		Active: true, CreatedAt: now,
	}))
	require.NoError(t, units.Create(&entity.PackagingUnit{
		ID: "caja", ProductID: "P1", Name: "caja",
		BaseUnitQuantity: dec("12"), Level: 2,
		WidthCm: dec("40"), LengthCm: dec("30"), HeightCm: dec("25"), WeightKg: dec("6.5"),
		Active: true, CreatedAt: now,
	}))

	cajaID := "caja"
	require.NoError(t, stockRepo.Append(&entity.StockLine{
		ID: "sl-1", ProductID: "P1", PositionID: "A-01",
		UnitID: &cajaID, Quantity: dec("3"), Active: true, CreatedAt: now,
	}))
	require.NoError(t, stockRepo.Append(&entity.StockLine{
		ID: "sl-2", ProductID: "P1", PositionID: "A-02",
		Quantity: dec("10"), Active: true, CreatedAt: now.Add(time.Millisecond),
	}))

	for _, id := range []string{"PAL-1", "PAL-2"} {
		require.NoError(t, pallets.Create(&entity.Pallet{
			ID: id, Code: id,
			WidthCm: dec("120"), LengthCm: dec("100"),
			MaxHeightCm: dec("150"), MaxWeightKg: dec("1000"),
			Active: true, CreatedAt: now, UpdatedAt: now,
		}))
	}

	consolidator := stock.NewConsolidator(stockRepo, units)
	engine := domcomp.NewEngine(0, 0, 0)
	compose := appcomposition.NewComposeUseCase(products, units, pallets, consolidator, engine)
	tx := memory.NewTxRunner(stockRepo, ucps, pallets, comps)
	lifecycle := appcomposition.NewLifecycleUseCase(comps, units, compose, tx)

	return &worldFixture{
		lifecycle: lifecycle,
		comps:     comps,
		stockRepo: stockRepo,
		pallets:   pallets,
		ucps:      ucps,
		consol:    consolidator,
	}
}

func requestFor(palletID string, cajas string) domcomp.Request {
	return domcomp.Request{
		PalletID: palletID,
		Lines:    []domcomp.RequestLine{{ProductID: "P1", UnitID: "caja", Quantity: dec(cajas)}},
	}
}

func (w *worldFixture) totalBase(t *testing.T) decimal.Decimal {
	t.Helper()
	got, err := w.consol.Consolidate("P1")
	require.NoError(t, err)
	return got.TotalBaseUnits
}

func TestLifecycle_CicloCompleto(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	comp, err := w.lifecycle.Create("UCP detergente", requestFor("PAL-1", "2"), "user-1")
	require.NoError(t, err)
	assert.Equal(t, entity.CompositionStatusDraft, comp.Status)
	assert.EqualValues(t, 1, comp.Version)

	comp, err = w.lifecycle.Validate(comp.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, entity.CompositionStatusValidated, comp.Status)
	require.NotNil(t, comp.Result)
	assert.True(t, comp.Result.IsValid)
	require.Len(t, comp.Lines, 1)
	assert.Equal(t, "caja", comp.Lines[0].UnitID)

	comp, err = w.lifecycle.Approve(comp.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, entity.CompositionStatusApproved, comp.Status)

	// 46 unidades base antes de ejecutar; 2 cajas consumen 24
	assert.True(t, w.totalBase(t).Equal(dec("46")))

	comp, err = w.lifecycle.Execute(ctx, comp.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, entity.CompositionStatusExecuted, comp.Status)
	assert.True(t, w.totalBase(t).Equal(dec("22")), "quedan 46-24 unidades base")

	pallet, err := w.pallets.GetByID("PAL-1")
	require.NoError(t, err)
	assert.True(t, pallet.Occupied)

	ucp, err := w.ucps.GetByComposition(comp.ID)
	require.NoError(t, err)
	require.NotNil(t, ucp)
	assert.Equal(t, entity.UCPStatusFormed, ucp.Status)

	// Desarmar: el stock vuelve a staging y el pallet queda libre
	comp, err = w.lifecycle.Disassemble(ctx, comp.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, entity.CompositionStatusDraft, comp.Status)
	assert.True(t, w.totalBase(t).Equal(dec("46")), "el desarme devuelve todo el stock")

	pallet, err = w.pallets.GetByID("PAL-1")
	require.NoError(t, err)
	assert.False(t, pallet.Occupied)

	ucp, err = w.ucps.GetByComposition(comp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.UCPStatusDisassembled, ucp.Status)

	lines, err := w.stockRepo.ListActiveByProduct("P1")
	require.NoError(t, err)
	var staging bool
	for _, l := range lines {
		if l.PositionID == entity.PositionStaging {
			staging = true
		}
	}
	assert.True(t, staging, "el stock devuelto queda en la posición de staging")
}

func TestLifecycle_TransicionesInvalidas(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	comp, err := w.lifecycle.Create("borrador", requestFor("PAL-1", "2"), "user-1")
	require.NoError(t, err)

	// aprobar sin validar
	_, err = w.lifecycle.Approve(comp.ID, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// ejecutar desde DRAFT
	_, err = w.lifecycle.Execute(ctx, comp.ID, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// desarmar algo nunca ejecutado
	_, err = w.lifecycle.Disassemble(ctx, comp.ID, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// validar dos veces: la segunda ya no está en DRAFT
	comp, err = w.lifecycle.Validate(comp.ID, 1)
	require.NoError(t, err)
	_, err = w.lifecycle.Validate(comp.ID, comp.Version)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestLifecycle_VersionDesfasada(t *testing.T) {
	w := newWorld(t)

	comp, err := w.lifecycle.Create("concurrente", requestFor("PAL-1", "2"), "user-1")
	require.NoError(t, err)

	// presentar una versión vieja simula a otro actor que ya avanzó la fila
	_, err = w.lifecycle.Validate(comp.ID, 99)
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)

	// la composición no cambió
	got, err := w.lifecycle.Get(comp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CompositionStatusDraft, got.Status)
	assert.EqualValues(t, 1, got.Version)
}

func TestLifecycle_ValidacionConStockInsuficiente(t *testing.T) {
	w := newWorld(t)

	// 10 cajas = 120 base > 46 disponibles
	comp, err := w.lifecycle.Create("demasiado", requestFor("PAL-1", "10"), "user-1")
	require.NoError(t, err)

	comp, err = w.lifecycle.Validate(comp.ID, 1)
	require.NoError(t, err, "la falta de stock es una violación, no un error Go")
	assert.Equal(t, entity.CompositionStatusDraft, comp.Status, "sin stock no pasa a VALIDATED")
	require.NotNil(t, comp.Result)
	assert.False(t, comp.Result.IsValid)

	var stockViolation bool
	for _, v := range comp.Result.Violations {
		if v.Type == domcomp.ViolationStock && v.Severity == domcomp.SeverityError {
			stockViolation = true
		}
	}
	assert.True(t, stockViolation, "debe reportarse la violación de stock: %+v", comp.Result.Violations)
}

func TestLifecycle_SegundoExecuteNoSobrecompromete(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	// dos composiciones de 2 cajas cada una: el stock (46 base) alcanza para
	// validar ambas, pero tras ejecutar la primera quedan 22 < 24
	primera, err := w.lifecycle.Create("primera", requestFor("PAL-1", "2"), "user-1")
	require.NoError(t, err)
	segunda, err := w.lifecycle.Create("segunda", requestFor("PAL-2", "2"), "user-1")
	require.NoError(t, err)

	for _, comp := range []*entity.Composition{primera, segunda} {
		c, err := w.lifecycle.Validate(comp.ID, 1)
		require.NoError(t, err)
		require.Equal(t, entity.CompositionStatusValidated, c.Status)
		_, err = w.lifecycle.Approve(comp.ID, 2)
		require.NoError(t, err)
	}

	_, err = w.lifecycle.Execute(ctx, primera.ID, 3)
	require.NoError(t, err)

	_, err = w.lifecycle.Execute(ctx, segunda.ID, 3)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"la capacidad ya consumida no puede comprometerse dos veces")
}

func TestLifecycle_PalletOcupado(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	// stock adicional para que la segunda composición no falle por stock
	require.NoError(t, w.stockRepo.Append(&entity.StockLine{
		ID: "sl-extra", ProductID: "P1", PositionID: "A-03",
		Quantity: dec("100"), Active: true, CreatedAt: time.Now(),
	}))

	primera, err := w.lifecycle.Create("primera", requestFor("PAL-1", "2"), "user-1")
	require.NoError(t, err)
	segunda, err := w.lifecycle.Create("mismo pallet", requestFor("PAL-1", "2"), "user-1")
	require.NoError(t, err)

	for _, comp := range []*entity.Composition{primera, segunda} {
		_, err := w.lifecycle.Validate(comp.ID, 1)
		require.NoError(t, err)
		_, err = w.lifecycle.Approve(comp.ID, 2)
		require.NoError(t, err)
	}

	_, err = w.lifecycle.Execute(ctx, primera.ID, 3)
	require.NoError(t, err)

	_, err = w.lifecycle.Execute(ctx, segunda.ID, 3)
	assert.ErrorIs(t, err, domain.ErrPalletOccupied,
		"un pallet con UCP montada no acepta otra ejecución")
}

func TestUpdateRequest_RegresaADraft(t *testing.T) {
	w := newWorld(t)

	comp, err := w.lifecycle.Create("editable", requestFor("PAL-1", "2"), "user-1")
	require.NoError(t, err)
	comp, err = w.lifecycle.Validate(comp.ID, 1)
	require.NoError(t, err)
	require.Equal(t, entity.CompositionStatusValidated, comp.Status)

	comp, err = w.lifecycle.UpdateRequest(comp.ID, 2, requestFor("PAL-2", "1"))
	require.NoError(t, err)
	assert.Equal(t, entity.CompositionStatusDraft, comp.Status, "editar regresa a DRAFT")
	assert.Nil(t, comp.Result, "el resultado previo se descarta")
	assert.Equal(t, "PAL-2", comp.PalletID)
}
