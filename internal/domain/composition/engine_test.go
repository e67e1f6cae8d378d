package composition_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/composition"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Pallet estándar de los tests: 120×100 cm, 150 cm de apilado, 1000 kg.
func testPallet() composition.PalletSpec {
	return composition.PalletSpec{
		WidthCm:     dec("120"),
		LengthCm:    dec("100"),
		MaxHeightCm: dec("150"),
		MaxWeightKg: dec("1000"),
	}
}

// Caja de los tests: 20×30×15 cm, 10.5 kg por ejemplar.
func testItem(qty string) composition.Item {
	return composition.Item{
		ProductID: "P1",
		UnitID:    "caja",
		Quantity:  dec(qty),
		WidthCm:   dec("20"),
		LengthCm:  dec("30"),
		HeightCm:  dec("15"),
		WeightKg:  dec("10.5"),
	}
}

func TestEvaluate_DiezCajasValidas(t *testing.T) {
	engine := composition.NewEngine(0, 0, 0)

	res, err := engine.Evaluate(testPallet(), []composition.Item{testItem("10")}, nil)
	require.NoError(t, err)

	assert.True(t, res.IsValid, "10 cajas caben de sobra: %+v", res.Violations)
	assert.Empty(t, res.Violations)
	assert.Equal(t, 1, res.Layout.Layers, "10 cajas caben en una sola capa")
	assert.EqualValues(t, 10, res.Layout.PlacedItems)
	assert.EqualValues(t, 10, res.Layout.ItemsPerLayer)
	assert.True(t, res.Height.Total.Equal(dec("15")), "altura usada = una capa de 15 cm")
	// volumen colocado 10×(20×30×15) sobre envolvente 120×100×15
	assert.InDelta(t, 0.5, res.Efficiency, 1e-9)
}

func TestEvaluate_CienCajasExcedenPeso(t *testing.T) {
	engine := composition.NewEngine(0, 0, 0)

	res, err := engine.Evaluate(testPallet(), []composition.Item{testItem("100")}, nil)
	require.NoError(t, err)

	assert.False(t, res.IsValid)
	require.Len(t, res.Violations, 1, "solo el peso viola: %+v", res.Violations)
	v := res.Violations[0]
	assert.Equal(t, composition.ViolationWeight, v.Type)
	assert.Equal(t, composition.SeverityError, v.Severity)
	assert.True(t, v.Actual.Equal(dec("1050")), "peso total 100×10.5, fue %s", v.Actual)
	assert.True(t, v.Limit.Equal(dec("1000")))
	// la geometría sí alcanza: todos colocados
	assert.EqualValues(t, 100, res.Layout.PlacedItems)
}

func TestEvaluate_BandaDeAdvertenciaDePeso(t *testing.T) {
	engine := composition.NewEngine(0.80, 0, 0)

	// 80 cajas: 840 kg = 84% del límite -> warning, sigue siendo válido
	res, err := engine.Evaluate(testPallet(), []composition.Item{testItem("80")}, nil)
	require.NoError(t, err)

	assert.True(t, res.IsValid, "una advertencia no invalida el resultado")
	require.Len(t, res.Violations, 1)
	assert.Equal(t, composition.ViolationWeight, res.Violations[0].Type)
	assert.Equal(t, composition.SeverityWarning, res.Violations[0].Severity)
}

func TestEvaluate_OverrideInvalido(t *testing.T) {
	engine := composition.NewEngine(0, 0, 0)

	over := dec("2000") // mayor que el límite físico del pallet
	_, err := engine.Evaluate(testPallet(), []composition.Item{testItem("1")},
		&composition.Constraints{MaxWeightKg: &over})
	assert.ErrorIs(t, err, domain.ErrInvalidConstraint,
		"un override por encima del límite físico debe rechazarse")
}

func TestEvaluate_OverrideRestringe(t *testing.T) {
	engine := composition.NewEngine(0, 0, 0)

	over := dec("100") // 10 cajas pesan 105 kg > 100
	res, err := engine.Evaluate(testPallet(), []composition.Item{testItem("10")},
		&composition.Constraints{MaxWeightKg: &over})
	require.NoError(t, err)

	assert.False(t, res.IsValid)
	require.NotEmpty(t, res.Violations)
	assert.Equal(t, composition.ViolationWeight, res.Violations[0].Type)
	assert.True(t, res.Violations[0].Limit.Equal(dec("100")), "el límite efectivo es el override")
}

func TestEvaluate_ItemQueNoCabeIndividualmente(t *testing.T) {
	engine := composition.NewEngine(0, 0, 0)

	gigante := composition.Item{
		ProductID: "P2",
		UnitID:    "jumbo",
		Quantity:  dec("1"),
		WidthCm:   dec("200"), // excede la huella en cualquier orientación
		LengthCm:  dec("150"),
		HeightCm:  dec("20"),
		WeightKg:  dec("5"),
	}
	res, err := engine.Evaluate(testPallet(), []composition.Item{gigante}, nil)
	require.NoError(t, err)

	assert.False(t, res.IsValid)
	require.Len(t, res.Products, 1)
	assert.False(t, res.Products[0].CanFit, "el empaque no cabe ni solo")
	assert.NotEmpty(t, res.Products[0].Issues)
	assert.EqualValues(t, 0, res.Layout.PlacedItems)
}

func TestEvaluate_CantidadFraccionaria(t *testing.T) {
	engine := composition.NewEngine(0, 0, 0)

	res, err := engine.Evaluate(testPallet(), []composition.Item{testItem("2.5")}, nil)
	require.NoError(t, err)

	assert.EqualValues(t, 2, res.Layout.PlacedItems, "solo se empacan ejemplares completos")
	require.NotEmpty(t, res.Warnings, "la fracción descartada debe reportarse")
	// el peso y volumen totales sí cuentan la fracción
	assert.True(t, res.Weight.Total.Equal(dec("26.25")), "peso de 2.5 ejemplares, fue %s", res.Weight.Total)
}

func TestEvaluate_TruncadoPorTopeDeItems(t *testing.T) {
	engine := composition.NewEngine(0, 0, 5)

	res, err := engine.Evaluate(testPallet(), []composition.Item{testItem("10")}, nil)
	require.NoError(t, err)

	assert.EqualValues(t, 5, res.Layout.PlacedItems)
	assert.NotEmpty(t, res.Warnings, "el truncado debe reportarse como warning")
	// el truncado no es una violación de altura
	for _, v := range res.Violations {
		assert.NotEqual(t, composition.ViolationHeight, v.Type)
	}
}

func TestEvaluate_RecomendacionPorDesborde(t *testing.T) {
	engine := composition.NewEngine(0, 0, 0)

	// 2000 cajas no caben geométricamente: 18 por capa × 10 capas = 180
	res, err := engine.Evaluate(testPallet(), []composition.Item{testItem("2000")}, nil)
	require.NoError(t, err)

	assert.False(t, res.IsValid)
	assert.Less(t, res.Layout.PlacedItems, res.Layout.TotalItems)
	assert.NotEmpty(t, res.Recommendations, "debe sugerir dividir en más pallets")

	var heightErr bool
	for _, v := range res.Violations {
		if v.Type == composition.ViolationHeight && v.Severity == composition.SeverityError {
			heightErr = true
		}
	}
	assert.True(t, heightErr, "el desborde geométrico se reporta como violación de altura")
}
