package composition_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/domain/composition"
)

func TestPack_ArrangementDentroDeLimites(t *testing.T) {
	engine := composition.NewEngine(0, 0, 0)
	pallet := testPallet()

	items := []composition.Item{
		testItem("25"),
		{
			ProductID: "P2", UnitID: "caja-grande", Quantity: dec("8"),
			WidthCm: dec("40"), LengthCm: dec("35"), HeightCm: dec("25"), WeightKg: dec("4"),
		},
	}
	res, err := engine.Evaluate(pallet, items, nil)
	require.NoError(t, err)

	// Ningún ejemplar colocado puede salirse de la huella ni del tope de altura.
	for _, pl := range res.Layout.Arrangement {
		runWidth := pl.Dimensions.WidthCm.Mul(decimal.NewFromInt(pl.Quantity))
		assert.True(t, pl.Position.X.Add(runWidth).LessThanOrEqual(pallet.WidthCm),
			"corrida fuera del ancho: %+v", pl)
		assert.True(t, pl.Position.Y.Add(pl.Dimensions.LengthCm).LessThanOrEqual(pallet.LengthCm),
			"ejemplar fuera del largo: %+v", pl)
		assert.True(t, pl.Position.Z.Add(pl.Dimensions.HeightCm).LessThanOrEqual(pallet.MaxHeightCm),
			"ejemplar fuera de la altura: %+v", pl)
	}
}

func TestPack_FusionaCorridasContiguas(t *testing.T) {
	engine := composition.NewEngine(0, 0, 0)

	// 10 cajas de 20 cm sobre 120 cm de ancho: fila de 6 y fila de 4
	res, err := engine.Evaluate(testPallet(), []composition.Item{testItem("10")}, nil)
	require.NoError(t, err)

	require.Len(t, res.Layout.Arrangement, 2, "dos corridas, no diez placements sueltos")
	assert.EqualValues(t, 6, res.Layout.Arrangement[0].Quantity)
	assert.EqualValues(t, 4, res.Layout.Arrangement[1].Quantity)
	assert.True(t, res.Layout.Arrangement[1].Position.Y.Equal(dec("30")),
		"la segunda fila arranca detrás de la primera")
}

func TestPack_RotaNoventaGrados(t *testing.T) {
	engine := composition.NewEngine(0, 0, 0)

	// 90×110 no cabe tal cual (110 > 100 de largo) pero sí rotado
	ancho := composition.Item{
		ProductID: "P3", UnitID: "plancha", Quantity: dec("1"),
		WidthCm: dec("90"), LengthCm: dec("110"), HeightCm: dec("10"), WeightKg: dec("20"),
	}
	res, err := engine.Evaluate(testPallet(), []composition.Item{ancho}, nil)
	require.NoError(t, err)

	assert.EqualValues(t, 1, res.Layout.PlacedItems)
	require.Len(t, res.Layout.Arrangement, 1)
	pl := res.Layout.Arrangement[0]
	assert.True(t, pl.Dimensions.WidthCm.Equal(dec("110")), "colocado rotado 90°")
	assert.True(t, pl.Dimensions.LengthCm.Equal(dec("90")))
}

func TestPack_Determinista(t *testing.T) {
	engine := composition.NewEngine(0, 0, 0)
	items := []composition.Item{
		testItem("7"),
		{
			ProductID: "P2", UnitID: "caja-b", Quantity: dec("5"),
			WidthCm: dec("25"), LengthCm: dec("25"), HeightCm: dec("20"), WeightKg: dec("3"),
		},
		{
			ProductID: "P0", UnitID: "caja-c", Quantity: dec("3"),
			WidthCm: dec("25"), LengthCm: dec("25"), HeightCm: dec("20"), WeightKg: dec("3"),
		},
	}

	first, err := engine.Evaluate(testPallet(), items, nil)
	require.NoError(t, err)
	second, err := engine.Evaluate(testPallet(), items, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Layout.Arrangement, second.Layout.Arrangement,
		"el mismo input produce el mismo arrangement")
	assert.Equal(t, first.Efficiency, second.Efficiency)

	// Desempate estable: misma huella y altura -> ordena por productID
	require.NotEmpty(t, first.Layout.Arrangement)
	var sawP0, sawP2 int
	for i, pl := range first.Layout.Arrangement {
		switch pl.ProductID {
		case "P0":
			sawP0 = i
		case "P2":
			sawP2 = i
		}
	}
	assert.Less(t, sawP0, sawP2, "a igual física, P0 se coloca antes que P2")
}
