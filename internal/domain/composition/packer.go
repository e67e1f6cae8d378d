package composition

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Packer de estantes (shelf) por capas: coloca de izquierda a derecha, salta
// de fila cuando se agota el ancho y de capa cuando se agota el largo. Greedy
// y determinista: el mismo input produce siempre el mismo arrangement. Nunca
// degenera en búsqueda exhaustiva; el costo es lineal en la cantidad de ítems.

// packOutcome resultado interno del packer, consumido por Evaluate.
type packOutcome struct {
	arrangement     []Placement
	layers          int
	itemsFirstLayer int
	requested       []int64 // por índice de item: floor(quantity)
	placed          []int64 // por índice de item: ejemplares colocados
	fits            []bool  // por índice de item: cabe individualmente en la huella/altura
	heightUsed      decimal.Decimal
	placedVolumeCm3 decimal.Decimal
	overflowCm      decimal.Decimal // altura que habría necesitado el primer ítem sin lugar
	truncated       bool            // se alcanzó el tope de ítems del arrangement
}

// orient decide la orientación del empaque sobre la huella: tal cual, o rotado
// 90° si solo así cabe. Devuelve ok=false cuando ninguna orientación cabe.
func orient(it Item, p PalletSpec) (w, l decimal.Decimal, ok bool) {
	if it.WidthCm.LessThanOrEqual(p.WidthCm) && it.LengthCm.LessThanOrEqual(p.LengthCm) {
		return it.WidthCm, it.LengthCm, true
	}
	if it.LengthCm.LessThanOrEqual(p.WidthCm) && it.WidthCm.LessThanOrEqual(p.LengthCm) {
		return it.LengthCm, it.WidthCm, true
	}
	return decimal.Zero, decimal.Zero, false
}

// pack coloca los ítems sobre el pallet efectivo (MaxHeightCm ya resuelto).
// Orden de colocación: área de huella descendente, altura descendente y
// productID/unitID ascendente como desempate estable.
func (e *Engine) pack(p PalletSpec, items []Item) packOutcome {
	out := packOutcome{
		requested: make([]int64, len(items)),
		placed:    make([]int64, len(items)),
		fits:      make([]bool, len(items)),
	}

	order := make([]int, len(items))
	for i := range items {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := items[order[a]], items[order[b]]
		fa, fb := ia.WidthCm.Mul(ia.LengthCm), ib.WidthCm.Mul(ib.LengthCm)
		if !fa.Equal(fb) {
			return fa.GreaterThan(fb)
		}
		if !ia.HeightCm.Equal(ib.HeightCm) {
			return ia.HeightCm.GreaterThan(ib.HeightCm)
		}
		if ia.ProductID != ib.ProductID {
			return ia.ProductID < ib.ProductID
		}
		return ia.UnitID < ib.UnitID
	})

	var (
		cursorX  = decimal.Zero
		cursorY  = decimal.Zero
		rowDepth = decimal.Zero // largo máximo de la fila en curso
		layerZ   = decimal.Zero
		layerH   = decimal.Zero // altura máxima de la capa en curso
		layerIdx = 0
		totalPl  int64
	)

	for _, idx := range order {
		it := items[idx]
		out.requested[idx] = it.Quantity.IntPart()

		w, l, ok := orient(it, p)
		out.fits[idx] = ok && it.HeightCm.LessThanOrEqual(p.MaxHeightCm)
		if !out.fits[idx] {
			continue
		}

		itemVol := it.WidthCm.Mul(it.LengthCm).Mul(it.HeightCm)
		for k := int64(0); k < out.requested[idx]; k++ {
			if e.MaxItems > 0 && totalPl >= int64(e.MaxItems) {
				out.truncated = true
				break
			}
			if cursorX.Add(w).GreaterThan(p.WidthCm) {
				cursorX = decimal.Zero
				cursorY = cursorY.Add(rowDepth)
				rowDepth = decimal.Zero
			}
			if cursorY.Add(l).GreaterThan(p.LengthCm) {
				// capa agotada en huella: abrir una capa nueva
				layerZ = layerZ.Add(layerH)
				layerH = decimal.Zero
				cursorX, cursorY, rowDepth = decimal.Zero, decimal.Zero, decimal.Zero
				layerIdx++
			}
			if layerZ.Add(it.HeightCm).GreaterThan(p.MaxHeightCm) {
				// sin presupuesto de altura para este ítem; el resto de la
				// línea queda sin colocar, pero líneas más bajas aún pueden caber
				needed := layerZ.Add(it.HeightCm)
				if needed.GreaterThan(out.overflowCm) {
					out.overflowCm = needed
				}
				break
			}

			out.appendPlacement(it, cursorX, cursorY, layerZ, w, l)
			out.placed[idx]++
			totalPl++
			if layerIdx == 0 {
				out.itemsFirstLayer++
			}
			out.placedVolumeCm3 = out.placedVolumeCm3.Add(itemVol)

			cursorX = cursorX.Add(w)
			if l.GreaterThan(rowDepth) {
				rowDepth = l
			}
			if it.HeightCm.GreaterThan(layerH) {
				layerH = it.HeightCm
			}
		}
	}

	if totalPl > 0 {
		out.layers = layerIdx + 1
		out.heightUsed = layerZ.Add(layerH)
	}
	return out
}

// appendPlacement agrega un ejemplar al arrangement, fusionando corridas
// contiguas del mismo empaque sobre la misma fila y capa (quantity > 1).
func (o *packOutcome) appendPlacement(it Item, x, y, z, w, l decimal.Decimal) {
	if n := len(o.arrangement); n > 0 {
		last := &o.arrangement[n-1]
		runEnd := last.Position.X.Add(last.Dimensions.WidthCm.Mul(decimal.NewFromInt(last.Quantity)))
		if last.ProductID == it.ProductID && last.UnitID == it.UnitID &&
			last.Position.Y.Equal(y) && last.Position.Z.Equal(z) && runEnd.Equal(x) {
			last.Quantity++
			return
		}
	}
	o.arrangement = append(o.arrangement, Placement{
		ProductID: it.ProductID,
		UnitID:    it.UnitID,
		Quantity:  1,
		Position:  Position{X: x, Y: y, Z: z},
		Dimensions: Dimensions{
			WidthCm:  w,
			LengthCm: l,
			HeightCm: it.HeightCm,
		},
	})
}
