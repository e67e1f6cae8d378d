package composition

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/domain"
)

// Engine evalúa una composición: resuelve límites efectivos, verifica canFit
// por línea, empaca con la heurística de estantes y produce el Result completo
// (violaciones como datos, nunca como error Go). Es cómputo puro y síncrono:
// sin I/O, sin estado compartido; seguro de ejecutar en paralelo para
// composiciones distintas.
type Engine struct {
	WarnThreshold float64 // inicio de la banda de advertencia de utilización
	MinEfficiency float64 // por debajo de esto se generan recomendaciones
	MaxItems      int     // tope de ejemplares en el arrangement (acota memoria)
}

// NewEngine construye el motor; cero o negativo toma el valor por defecto.
func NewEngine(warnThreshold, minEfficiency float64, maxItems int) *Engine {
	e := &Engine{WarnThreshold: warnThreshold, MinEfficiency: minEfficiency, MaxItems: maxItems}
	if e.WarnThreshold <= 0 {
		e.WarnThreshold = 0.80
	}
	if e.MinEfficiency <= 0 {
		e.MinEfficiency = 0.50
	}
	if e.MaxItems <= 0 {
		e.MaxItems = 100000
	}
	return e
}

// effective límites efectivos = min(límites del pallet, override del request).
type effective struct {
	MaxWeightKg decimal.Decimal
	MaxVolumeM3 decimal.Decimal
	MaxHeightCm decimal.Decimal
}

// resolveConstraints valida el override contra los límites físicos del pallet.
// Un override no positivo o mayor que el límite físico es ErrInvalidConstraint.
func resolveConstraints(p PalletSpec, o *Constraints) (effective, error) {
	eff := effective{
		MaxWeightKg: p.MaxWeightKg,
		MaxVolumeM3: p.VolumeM3(),
		MaxHeightCm: p.MaxHeightCm,
	}
	if o == nil {
		return eff, nil
	}
	if o.MaxWeightKg != nil {
		if o.MaxWeightKg.LessThanOrEqual(decimal.Zero) || o.MaxWeightKg.GreaterThan(p.MaxWeightKg) {
			return effective{}, domain.ErrInvalidConstraint
		}
		eff.MaxWeightKg = *o.MaxWeightKg
	}
	if o.MaxVolumeM3 != nil {
		if o.MaxVolumeM3.LessThanOrEqual(decimal.Zero) || o.MaxVolumeM3.GreaterThan(p.VolumeM3()) {
			return effective{}, domain.ErrInvalidConstraint
		}
		eff.MaxVolumeM3 = *o.MaxVolumeM3
	}
	if o.MaxHeightCm != nil {
		if o.MaxHeightCm.LessThanOrEqual(decimal.Zero) || o.MaxHeightCm.GreaterThan(p.MaxHeightCm) {
			return effective{}, domain.ErrInvalidConstraint
		}
		eff.MaxHeightCm = *o.MaxHeightCm
	}
	return eff, nil
}

// Evaluate valida y empaca los ítems contra el pallet. Devuelve error solo por
// override inválido (request-level); todo lo físico viaja dentro del Result.
func (e *Engine) Evaluate(pallet PalletSpec, items []Item, override *Constraints) (*Result, error) {
	eff, err := resolveConstraints(pallet, override)
	if err != nil {
		return nil, err
	}

	packPallet := PalletSpec{
		WidthCm:     pallet.WidthCm,
		LengthCm:    pallet.LengthCm,
		MaxHeightCm: eff.MaxHeightCm,
		MaxWeightKg: eff.MaxWeightKg,
	}
	out := e.pack(packPallet, items)

	res := &Result{
		Violations:      []Violation{},
		Warnings:        []string{},
		Recommendations: []string{},
	}

	// Totales físicos sobre la cantidad solicitada completa (incluida la
	// fracción que el packer no puede colocar).
	totalWeight := decimal.Zero
	totalVolume := decimal.Zero
	var totalRequested, totalPlaced int64
	for i, it := range items {
		totalWeight = totalWeight.Add(it.Quantity.Mul(it.WeightKg))
		totalVolume = totalVolume.Add(it.Quantity.Mul(it.VolumeM3()))
		totalRequested += out.requested[i]
		totalPlaced += out.placed[i]
	}

	res.Weight = usage(totalWeight, eff.MaxWeightKg)
	res.Volume = usage(totalVolume, eff.MaxVolumeM3)
	res.Height = usage(out.heightUsed, eff.MaxHeightCm)

	e.checkLimit(res, ViolationWeight, res.Weight, "el peso total excede el límite del pallet")
	e.checkLimit(res, ViolationVolume, res.Volume, "el volumen total excede el límite del pallet")

	unplaced := totalRequested - totalPlaced
	if unplaced > 0 && !out.truncated {
		res.Violations = append(res.Violations, Violation{
			Type:     ViolationHeight,
			Severity: SeverityError,
			Message:  fmt.Sprintf("%d ejemplares no caben dentro de la huella/altura del pallet", unplaced),
			Limit:    eff.MaxHeightCm,
			Actual:   maxDecimal(out.overflowCm, out.heightUsed),
		})
	} else if res.Height.Utilization >= e.WarnThreshold && res.Height.Utilization <= 1.0 {
		res.Violations = append(res.Violations, Violation{
			Type:     ViolationHeight,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("la altura apilada usa el %.0f%% del límite", res.Height.Utilization*100),
			Limit:    eff.MaxHeightCm,
			Actual:   out.heightUsed,
		})
	}
	if out.truncated {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("arrangement truncado en %d ejemplares; los restantes no fueron colocados", e.MaxItems))
	}

	res.Layout = Layout{
		Layers:        out.layers,
		ItemsPerLayer: out.itemsFirstLayer,
		TotalItems:    totalRequested,
		PlacedItems:   totalPlaced,
		Arrangement:   out.arrangement,
	}
	res.Efficiency = efficiency(out, packPallet)
	res.Products = breakdown(items, out)

	for i, it := range items {
		if !it.Quantity.Equal(it.Quantity.Floor()) {
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"cantidad fraccionaria %s del producto %s: solo se empacan %d ejemplares completos",
				it.Quantity.String(), it.ProductID, out.requested[i]))
		}
	}

	e.recommend(res)
	res.IsValid = !res.HasErrors()
	return res, nil
}

// checkLimit agrega violación error si Total > Limit, o warning si la
// utilización cae en la banda configurada (80–100% por defecto).
func (e *Engine) checkLimit(res *Result, vType string, u Usage, msg string) {
	if u.Total.GreaterThan(u.Limit) {
		res.Violations = append(res.Violations, Violation{
			Type: vType, Severity: SeverityError, Message: msg, Limit: u.Limit, Actual: u.Total,
		})
		return
	}
	if u.Utilization >= e.WarnThreshold && u.Utilization <= 1.0 {
		res.Violations = append(res.Violations, Violation{
			Type:     vType,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("utilización de %s al %.0f%% del límite", vType, u.Utilization*100),
			Limit:    u.Limit,
			Actual:   u.Total,
		})
	}
}

func usage(total, limit decimal.Decimal) Usage {
	u := Usage{Total: total, Limit: limit}
	if limit.IsPositive() {
		u.Utilization = total.DivRound(limit, 8).InexactFloat64()
	}
	return u
}

// efficiency = Σ volúmenes colocados / (huella del pallet × altura usada).
func efficiency(out packOutcome, p PalletSpec) float64 {
	if out.heightUsed.IsZero() {
		return 0
	}
	envelope := p.WidthCm.Mul(p.LengthCm).Mul(out.heightUsed)
	if !envelope.IsPositive() {
		return 0
	}
	return out.placedVolumeCm3.DivRound(envelope, 8).InexactFloat64()
}

// breakdown desglose por producto en orden de primera aparición (determinista).
func breakdown(items []Item, out packOutcome) []ProductBreakdown {
	index := map[string]int{}
	result := []ProductBreakdown{}
	var requested = map[string]int64{}
	var placed = map[string]int64{}

	for i, it := range items {
		pos, seen := index[it.ProductID]
		if !seen {
			pos = len(result)
			index[it.ProductID] = pos
			result = append(result, ProductBreakdown{
				ProductID:     it.ProductID,
				Quantity:      decimal.Zero,
				TotalWeightKg: decimal.Zero,
				TotalVolumeM3: decimal.Zero,
				CanFit:        true,
			})
		}
		b := &result[pos]
		b.Quantity = b.Quantity.Add(it.Quantity)
		b.TotalWeightKg = b.TotalWeightKg.Add(it.Quantity.Mul(it.WeightKg))
		b.TotalVolumeM3 = b.TotalVolumeM3.Add(it.Quantity.Mul(it.VolumeM3()))
		requested[it.ProductID] += out.requested[i]
		placed[it.ProductID] += out.placed[i]

		if !out.fits[i] {
			b.CanFit = false
			b.Issues = append(b.Issues, fmt.Sprintf(
				"el empaque %s no cabe individualmente en la huella o altura del pallet", it.UnitID))
		} else if out.placed[i] < out.requested[i] {
			b.Issues = append(b.Issues, fmt.Sprintf(
				"%d ejemplares del empaque %s quedaron sin colocar", out.requested[i]-out.placed[i], it.UnitID))
		}
	}

	for i := range result {
		req := requested[result[i].ProductID]
		if req > 0 {
			result[i].Efficiency = float64(placed[result[i].ProductID]) / float64(req)
		} else {
			result[i].Efficiency = 1
		}
	}
	return result
}

// recommend heurísticas de recomendación: eficiencia baja, ítems sin colocar
// y producto dominante del espacio vertical.
func (e *Engine) recommend(res *Result) {
	if res.Layout.PlacedItems < res.Layout.TotalItems {
		res.Recommendations = append(res.Recommendations,
			"dividir la solicitud en más de un pallet o usar un pallet de mayor capacidad")
	}
	if res.Layout.PlacedItems > 0 && res.Efficiency < e.MinEfficiency {
		res.Recommendations = append(res.Recommendations, fmt.Sprintf(
			"eficiencia volumétrica baja (%.0f%%): considere consolidar más producto o un pallet más pequeño",
			res.Efficiency*100))
	}
	if res.Height.Utilization > 0.9 {
		if dom := dominantProduct(res.Products); dom != "" {
			res.Recommendations = append(res.Recommendations, fmt.Sprintf(
				"el producto %s domina el espacio vertical; considere una UCP dedicada", dom))
		}
	}
}

// dominantProduct devuelve el producto con más del 60% del volumen total, si existe.
func dominantProduct(products []ProductBreakdown) string {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.TotalVolumeM3)
	}
	if !total.IsPositive() {
		return ""
	}
	threshold := total.Mul(decimal.NewFromFloat(0.6))
	for _, p := range products {
		if p.TotalVolumeM3.GreaterThan(threshold) {
			return p.ProductID
		}
	}
	return ""
}

func maxDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}
