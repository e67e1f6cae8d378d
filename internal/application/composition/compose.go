package composition

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/application/stock"
	"github.com/jhoicas/Almacen-api/internal/domain"
	domcomp "github.com/jhoicas/Almacen-api/internal/domain/composition"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// ComposeUseCase orquesta el flujo de evaluación de una composición:
// consolidación de stock → normalización a unidades base → validación de
// límites → empaque. Los datos se cargan por adelantado y el motor corre como
// cómputo puro; los errores de solicitud (producto/pallet/unidad inexistente,
// override inválido) abortan antes de cualquier aritmética.
type ComposeUseCase struct {
	products     repository.ProductRepository
	units        repository.PackagingUnitRepository
	pallets      repository.PalletRepository
	consolidator *stock.Consolidator
	engine       *domcomp.Engine
}

// NewComposeUseCase construye el caso de uso.
func NewComposeUseCase(
	products repository.ProductRepository,
	units repository.PackagingUnitRepository,
	pallets repository.PalletRepository,
	consolidator *stock.Consolidator,
	engine *domcomp.Engine,
) *ComposeUseCase {
	return &ComposeUseCase{
		products:     products,
		units:        units,
		pallets:      pallets,
		consolidator: consolidator,
		engine:       engine,
	}
}

// Compose evalúa el request contra el pallet objetivo y devuelve el Result
// completo. La falta de stock se reporta como violación tipo "stock" de
// severidad error, con el detalle por producto, no como error Go.
func (uc *ComposeUseCase) Compose(req domcomp.Request) (*domcomp.Result, error) {
	if len(req.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}

	pallet, err := uc.pallets.GetByID(req.PalletID)
	if err != nil {
		return nil, err
	}
	if pallet == nil {
		return nil, domain.ErrPalletNotFound
	}

	items, neededBase, err := uc.resolveItems(req.Lines)
	if err != nil {
		return nil, err
	}

	spec := domcomp.PalletSpec{
		WidthCm:     pallet.WidthCm,
		LengthCm:    pallet.LengthCm,
		MaxHeightCm: pallet.MaxHeightCm,
		MaxWeightKg: pallet.MaxWeightKg,
	}
	result, err := uc.engine.Evaluate(spec, items, req.Override)
	if err != nil {
		return nil, err
	}

	if err := uc.checkStock(result, neededBase); err != nil {
		return nil, err
	}
	result.IsValid = !result.HasErrors()
	return result, nil
}

// resolveItems carga producto y empaque de cada línea y arma los Items del
// motor. UnitID vacío usa la unidad base del producto; un empaque de otro
// producto es ErrIncompatibleUnits. Devuelve además las unidades base
// requeridas por producto para el chequeo de stock.
func (uc *ComposeUseCase) resolveItems(lines []domcomp.RequestLine) ([]domcomp.Item, map[string]decimal.Decimal, error) {
	items := make([]domcomp.Item, 0, len(lines))
	neededBase := map[string]decimal.Decimal{}

	for _, line := range lines {
		if !line.Quantity.IsPositive() {
			return nil, nil, domain.ErrInvalidInput
		}
		product, err := uc.products.GetByID(line.ProductID)
		if err != nil {
			return nil, nil, err
		}
		if product == nil {
			return nil, nil, domain.ErrProductNotFound
		}

		var unit *entity.PackagingUnit
		if line.UnitID == "" {
			units, err := uc.units.ListByProduct(line.ProductID)
			if err != nil {
				return nil, nil, err
			}
			for _, u := range units {
				if u.IsBaseUnit {
					unit = u
					break
				}
			}
			if unit == nil {
				return nil, nil, domain.ErrNoBaseUnit
			}
		} else {
			unit, err = uc.units.GetByID(line.UnitID)
			if err != nil {
				return nil, nil, err
			}
			if unit == nil {
				return nil, nil, domain.ErrUnitNotFound
			}
			if unit.ProductID != line.ProductID {
				return nil, nil, domain.ErrIncompatibleUnits
			}
		}

		items = append(items, domcomp.Item{
			ProductID: line.ProductID,
			UnitID:    unit.ID,
			Quantity:  line.Quantity,
			WidthCm:   fallback(unit.WidthCm, product.WidthCm),
			LengthCm:  fallback(unit.LengthCm, product.LengthCm),
			HeightCm:  fallback(unit.HeightCm, product.HeightCm),
			WeightKg:  fallback(unit.WeightKg, product.WeightKg),
		})

		base := line.Quantity.Mul(unit.BaseUnitQuantity)
		neededBase[line.ProductID] = neededBase[line.ProductID].Add(base)
	}
	return items, neededBase, nil
}

// checkStock agrega violaciones tipo "stock" por cada producto cuyo stock
// consolidado no alcanza lo solicitado. Orden determinista por productID.
func (uc *ComposeUseCase) checkStock(result *domcomp.Result, neededBase map[string]decimal.Decimal) error {
	productIDs := make([]string, 0, len(neededBase))
	for id := range neededBase {
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)

	for _, productID := range productIDs {
		consolidated, err := uc.consolidator.Consolidate(productID)
		if err != nil {
			return err
		}
		needed := neededBase[productID]
		if consolidated.TotalBaseUnits.LessThan(needed) {
			result.Violations = append(result.Violations, domcomp.Violation{
				Type:     domcomp.ViolationStock,
				Severity: domcomp.SeverityError,
				Message:  "stock insuficiente del producto " + productID,
				Limit:    consolidated.TotalBaseUnits,
				Actual:   needed,
			})
		}
	}
	return nil
}

// BuildLines deriva las líneas desnormalizadas (producto+empaque+cantidad+capa)
// desde el request y el arrangement calculado, para persistencia y UI.
func BuildLines(compositionID string, req domcomp.Request, result *domcomp.Result, newID func() string) []entity.CompositionLine {
	layerOf := layerIndex(result)
	lines := make([]entity.CompositionLine, 0, len(req.Lines))
	for _, rl := range req.Lines {
		unitID := rl.UnitID
		layer := 0
		for _, p := range result.Layout.Arrangement {
			if p.ProductID == rl.ProductID && (unitID == "" || p.UnitID == unitID) {
				if unitID == "" {
					unitID = p.UnitID
				}
				layer = layerOf[p.Position.Z.String()]
				break
			}
		}
		lines = append(lines, entity.CompositionLine{
			ID:            newID(),
			CompositionID: compositionID,
			ProductID:     rl.ProductID,
			UnitID:        unitID,
			Quantity:      rl.Quantity,
			Layer:         layer,
		})
	}
	return lines
}

// layerIndex mapea cada cota Z del arrangement a su índice de capa (0..n-1).
func layerIndex(result *domcomp.Result) map[string]int {
	zs := map[string]decimal.Decimal{}
	for _, p := range result.Layout.Arrangement {
		zs[p.Position.Z.String()] = p.Position.Z
	}
	sorted := make([]decimal.Decimal, 0, len(zs))
	for _, z := range zs {
		sorted = append(sorted, z)
	}
	sort.Slice(sorted, func(a, b int) bool { return sorted[a].LessThan(sorted[b]) })
	index := make(map[string]int, len(sorted))
	for i, z := range sorted {
		index[z.String()] = i
	}
	return index
}

func fallback(value, def decimal.Decimal) decimal.Decimal {
	if value.IsPositive() {
		return value
	}
	return def
}
