package stock

import (
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/domain"
	dompack "github.com/jhoicas/Almacen-api/internal/domain/packaging"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Consolidator agrega el stock físico de un producto, registrado en empaques
// mezclados, a totales comparables en unidades base. Es estrictamente de
// lectura: nunca muta StockLines.
type Consolidator struct {
	stock repository.StockLineRepository
	units repository.PackagingUnitRepository
}

// NewConsolidator construye el consolidador.
func NewConsolidator(stock repository.StockLineRepository, units repository.PackagingUnitRepository) *Consolidator {
	return &Consolidator{stock: stock, units: units}
}

// ConsolidatedStock total del producto en unidades base y cuántas posiciones
// físicas lo contienen.
type ConsolidatedStock struct {
	TotalBaseUnits decimal.Decimal
	LocationsCount int
}

// PackagingStock re-expresión del total como paquetes completos de un empaque
// más el remanente en unidades base.
type PackagingStock struct {
	AvailablePackages  decimal.Decimal
	RemainingBaseUnits decimal.Decimal
	TotalBaseUnits     decimal.Decimal
}

// Consolidate suma todas las StockLines activas del producto convertidas a
// unidades base. Las líneas sin UnitID ya están en unidades base.
func (c *Consolidator) Consolidate(productID string) (*ConsolidatedStock, error) {
	lines, err := c.stock.ListActiveByProduct(productID)
	if err != nil {
		return nil, err
	}
	units, err := c.units.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	unitByID := make(map[string]decimal.Decimal, len(units))
	for _, u := range units {
		unitByID[u.ID] = u.BaseUnitQuantity
	}

	total := decimal.Zero
	positions := map[string]bool{}
	for _, line := range lines {
		qty := line.Quantity
		if line.UnitID != nil {
			factor, ok := unitByID[*line.UnitID]
			if !ok {
				return nil, domain.ErrUnitNotFound
			}
			qty = qty.Mul(factor)
		}
		total = total.Add(qty)
		positions[line.PositionID] = true
	}
	return &ConsolidatedStock{TotalBaseUnits: total, LocationsCount: len(positions)}, nil
}

// ByPackaging re-expresa el total consolidado como paquetes completos del
// empaque dado más remanente. Invariante verificable:
// AvailablePackages * factor + RemainingBaseUnits == TotalBaseUnits.
func (c *Consolidator) ByPackaging(productID, unitID string) (*PackagingStock, error) {
	unit, err := c.units.GetByID(unitID)
	if err != nil {
		return nil, err
	}
	if unit == nil || unit.ProductID != productID {
		return nil, domain.ErrUnitNotFound
	}
	// Imposible por construcción de la jerarquía, pero jamás dividir sin verificar.
	if unit.BaseUnitQuantity.IsZero() {
		return nil, domain.ErrInvalidHierarchy
	}

	consolidated, err := c.Consolidate(productID)
	if err != nil {
		return nil, err
	}
	total := consolidated.TotalBaseUnits
	remainder := total.Mod(unit.BaseUnitQuantity)
	packages := total.Sub(remainder).Div(unit.BaseUnitQuantity)
	return &PackagingStock{
		AvailablePackages:  packages,
		RemainingBaseUnits: remainder,
		TotalBaseUnits:     total,
	}, nil
}

// Available indica si el producto tiene al menos la cantidad pedida del
// empaque dado (o unidades base si unit es nil).
func (c *Consolidator) Available(productID string, unitID *string, quantity decimal.Decimal) (bool, decimal.Decimal, error) {
	consolidated, err := c.Consolidate(productID)
	if err != nil {
		return false, decimal.Zero, err
	}
	needed := quantity
	if unitID != nil {
		unit, err := c.units.GetByID(*unitID)
		if err != nil {
			return false, decimal.Zero, err
		}
		if unit == nil || unit.ProductID != productID {
			return false, decimal.Zero, domain.ErrUnitNotFound
		}
		needed = dompack.ToBaseUnits(quantity, unit)
	}
	return consolidated.TotalBaseUnits.GreaterThanOrEqual(needed), needed, nil
}
