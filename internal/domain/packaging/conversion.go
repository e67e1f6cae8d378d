package packaging

import (
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// Servicio de dominio de conversión entre empaques (aritmética decimal, no
// binaria: las conversiones repetidas no acumulan drift). Ninguna función
// redondea en silencio: FromBaseUnits informa si el redondeo perdió precisión
// para que el caller lo reporte como warning.

// divPrecision dígitos significativos para divisiones intermedias.
const divPrecision = 16

// Factor devuelve el factor de conversión entre dos empaques del mismo
// producto: from.BaseUnitQuantity / to.BaseUnitQuantity.
func Factor(from, to *entity.PackagingUnit) (decimal.Decimal, error) {
	if from == nil || to == nil {
		return decimal.Zero, domain.ErrUnitNotFound
	}
	if from.ProductID != to.ProductID {
		return decimal.Zero, domain.ErrIncompatibleUnits
	}
	// La jerarquía no admite factor cero, pero nunca dividir sin verificar.
	if to.BaseUnitQuantity.IsZero() {
		return decimal.Zero, domain.ErrInvalidHierarchy
	}
	return from.BaseUnitQuantity.DivRound(to.BaseUnitQuantity, divPrecision), nil
}

// ToBaseUnits convierte una cantidad expresada en el empaque dado a unidades base.
func ToBaseUnits(quantity decimal.Decimal, unit *entity.PackagingUnit) decimal.Decimal {
	return quantity.Mul(unit.BaseUnitQuantity)
}

// FromBaseUnits convierte unidades base a cantidad del empaque dado, redondeada
// a la precisión configurada del producto. El booleano indica si la conversión
// fue exacta; false significa que el redondeo perdió precisión y el caller debe
// emitir un warning (nunca se traga la pérdida).
func FromBaseUnits(baseQuantity decimal.Decimal, unit *entity.PackagingUnit, precision int32) (decimal.Decimal, bool, error) {
	if unit == nil {
		return decimal.Zero, false, domain.ErrUnitNotFound
	}
	if unit.BaseUnitQuantity.IsZero() {
		return decimal.Zero, false, domain.ErrInvalidHierarchy
	}
	qty := baseQuantity.DivRound(unit.BaseUnitQuantity, divPrecision)
	rounded := qty.Round(precision)
	exact := rounded.Mul(unit.BaseUnitQuantity).Equal(baseQuantity)
	return rounded, exact, nil
}

// BuildRules materializa el cache de ConversionRule para todas las parejas
// ordenadas de empaques activos de un producto. Una unidad nunca convierte a
// sí misma. El resultado es derivado: se puede descartar y regenerar.
func BuildRules(productID string, units []*entity.PackagingUnit, newID func() string) ([]*entity.ConversionRule, error) {
	rules := make([]*entity.ConversionRule, 0, len(units)*(len(units)-1))
	for _, from := range units {
		for _, to := range units {
			if from.ID == to.ID {
				continue
			}
			factor, err := Factor(from, to)
			if err != nil {
				return nil, err
			}
			rules = append(rules, &entity.ConversionRule{
				ID:         newID(),
				ProductID:  productID,
				FromUnitID: from.ID,
				ToUnitID:   to.ID,
				Factor:     factor,
			})
		}
	}
	return rules, nil
}
