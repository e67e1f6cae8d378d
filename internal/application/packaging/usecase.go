package packaging

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	dompack "github.com/jhoicas/Almacen-api/internal/domain/packaging"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// UseCase gestiona la jerarquía de empaques de un producto: alta/baja de
// unidades con sus invariantes (una sola base, ciclos prohibidos, barcode
// global único) y regeneración del cache de reglas de conversión.
type UseCase struct {
	units        repository.PackagingUnitRepository
	stock        repository.StockLineRepository
	compositions repository.CompositionRepository
	rules        repository.ConversionRuleRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	units repository.PackagingUnitRepository,
	stock repository.StockLineRepository,
	compositions repository.CompositionRepository,
	rules repository.ConversionRuleRepository,
) *UseCase {
	return &UseCase{units: units, stock: stock, compositions: compositions, rules: rules}
}

// UnitInput datos de alta de una unidad de empaque.
type UnitInput struct {
	ProductID        string
	Name             string
	BaseUnitQuantity decimal.Decimal
	IsBaseUnit       bool
	ParentID         *string
	Barcode          *string
	WidthCm          decimal.Decimal
	LengthCm         decimal.Decimal
	HeightCm         decimal.Decimal
	WeightKg         decimal.Decimal
}

// AddUnit da de alta una unidad de empaque validando los invariantes de la
// jerarquía. Falla con ErrInvalidHierarchy si: se intenta una segunda unidad
// base, el factor no es positivo, la base no tiene factor 1, el padre crearía
// un ciclo o el barcode colisiona con una unidad activa de cualquier producto.
// La primera unidad de un producto debe ser la base (ErrNoBaseUnit si no).
func (uc *UseCase) AddUnit(in UnitInput) (*entity.PackagingUnit, error) {
	if in.ProductID == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.BaseUnitQuantity.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidHierarchy
	}
	if in.IsBaseUnit && !in.BaseUnitQuantity.Equal(decimal.NewFromInt(1)) {
		return nil, domain.ErrInvalidHierarchy
	}

	existing, err := uc.units.ListByProduct(in.ProductID)
	if err != nil {
		return nil, err
	}
	base := findBase(existing)
	if in.IsBaseUnit && base != nil {
		return nil, domain.ErrInvalidHierarchy // segunda unidad base
	}
	if !in.IsBaseUnit && base == nil {
		// la base debe establecerse antes de cualquier otra operación de empaques
		return nil, domain.ErrNoBaseUnit
	}

	if in.ParentID != nil {
		if err := checkParent(existing, *in.ParentID); err != nil {
			return nil, err
		}
	}

	if in.Barcode != nil && *in.Barcode != "" {
		collision, err := uc.units.GetByBarcode(*in.Barcode)
		if err != nil {
			return nil, err
		}
		if collision != nil {
			return nil, domain.ErrInvalidHierarchy
		}
	}

	now := time.Now()
	unit := &entity.PackagingUnit{
		ID:               uuid.New().String(),
		ProductID:        in.ProductID,
		Name:             in.Name,
		BaseUnitQuantity: in.BaseUnitQuantity,
		IsBaseUnit:       in.IsBaseUnit,
		ParentID:         in.ParentID,
		Barcode:          in.Barcode,
		WidthCm:          in.WidthCm,
		LengthCm:         in.LengthCm,
		HeightCm:         in.HeightCm,
		WeightKg:         in.WeightKg,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.units.Create(unit); err != nil {
		return nil, err
	}
	if err := uc.refreshDerived(in.ProductID); err != nil {
		return nil, err
	}
	created, err := uc.units.GetByID(unit.ID)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// RemoveUnit desactiva una unidad. Falla con ErrUnitInUse si alguna StockLine
// activa o línea de composición la referencia, y con ErrInvalidHierarchy si se
// intenta quitar la base mientras existan otras unidades activas del producto.
func (uc *UseCase) RemoveUnit(id string) error {
	unit, err := uc.units.GetByID(id)
	if err != nil {
		return err
	}
	if unit == nil || !unit.Active {
		return domain.ErrUnitNotFound
	}

	inStock, err := uc.stock.ExistsActiveByUnit(id)
	if err != nil {
		return err
	}
	if inStock {
		return domain.ErrUnitInUse
	}
	inComposition, err := uc.compositions.ExistsActiveLineByUnit(id)
	if err != nil {
		return err
	}
	if inComposition {
		return domain.ErrUnitInUse
	}

	if unit.IsBaseUnit {
		siblings, err := uc.units.ListByProduct(unit.ProductID)
		if err != nil {
			return err
		}
		if len(siblings) > 1 {
			return domain.ErrInvalidHierarchy
		}
	}

	if err := uc.units.Deactivate(id); err != nil {
		return err
	}
	return uc.refreshDerived(unit.ProductID)
}

// GetHierarchy devuelve las unidades activas del producto ordenadas por nivel
// ascendente (la base primero).
func (uc *UseCase) GetHierarchy(productID string) ([]*entity.PackagingUnit, error) {
	units, err := uc.units.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(units, func(a, b int) bool {
		if units[a].Level != units[b].Level {
			return units[a].Level < units[b].Level
		}
		return units[a].BaseUnitQuantity.LessThan(units[b].BaseUnitQuantity)
	})
	return units, nil
}

// GetBaseUnit devuelve la unidad base del producto; ErrNoBaseUnit si no existe.
func (uc *UseCase) GetBaseUnit(productID string) (*entity.PackagingUnit, error) {
	units, err := uc.units.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	base := findBase(units)
	if base == nil {
		return nil, domain.ErrNoBaseUnit
	}
	return base, nil
}

// RebuildConversionRules regenera el cache de reglas del producto desde las
// unidades activas. El cache es derivado: descartarlo nunca pierde información.
func (uc *UseCase) RebuildConversionRules(productID string) error {
	units, err := uc.units.ListByProduct(productID)
	if err != nil {
		return err
	}
	rules, err := dompack.BuildRules(productID, units, func() string { return uuid.New().String() })
	if err != nil {
		return err
	}
	return uc.rules.ReplaceForProduct(productID, rules)
}

// refreshDerived recalcula niveles y regenera el cache de conversión tras un
// cambio en la jerarquía.
func (uc *UseCase) refreshDerived(productID string) error {
	if err := uc.recomputeLevels(productID); err != nil {
		return err
	}
	return uc.RebuildConversionRules(productID)
}

// recomputeLevels asigna Level 1..n como ranking ascendente de
// BaseUnitQuantity (la base siempre queda en 1). Sobrevive a cualquier orden
// de inserción de los empaques.
func (uc *UseCase) recomputeLevels(productID string) error {
	units, err := uc.units.ListByProduct(productID)
	if err != nil {
		return err
	}
	sort.SliceStable(units, func(a, b int) bool {
		if !units[a].BaseUnitQuantity.Equal(units[b].BaseUnitQuantity) {
			return units[a].BaseUnitQuantity.LessThan(units[b].BaseUnitQuantity)
		}
		return units[a].CreatedAt.Before(units[b].CreatedAt)
	})
	for i, u := range units {
		if u.Level == i+1 {
			continue
		}
		u.Level = i + 1
		u.UpdatedAt = time.Now()
		if err := uc.units.Update(u); err != nil {
			return err
		}
	}
	return nil
}

// findBase localiza la unidad base activa en una lista de unidades.
func findBase(units []*entity.PackagingUnit) *entity.PackagingUnit {
	for _, u := range units {
		if u.IsBaseUnit {
			return u
		}
	}
	return nil
}

// checkParent valida que el padre exista dentro del producto y que seguir la
// cadena de padres no forme un ciclo (chequeo de alcanzabilidad en el grafo,
// no un invariante de la estructura de almacenamiento).
func checkParent(units []*entity.PackagingUnit, parentID string) error {
	byID := make(map[string]*entity.PackagingUnit, len(units))
	for _, u := range units {
		byID[u.ID] = u
	}
	parent, ok := byID[parentID]
	if !ok {
		return domain.ErrInvalidHierarchy
	}
	visited := map[string]bool{}
	for current := parent; current != nil; {
		if visited[current.ID] {
			return domain.ErrInvalidHierarchy // ciclo preexistente en la cadena
		}
		visited[current.ID] = true
		if current.ParentID == nil {
			break
		}
		current = byID[*current.ParentID]
	}
	return nil
}
