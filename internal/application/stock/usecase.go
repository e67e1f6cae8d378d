package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// UseCase operaciones de escritura sobre el stock físico. La lectura
// consolidada vive en Consolidator.
type UseCase struct {
	stock    repository.StockLineRepository
	units    repository.PackagingUnitRepository
	products repository.ProductRepository
}

// NewUseCase construye el caso de uso de stock.
func NewUseCase(stock repository.StockLineRepository, units repository.PackagingUnitRepository, products repository.ProductRepository) *UseCase {
	return &UseCase{stock: stock, units: units, products: products}
}

// Append registra una línea de stock nueva en la unidad indicada
// (UnitID nil = unidades base). Valida que producto y unidad existan
// y que la unidad pertenezca al producto.
func (uc *UseCase) Append(in dto.AppendStockRequest) (*entity.StockLine, error) {
	if in.ProductID == "" || in.PositionID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.products.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	if in.UnitID != nil {
		unit, err := uc.units.GetByID(*in.UnitID)
		if err != nil {
			return nil, err
		}
		if unit == nil || !unit.Active {
			return nil, domain.ErrUnitNotFound
		}
		if unit.ProductID != in.ProductID {
			return nil, domain.ErrIncompatibleUnits
		}
	}
	line := &entity.StockLine{
		ID:         uuid.New().String(),
		ProductID:  in.ProductID,
		PositionID: in.PositionID,
		UnitID:     in.UnitID,
		Quantity:   in.Quantity,
		Active:     true,
		CreatedAt:  time.Now(),
	}
	if err := uc.stock.Append(line); err != nil {
		return nil, err
	}
	return line, nil
}
