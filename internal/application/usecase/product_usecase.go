package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD de productos.
type ProductUseCase struct {
	productRepo      repository.ProductRepository
	defaultPrecision int32
}

// NewProductUseCase construye el caso de uso de productos. defaultPrecision
// se aplica cuando el alta no especifica qty_precision.
func NewProductUseCase(productRepo repository.ProductRepository, defaultPrecision int32) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo, defaultPrecision: defaultPrecision}
}

// Create da de alta un producto. El SKU debe ser único.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	precision := uc.defaultPrecision
	if in.QtyPrecision != nil {
		precision = *in.QtyPrecision
	}
	if in.WeightKg.IsNegative() || precision < 0 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.productRepo.GetBySKU(in.SKU)
	if err != nil && err != domain.ErrProductNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		SKU:          in.SKU,
		Name:         in.Name,
		Description:  in.Description,
		WeightKg:     in.WeightKg,
		WidthCm:      in.WidthCm,
		LengthCm:     in.LengthCm,
		HeightCm:     in.HeightCm,
		QtyPrecision: precision,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Get devuelve un producto por ID.
func (uc *ProductUseCase) Get(id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return toProductResponse(product), nil
}

// List devuelve una página de productos.
func (uc *ProductUseCase) List(page dto.PageRequest) ([]dto.ProductResponse, error) {
	page.DefaultPage()
	products, err := uc.productRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *toProductResponse(p))
	}
	return out, nil
}

// Update modifica los datos editables de un producto.
func (uc *ProductUseCase) Update(id string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	if in.Name != "" {
		product.Name = in.Name
	}
	product.Description = in.Description
	if !in.WeightKg.IsZero() {
		product.WeightKg = in.WeightKg
	}
	if !in.WidthCm.IsZero() {
		product.WidthCm = in.WidthCm
	}
	if !in.LengthCm.IsZero() {
		product.LengthCm = in.LengthCm
	}
	if !in.HeightCm.IsZero() {
		product.HeightCm = in.HeightCm
	}
	if in.QtyPrecision != nil && *in.QtyPrecision >= 0 {
		product.QtyPrecision = *in.QtyPrecision
	}
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete baja lógica del producto.
func (uc *ProductUseCase) Delete(id string) error {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrProductNotFound
	}
	return uc.productRepo.Delete(id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		WeightKg:     p.WeightKg,
		WidthCm:      p.WidthCm,
		LengthCm:     p.LengthCm,
		HeightCm:     p.HeightCm,
		QtyPrecision: p.QtyPrecision,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
