package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// PalletUseCase casos de uso CRUD de pallets.
type PalletUseCase struct {
	palletRepo         repository.PalletRepository
	defaultMaxHeightCm decimal.Decimal
}

// NewPalletUseCase construye el caso de uso de pallets. defaultMaxHeightCm
// se usa como altura máxima de apilado cuando el alta no indica una.
func NewPalletUseCase(palletRepo repository.PalletRepository, defaultMaxHeightCm int) *PalletUseCase {
	return &PalletUseCase{
		palletRepo:         palletRepo,
		defaultMaxHeightCm: decimal.NewFromInt(int64(defaultMaxHeightCm)),
	}
}

// Create da de alta un pallet. La huella y el límite de peso deben ser
// positivos; la altura máxima omitida toma el default configurado.
func (uc *PalletUseCase) Create(in dto.CreatePalletRequest) (*dto.PalletResponse, error) {
	if in.Code == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.MaxHeightCm.IsPositive() {
		in.MaxHeightCm = uc.defaultMaxHeightCm
	}
	if !in.WidthCm.IsPositive() || !in.LengthCm.IsPositive() ||
		!in.MaxHeightCm.IsPositive() || !in.MaxWeightKg.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	pallet := &entity.Pallet{
		ID:          uuid.New().String(),
		Code:        in.Code,
		WidthCm:     in.WidthCm,
		LengthCm:    in.LengthCm,
		MaxHeightCm: in.MaxHeightCm,
		MaxWeightKg: in.MaxWeightKg,
		Occupied:    false,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.palletRepo.Create(pallet); err != nil {
		return nil, err
	}
	return toPalletResponse(pallet), nil
}

// Get devuelve un pallet por ID.
func (uc *PalletUseCase) Get(id string) (*dto.PalletResponse, error) {
	pallet, err := uc.palletRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if pallet == nil {
		return nil, domain.ErrPalletNotFound
	}
	return toPalletResponse(pallet), nil
}

// List devuelve una página de pallets.
func (uc *PalletUseCase) List(page dto.PageRequest) ([]dto.PalletResponse, error) {
	page.DefaultPage()
	pallets, err := uc.palletRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PalletResponse, 0, len(pallets))
	for _, p := range pallets {
		out = append(out, *toPalletResponse(p))
	}
	return out, nil
}

func toPalletResponse(p *entity.Pallet) *dto.PalletResponse {
	return &dto.PalletResponse{
		ID:          p.ID,
		Code:        p.Code,
		WidthCm:     p.WidthCm,
		LengthCm:    p.LengthCm,
		MaxHeightCm: p.MaxHeightCm,
		MaxWeightKg: p.MaxWeightKg,
		VolumeM3:    p.VolumeM3(),
		Occupied:    p.Occupied,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
	}
}
