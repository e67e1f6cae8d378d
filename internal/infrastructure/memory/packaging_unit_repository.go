package memory

import (
	"sort"
	"sync"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.PackagingUnitRepository = (*PackagingUnitRepository)(nil)

// PackagingUnitRepository almacenamiento de unidades de empaque en memoria.
type PackagingUnitRepository struct {
	mu    sync.RWMutex
	units map[string]entity.PackagingUnit
}

// NewPackagingUnitRepository construye el repositorio en memoria.
func NewPackagingUnitRepository() *PackagingUnitRepository {
	return &PackagingUnitRepository{units: make(map[string]entity.PackagingUnit)}
}

func (r *PackagingUnitRepository) Create(unit *entity.PackagingUnit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.units[unit.ID]; ok {
		return domain.ErrDuplicate
	}
	if unit.Barcode != nil {
		for _, u := range r.units {
			if u.Active && u.Barcode != nil && *u.Barcode == *unit.Barcode {
				return domain.ErrDuplicate
			}
		}
	}
	r.units[unit.ID] = *unit
	return nil
}

func (r *PackagingUnitRepository) GetByID(id string) (*entity.PackagingUnit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.units[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *PackagingUnitRepository) GetByBarcode(barcode string) (*entity.PackagingUnit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.units {
		if u.Active && u.Barcode != nil && *u.Barcode == barcode {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *PackagingUnitRepository) ListByProduct(productID string) ([]*entity.PackagingUnit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.PackagingUnit
	for _, u := range r.units {
		if u.ProductID == productID && u.Active {
			cp := u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level < out[j].Level
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *PackagingUnitRepository) Update(unit *entity.PackagingUnit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.units[unit.ID]; !ok {
		return domain.ErrUnitNotFound
	}
	r.units[unit.ID] = *unit
	return nil
}

func (r *PackagingUnitRepository) Deactivate(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.units[id]
	if !ok {
		return domain.ErrUnitNotFound
	}
	u.Active = false
	r.units[id] = u
	return nil
}
