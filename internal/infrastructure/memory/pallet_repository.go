package memory

import (
	"sync"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.PalletRepository = (*PalletRepository)(nil)

// PalletRepository almacenamiento de pallets en memoria.
type PalletRepository struct {
	mu      sync.RWMutex
	pallets map[string]entity.Pallet
	order   []string
}

// NewPalletRepository construye el repositorio en memoria.
func NewPalletRepository() *PalletRepository {
	return &PalletRepository{pallets: make(map[string]entity.Pallet)}
}

func (r *PalletRepository) Create(pallet *entity.Pallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pallets[pallet.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, p := range r.pallets {
		if p.Code == pallet.Code {
			return domain.ErrDuplicate
		}
	}
	r.pallets[pallet.ID] = *pallet
	r.order = append(r.order, pallet.ID)
	return nil
}

func (r *PalletRepository) GetByID(id string) (*entity.Pallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pallets[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *PalletRepository) List(limit, offset int) ([]*entity.Pallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.Pallet
	for i := offset; i < len(r.order) && len(out) < limit; i++ {
		p := r.pallets[r.order[i]]
		if !p.Active {
			continue
		}
		cp := p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *PalletRepository) Update(pallet *entity.Pallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pallets[pallet.ID]; !ok {
		return domain.ErrPalletNotFound
	}
	r.pallets[pallet.ID] = *pallet
	return nil
}

func (r *PalletRepository) SetOccupied(id string, occupied bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pallets[id]
	if !ok {
		return domain.ErrPalletNotFound
	}
	p.Occupied = occupied
	r.pallets[id] = p
	return nil
}
