package memory

import (
	"sync"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.UCPRepository = (*UCPRepository)(nil)

// UCPRepository almacenamiento de UCPs en memoria.
type UCPRepository struct {
	mu   sync.RWMutex
	ucps map[string]entity.UCP
	seq  int
	ord  map[string]int
}

// NewUCPRepository construye el repositorio en memoria.
func NewUCPRepository() *UCPRepository {
	return &UCPRepository{ucps: make(map[string]entity.UCP), ord: make(map[string]int)}
}

func (r *UCPRepository) Create(ucp *entity.UCP) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ucps[ucp.ID]; ok {
		return domain.ErrDuplicate
	}
	r.ucps[ucp.ID] = *ucp
	r.seq++
	r.ord[ucp.ID] = r.seq
	return nil
}

// GetByComposition devuelve la UCP más reciente de la composición.
func (r *UCPRepository) GetByComposition(compositionID string) (*entity.UCP, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var found *entity.UCP
	best := -1
	for id, u := range r.ucps {
		if u.CompositionID == compositionID && r.ord[id] > best {
			cp := u
			found = &cp
			best = r.ord[id]
		}
	}
	return found, nil
}

func (r *UCPRepository) Update(ucp *entity.UCP) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ucps[ucp.ID]; !ok {
		return domain.ErrNotFound
	}
	r.ucps[ucp.ID] = *ucp
	return nil
}
