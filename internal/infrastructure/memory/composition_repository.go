package memory

import (
	"sort"
	"sync"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.CompositionRepository = (*CompositionRepository)(nil)

// CompositionRepository almacenamiento de composiciones en memoria.
// Update implementa el mismo CAS sobre Version que la versión PostgreSQL.
type CompositionRepository struct {
	mu    sync.RWMutex
	comps map[string]entity.Composition
}

// NewCompositionRepository construye el repositorio en memoria.
func NewCompositionRepository() *CompositionRepository {
	return &CompositionRepository{comps: make(map[string]entity.Composition)}
}

func (r *CompositionRepository) Create(comp *entity.Composition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comps[comp.ID]; ok {
		return domain.ErrDuplicate
	}
	r.comps[comp.ID] = cloneComposition(comp)
	return nil
}

func (r *CompositionRepository) GetByID(id string) (*entity.Composition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.comps[id]
	if !ok {
		return nil, nil
	}
	cp := cloneComposition(&c)
	return &cp, nil
}

func (r *CompositionRepository) List(limit, offset int) ([]*entity.Composition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]entity.Composition, 0, len(r.comps))
	for _, c := range r.comps {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	var out []*entity.Composition
	for i := offset; i < len(all) && len(out) < limit; i++ {
		cp := cloneComposition(&all[i])
		out = append(out, &cp)
	}
	return out, nil
}

func (r *CompositionRepository) Update(comp *entity.Composition, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.comps[comp.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Version != expectedVersion {
		return domain.ErrConcurrentModification
	}
	comp.Version = expectedVersion + 1
	r.comps[comp.ID] = cloneComposition(comp)
	return nil
}

func (r *CompositionRepository) ExistsActiveLineByUnit(unitID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.comps {
		for _, l := range c.Lines {
			if l.UnitID == unitID {
				return true, nil
			}
		}
	}
	return false, nil
}

// cloneComposition copia la entidad con sus líneas; Request/Result se comparten
// porque los casos de uso nunca los mutan in place (siempre reemplazan).
func cloneComposition(c *entity.Composition) entity.Composition {
	cp := *c
	if c.Lines != nil {
		cp.Lines = make([]entity.CompositionLine, len(c.Lines))
		copy(cp.Lines, c.Lines)
	}
	return cp
}
