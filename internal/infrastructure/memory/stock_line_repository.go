package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.StockLineRepository = (*StockLineRepository)(nil)

// StockLineRepository almacenamiento de stock en memoria. El ciclo append/retire
// se respeta igual que en PostgreSQL: nunca se muta la cantidad de una línea.
type StockLineRepository struct {
	mu    sync.RWMutex
	lines map[string]entity.StockLine
	seq   int // desempata líneas creadas en el mismo instante (FIFO estable)
	seqBy map[string]int
}

// NewStockLineRepository construye el repositorio en memoria.
func NewStockLineRepository() *StockLineRepository {
	return &StockLineRepository{
		lines: make(map[string]entity.StockLine),
		seqBy: make(map[string]int),
	}
}

func (r *StockLineRepository) Append(line *entity.StockLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lines[line.ID]; ok {
		return domain.ErrDuplicate
	}
	r.lines[line.ID] = *line
	r.seq++
	r.seqBy[line.ID] = r.seq
	return nil
}

func (r *StockLineRepository) Retire(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lines[id]
	if !ok || !l.Active {
		return domain.ErrNotFound
	}
	now := time.Now()
	l.Active = false
	l.RetiredAt = &now
	r.lines[id] = l
	return nil
}

func (r *StockLineRepository) GetByID(id string) (*entity.StockLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.lines[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *StockLineRepository) ListActiveByProduct(productID string) ([]*entity.StockLine, error) {
	return r.listActive(productID)
}

// ListActiveByProductForUpdate en memoria no bloquea filas; el candado de la
// composición en el caso de uso cubre la exclusión.
func (r *StockLineRepository) ListActiveByProductForUpdate(productID string) ([]*entity.StockLine, error) {
	return r.listActive(productID)
}

func (r *StockLineRepository) ExistsActiveByUnit(unitID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, l := range r.lines {
		if l.Active && l.UnitID != nil && *l.UnitID == unitID {
			return true, nil
		}
	}
	return false, nil
}

func (r *StockLineRepository) listActive(productID string) ([]*entity.StockLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.StockLine
	for _, l := range r.lines {
		if l.ProductID == productID && l.Active {
			cp := l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return r.seqBy[out[i].ID] < r.seqBy[out[j].ID]
	})
	return out, nil
}
