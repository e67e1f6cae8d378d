package memory

import (
	"sync"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.ConversionRuleRepository = (*ConversionRuleRepository)(nil)

// ConversionRuleRepository cache de reglas de conversión en memoria.
type ConversionRuleRepository struct {
	mu    sync.RWMutex
	rules map[string][]entity.ConversionRule // por productID
}

// NewConversionRuleRepository construye el cache en memoria.
func NewConversionRuleRepository() *ConversionRuleRepository {
	return &ConversionRuleRepository{rules: make(map[string][]entity.ConversionRule)}
}

func (r *ConversionRuleRepository) ReplaceForProduct(productID string, rules []*entity.ConversionRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := make([]entity.ConversionRule, 0, len(rules))
	for _, rule := range rules {
		stored = append(stored, *rule)
	}
	r.rules[productID] = stored
	return nil
}

func (r *ConversionRuleRepository) ListByProduct(productID string) ([]*entity.ConversionRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := r.rules[productID]
	out := make([]*entity.ConversionRule, 0, len(stored))
	for i := range stored {
		cp := stored[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *ConversionRuleRepository) DeleteByProduct(productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rules, productID)
	return nil
}
