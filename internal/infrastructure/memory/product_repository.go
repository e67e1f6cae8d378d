// Package memory provee implementaciones en memoria de los puertos de
// persistencia. Se usan en tests y para correr la API sin PostgreSQL
// (modo demo). Todas son seguras para uso concurrente y devuelven copias
// para evitar aliasing con el estado interno.
package memory

import (
	"sync"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepository)(nil)

// ProductRepository almacenamiento de productos en memoria.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]entity.Product
	order    []string // preserva orden de inserción para List
}

// NewProductRepository construye el repositorio en memoria.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[string]entity.Product)}
}

func (r *ProductRepository) Create(product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[product.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, p := range r.products {
		if p.SKU == product.SKU {
			return domain.ErrDuplicate
		}
	}
	r.products[product.ID] = *product
	r.order = append(r.order, product.ID)
	return nil
}

func (r *ProductRepository) GetByID(id string) (*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepository) GetBySKU(sku string) (*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.products {
		if p.SKU == sku {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ProductRepository) Update(product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[product.ID]; !ok {
		return domain.ErrProductNotFound
	}
	r.products[product.ID] = *product
	return nil
}

func (r *ProductRepository) List(limit, offset int) ([]*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.Product
	for i := offset; i < len(r.order) && len(out) < limit; i++ {
		p := r.products[r.order[i]]
		if !p.Active {
			continue
		}
		cp := p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *ProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.Active = false
	r.products[id] = p
	return nil
}
