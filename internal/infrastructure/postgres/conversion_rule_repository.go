package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.ConversionRuleRepository = (*ConversionRuleRepo)(nil)

// ConversionRuleRepo implementación del cache de reglas de conversión sobre PostgreSQL.
// La tabla es derivada: se borra y regenera en bloque por producto.
type ConversionRuleRepo struct {
	q Querier
}

// NewConversionRuleRepository construye el adaptador del cache de conversiones.
func NewConversionRuleRepository(q Querier) *ConversionRuleRepo {
	return &ConversionRuleRepo{q: q}
}

// ReplaceForProduct borra las reglas del producto y reinserta el set completo.
func (r *ConversionRuleRepo) ReplaceForProduct(productID string, rules []*entity.ConversionRule) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM conversion_rules WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete conversion rules: %w", err)
	}
	for _, rule := range rules {
		_, err := r.q.Exec(ctx, `
			INSERT INTO conversion_rules (id, product_id, from_unit_id, to_unit_id, factor, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			rule.ID, rule.ProductID, rule.FromUnitID, rule.ToUnitID, rule.Factor, rule.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert conversion rule: %w", err)
		}
	}
	return nil
}

// ListByProduct lista las reglas cacheadas de un producto.
func (r *ConversionRuleRepo) ListByProduct(productID string) ([]*entity.ConversionRule, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, product_id, from_unit_id, to_unit_id, factor, created_at
		FROM conversion_rules WHERE product_id = $1 ORDER BY created_at ASC`, productID)
	if err != nil {
		return nil, fmt.Errorf("list conversion rules: %w", err)
	}
	defer rows.Close()

	var rules []*entity.ConversionRule
	for rows.Next() {
		var cr entity.ConversionRule
		if err := rows.Scan(&cr.ID, &cr.ProductID, &cr.FromUnitID, &cr.ToUnitID, &cr.Factor, &cr.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan conversion rule: %w", err)
		}
		rules = append(rules, &cr)
	}
	return rules, rows.Err()
}

// DeleteByProduct borra todas las reglas del producto.
func (r *ConversionRuleRepo) DeleteByProduct(productID string) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM conversion_rules WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete conversion rules: %w", err)
	}
	return nil
}
