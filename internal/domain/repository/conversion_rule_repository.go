package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// ConversionRuleRepository puerto del cache de reglas de conversión.
// ReplaceForProduct borra y reinserta las reglas del producto en bloque:
// el cache es derivado y siempre se regenera completo.
type ConversionRuleRepository interface {
	ReplaceForProduct(productID string, rules []*entity.ConversionRule) error
	ListByProduct(productID string) ([]*entity.ConversionRule, error)
	DeleteByProduct(productID string) error
}
