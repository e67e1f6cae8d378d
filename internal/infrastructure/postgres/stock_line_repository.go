package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.StockLineRepository = (*StockLineRepo)(nil)

// StockLineRepo implementación del puerto StockLineRepository sobre PostgreSQL.
// Las líneas nunca se mutan: Append inserta y Retire marca retired_at.
type StockLineRepo struct {
	q Querier
}

// NewStockLineRepository construye el adaptador de persistencia del stock.
func NewStockLineRepository(q Querier) *StockLineRepo {
	return &StockLineRepo{q: q}
}

const stockColumns = `id, product_id, position_id, unit_id, quantity, active, created_at, retired_at`

// Append inserta una línea de stock nueva.
func (r *StockLineRepo) Append(line *entity.StockLine) error {
	query := `
		INSERT INTO stock_lines (` + stockColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.ProductID, line.PositionID, line.UnitID,
		line.Quantity, line.Active, line.CreatedAt, line.RetiredAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock line: %w", err)
	}
	return nil
}

// Retire marca una línea como retirada. Solo aplica sobre líneas activas.
func (r *StockLineRepo) Retire(id string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE stock_lines SET active = false, retired_at = now() WHERE id = $1 AND active`, id)
	if err != nil {
		return fmt.Errorf("retire stock line: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene una línea por ID (activa o retirada).
func (r *StockLineRepo) GetByID(id string) (*entity.StockLine, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_lines WHERE id = $1`
	var l entity.StockLine
	err := scanStockLine(r.q.QueryRow(context.Background(), query, id), &l)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock line: %w", err)
	}
	return &l, nil
}

// ListActiveByProduct lista las líneas activas de un producto (FIFO por created_at).
func (r *StockLineRepo) ListActiveByProduct(productID string) ([]*entity.StockLine, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_lines WHERE product_id = $1 AND active ORDER BY created_at ASC`
	return r.list(query, productID)
}

// ListActiveByProductForUpdate igual que ListActiveByProduct pero bloqueando las
// filas (SELECT FOR UPDATE). Usarlo solo dentro de una transacción: es la base
// de la deducción de stock de execute.
func (r *StockLineRepo) ListActiveByProductForUpdate(productID string) ([]*entity.StockLine, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_lines WHERE product_id = $1 AND active ORDER BY created_at ASC FOR UPDATE`
	return r.list(query, productID)
}

// ExistsActiveByUnit indica si alguna línea activa referencia la unidad de empaque.
func (r *StockLineRepo) ExistsActiveByUnit(unitID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM stock_lines WHERE unit_id = $1 AND active)`, unitID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists stock line by unit: %w", err)
	}
	return exists, nil
}

func (r *StockLineRepo) list(query string, args ...any) ([]*entity.StockLine, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock lines: %w", err)
	}
	defer rows.Close()

	var lines []*entity.StockLine
	for rows.Next() {
		var l entity.StockLine
		if err := scanStockLine(rows, &l); err != nil {
			return nil, fmt.Errorf("scan stock line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

func scanStockLine(row pgx.Row, l *entity.StockLine) error {
	return row.Scan(
		&l.ID, &l.ProductID, &l.PositionID, &l.UnitID,
		&l.Quantity, &l.Active, &l.CreatedAt, &l.RetiredAt,
	)
}
