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

var _ repository.PackagingUnitRepository = (*PackagingUnitRepo)(nil)

// PackagingUnitRepo implementación del puerto PackagingUnitRepository sobre PostgreSQL.
type PackagingUnitRepo struct {
	q Querier
}

// NewPackagingUnitRepository construye el adaptador de persistencia de empaques.
func NewPackagingUnitRepository(q Querier) *PackagingUnitRepo {
	return &PackagingUnitRepo{q: q}
}

const unitColumns = `id, product_id, name, base_unit_quantity, is_base_unit, parent_id, level, barcode, width_cm, length_cm, height_cm, weight_kg, active, created_at, updated_at`

// Create persiste una unidad de empaque nueva.
// El barcode tiene constraint único parcial (solo filas activas).
func (r *PackagingUnitRepo) Create(unit *entity.PackagingUnit) error {
	query := `
		INSERT INTO packaging_units (` + unitColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		unit.ID, unit.ProductID, unit.Name, unit.BaseUnitQuantity, unit.IsBaseUnit,
		unit.ParentID, unit.Level, unit.Barcode, unit.WidthCm, unit.LengthCm,
		unit.HeightCm, unit.WeightKg, unit.Active, unit.CreatedAt, unit.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert packaging unit: %w", err)
	}
	return nil
}

// GetByID obtiene una unidad de empaque por ID (incluye inactivas).
func (r *PackagingUnitRepo) GetByID(id string) (*entity.PackagingUnit, error) {
	query := `SELECT ` + unitColumns + ` FROM packaging_units WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get packaging unit")
}

// GetByBarcode busca una unidad activa por barcode (único global).
func (r *PackagingUnitRepo) GetByBarcode(barcode string) (*entity.PackagingUnit, error) {
	query := `SELECT ` + unitColumns + ` FROM packaging_units WHERE barcode = $1 AND active`
	return r.scanOne(r.q.QueryRow(context.Background(), query, barcode), "get packaging unit by barcode")
}

// ListByProduct lista las unidades activas de un producto ordenadas por nivel.
func (r *PackagingUnitRepo) ListByProduct(productID string) ([]*entity.PackagingUnit, error) {
	query := `SELECT ` + unitColumns + ` FROM packaging_units WHERE product_id = $1 AND active ORDER BY level ASC, created_at ASC`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list packaging units: %w", err)
	}
	defer rows.Close()

	var units []*entity.PackagingUnit
	for rows.Next() {
		var u entity.PackagingUnit
		if err := scanPackagingUnit(rows, &u); err != nil {
			return nil, fmt.Errorf("scan packaging unit: %w", err)
		}
		units = append(units, &u)
	}
	return units, rows.Err()
}

// Update actualiza una unidad de empaque (recalculo de nivel incluido).
func (r *PackagingUnitRepo) Update(unit *entity.PackagingUnit) error {
	query := `
		UPDATE packaging_units
		SET name = $2, base_unit_quantity = $3, is_base_unit = $4, parent_id = $5, level = $6,
		    barcode = $7, width_cm = $8, length_cm = $9, height_cm = $10, weight_kg = $11,
		    active = $12, updated_at = $13
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		unit.ID, unit.Name, unit.BaseUnitQuantity, unit.IsBaseUnit, unit.ParentID,
		unit.Level, unit.Barcode, unit.WidthCm, unit.LengthCm, unit.HeightCm,
		unit.WeightKg, unit.Active, unit.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update packaging unit: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUnitNotFound
	}
	return nil
}

// Deactivate baja lógica de la unidad (la jerarquía restante se recalcula en el caso de uso).
func (r *PackagingUnitRepo) Deactivate(id string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE packaging_units SET active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate packaging unit: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUnitNotFound
	}
	return nil
}

func (r *PackagingUnitRepo) scanOne(row pgx.Row, op string) (*entity.PackagingUnit, error) {
	var u entity.PackagingUnit
	if err := scanPackagingUnit(row, &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}

func scanPackagingUnit(row pgx.Row, u *entity.PackagingUnit) error {
	return row.Scan(
		&u.ID, &u.ProductID, &u.Name, &u.BaseUnitQuantity, &u.IsBaseUnit, &u.ParentID,
		&u.Level, &u.Barcode, &u.WidthCm, &u.LengthCm, &u.HeightCm, &u.WeightKg,
		&u.Active, &u.CreatedAt, &u.UpdatedAt,
	)
}
