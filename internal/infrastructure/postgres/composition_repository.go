package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/composition"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.CompositionRepository = (*CompositionRepo)(nil)

// CompositionRepo implementación del puerto CompositionRepository sobre PostgreSQL.
// Request y Result se persisten como JSONB; las líneas en composition_lines.
// Update es CAS: WHERE version = expected, 0 filas = ErrConcurrentModification.
type CompositionRepo struct {
	q Querier
}

// NewCompositionRepository construye el adaptador de persistencia de composiciones.
func NewCompositionRepository(q Querier) *CompositionRepo {
	return &CompositionRepo{q: q}
}

// Create persiste una composición nueva con sus líneas (si las hay).
func (r *CompositionRepo) Create(comp *entity.Composition) error {
	ctx := context.Background()
	reqJSON, resJSON, err := marshalCompositionPayload(comp)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO compositions (id, name, pallet_id, status, version, request, result, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.q.Exec(ctx, query,
		comp.ID, comp.Name, comp.PalletID, comp.Status, comp.Version,
		reqJSON, resJSON, comp.CreatedBy, comp.CreatedAt, comp.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert composition: %w", err)
	}
	return r.replaceLines(ctx, comp.ID, comp.Lines)
}

// GetByID obtiene una composición con sus líneas.
func (r *CompositionRepo) GetByID(id string) (*entity.Composition, error) {
	ctx := context.Background()
	query := `
		SELECT id, name, pallet_id, status, version, request, result, created_by, created_at, updated_at
		FROM compositions WHERE id = $1`
	comp, err := scanComposition(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get composition: %w", err)
	}
	lines, err := r.loadLines(ctx, comp.ID)
	if err != nil {
		return nil, err
	}
	comp.Lines = lines
	return comp, nil
}

// List lista composiciones con paginación (sin líneas, para listados livianos).
func (r *CompositionRepo) List(limit, offset int) ([]*entity.Composition, error) {
	query := `
		SELECT id, name, pallet_id, status, version, request, result, created_by, created_at, updated_at
		FROM compositions ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list compositions: %w", err)
	}
	defer rows.Close()

	var comps []*entity.Composition
	for rows.Next() {
		comp, err := scanComposition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan composition: %w", err)
		}
		comps = append(comps, comp)
	}
	return comps, rows.Err()
}

// Update persiste request, result, líneas y status con CAS sobre version:
// incrementa version y falla con ErrConcurrentModification si la fila ya avanzó.
func (r *CompositionRepo) Update(comp *entity.Composition, expectedVersion int64) error {
	ctx := context.Background()
	reqJSON, resJSON, err := marshalCompositionPayload(comp)
	if err != nil {
		return err
	}
	query := `
		UPDATE compositions
		SET name = $2, status = $3, version = version + 1, request = $4, result = $5, updated_at = $6
		WHERE id = $1 AND version = $7`
	cmd, err := r.q.Exec(ctx, query,
		comp.ID, comp.Name, comp.Status, reqJSON, resJSON, comp.UpdatedAt, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("update composition: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		// Fila inexistente o versión vieja: distinguir para el caller.
		var exists bool
		if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM compositions WHERE id = $1)`, comp.ID).Scan(&exists); err != nil {
			return fmt.Errorf("check composition: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrConcurrentModification
	}
	comp.Version = expectedVersion + 1
	return r.replaceLines(ctx, comp.ID, comp.Lines)
}

// ExistsActiveLineByUnit indica si alguna composición guardada referencia la unidad.
func (r *CompositionRepo) ExistsActiveLineByUnit(unitID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(), `
		SELECT EXISTS(
			SELECT 1 FROM composition_lines cl
			JOIN compositions c ON c.id = cl.composition_id
			WHERE cl.unit_id = $1)`, unitID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists composition line by unit: %w", err)
	}
	return exists, nil
}

func (r *CompositionRepo) replaceLines(ctx context.Context, compositionID string, lines []entity.CompositionLine) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM composition_lines WHERE composition_id = $1`, compositionID); err != nil {
		return fmt.Errorf("delete composition lines: %w", err)
	}
	for _, l := range lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO composition_lines (id, composition_id, product_id, unit_id, quantity, layer)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			l.ID, l.CompositionID, l.ProductID, l.UnitID, l.Quantity, l.Layer,
		)
		if err != nil {
			return fmt.Errorf("insert composition line: %w", err)
		}
	}
	return nil
}

func (r *CompositionRepo) loadLines(ctx context.Context, compositionID string) ([]entity.CompositionLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, composition_id, product_id, unit_id, quantity, layer
		FROM composition_lines WHERE composition_id = $1 ORDER BY layer ASC, product_id ASC`, compositionID)
	if err != nil {
		return nil, fmt.Errorf("list composition lines: %w", err)
	}
	defer rows.Close()

	var lines []entity.CompositionLine
	for rows.Next() {
		var l entity.CompositionLine
		if err := rows.Scan(&l.ID, &l.CompositionID, &l.ProductID, &l.UnitID, &l.Quantity, &l.Layer); err != nil {
			return nil, fmt.Errorf("scan composition line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func marshalCompositionPayload(comp *entity.Composition) ([]byte, []byte, error) {
	reqJSON, err := json.Marshal(comp.Request)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal composition request: %w", err)
	}
	var resJSON []byte // nil -> NULL en JSONB
	if comp.Result != nil {
		resJSON, err = json.Marshal(comp.Result)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal composition result: %w", err)
		}
	}
	return reqJSON, resJSON, nil
}

func scanComposition(row pgx.Row) (*entity.Composition, error) {
	var comp entity.Composition
	var reqJSON []byte
	var resJSON []byte
	err := row.Scan(
		&comp.ID, &comp.Name, &comp.PalletID, &comp.Status, &comp.Version,
		&reqJSON, &resJSON, &comp.CreatedBy, &comp.CreatedAt, &comp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(reqJSON, &comp.Request); err != nil {
		return nil, fmt.Errorf("unmarshal composition request: %w", err)
	}
	if len(resJSON) > 0 {
		var res composition.Result
		if err := json.Unmarshal(resJSON, &res); err != nil {
			return nil, fmt.Errorf("unmarshal composition result: %w", err)
		}
		comp.Result = &res
	}
	return &comp, nil
}
