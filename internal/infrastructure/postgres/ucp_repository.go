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

var _ repository.UCPRepository = (*UCPRepo)(nil)

// UCPRepo implementación del puerto UCPRepository sobre PostgreSQL.
type UCPRepo struct {
	q Querier
}

// NewUCPRepository construye el adaptador de persistencia de UCPs.
func NewUCPRepository(q Querier) *UCPRepo {
	return &UCPRepo{q: q}
}

// Create persiste una UCP nueva.
func (r *UCPRepo) Create(ucp *entity.UCP) error {
	query := `
		INSERT INTO ucps (id, code, pallet_id, composition_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		ucp.ID, ucp.Code, ucp.PalletID, ucp.CompositionID, ucp.Status, ucp.CreatedAt, ucp.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert ucp: %w", err)
	}
	return nil
}

// GetByComposition obtiene la UCP FORMADA más reciente de una composición.
func (r *UCPRepo) GetByComposition(compositionID string) (*entity.UCP, error) {
	query := `
		SELECT id, code, pallet_id, composition_id, status, created_at, updated_at
		FROM ucps WHERE composition_id = $1 ORDER BY created_at DESC LIMIT 1`
	var u entity.UCP
	err := r.q.QueryRow(context.Background(), query, compositionID).Scan(
		&u.ID, &u.Code, &u.PalletID, &u.CompositionID, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ucp by composition: %w", err)
	}
	return &u, nil
}

// Update actualiza el estado de una UCP.
func (r *UCPRepo) Update(ucp *entity.UCP) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE ucps SET status = $2, updated_at = $3 WHERE id = $1`,
		ucp.ID, ucp.Status, ucp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update ucp: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
