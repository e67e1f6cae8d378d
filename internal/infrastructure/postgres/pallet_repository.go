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

var _ repository.PalletRepository = (*PalletRepo)(nil)

// PalletRepo implementación del puerto PalletRepository sobre PostgreSQL.
type PalletRepo struct {
	q Querier
}

// NewPalletRepository construye el adaptador de persistencia de pallets.
func NewPalletRepository(q Querier) *PalletRepo {
	return &PalletRepo{q: q}
}

const palletColumns = `id, code, width_cm, length_cm, max_height_cm, max_weight_kg, occupied, active, created_at, updated_at`

// Create persiste un pallet nuevo. El código es único.
func (r *PalletRepo) Create(pallet *entity.Pallet) error {
	query := `
		INSERT INTO pallets (` + palletColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		pallet.ID, pallet.Code, pallet.WidthCm, pallet.LengthCm, pallet.MaxHeightCm,
		pallet.MaxWeightKg, pallet.Occupied, pallet.Active, pallet.CreatedAt, pallet.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert pallet: %w", err)
	}
	return nil
}

// GetByID obtiene un pallet por ID.
func (r *PalletRepo) GetByID(id string) (*entity.Pallet, error) {
	query := `SELECT ` + palletColumns + ` FROM pallets WHERE id = $1`
	var p entity.Pallet
	err := scanPallet(r.q.QueryRow(context.Background(), query, id), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pallet: %w", err)
	}
	return &p, nil
}

// List lista pallets activos con paginación.
func (r *PalletRepo) List(limit, offset int) ([]*entity.Pallet, error) {
	query := `SELECT ` + palletColumns + ` FROM pallets WHERE active ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list pallets: %w", err)
	}
	defer rows.Close()

	var pallets []*entity.Pallet
	for rows.Next() {
		var p entity.Pallet
		if err := scanPallet(rows, &p); err != nil {
			return nil, fmt.Errorf("scan pallet: %w", err)
		}
		pallets = append(pallets, &p)
	}
	return pallets, rows.Err()
}

// Update actualiza un pallet.
func (r *PalletRepo) Update(pallet *entity.Pallet) error {
	query := `
		UPDATE pallets
		SET code = $2, width_cm = $3, length_cm = $4, max_height_cm = $5,
		    max_weight_kg = $6, occupied = $7, active = $8, updated_at = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		pallet.ID, pallet.Code, pallet.WidthCm, pallet.LengthCm, pallet.MaxHeightCm,
		pallet.MaxWeightKg, pallet.Occupied, pallet.Active, pallet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update pallet: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrPalletNotFound
	}
	return nil
}

// SetOccupied marca/desmarca la ocupación física del pallet.
func (r *PalletRepo) SetOccupied(id string, occupied bool) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE pallets SET occupied = $2, updated_at = now() WHERE id = $1`, id, occupied)
	if err != nil {
		return fmt.Errorf("set pallet occupied: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrPalletNotFound
	}
	return nil
}

func scanPallet(row pgx.Row, p *entity.Pallet) error {
	return row.Scan(
		&p.ID, &p.Code, &p.WidthCm, &p.LengthCm, &p.MaxHeightCm,
		&p.MaxWeightKg, &p.Occupied, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
}
