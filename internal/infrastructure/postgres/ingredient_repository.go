package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/craftfood/inventory-ledger/internal/domain/entity"
	"github.com/craftfood/inventory-ledger/internal/domain/repository"
)

var _ repository.IngredientRepository = (*IngredientRepo)(nil)

// IngredientRepo adaptador de solo lectura hacia el catálogo de ingredientes.
type IngredientRepo struct {
	q Querier
}

// NewIngredientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIngredientRepository(q Querier) *IngredientRepo {
	return &IngredientRepo{q: q}
}

// GetByID obtiene un ingrediente por ID; nil si no existe.
func (r *IngredientRepo) GetByID(id string) (*entity.Ingredient, error) {
	query := `
		SELECT id, vendor_id, name, unit, cost_per_unit, created_at, updated_at
		FROM ingredients WHERE id = $1`
	var ing entity.Ingredient
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&ing.ID, &ing.VendorID, &ing.Name, &ing.Unit, &ing.CostPerUnit, &ing.CreatedAt, &ing.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	return &ing, nil
}

// ListByIDs obtiene los ingredientes cuyos IDs estén en la lista (los ausentes
// simplemente no vienen; el caller decide si eso es un error).
func (r *IngredientRepo) ListByIDs(ids []string) ([]*entity.Ingredient, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		SELECT id, vendor_id, name, unit, cost_per_unit, created_at, updated_at
		FROM ingredients WHERE id = ANY($1)`
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()
	var list []*entity.Ingredient
	for rows.Next() {
		var ing entity.Ingredient
		if err := rows.Scan(&ing.ID, &ing.VendorID, &ing.Name, &ing.Unit, &ing.CostPerUnit, &ing.CreatedAt, &ing.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		list = append(list, &ing)
	}
	return list, rows.Err()
}
