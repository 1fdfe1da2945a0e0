package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/craftfood/inventory-ledger/internal/domain/entity"
	"github.com/craftfood/inventory-ledger/internal/domain/repository"
)

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

// RecipeRepo adaptador de solo lectura hacia las tablas recipes/recipe_items
// del proveedor de recetas.
type RecipeRepo struct {
	q Querier
}

// NewRecipeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRecipeRepository(q Querier) *RecipeRepo {
	return &RecipeRepo{q: q}
}

// GetByID devuelve la receta con sus ítems en orden; nil si no existe.
func (r *RecipeRepo) GetByID(id string) (*entity.Recipe, error) {
	query := `
		SELECT id, vendor_id, product_id, name, yield_qty, created_at, updated_at
		FROM recipes WHERE id = $1`
	return r.get(query, id)
}

// GetByProductID devuelve la receta vinculada a un producto; nil si no hay.
func (r *RecipeRepo) GetByProductID(productID string) (*entity.Recipe, error) {
	query := `
		SELECT id, vendor_id, product_id, name, yield_qty, created_at, updated_at
		FROM recipes WHERE product_id = $1`
	return r.get(query, productID)
}

func (r *RecipeRepo) get(query, arg string) (*entity.Recipe, error) {
	var rec entity.Recipe
	var productID *string
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&rec.ID, &rec.VendorID, &productID, &rec.Name, &rec.YieldQty, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	if productID != nil {
		rec.ProductID = *productID
	}

	items, err := r.listItems(rec.ID)
	if err != nil {
		return nil, err
	}
	rec.Items = items
	return &rec, nil
}

// listItems carga los ítems de la receta en su orden declarado (position).
func (r *RecipeRepo) listItems(recipeID string) ([]entity.RecipeItem, error) {
	query := `
		SELECT id, recipe_id, ingredient_id, qty_per_batch, waste_pct
		FROM recipe_items WHERE recipe_id = $1
		ORDER BY position, id`
	rows, err := r.q.Query(context.Background(), query, recipeID)
	if err != nil {
		return nil, fmt.Errorf("list recipe items: %w", err)
	}
	defer rows.Close()
	var items []entity.RecipeItem
	for rows.Next() {
		var it entity.RecipeItem
		if err := rows.Scan(&it.ID, &it.RecipeID, &it.IngredientID, &it.QtyPerBatch, &it.WastePct); err != nil {
			return nil, fmt.Errorf("scan recipe item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
