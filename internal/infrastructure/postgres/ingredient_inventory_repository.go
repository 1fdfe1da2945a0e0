package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/craftfood/inventory-ledger/internal/domain/entity"
	"github.com/craftfood/inventory-ledger/internal/domain/repository"
)

var _ repository.IngredientInventoryRepository = (*IngredientInventoryRepo)(nil)

// IngredientInventoryRepo implementación sobre PostgreSQL (usable con pool o tx).
// Tabla ingredient_inventory, clave única (vendor_id, ingredient_id).
type IngredientInventoryRepo struct {
	q Querier
}

// NewIngredientInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIngredientInventoryRepository(q Querier) *IngredientInventoryRepo {
	return &IngredientInventoryRepo{q: q}
}

// Get obtiene el estado actual de un par vendor+ingrediente; nil si no existe.
func (r *IngredientInventoryRepo) Get(vendorID, ingredientID string) (*entity.IngredientInventory, error) {
	query := `
		SELECT vendor_id, ingredient_id, quantity, cost_basis, updated_at
		FROM ingredient_inventory WHERE vendor_id = $1 AND ingredient_id = $2`
	var inv entity.IngredientInventory
	err := r.q.QueryRow(context.Background(), query, vendorID, ingredientID).Scan(
		&inv.VendorID, &inv.IngredientID, &inv.Quantity, &inv.CostBasis, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ingredient inventory: %w", err)
	}
	return &inv, nil
}

// GetForUpdate obtiene el estado y bloquea la fila (SELECT FOR UPDATE). El par
// inexistente llega como fila virtual en cero: el Upsert posterior la crea
// (alta perezosa en la primera compra o el primer consumo).
func (r *IngredientInventoryRepo) GetForUpdate(vendorID, ingredientID string) (*entity.IngredientInventory, error) {
	query := `
		SELECT vendor_id, ingredient_id, quantity, cost_basis, updated_at
		FROM ingredient_inventory WHERE vendor_id = $1 AND ingredient_id = $2
		FOR UPDATE`
	var inv entity.IngredientInventory
	err := r.q.QueryRow(context.Background(), query, vendorID, ingredientID).Scan(
		&inv.VendorID, &inv.IngredientID, &inv.Quantity, &inv.CostBasis, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.IngredientInventory{
				VendorID:     vendorID,
				IngredientID: ingredientID,
				Quantity:     decimal.Zero,
				CostBasis:    decimal.Zero,
			}, nil
		}
		return nil, fmt.Errorf("get ingredient inventory for update: %w", err)
	}
	return &inv, nil
}

// Upsert inserta o actualiza cantidad y costo base por (vendor_id, ingredient_id).
func (r *IngredientInventoryRepo) Upsert(inv *entity.IngredientInventory) error {
	query := `
		INSERT INTO ingredient_inventory (vendor_id, ingredient_id, quantity, cost_basis, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (vendor_id, ingredient_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, cost_basis = EXCLUDED.cost_basis, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, inv.VendorID, inv.IngredientID, inv.Quantity, inv.CostBasis)
	if err != nil {
		return fmt.Errorf("upsert ingredient inventory: %w", err)
	}
	return nil
}

// ListByVendor lista el stock actual de un vendor ordenado por ingrediente.
func (r *IngredientInventoryRepo) ListByVendor(vendorID string, limit, offset int) ([]*entity.IngredientInventory, error) {
	query := `
		SELECT vendor_id, ingredient_id, quantity, cost_basis, updated_at
		FROM ingredient_inventory WHERE vendor_id = $1
		ORDER BY ingredient_id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, vendorID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list ingredient inventory: %w", err)
	}
	defer rows.Close()
	var list []*entity.IngredientInventory
	for rows.Next() {
		var inv entity.IngredientInventory
		if err := rows.Scan(&inv.VendorID, &inv.IngredientID, &inv.Quantity, &inv.CostBasis, &inv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan ingredient inventory: %w", err)
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}
