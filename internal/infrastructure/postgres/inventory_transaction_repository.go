package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/craftfood/inventory-ledger/internal/domain"
	"github.com/craftfood/inventory-ledger/internal/domain/entity"
	"github.com/craftfood/inventory-ledger/internal/domain/repository"
)

var _ repository.InventoryTransactionRepository = (*InventoryTransactionRepo)(nil)

// InventoryTransactionRepo implementación del ledger append-only sobre
// PostgreSQL (usable con pool o tx). Solo INSERT y SELECT: los movimientos
// nunca se actualizan ni se borran.
type InventoryTransactionRepo struct {
	q Querier
}

// NewInventoryTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryTransactionRepository(q Querier) *InventoryTransactionRepo {
	return &InventoryTransactionRepo{q: q}
}

// Create persiste un movimiento del ledger.
func (r *InventoryTransactionRepo) Create(mov *entity.InventoryTransaction) error {
	if mov.ID == "" {
		mov.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_transactions (id, reference_id, vendor_id, ingredient_id, type, quantity, unit_cost, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	referenceID := (*string)(nil)
	if mov.ReferenceID != "" {
		referenceID = &mov.ReferenceID
	}
	note := (*string)(nil)
	if mov.Note != "" {
		note = &mov.Note
	}
	_, err := r.q.Exec(context.Background(), query,
		mov.ID, referenceID, mov.VendorID, mov.IngredientID,
		mov.Type, mov.Quantity, mov.UnitCost, note, mov.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("create inventory transaction: %w", err)
	}
	return nil
}

// ListByIngredient lista movimientos de un par vendor+ingrediente en un rango de fechas.
func (r *InventoryTransactionRepo) ListByIngredient(vendorID, ingredientID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error) {
	query := `
		SELECT id, reference_id, vendor_id, ingredient_id, type, quantity, unit_cost, note, created_at
		FROM inventory_transactions WHERE vendor_id = $1 AND ingredient_id = $2`
	args := []any{vendorID, ingredientID}
	pos := 3
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)
	return r.list(query, args)
}

// ListByVendor lista movimientos de un vendor en un rango de fechas.
func (r *InventoryTransactionRepo) ListByVendor(vendorID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error) {
	query := `
		SELECT id, reference_id, vendor_id, ingredient_id, type, quantity, unit_cost, note, created_at
		FROM inventory_transactions WHERE vendor_id = $1`
	args := []any{vendorID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)
	return r.list(query, args)
}

func (r *InventoryTransactionRepo) list(query string, args []any) ([]*entity.InventoryTransaction, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryTransaction
	for rows.Next() {
		var m entity.InventoryTransaction
		var referenceID, note *string
		if err := rows.Scan(&m.ID, &referenceID, &m.VendorID, &m.IngredientID,
			&m.Type, &m.Quantity, &m.UnitCost, &note, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory transaction: %w", err)
		}
		if referenceID != nil {
			m.ReferenceID = *referenceID
		}
		if note != nil {
			m.Note = *note
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SumQuantity suma las cantidades del ledger para el replay de conciliación.
func (r *InventoryTransactionRepo) SumQuantity(vendorID, ingredientID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM inventory_transactions WHERE vendor_id = $1 AND ingredient_id = $2`
	var sum decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, vendorID, ingredientID).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum inventory transactions: %w", err)
	}
	return sum, nil
}
