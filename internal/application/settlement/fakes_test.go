package settlement_test

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/craftfood/inventory-ledger/internal/domain/entity"
	"github.com/craftfood/inventory-ledger/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para la liquidación: repos sobre mapas y un runner
// transaccional con snapshot/restore (un error del callback revierte todo,
// igual que un Rollback real).
// ──────────────────────────────────────────────────────────────────────────────

func invKey(vendorID, ingredientID string) string {
	return vendorID + "|" + ingredientID
}

type memInventoryRepo struct {
	rows map[string]*entity.IngredientInventory
}

func newMemInventoryRepo() *memInventoryRepo {
	return &memInventoryRepo{rows: make(map[string]*entity.IngredientInventory)}
}

func (r *memInventoryRepo) Get(vendorID, ingredientID string) (*entity.IngredientInventory, error) {
	row, ok := r.rows[invKey(vendorID, ingredientID)]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (r *memInventoryRepo) GetForUpdate(vendorID, ingredientID string) (*entity.IngredientInventory, error) {
	if row, ok := r.rows[invKey(vendorID, ingredientID)]; ok {
		cp := *row
		return &cp, nil
	}
	return &entity.IngredientInventory{
		VendorID:     vendorID,
		IngredientID: ingredientID,
		Quantity:     decimal.Zero,
		CostBasis:    decimal.Zero,
	}, nil
}

func (r *memInventoryRepo) Upsert(inv *entity.IngredientInventory) error {
	cp := *inv
	r.rows[invKey(inv.VendorID, inv.IngredientID)] = &cp
	return nil
}

func (r *memInventoryRepo) ListByVendor(vendorID string, limit, offset int) ([]*entity.IngredientInventory, error) {
	var out []*entity.IngredientInventory
	for _, row := range r.rows {
		if row.VendorID == vendorID {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memInventoryRepo) snapshot() map[string]*entity.IngredientInventory {
	snap := make(map[string]*entity.IngredientInventory, len(r.rows))
	for k, v := range r.rows {
		cp := *v
		snap[k] = &cp
	}
	return snap
}

type memLedgerRepo struct {
	rows []*entity.InventoryTransaction
	// failWith hace fallar el siguiente Create con ese error (inyección).
	failWith error
}

func newMemLedgerRepo() *memLedgerRepo {
	return &memLedgerRepo{}
}

func (r *memLedgerRepo) Create(tx *entity.InventoryTransaction) error {
	if r.failWith != nil {
		return r.failWith
	}
	cp := *tx
	cp.ID = fmt.Sprintf("txn-%04d", len(r.rows)+1)
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *memLedgerRepo) ListByIngredient(vendorID, ingredientID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error) {
	var out []*entity.InventoryTransaction
	for _, row := range r.rows {
		if row.VendorID == vendorID && row.IngredientID == ingredientID {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memLedgerRepo) ListByVendor(vendorID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error) {
	var out []*entity.InventoryTransaction
	for _, row := range r.rows {
		if row.VendorID == vendorID {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memLedgerRepo) SumQuantity(vendorID, ingredientID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, row := range r.rows {
		if row.VendorID == vendorID && row.IngredientID == ingredientID {
			sum = sum.Add(row.Quantity)
		}
	}
	return sum, nil
}

func (r *memLedgerRepo) snapshot() []*entity.InventoryTransaction {
	snap := make([]*entity.InventoryTransaction, len(r.rows))
	for i, v := range r.rows {
		cp := *v
		snap[i] = &cp
	}
	return snap
}

type memOrderItemRepo struct {
	rows map[string]*entity.OrderItem
}

func newMemOrderItemRepo(items ...*entity.OrderItem) *memOrderItemRepo {
	r := &memOrderItemRepo{rows: make(map[string]*entity.OrderItem)}
	for _, it := range items {
		cp := *it
		r.rows[it.ID] = &cp
	}
	return r
}

func (r *memOrderItemRepo) GetByID(id string) (*entity.OrderItem, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (r *memOrderItemRepo) GetForUpdate(id string) (*entity.OrderItem, error) {
	return r.GetByID(id)
}

func (r *memOrderItemRepo) SetCogsUnit(id string, cogsUnit decimal.Decimal) error {
	row, ok := r.rows[id]
	if !ok {
		return fmt.Errorf("renglón %s no existe", id)
	}
	cp := cogsUnit
	row.CogsUnit = &cp
	return nil
}

func (r *memOrderItemRepo) snapshot() map[string]*entity.OrderItem {
	snap := make(map[string]*entity.OrderItem, len(r.rows))
	for k, v := range r.rows {
		cp := *v
		if v.CogsUnit != nil {
			c := *v.CogsUnit
			cp.CogsUnit = &c
		}
		snap[k] = &cp
	}
	return snap
}

// memSettlementTxRunner ata los tres repos en una "transacción" con
// snapshot/restore.
type memSettlementTxRunner struct {
	inv        *memInventoryRepo
	ledger     *memLedgerRepo
	orderItems *memOrderItemRepo
}

func (t *memSettlementTxRunner) RunSettlement(ctx context.Context, fn func(
	invRepo repository.IngredientInventoryRepository,
	ledgerRepo repository.InventoryTransactionRepository,
	orderItemRepo repository.OrderItemRepository,
) error) error {
	invSnap := t.inv.snapshot()
	ledgerSnap := t.ledger.snapshot()
	itemsSnap := t.orderItems.snapshot()

	if err := fn(t.inv, t.ledger, t.orderItems); err != nil {
		t.inv.rows = invSnap
		t.ledger.rows = ledgerSnap
		t.orderItems.rows = itemsSnap
		return err
	}
	return nil
}

type memRecipeRepo struct {
	byID      map[string]*entity.Recipe
	byProduct map[string]*entity.Recipe
}

func newMemRecipeRepo(recipes ...*entity.Recipe) *memRecipeRepo {
	r := &memRecipeRepo{
		byID:      make(map[string]*entity.Recipe),
		byProduct: make(map[string]*entity.Recipe),
	}
	for _, rec := range recipes {
		r.byID[rec.ID] = rec
		if rec.ProductID != "" {
			r.byProduct[rec.ProductID] = rec
		}
	}
	return r
}

func (r *memRecipeRepo) GetByID(id string) (*entity.Recipe, error) {
	return r.byID[id], nil
}

func (r *memRecipeRepo) GetByProductID(productID string) (*entity.Recipe, error) {
	return r.byProduct[productID], nil
}

type memIngredientRepo struct {
	byID map[string]*entity.Ingredient
}

func newMemIngredientRepo(ingredients ...*entity.Ingredient) *memIngredientRepo {
	r := &memIngredientRepo{byID: make(map[string]*entity.Ingredient)}
	for _, ing := range ingredients {
		r.byID[ing.ID] = ing
	}
	return r
}

func (r *memIngredientRepo) GetByID(id string) (*entity.Ingredient, error) {
	return r.byID[id], nil
}

func (r *memIngredientRepo) ListByIDs(ids []string) ([]*entity.Ingredient, error) {
	var out []*entity.Ingredient
	for _, id := range ids {
		if ing, ok := r.byID[id]; ok {
			out = append(out, ing)
		}
	}
	return out, nil
}
