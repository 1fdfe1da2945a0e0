package inventory_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/craftfood/inventory-ledger/internal/domain/entity"
	"github.com/craftfood/inventory-ledger/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: implementan los puertos de repositorio sobre mapas, con
// snapshot/restore en el TxRunner para simular Commit/Rollback reales.
// ──────────────────────────────────────────────────────────────────────────────

func invKey(vendorID, ingredientID string) string {
	return vendorID + "|" + ingredientID
}

// memInventoryRepo estado materializado en memoria.
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
	// Fila virtual en cero, igual que el adaptador de PostgreSQL.
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
	sort.Slice(out, func(i, j int) bool { return out[i].IngredientID < out[j].IngredientID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
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

// memLedgerRepo ledger append-only en memoria.
type memLedgerRepo struct {
	rows []*entity.InventoryTransaction
}

func newMemLedgerRepo() *memLedgerRepo {
	return &memLedgerRepo{}
}

func (r *memLedgerRepo) Create(tx *entity.InventoryTransaction) error {
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

// failingLedgerRepo envuelve al ledger y falla en el N-ésimo Create
// (inyección de fallos para probar atomicidad).
type failingLedgerRepo struct {
	inner   *memLedgerRepo
	failOn  int // 1 = falla el primer Create
	creates int
}

func (r *failingLedgerRepo) Create(tx *entity.InventoryTransaction) error {
	r.creates++
	if r.creates == r.failOn {
		return fmt.Errorf("fallo inyectado en create #%d", r.creates)
	}
	return r.inner.Create(tx)
}

func (r *failingLedgerRepo) ListByIngredient(vendorID, ingredientID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error) {
	return r.inner.ListByIngredient(vendorID, ingredientID, from, to, limit, offset)
}

func (r *failingLedgerRepo) ListByVendor(vendorID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error) {
	return r.inner.ListByVendor(vendorID, from, to, limit, offset)
}

func (r *failingLedgerRepo) SumQuantity(vendorID, ingredientID string) (decimal.Decimal, error) {
	return r.inner.SumQuantity(vendorID, ingredientID)
}

// memTxRunner simula transacciones con snapshot al entrar y restore si el
// callback falla: un error deja los repos exactamente como estaban (Rollback).
type memTxRunner struct {
	inv    *memInventoryRepo
	ledger *memLedgerRepo
	// ledgerOverride permite inyectar un ledger con fallos dentro de la tx.
	ledgerOverride repository.InventoryTransactionRepository
}

func newMemTxRunner(inv *memInventoryRepo, ledger *memLedgerRepo) *memTxRunner {
	return &memTxRunner{inv: inv, ledger: ledger}
}

func (t *memTxRunner) Run(ctx context.Context, fn func(
	invRepo repository.IngredientInventoryRepository,
	ledgerRepo repository.InventoryTransactionRepository,
) error) error {
	invSnap := t.inv.snapshot()
	ledgerSnap := t.ledger.snapshot()

	var ledgerRepo repository.InventoryTransactionRepository = t.ledger
	if t.ledgerOverride != nil {
		ledgerRepo = t.ledgerOverride
	}

	if err := fn(t.inv, ledgerRepo); err != nil {
		t.inv.rows = invSnap
		t.ledger.rows = ledgerSnap
		return err
	}
	return nil
}

// memRecipeRepo catálogo de recetas en memoria.
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

// memIngredientRepo catálogo de ingredientes en memoria.
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
