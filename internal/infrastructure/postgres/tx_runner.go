package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/craftfood/inventory-ledger/internal/application/inventory"
	"github.com/craftfood/inventory-ledger/internal/application/settlement"
	"github.com/craftfood/inventory-ledger/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and settlement.SettlementTxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ settlement.SettlementTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Los fallos
// de serialización/deadlock se traducen a domain.ErrConflict para que el
// caller decida el reintento (releyendo estado; nunca replay ciego).
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Unidad atómica de las operaciones del ledger.
func (r *TxRunner) Run(ctx context.Context, fn func(
	invRepo repository.IngredientInventoryRepository,
	ledgerRepo repository.InventoryTransactionRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	invRepo := NewIngredientInventoryRepository(tx)
	ledgerRepo := NewInventoryTransactionRepository(tx)

	if err := fn(invRepo, ledgerRepo); err != nil {
		return translateConcurrencyErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return translateConcurrencyErr(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// RunSettlement inicia una transacción con los repos de inventario más el de
// renglones de orden (para que COGS escrito y stock descontado commiteen juntos).
func (r *TxRunner) RunSettlement(ctx context.Context, fn func(
	invRepo repository.IngredientInventoryRepository,
	ledgerRepo repository.InventoryTransactionRepository,
	orderItemRepo repository.OrderItemRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	invRepo := NewIngredientInventoryRepository(tx)
	ledgerRepo := NewInventoryTransactionRepository(tx)
	orderItemRepo := NewOrderItemRepository(tx)

	if err := fn(invRepo, ledgerRepo, orderItemRepo); err != nil {
		return translateConcurrencyErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return translateConcurrencyErr(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}
