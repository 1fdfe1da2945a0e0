package inventory

import (
	"context"

	"github.com/craftfood/inventory-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la actualización del estado y el
// append al ledger sean una sola unidad atómica (Commit o Rollback completos).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		invRepo repository.IngredientInventoryRepository,
		ledgerRepo repository.InventoryTransactionRepository,
	) error) error
}
