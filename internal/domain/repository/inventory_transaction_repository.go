package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/craftfood/inventory-ledger/internal/domain/entity"
)

// InventoryTransactionRepository define el puerto de persistencia del ledger
// append-only. Solo inserta y consulta: los movimientos nunca se mutan.
type InventoryTransactionRepository interface {
	Create(tx *entity.InventoryTransaction) error
	ListByIngredient(vendorID, ingredientID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error)
	ListByVendor(vendorID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error)
	// SumQuantity suma las cantidades del ledger para un par vendor+ingrediente
	// (replay de auditoría; debe reconciliar con el estado materializado).
	SumQuantity(vendorID, ingredientID string) (decimal.Decimal, error)
}
