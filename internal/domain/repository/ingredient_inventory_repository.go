package repository

import "github.com/craftfood/inventory-ledger/internal/domain/entity"

// IngredientInventoryRepository define el puerto para el estado actual de stock
// por vendor+ingrediente. Usado dentro de transacciones para garantizar consistencia.
type IngredientInventoryRepository interface {
	Get(vendorID, ingredientID string) (*entity.IngredientInventory, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE). Si el par no
	// existe aún devuelve una fila virtual con cantidad y costo en cero
	// (el upsert posterior la crea — alta perezosa).
	GetForUpdate(vendorID, ingredientID string) (*entity.IngredientInventory, error)
	Upsert(inv *entity.IngredientInventory) error
	ListByVendor(vendorID string, limit, offset int) ([]*entity.IngredientInventory, error)
}
