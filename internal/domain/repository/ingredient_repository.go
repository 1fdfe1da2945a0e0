package repository

import "github.com/craftfood/inventory-ledger/internal/domain/entity"

// IngredientRepository es el puerto de solo lectura hacia el catálogo de
// ingredientes (costo declarado, usado por el costeo estático de respaldo).
type IngredientRepository interface {
	GetByID(id string) (*entity.Ingredient, error)
	ListByIDs(ids []string) ([]*entity.Ingredient, error)
}
