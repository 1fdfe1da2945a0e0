package repository

import "github.com/craftfood/inventory-ledger/internal/domain/entity"

// RecipeRepository es el puerto de solo lectura hacia el proveedor de recetas.
type RecipeRepository interface {
	// GetByID devuelve la receta con sus ítems en orden; nil si no existe.
	GetByID(id string) (*entity.Recipe, error)
	// GetByProductID devuelve la receta vinculada a un producto; nil si el
	// producto no tiene receta.
	GetByProductID(productID string) (*entity.Recipe, error)
}
