package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe es la receta de un producto terminado: YieldQty unidades producidas
// por lote y la lista ordenada de ingredientes. Dato de solo lectura para el
// motor de costeo (el proveedor de recetas es externo).
type Recipe struct {
	ID        string
	VendorID  string
	ProductID string
	Name      string
	YieldQty  decimal.Decimal
	Items     []RecipeItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecipeItem es un ingrediente de la receta con su cantidad por lote y la
// fracción de merma esperada (0.10 = 10% adicional por derrame/recorte).
type RecipeItem struct {
	ID           string
	RecipeID     string
	IngredientID string
	QtyPerBatch  decimal.Decimal
	WastePct     decimal.Decimal
}
