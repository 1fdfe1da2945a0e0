package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// IngredientInventory es el estado actual de stock de un ingrediente para un vendor
// (una fila por par vendor+ingrediente, clave natural única). Es una cache
// materializada del ledger de movimientos: la suma de InventoryTransaction.Quantity
// del par debe reconciliar con Quantity.
// CostBasis es el costo promedio ponderado vigente por unidad; nunca negativo.
// Quantity puede quedar negativa bajo la política de inventario no conciliado.
type IngredientInventory struct {
	VendorID     string
	IngredientID string
	Quantity     decimal.Decimal
	CostBasis    decimal.Decimal
	UpdatedAt    time.Time
}
