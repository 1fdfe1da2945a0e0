package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del ledger de inventario.
const (
	TransactionTypePurchase   = "purchase"   // entrada por compra
	TransactionTypeSale       = "sale"       // salida por venta (consumo de receta)
	TransactionTypeAdjustment = "adjustment" // ajuste manual (+/-)
	TransactionTypeWaste      = "waste"      // merma
)

// InventoryTransaction es un movimiento del ledger append-only (registro de auditoría).
// Se crea exactamente una vez por movimiento; nunca se muta ni se borra.
// Quantity es con signo: positiva en compras/ajustes de entrada, negativa en
// ventas, mermas y ajustes de salida. UnitCost es el costo vigente al momento
// del movimiento: lo pagado en una compra, el costo promedio en una salida.
type InventoryTransaction struct {
	ID           string
	ReferenceID  string // operación que originó el movimiento (ej. renglón de orden en ventas)
	VendorID     string
	IngredientID string
	Type         string
	Quantity     decimal.Decimal
	UnitCost     decimal.Decimal
	Note         string
	CreatedAt    time.Time
}
