package entity

import "github.com/shopspring/decimal"

// OrderItem es la vista mínima de un renglón de orden que este motor necesita:
// vendor resuelto desde la orden dueña, producto y cantidad vendida. CogsUnit
// es el único campo que el motor escribe (exactamente una vez); nil = aún sin
// liquidar.
type OrderItem struct {
	ID        string
	OrderID   string
	VendorID  string
	ProductID string
	Quantity  decimal.Decimal
	CogsUnit  *decimal.Decimal
}
