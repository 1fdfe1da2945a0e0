package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ingredient es la entrada de catálogo de una materia prima. CostPerUnit es
// el costo declarado (estático), usado solo por el costeo de respaldo cuando
// no hay ledger vivo para el par vendor+ingrediente.
type Ingredient struct {
	ID          string
	VendorID    string
	Name        string
	Unit        string // unidad nativa: kg, unidades, litros...
	CostPerUnit decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
