package repository

import (
	"github.com/shopspring/decimal"

	"github.com/craftfood/inventory-ledger/internal/domain/entity"
)

// OrderItemRepository es el puerto hacia el proveedor de órdenes: lectura del
// renglón (vendor resuelto vía la orden dueña) y escritura limitada al campo
// cogs_unit.
type OrderItemRepository interface {
	GetByID(id string) (*entity.OrderItem, error)
	// GetForUpdate bloquea el renglón (SELECT FOR UPDATE) para la liquidación
	// idempotente: el re-chequeo de CogsUnit == nil ocurre bajo el lock.
	GetForUpdate(id string) (*entity.OrderItem, error)
	SetCogsUnit(id string, cogsUnit decimal.Decimal) error
}
