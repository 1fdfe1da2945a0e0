package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/craftfood/inventory-ledger/internal/domain/entity"
	"github.com/craftfood/inventory-ledger/internal/domain/repository"
)

var _ repository.OrderItemRepository = (*OrderItemRepo)(nil)

// OrderItemRepo adaptador hacia el proveedor de órdenes: lectura del renglón
// (vendor resuelto vía JOIN con la orden dueña) y escritura limitada a cogs_unit.
type OrderItemRepo struct {
	q Querier
}

// NewOrderItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderItemRepository(q Querier) *OrderItemRepo {
	return &OrderItemRepo{q: q}
}

// GetByID obtiene el renglón con el vendor de la orden dueña; nil si no existe.
func (r *OrderItemRepo) GetByID(id string) (*entity.OrderItem, error) {
	query := `
		SELECT oi.id, oi.order_id, o.vendor_id, oi.product_id, oi.quantity, oi.cogs_unit
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE oi.id = $1`
	return r.scanOne(query, id)
}

// GetForUpdate bloquea el renglón (FOR UPDATE OF oi) para el check-and-set
// idempotente de cogs_unit dentro de la transacción de liquidación.
func (r *OrderItemRepo) GetForUpdate(id string) (*entity.OrderItem, error) {
	query := `
		SELECT oi.id, oi.order_id, o.vendor_id, oi.product_id, oi.quantity, oi.cogs_unit
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE oi.id = $1
		FOR UPDATE OF oi`
	return r.scanOne(query, id)
}

func (r *OrderItemRepo) scanOne(query, id string) (*entity.OrderItem, error) {
	var item entity.OrderItem
	var cogsUnit *decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&item.ID, &item.OrderID, &item.VendorID, &item.ProductID, &item.Quantity, &cogsUnit,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order item: %w", err)
	}
	item.CogsUnit = cogsUnit
	return &item, nil
}

// SetCogsUnit escribe el COGS por unidad del renglón. Única escritura que este
// motor hace sobre la tabla de órdenes.
func (r *OrderItemRepo) SetCogsUnit(id string, cogsUnit decimal.Decimal) error {
	query := `UPDATE order_items SET cogs_unit = $2 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, cogsUnit)
	if err != nil {
		return fmt.Errorf("set cogs unit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set cogs unit: renglón %s no existe", id)
	}
	return nil
}
