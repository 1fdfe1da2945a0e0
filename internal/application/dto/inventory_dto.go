package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ErrorResponse respuesta de error estándar de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PurchaseRequest body para POST /api/inventory/purchases.
type PurchaseRequest struct {
	IngredientID string          `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	ReferenceID  string          `json:"reference_id,omitempty"`
	Note         string          `json:"note,omitempty"`
}

// AdjustmentRequest body para POST /api/inventory/adjustments. Quantity es el
// delta con signo (positivo entrada, negativo salida).
type AdjustmentRequest struct {
	IngredientID string          `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Note         string          `json:"note,omitempty"`
}

// WasteRequest body para POST /api/inventory/waste. Quantity es positiva;
// se registra como salida al costo promedio vigente.
type WasteRequest struct {
	IngredientID string          `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reason       string          `json:"reason,omitempty"`
}

// ConsumeRequest body para POST /api/inventory/consume.
type ConsumeRequest struct {
	RecipeID    string          `json:"recipe_id"`
	Units       decimal.Decimal `json:"units"`
	ReferenceID string          `json:"reference_id,omitempty"`
}

// StockStateResponse estado actual de un par vendor+ingrediente.
type StockStateResponse struct {
	VendorID     string          `json:"vendor_id"`
	IngredientID string          `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	CostBasis    decimal.Decimal `json:"cost_basis"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// MovementResponse un movimiento del ledger.
type MovementResponse struct {
	ID           string          `json:"id"`
	ReferenceID  string          `json:"reference_id,omitempty"`
	IngredientID string          `json:"ingredient_id"`
	Type         string          `json:"type"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Note         string          `json:"note,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ConsumeResponse resultado de un consumo de receta.
type ConsumeResponse struct {
	RecipeID    string          `json:"recipe_id"`
	Units       decimal.Decimal `json:"units"`
	CogsPerUnit decimal.Decimal `json:"cogs_per_unit"`
}

// RecipeUnitCostResponse costeo estático por unidad de una receta.
type RecipeUnitCostResponse struct {
	RecipeID string          `json:"recipe_id"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// ReconciliationResponse resultado del replay del ledger contra el estado.
type ReconciliationResponse struct {
	VendorID      string          `json:"vendor_id"`
	IngredientID  string          `json:"ingredient_id"`
	LedgerSum     decimal.Decimal `json:"ledger_sum"`
	StateQuantity decimal.Decimal `json:"state_quantity"`
	Drift         decimal.Decimal `json:"drift"`
	Consistent    bool            `json:"consistent"`
}

// SettleResponse resultado de la liquidación de COGS de un renglón de orden.
type SettleResponse struct {
	OrderItemID    string          `json:"order_item_id"`
	CogsUnit       decimal.Decimal `json:"cogs_unit"`
	Live           bool            `json:"live"`            // true = consumo real de inventario
	AlreadySettled bool            `json:"already_settled"` // true = no-op idempotente
}
