package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/craftfood/inventory-ledger/internal/application/dto"
	"github.com/craftfood/inventory-ledger/internal/application/settlement"
)

// SettlementHandler expone el hook de liquidación de COGS al momento de la venta.
type SettlementHandler struct {
	settlementUC *settlement.SettlementUseCase
}

// NewSettlementHandler construye el handler.
func NewSettlementHandler(settlementUC *settlement.SettlementUseCase) *SettlementHandler {
	return &SettlementHandler{settlementUC: settlementUC}
}

// Settle liquida el COGS de un renglón de orden. Idempotente: re-invocar sobre
// un renglón ya liquidado devuelve el COGS existente sin tocar inventario.
func (h *SettlementHandler) Settle(c *fiber.Ctx) error {
	vendorID := GetVendorID(c)
	if vendorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	res, err := h.settlementUC.SnapshotCogsForOrderItem(c.Context(), vendorID, c.Params("orderItemId"))
	if err != nil {
		return mapError(c, err)
	}
	status := fiber.StatusCreated
	if res.AlreadySettled {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(dto.SettleResponse{
		OrderItemID:    res.OrderItemID,
		CogsUnit:       res.CogsUnit,
		Live:           res.Live,
		AlreadySettled: res.AlreadySettled,
	})
}
