package http

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/craftfood/inventory-ledger/internal/application/dto"
	"github.com/craftfood/inventory-ledger/internal/application/inventory"
	"github.com/craftfood/inventory-ledger/internal/domain"
	"github.com/craftfood/inventory-ledger/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP del ledger de inventario (protegido).
type InventoryHandler struct {
	ledgerUC      *inventory.LedgerUseCase
	consumptionUC *inventory.ConsumptionUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledgerUC *inventory.LedgerUseCase, consumptionUC *inventory.ConsumptionUseCase) *InventoryHandler {
	return &InventoryHandler{ledgerUC: ledgerUC, consumptionUC: consumptionUC}
}

// mapError traduce errores de dominio a códigos HTTP.
func mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto de concurrencia; reintente la operación"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func stockResponse(inv *entity.IngredientInventory) dto.StockStateResponse {
	return dto.StockStateResponse{
		VendorID:     inv.VendorID,
		IngredientID: inv.IngredientID,
		Quantity:     inv.Quantity,
		CostBasis:    inv.CostBasis,
		UpdatedAt:    inv.UpdatedAt,
	}
}

// RecordPurchase registra una compra (entrada de stock) del vendor del token.
func (h *InventoryHandler) RecordPurchase(c *fiber.Ctx) error {
	vendorID := GetVendorID(c)
	if vendorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.PurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	inv, err := h.ledgerUC.RecordPurchase(c.Context(), inventory.PurchaseInput{
		VendorID:     vendorID,
		IngredientID: in.IngredientID,
		AddQty:       in.Quantity,
		UnitCost:     in.UnitCost,
		ReferenceID:  in.ReferenceID,
		Note:         in.Note,
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(stockResponse(inv))
}

// RecordAdjustment registra un ajuste manual (delta con signo).
func (h *InventoryHandler) RecordAdjustment(c *fiber.Ctx) error {
	vendorID := GetVendorID(c)
	if vendorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	inv, err := h.ledgerUC.RecordAdjustment(c.Context(), inventory.AdjustmentInput{
		VendorID:     vendorID,
		IngredientID: in.IngredientID,
		DeltaQty:     in.Quantity,
		Note:         in.Note,
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(stockResponse(inv))
}

// RecordWaste registra merma (salida al costo promedio vigente).
func (h *InventoryHandler) RecordWaste(c *fiber.Ctx) error {
	vendorID := GetVendorID(c)
	if vendorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.WasteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	inv, err := h.ledgerUC.RecordWaste(c.Context(), inventory.WasteInput{
		VendorID:     vendorID,
		IngredientID: in.IngredientID,
		Qty:          in.Quantity,
		Reason:       in.Reason,
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(stockResponse(inv))
}

// Consume deduce los ingredientes de una receta por unidades vendidas y
// devuelve el COGS por unidad terminada.
func (h *InventoryHandler) Consume(c *fiber.Ctx) error {
	vendorID := GetVendorID(c)
	if vendorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ConsumeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	cogs, err := h.consumptionUC.ConsumeForRecipe(c.Context(), vendorID, in.RecipeID, in.Units, in.ReferenceID)
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ConsumeResponse{
		RecipeID:    in.RecipeID,
		Units:       in.Units,
		CogsPerUnit: cogs,
	})
}

// GetStock devuelve el estado actual de un ingrediente del vendor.
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	vendorID := GetVendorID(c)
	if vendorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	inv, err := h.ledgerUC.GetStock(c.Context(), vendorID, c.Params("ingredientId"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(stockResponse(inv))
}

// ListStock lista el stock actual del vendor (paginado).
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	vendorID := GetVendorID(c)
	if vendorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	limit, offset := paging(c)
	list, err := h.ledgerUC.ListStock(c.Context(), vendorID, limit, offset)
	if err != nil {
		return mapError(c, err)
	}
	out := make([]dto.StockStateResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, stockResponse(inv))
	}
	return c.JSON(fiber.Map{"total": len(out), "stock": out})
}

// ListMovements lista los movimientos del ledger del vendor, con filtros
// opcionales por ingrediente y rango de fechas (RFC 3339).
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	vendorID := GetVendorID(c)
	if vendorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC 3339)"})
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC 3339)"})
		}
		to = &t
	}
	limit, offset := paging(c)
	list, err := h.ledgerUC.ListMovements(c.Context(), vendorID, c.Query("ingredient_id"), from, to, limit, offset)
	if err != nil {
		return mapError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MovementResponse{
			ID:           m.ID,
			ReferenceID:  m.ReferenceID,
			IngredientID: m.IngredientID,
			Type:         m.Type,
			Quantity:     m.Quantity,
			UnitCost:     m.UnitCost,
			Note:         m.Note,
			CreatedAt:    m.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}

// Reconcile rejuega el ledger de un ingrediente contra el estado materializado.
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	vendorID := GetVendorID(c)
	if vendorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	rec, err := h.ledgerUC.Reconcile(c.Context(), vendorID, c.Params("ingredientId"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(dto.ReconciliationResponse{
		VendorID:      rec.VendorID,
		IngredientID:  rec.IngredientID,
		LedgerSum:     rec.LedgerSum,
		StateQuantity: rec.StateQuantity,
		Drift:         rec.Drift,
		Consistent:    rec.Consistent(),
	})
}

// RecipeUnitCost devuelve el costeo estático por unidad de una receta
// (catálogo, sin tocar el ledger).
func (h *InventoryHandler) RecipeUnitCost(c *fiber.Ctx) error {
	vendorID := GetVendorID(c)
	if vendorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	recipeID := c.Params("recipeId")
	unitCost, err := h.consumptionUC.ComputeRecipeUnitCost(c.Context(), recipeID)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(dto.RecipeUnitCostResponse{RecipeID: recipeID, UnitCost: unitCost})
}

// paging lee limit/offset del query string con defaults razonables.
func paging(c *fiber.Ctx) (limit, offset int) {
	limit = 50
	offset = 0
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	if s := c.Query("offset"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
