package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/craftfood/inventory-ledger/internal/application/inventory"
	"github.com/craftfood/inventory-ledger/internal/application/settlement"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LedgerUC      *inventory.LedgerUseCase
	ConsumptionUC *inventory.ConsumptionUseCase
	SettlementUC  *settlement.SettlementUseCase
	JWTSecret     string
}

// Router registra las rutas de la API. Todo el ledger es multi-vendor y va
// detrás de Bearer Token: el vendor se toma del token, nunca del body.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Ledger de inventario (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.LedgerUC, deps.ConsumptionUC)
	invGroup.Post("/purchases", inventoryHandler.RecordPurchase)
	invGroup.Post("/adjustments", inventoryHandler.RecordAdjustment)
	invGroup.Post("/waste", inventoryHandler.RecordWaste)
	invGroup.Post("/consume", inventoryHandler.Consume)
	invGroup.Get("/stock", inventoryHandler.ListStock)
	invGroup.Get("/stock/:ingredientId", inventoryHandler.GetStock)
	invGroup.Get("/stock/:ingredientId/reconcile", inventoryHandler.Reconcile)
	invGroup.Get("/movements", inventoryHandler.ListMovements)

	// Costeo de recetas (protegido)
	recipes := protected.Group("/recipes")
	recipes.Get("/:recipeId/unit-cost", inventoryHandler.RecipeUnitCost)

	// Liquidación de COGS por renglón de orden (protegido)
	orderItems := protected.Group("/order-items")
	settlementHandler := NewSettlementHandler(deps.SettlementUC)
	orderItems.Post("/:orderItemId/settle", settlementHandler.Settle)
}
