package settlement

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/craftfood/inventory-ledger/internal/domain/entity"
	"github.com/craftfood/inventory-ledger/internal/domain/repository"
)

// SettlementTxRunner ejecuta la liquidación en una transacción que ata los
// repos de inventario Y el repo de renglones de orden: "COGS escrito" y
// "stock descontado" no pueden divergir.
type SettlementTxRunner interface {
	RunSettlement(ctx context.Context, fn func(
		invRepo repository.IngredientInventoryRepository,
		ledgerRepo repository.InventoryTransactionRepository,
		orderItemRepo repository.OrderItemRepository,
	) error) error
}

// ConsumptionService es lo que la liquidación necesita del orquestador de
// consumo: la variante en-tx (para componer la unidad atómica) y el costeo
// estático de respaldo.
type ConsumptionService interface {
	ConsumeForRecipeInTx(
		invRepo repository.IngredientInventoryRepository,
		ledgerRepo repository.InventoryTransactionRepository,
		recipe *entity.Recipe,
		units decimal.Decimal,
		now time.Time,
		referenceID string,
	) (decimal.Decimal, error)
	ComputeRecipeUnitCost(ctx context.Context, recipeID string) (decimal.Decimal, error)
}
