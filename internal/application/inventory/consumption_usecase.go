package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/craftfood/inventory-ledger/internal/domain"
	"github.com/craftfood/inventory-ledger/internal/domain/costing"
	"github.com/craftfood/inventory-ledger/internal/domain/entity"
	"github.com/craftfood/inventory-ledger/internal/domain/repository"
	"github.com/craftfood/inventory-ledger/pkg/logger"
)

// ConsumptionUseCase traduce "se vendieron N unidades de la receta R" en
// deducciones por ingrediente al costo promedio vigente, y reporta el COGS
// realizado por unidad terminada. Todas las deducciones de una llamada van en
// una sola transacción: un consumo parcial nunca es observable.
type ConsumptionUseCase struct {
	txRunner       TxRunner
	recipeRepo     repository.RecipeRepository
	ingredientRepo repository.IngredientRepository
	log            *logger.Logger
}

// NewConsumptionUseCase construye el caso de uso.
func NewConsumptionUseCase(
	txRunner TxRunner,
	recipeRepo repository.RecipeRepository,
	ingredientRepo repository.IngredientRepository,
	log *logger.Logger,
) *ConsumptionUseCase {
	return &ConsumptionUseCase{
		txRunner:       txRunner,
		recipeRepo:     recipeRepo,
		ingredientRepo: ingredientRepo,
		log:            log,
	}
}

// ConsumeForRecipe deduce los ingredientes de la receta para `units` unidades
// vendidas y devuelve el COGS por unidad terminada (4 decimales). referenceID
// vincula los movimientos "sale" con la operación que los originó.
func (uc *ConsumptionUseCase) ConsumeForRecipe(
	ctx context.Context,
	vendorID, recipeID string,
	units decimal.Decimal,
	referenceID string,
) (decimal.Decimal, error) {
	if vendorID == "" || recipeID == "" || !units.GreaterThan(decimal.Zero) {
		return decimal.Zero, domain.ErrInvalidInput
	}
	recipe, err := uc.recipeRepo.GetByID(recipeID)
	if err != nil {
		return decimal.Zero, err
	}
	if recipe == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	if recipe.VendorID != vendorID {
		return decimal.Zero, domain.ErrForbidden
	}

	now := time.Now()
	var cogsPerUnit decimal.Decimal
	err = uc.txRunner.Run(ctx, func(
		invRepo repository.IngredientInventoryRepository,
		ledgerRepo repository.InventoryTransactionRepository,
	) error {
		cogsPerUnit, err = uc.ConsumeForRecipeInTx(invRepo, ledgerRepo, recipe, units, now, referenceID)
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}
	return cogsPerUnit, nil
}

// ConsumeForRecipeInTx ejecuta el consumo usando repositorios ya atados a la
// transacción del caller (integración liquidación-inventario: permite que la
// escritura del COGS en la orden y la mutación del ledger commiteen juntas).
//
// Por cada ingrediente: bloquea la fila de stock, lee el costo base ANTES de
// mutar (el consumo se valora al promedio vigente al momento de consumir),
// acumula base*consumoPorUnidad, resta consumo*units y appendea el movimiento
// "sale" al costo base. El costo base no cambia: solo las compras mueven el
// promedio. Cantidad negativa resultante se permite como señal de inventario
// sin conciliar (WARN, no error).
func (uc *ConsumptionUseCase) ConsumeForRecipeInTx(
	invRepo repository.IngredientInventoryRepository,
	ledgerRepo repository.InventoryTransactionRepository,
	recipe *entity.Recipe,
	units decimal.Decimal,
	now time.Time,
	referenceID string,
) (decimal.Decimal, error) {
	if recipe == nil || !units.GreaterThan(decimal.Zero) {
		return decimal.Zero, domain.ErrInvalidInput
	}
	if recipe.YieldQty.LessThanOrEqual(decimal.Zero) || len(recipe.Items) == 0 {
		return decimal.Zero, domain.ErrInvalidInput
	}

	var cogsPerUnit decimal.Decimal
	for _, item := range recipe.Items {
		inv, err := invRepo.GetForUpdate(recipe.VendorID, item.IngredientID)
		if err != nil {
			return decimal.Zero, err
		}

		draw := costing.PerUnitDraw(item.QtyPerBatch, item.WastePct, recipe.YieldQty)
		cogsPerUnit = cogsPerUnit.Add(inv.CostBasis.Mul(draw))

		consumeQty := draw.Mul(units)
		newQty := inv.Quantity.Sub(consumeQty)
		if newQty.IsNegative() {
			uc.log.Warn().
				Str("vendor_id", recipe.VendorID).
				Str("ingredient_id", item.IngredientID).
				Str("recipe_id", recipe.ID).
				Str("quantity", newQty.String()).
				Msg("stock negativo tras el consumo: inventario sin conciliar")
		}

		inv.Quantity = newQty
		inv.UpdatedAt = now
		if err := invRepo.Upsert(inv); err != nil {
			return decimal.Zero, err
		}

		if err := ledgerRepo.Create(&entity.InventoryTransaction{
			ReferenceID:  referenceID,
			VendorID:     recipe.VendorID,
			IngredientID: item.IngredientID,
			Type:         entity.TransactionTypeSale,
			Quantity:     consumeQty.Neg(),
			UnitCost:     inv.CostBasis,
			CreatedAt:    now,
		}); err != nil {
			return decimal.Zero, err
		}
	}
	return cogsPerUnit.Round(costing.CostScale), nil
}

// ComputeRecipeUnitCost calcula el costo estático por unidad usando el costo
// declarado del catálogo de ingredientes, independiente del ledger vivo. No
// muta nada; es el respaldo cuando el consumo en vivo no aplica.
func (uc *ConsumptionUseCase) ComputeRecipeUnitCost(ctx context.Context, recipeID string) (decimal.Decimal, error) {
	if recipeID == "" {
		return decimal.Zero, domain.ErrInvalidInput
	}
	recipe, err := uc.recipeRepo.GetByID(recipeID)
	if err != nil {
		return decimal.Zero, err
	}
	if recipe == nil {
		return decimal.Zero, domain.ErrNotFound
	}

	ids := make([]string, 0, len(recipe.Items))
	for _, item := range recipe.Items {
		ids = append(ids, item.IngredientID)
	}
	ingredients, err := uc.ingredientRepo.ListByIDs(ids)
	if err != nil {
		return decimal.Zero, err
	}
	costByID := make(map[string]decimal.Decimal, len(ingredients))
	for _, ing := range ingredients {
		costByID[ing.ID] = ing.CostPerUnit
	}

	lines := make([]costing.RecipeLine, 0, len(recipe.Items))
	for _, item := range recipe.Items {
		cost, ok := costByID[item.IngredientID]
		if !ok {
			return decimal.Zero, domain.ErrNotFound
		}
		lines = append(lines, costing.RecipeLine{
			QtyPerBatch: item.QtyPerBatch,
			WastePct:    item.WastePct,
			CostPerUnit: cost,
		})
	}
	return costing.RecipeUnitCost(lines, recipe.YieldQty), nil
}
