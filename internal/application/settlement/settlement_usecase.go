package settlement

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/craftfood/inventory-ledger/internal/domain"
	"github.com/craftfood/inventory-ledger/internal/domain/repository"
	"github.com/craftfood/inventory-ledger/pkg/logger"
)

// SettlementUseCase liquida el COGS de un renglón de orden en el momento de la
// venta: consumo en vivo de inventario si el producto tiene receta, o costeo
// estático de respaldo si no aplica. La escritura de cogs_unit es exactamente
// una vez por renglón (idempotente ante re-invocación).
type SettlementUseCase struct {
	txRunner      SettlementTxRunner
	orderItemRepo repository.OrderItemRepository
	recipeRepo    repository.RecipeRepository
	consumption   ConsumptionService
	log           *logger.Logger
}

// NewSettlementUseCase construye el caso de uso.
func NewSettlementUseCase(
	txRunner SettlementTxRunner,
	orderItemRepo repository.OrderItemRepository,
	recipeRepo repository.RecipeRepository,
	consumption ConsumptionService,
	log *logger.Logger,
) *SettlementUseCase {
	return &SettlementUseCase{
		txRunner:      txRunner,
		orderItemRepo: orderItemRepo,
		recipeRepo:    recipeRepo,
		consumption:   consumption,
		log:           log,
	}
}

// Result resultado de la liquidación.
type Result struct {
	OrderItemID    string
	CogsUnit       decimal.Decimal
	Live           bool // true = se descontó inventario real
	AlreadySettled bool // true = el renglón ya estaba liquidado (no-op)
}

// SnapshotCogsForOrderItem determina y persiste el COGS por unidad de un
// renglón vendido, exactamente una vez:
//
//  1. Si cogs_unit ya está asignado, retorna sin tocar nada (idempotencia:
//     re-ejecutar el hook no puede descontar inventario dos veces).
//  2. Si el producto tiene receta: en UNA transacción se bloquea el renglón,
//     se re-chequea cogs_unit IS NULL bajo el lock, se consume el inventario
//     (ConsumeForRecipeInTx) y se escribe el COGS. Todo commitea o nada.
//  3. Sin receta, o si el consumo en vivo falla: costeo estático del catálogo,
//     escrito con el mismo check-and-set bajo lock; el inventario no se toca.
//
// ErrConflict del consumo en vivo se propaga (reintentable por el caller, que
// debe reejecutar la operación completa); otros fallos degradan al respaldo.
func (uc *SettlementUseCase) SnapshotCogsForOrderItem(ctx context.Context, vendorID, orderItemID string) (*Result, error) {
	if orderItemID == "" {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.orderItemRepo.GetByID(orderItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if vendorID != "" && item.VendorID != vendorID {
		return nil, domain.ErrForbidden
	}
	if item.CogsUnit != nil {
		return &Result{OrderItemID: orderItemID, CogsUnit: *item.CogsUnit, AlreadySettled: true}, nil
	}
	if !item.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	recipe, err := uc.recipeRepo.GetByProductID(item.ProductID)
	if err != nil {
		return nil, err
	}
	if recipe != nil && recipe.VendorID != item.VendorID {
		return nil, domain.ErrForbidden
	}

	// Camino en vivo: receta vinculada → consumo real + escritura de COGS en
	// la misma transacción.
	if recipe != nil {
		now := time.Now()
		var cogsUnit decimal.Decimal
		err := uc.txRunner.RunSettlement(ctx, func(
			invRepo repository.IngredientInventoryRepository,
			ledgerRepo repository.InventoryTransactionRepository,
			orderItemRepo repository.OrderItemRepository,
		) error {
			locked, err := orderItemRepo.GetForUpdate(orderItemID)
			if err != nil {
				return err
			}
			if locked == nil {
				return domain.ErrNotFound
			}
			if locked.CogsUnit != nil {
				cogsUnit = *locked.CogsUnit
				return domain.ErrAlreadySettled
			}
			cogsUnit, err = uc.consumption.ConsumeForRecipeInTx(
				invRepo, ledgerRepo, recipe, locked.Quantity, now, orderItemID,
			)
			if err != nil {
				return err
			}
			return orderItemRepo.SetCogsUnit(orderItemID, cogsUnit)
		})
		switch {
		case err == nil:
			return &Result{OrderItemID: orderItemID, CogsUnit: cogsUnit, Live: true}, nil
		case errors.Is(err, domain.ErrAlreadySettled):
			// Otro proceso liquidó primero; el rollback no escribió nada.
			return &Result{OrderItemID: orderItemID, CogsUnit: cogsUnit, AlreadySettled: true}, nil
		case errors.Is(err, domain.ErrConflict):
			return nil, err
		}
		uc.log.Warn().
			Err(err).
			Str("order_item_id", orderItemID).
			Str("recipe_id", recipe.ID).
			Msg("consumo en vivo falló; se usa costeo estático de respaldo")
	}

	// Respaldo estático: la venta queda costeada pero el inventario no se toca.
	estimate := decimal.Zero
	if recipe != nil {
		estimate, err = uc.consumption.ComputeRecipeUnitCost(ctx, recipe.ID)
		if err != nil {
			return nil, err
		}
	} else {
		uc.log.Warn().
			Str("order_item_id", orderItemID).
			Str("product_id", item.ProductID).
			Msg("producto sin receta vinculada: COGS estimado en cero")
	}

	err = uc.txRunner.RunSettlement(ctx, func(
		_ repository.IngredientInventoryRepository,
		_ repository.InventoryTransactionRepository,
		orderItemRepo repository.OrderItemRepository,
	) error {
		locked, err := orderItemRepo.GetForUpdate(orderItemID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		if locked.CogsUnit != nil {
			estimate = *locked.CogsUnit
			return domain.ErrAlreadySettled
		}
		return orderItemRepo.SetCogsUnit(orderItemID, estimate)
	})
	if errors.Is(err, domain.ErrAlreadySettled) {
		return &Result{OrderItemID: orderItemID, CogsUnit: estimate, AlreadySettled: true}, nil
	}
	if err != nil {
		return nil, err
	}
	return &Result{OrderItemID: orderItemID, CogsUnit: estimate}, nil
}
