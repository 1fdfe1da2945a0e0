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

// LedgerUseCase registra movimientos de stock de materia prima de forma
// transaccional (compra, ajuste, merma) con bloqueo de fila (SELECT FOR UPDATE)
// y Commit/Rollback. El estado materializado y el append al ledger siempre
// viajan en la misma transacción.
type LedgerUseCase struct {
	txRunner   TxRunner
	invRepo    repository.IngredientInventoryRepository
	ledgerRepo repository.InventoryTransactionRepository
	log        *logger.Logger
}

// NewLedgerUseCase construye el caso de uso. invRepo y ledgerRepo son los
// adaptadores atados al pool (solo lecturas); las escrituras pasan por txRunner.
func NewLedgerUseCase(
	txRunner TxRunner,
	invRepo repository.IngredientInventoryRepository,
	ledgerRepo repository.InventoryTransactionRepository,
	log *logger.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:   txRunner,
		invRepo:    invRepo,
		ledgerRepo: ledgerRepo,
		log:        log,
	}
}

// PurchaseInput entrada para registrar una compra.
type PurchaseInput struct {
	VendorID     string
	IngredientID string
	AddQty       decimal.Decimal
	UnitCost     decimal.Decimal
	ReferenceID  string
	Note         string
}

// AdjustmentInput entrada para un ajuste manual. DeltaQty con signo.
type AdjustmentInput struct {
	VendorID     string
	IngredientID string
	DeltaQty     decimal.Decimal
	Note         string
}

// WasteInput entrada para registrar merma. Qty positiva.
type WasteInput struct {
	VendorID     string
	IngredientID string
	Qty          decimal.Decimal
	Reason       string
}

// Reconciliation resultado del replay del ledger contra el estado materializado.
type Reconciliation struct {
	VendorID      string
	IngredientID  string
	LedgerSum     decimal.Decimal
	StateQuantity decimal.Decimal
	Drift         decimal.Decimal
}

// Consistent indica si el ledger reconcilia exactamente con el estado.
func (r *Reconciliation) Consistent() bool {
	return r.Drift.IsZero()
}

// RecordPurchase registra una entrada de stock: bloquea la fila del par
// vendor+ingrediente (alta perezosa si no existe), recalcula el costo promedio
// ponderado con la cantidad y el costo entrantes, y appendea el movimiento
// "purchase" con el costo PAGADO (no el promedio resultante). Devuelve el
// estado posterior a la actualización.
func (uc *LedgerUseCase) RecordPurchase(ctx context.Context, in PurchaseInput) (*entity.IngredientInventory, error) {
	if in.VendorID == "" || in.IngredientID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.AddQty.GreaterThan(decimal.Zero) || in.UnitCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var result *entity.IngredientInventory

	err := uc.txRunner.Run(ctx, func(
		invRepo repository.IngredientInventoryRepository,
		ledgerRepo repository.InventoryTransactionRepository,
	) error {
		// Bloquea la fila (SELECT FOR UPDATE); el par inexistente llega como
		// fila virtual en cero y el Upsert la crea.
		inv, err := invRepo.GetForUpdate(in.VendorID, in.IngredientID)
		if err != nil {
			return err
		}

		newQty := inv.Quantity.Add(in.AddQty)
		newCost := costing.WeightedAvgCost(inv.Quantity, inv.CostBasis, in.AddQty, in.UnitCost)
		if newQty.LessThanOrEqual(decimal.Zero) {
			// Caso degenerado: la compra no alcanza a cubrir un déficit previo.
			// El promedio no es derivable; se deja en cero y se avisa.
			uc.log.Warn().
				Str("vendor_id", in.VendorID).
				Str("ingredient_id", in.IngredientID).
				Str("quantity", newQty.String()).
				Msg("costo promedio no derivable: cantidad total <= 0 tras la compra")
		}
		if newCost.IsNegative() {
			// Un déficit previo puede arrastrar el promedio bajo cero; el costo
			// base nunca es negativo.
			newCost = decimal.Zero
		}

		inv.Quantity = newQty
		inv.CostBasis = newCost
		inv.UpdatedAt = now
		if err := invRepo.Upsert(inv); err != nil {
			return err
		}

		if err := ledgerRepo.Create(&entity.InventoryTransaction{
			ReferenceID:  in.ReferenceID,
			VendorID:     in.VendorID,
			IngredientID: in.IngredientID,
			Type:         entity.TransactionTypePurchase,
			Quantity:     in.AddQty,
			UnitCost:     in.UnitCost,
			Note:         in.Note,
			CreatedAt:    now,
		}); err != nil {
			return err
		}

		result = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecordAdjustment registra un ajuste manual con delta firmado. El costo base
// no cambia (solo las compras mueven el promedio); el movimiento queda al
// costo vigente.
func (uc *LedgerUseCase) RecordAdjustment(ctx context.Context, in AdjustmentInput) (*entity.IngredientInventory, error) {
	if in.VendorID == "" || in.IngredientID == "" || in.DeltaQty.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	return uc.recordOutflow(ctx, in.VendorID, in.IngredientID, in.DeltaQty, entity.TransactionTypeAdjustment, "", in.Note)
}

// RecordWaste registra merma: salida al costo promedio vigente.
func (uc *LedgerUseCase) RecordWaste(ctx context.Context, in WasteInput) (*entity.IngredientInventory, error) {
	if in.VendorID == "" || in.IngredientID == "" || !in.Qty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	return uc.recordOutflow(ctx, in.VendorID, in.IngredientID, in.Qty.Neg(), entity.TransactionTypeWaste, "", in.Reason)
}

// recordOutflow aplica un delta firmado al estado y appendea el movimiento al
// costo base vigente, en una sola transacción. Cantidad negativa resultante se
// permite como señal de stock no conciliado (se loguea, no bloquea).
func (uc *LedgerUseCase) recordOutflow(
	ctx context.Context,
	vendorID, ingredientID string,
	deltaQty decimal.Decimal,
	movType, referenceID, note string,
) (*entity.IngredientInventory, error) {
	now := time.Now()
	var result *entity.IngredientInventory

	err := uc.txRunner.Run(ctx, func(
		invRepo repository.IngredientInventoryRepository,
		ledgerRepo repository.InventoryTransactionRepository,
	) error {
		inv, err := invRepo.GetForUpdate(vendorID, ingredientID)
		if err != nil {
			return err
		}

		newQty := inv.Quantity.Add(deltaQty)
		if newQty.IsNegative() {
			uc.log.Warn().
				Str("vendor_id", vendorID).
				Str("ingredient_id", ingredientID).
				Str("type", movType).
				Str("quantity", newQty.String()).
				Msg("stock negativo tras el movimiento: inventario sin conciliar")
		}

		inv.Quantity = newQty
		inv.UpdatedAt = now
		if err := invRepo.Upsert(inv); err != nil {
			return err
		}

		if err := ledgerRepo.Create(&entity.InventoryTransaction{
			ReferenceID:  referenceID,
			VendorID:     vendorID,
			IngredientID: ingredientID,
			Type:         movType,
			Quantity:     deltaQty,
			UnitCost:     inv.CostBasis,
			Note:         note,
			CreatedAt:    now,
		}); err != nil {
			return err
		}

		result = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetStock devuelve el estado actual de un par vendor+ingrediente.
func (uc *LedgerUseCase) GetStock(ctx context.Context, vendorID, ingredientID string) (*entity.IngredientInventory, error) {
	inv, err := uc.invRepo.Get(vendorID, ingredientID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

// ListStock lista el stock actual de un vendor (paginado).
func (uc *LedgerUseCase) ListStock(ctx context.Context, vendorID string, limit, offset int) ([]*entity.IngredientInventory, error) {
	return uc.invRepo.ListByVendor(vendorID, limit, offset)
}

// ListMovements lista los movimientos del ledger de un vendor, opcionalmente
// filtrados por ingrediente y rango de fechas.
func (uc *LedgerUseCase) ListMovements(
	ctx context.Context,
	vendorID, ingredientID string,
	from, to *time.Time,
	limit, offset int,
) ([]*entity.InventoryTransaction, error) {
	if ingredientID != "" {
		return uc.ledgerRepo.ListByIngredient(vendorID, ingredientID, from, to, limit, offset)
	}
	return uc.ledgerRepo.ListByVendor(vendorID, from, to, limit, offset)
}

// Reconcile rejuega el ledger (suma de cantidades) y lo compara con el estado
// materializado. Solo lectura; Drift != 0 es un defecto de datos a investigar.
func (uc *LedgerUseCase) Reconcile(ctx context.Context, vendorID, ingredientID string) (*Reconciliation, error) {
	if vendorID == "" || ingredientID == "" {
		return nil, domain.ErrInvalidInput
	}
	sum, err := uc.ledgerRepo.SumQuantity(vendorID, ingredientID)
	if err != nil {
		return nil, err
	}
	inv, err := uc.invRepo.Get(vendorID, ingredientID)
	if err != nil {
		return nil, err
	}
	stateQty := decimal.Zero
	if inv != nil {
		stateQty = inv.Quantity
	}
	return &Reconciliation{
		VendorID:      vendorID,
		IngredientID:  ingredientID,
		LedgerSum:     sum,
		StateQuantity: stateQty,
		Drift:         stateQty.Sub(sum),
	}, nil
}
