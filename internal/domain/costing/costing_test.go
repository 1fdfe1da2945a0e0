package costing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftfood/inventory-ledger/internal/domain/costing"
)

// ──────────────────────────────────────────────────────────────────────────────
// WeightedAvgCost
// ──────────────────────────────────────────────────────────────────────────────

// Vector canónico: 10 @ 2.00 + 10 @ 4.00 → 20 @ 3.00 exacto.
func TestWeightedAvgCost_VectorExacto(t *testing.T) {
	got := costing.WeightedAvgCost(
		decimal.NewFromInt(10), decimal.RequireFromString("2.00"),
		decimal.NewFromInt(10), decimal.RequireFromString("4.00"),
	)
	assert.True(t, decimal.RequireFromString("3.00").Equal(got),
		"10@2.00 + 10@4.00 debe promediar exactamente 3.00, got %s", got)
}

// Primera compra sobre stock en cero: el promedio es el costo pagado.
func TestWeightedAvgCost_StockInicialCero(t *testing.T) {
	got := costing.WeightedAvgCost(
		decimal.Zero, decimal.Zero,
		decimal.NewFromInt(5), decimal.RequireFromString("1.25"),
	)
	assert.True(t, decimal.RequireFromString("1.25").Equal(got))
}

// El resultado se redondea a 4 decimales (half-up de shopspring).
func TestWeightedAvgCost_RedondeoACuatroDecimales(t *testing.T) {
	// (1*1.00 + 2*2.00) / 3 = 5/3 = 1.66666... → 1.6667
	got := costing.WeightedAvgCost(
		decimal.NewFromInt(1), decimal.RequireFromString("1.00"),
		decimal.NewFromInt(2), decimal.RequireFromString("2.00"),
	)
	assert.True(t, decimal.RequireFromString("1.6667").Equal(got),
		"el promedio debe redondearse a 4 decimales, got %s", got)
	assert.LessOrEqual(t, int(got.Exponent()*-1), costing.CostScale)
}

// Cantidad total <= 0 (déficit previo mayor que la compra): promedio no
// derivable, el servicio devuelve 0 y el caller decide qué hacer.
func TestWeightedAvgCost_CantidadTotalNoPositiva(t *testing.T) {
	got := costing.WeightedAvgCost(
		decimal.NewFromInt(-10), decimal.RequireFromString("2.00"),
		decimal.NewFromInt(4), decimal.RequireFromString("3.00"),
	)
	assert.True(t, got.IsZero(), "con cantidad total <= 0 el promedio es 0, got %s", got)

	// Exactamente cero también es degenerado.
	got = costing.WeightedAvgCost(
		decimal.NewFromInt(-5), decimal.RequireFromString("2.00"),
		decimal.NewFromInt(5), decimal.RequireFromString("3.00"),
	)
	assert.True(t, got.IsZero())
}

// Sin drift binario: los mismos operandos decimales producen siempre el mismo
// promedio, sin importar cuántas veces se calcule.
func TestWeightedAvgCost_Determinista(t *testing.T) {
	a := costing.WeightedAvgCost(
		decimal.RequireFromString("3.333"), decimal.RequireFromString("0.07"),
		decimal.RequireFromString("6.667"), decimal.RequireFromString("0.11"),
	)
	b := costing.WeightedAvgCost(
		decimal.RequireFromString("3.333"), decimal.RequireFromString("0.07"),
		decimal.RequireFromString("6.667"), decimal.RequireFromString("0.11"),
	)
	assert.True(t, a.Equal(b))
}

// ──────────────────────────────────────────────────────────────────────────────
// RecipeUnitCost / PerUnitDraw
// ──────────────────────────────────────────────────────────────────────────────

// Receta de un solo ingrediente con 10% de merma: 1 kg @ 2.00 * 1.10 / 1 unidad
// = 2.20 por unidad.
func TestRecipeUnitCost_MermaIncluida(t *testing.T) {
	lines := []costing.RecipeLine{
		{
			QtyPerBatch: decimal.NewFromInt(1),
			WastePct:    decimal.RequireFromString("0.10"),
			CostPerUnit: decimal.RequireFromString("2.00"),
		},
	}
	got := costing.RecipeUnitCost(lines, decimal.NewFromInt(1))
	assert.True(t, decimal.RequireFromString("2.20").Equal(got),
		"1kg @ 2.00 con 10%% de merma debe costar 2.20/unidad, got %s", got)
}

// Lote que rinde varias unidades: el costo del lote se divide por el yield.
func TestRecipeUnitCost_LoteMultiUnidad(t *testing.T) {
	// Lote: 2 kg harina @ 1.50 + 0.5 kg azúcar @ 3.00, sin merma, rinde 10.
	// Costo lote = 3.00 + 1.50 = 4.50 → 0.45 por unidad.
	lines := []costing.RecipeLine{
		{QtyPerBatch: decimal.NewFromInt(2), WastePct: decimal.Zero, CostPerUnit: decimal.RequireFromString("1.50")},
		{QtyPerBatch: decimal.RequireFromString("0.5"), WastePct: decimal.Zero, CostPerUnit: decimal.RequireFromString("3.00")},
	}
	got := costing.RecipeUnitCost(lines, decimal.NewFromInt(10))
	assert.True(t, decimal.RequireFromString("0.45").Equal(got), "got %s", got)
}

// Yield no positivo: "sin costeo disponible", devuelve 0.
func TestRecipeUnitCost_YieldNoPositivo(t *testing.T) {
	lines := []costing.RecipeLine{
		{QtyPerBatch: decimal.NewFromInt(1), WastePct: decimal.Zero, CostPerUnit: decimal.NewFromInt(5)},
	}
	assert.True(t, costing.RecipeUnitCost(lines, decimal.Zero).IsZero())
	assert.True(t, costing.RecipeUnitCost(lines, decimal.NewFromInt(-1)).IsZero())
}

// Receta sin renglones: lote gratis, costo 0.
func TestRecipeUnitCost_SinRenglones(t *testing.T) {
	got := costing.RecipeUnitCost(nil, decimal.NewFromInt(4))
	require.True(t, got.IsZero())
}

// El consumo por unidad terminada incluye la merma y divide por el yield:
// 2 kg * 1.10 / 4 = 0.55 por unidad.
func TestPerUnitDraw_MermaYYield(t *testing.T) {
	got := costing.PerUnitDraw(
		decimal.NewFromInt(2),
		decimal.RequireFromString("0.10"),
		decimal.NewFromInt(4),
	)
	assert.True(t, decimal.RequireFromString("0.55").Equal(got), "got %s", got)
}
