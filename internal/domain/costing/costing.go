package costing

import "github.com/shopspring/decimal"

// Escala de redondeo para costos unitarios (4 decimales).
const CostScale = 4

// WeightedAvgCost implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Si la cantidad total es <= 0 devuelve 0: un promedio sobre cantidad nula o negativa
// no tiene significado; el caller debe tratarlo como caso degenerado y loguearlo.
func WeightedAvgCost(prevQty, prevCost, addQty, addCost decimal.Decimal) decimal.Decimal {
	sum := prevQty.Add(addQty)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := prevQty.Mul(prevCost).Add(addQty.Mul(addCost))
	return num.Div(sum).Round(CostScale)
}

// RecipeLine es un renglón de receta con su costo de catálogo ya resuelto,
// para que el cálculo quede puro (sin I/O).
type RecipeLine struct {
	QtyPerBatch decimal.Decimal
	WastePct    decimal.Decimal // fracción no negativa: 0.10 = 10% de merma esperada
	CostPerUnit decimal.Decimal
}

// RecipeUnitCost calcula el costo estático por unidad terminada de una receta:
// consumo efectivo por lote = QtyPerBatch * (1 + WastePct); costo del lote =
// Σ(consumo efectivo * CostPerUnit); costo unitario = costo del lote / yieldQty.
// Si yieldQty <= 0 devuelve 0 ("sin costeo disponible", no costo cero real).
func RecipeUnitCost(lines []RecipeLine, yieldQty decimal.Decimal) decimal.Decimal {
	if yieldQty.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	one := decimal.NewFromInt(1)
	var batchCost decimal.Decimal
	for _, l := range lines {
		effective := l.QtyPerBatch.Mul(one.Add(l.WastePct))
		batchCost = batchCost.Add(effective.Mul(l.CostPerUnit))
	}
	return batchCost.Div(yieldQty).Round(CostScale)
}

// PerUnitDraw devuelve el consumo de un ingrediente por unidad terminada:
// QtyPerBatch * (1 + WastePct) / yieldQty. Asume yieldQty > 0 (validado por el caller).
func PerUnitDraw(qtyPerBatch, wastePct, yieldQty decimal.Decimal) decimal.Decimal {
	one := decimal.NewFromInt(1)
	return qtyPerBatch.Mul(one.Add(wastePct)).Div(yieldQty)
}
