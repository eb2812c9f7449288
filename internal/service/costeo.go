package service

import (
	"github.com/shopspring/decimal"

	"github.com/hercules830/nexa-control-app-sub000/internal/model"
)

// Costeo is the result of converting a purchase into usage-unit terms.
type Costeo struct {
	CostoPorUnidadUso decimal.Decimal
	StockUnidadUso    decimal.Decimal
}

// CalcularCosteo converts a purchase (quantity in purchase units, total
// cost, usage-units-per-purchase-unit factor) into a cost per usage unit
// and a stock amount in usage units. Pure - no side effects.
//
//	costoPorUnidadUso = costoTotal / (cantidadCompra × factor)
//	stockUnidadUso    = cantidadCompra × factor
func CalcularCosteo(cantidadCompra, costoTotal, factor decimal.Decimal) (Costeo, error) {
	if cantidadCompra.LessThanOrEqual(decimal.Zero) {
		return Costeo{}, validacion("cantidad_compra debe ser mayor a cero")
	}
	if factor.LessThanOrEqual(decimal.Zero) {
		return Costeo{}, validacion("factor_conversion debe ser mayor a cero")
	}
	if costoTotal.IsNegative() {
		return Costeo{}, validacion("costo_total no puede ser negativo")
	}

	stock := cantidadCompra.Mul(factor)
	return Costeo{
		CostoPorUnidadUso: costoTotal.Div(stock),
		StockUnidadUso:    stock,
	}, nil
}

// CostoPromedioPonderado blends the cost of remaining stock with a new
// purchase batch:
//
//	nuevoCosto = (stockActual×costoActual + costoTotal) / (stockActual + stockAgregado)
//
// When the resulting stock is zero the current cost is kept unchanged.
func CostoPromedioPonderado(stockActual, costoActual, stockAgregado, costoTotal decimal.Decimal) decimal.Decimal {
	nuevoStock := stockActual.Add(stockAgregado)
	if nuevoStock.LessThanOrEqual(decimal.Zero) {
		return costoActual
	}
	valorExistente := stockActual.Mul(costoActual)
	return valorExistente.Add(costoTotal).Div(nuevoStock)
}

// CostoReceta rolls up a recipe's line items using each line's cost
// snapshot: Σ cantidadUsada × costo.
func CostoReceta(items []model.RecetaItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.CantidadUsada.Mul(it.Costo))
	}
	return total
}
