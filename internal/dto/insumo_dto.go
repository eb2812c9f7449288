package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearInsumoRequest registers the first purchase of a raw material.
// Cost per usage unit and initial stock are derived server-side from the
// purchase quantity, total cost and conversion factor.
type CrearInsumoRequest struct {
	Nombre           string          `json:"nombre"             validate:"required,min=2,max=120"`
	UnidadCompra     string          `json:"unidad_compra"      validate:"required"`
	UnidadUso        string          `json:"unidad_uso"         validate:"required"`
	FactorConversion decimal.Decimal `json:"factor_conversion"  validate:"required,gt=0"`
	CantidadCompra   decimal.Decimal `json:"cantidad_compra"    validate:"required,gt=0"`
	CostoTotal       decimal.Decimal `json:"costo_total"        validate:"min=0"`
	UmbralAlerta     *decimal.Decimal `json:"umbral_alerta"     validate:"omitempty,min=0"`
}

// ReabastecerRequest adds stock at a possibly different purchase price;
// the stored cost becomes a stock-weighted average.
type ReabastecerRequest struct {
	CantidadCompra decimal.Decimal `json:"cantidad_compra" validate:"required,gt=0"`
	CostoTotal     decimal.Decimal `json:"costo_total"     validate:"min=0"`
}

// AjustarStockRequest is the manual ±1 adjustment from the dashboard.
type AjustarStockRequest struct {
	Delta int `json:"delta" validate:"required,oneof=-1 1"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type InsumoResponse struct {
	ID                string           `json:"id"`
	Nombre            string           `json:"nombre"`
	UnidadCompra      string           `json:"unidad_compra"`
	UnidadUso         string           `json:"unidad_uso"`
	FactorConversion  decimal.Decimal  `json:"factor_conversion"`
	CostoPorUnidadUso decimal.Decimal  `json:"costo_por_unidad_uso"`
	StockUnidadUso    decimal.Decimal  `json:"stock_unidad_uso"`
	UmbralAlerta      *decimal.Decimal `json:"umbral_alerta,omitempty"`
	StockBajo         bool             `json:"stock_bajo"`
}

type MovimientoInsumoResponse struct {
	InsumoID      string          `json:"insumo_id"`
	Tipo          string          `json:"tipo"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	StockAnterior decimal.Decimal `json:"stock_anterior"`
	StockNuevo    decimal.Decimal `json:"stock_nuevo"`
	Motivo        string          `json:"motivo"`
	CreatedAt     string          `json:"created_at"`
}

type HistorialCostoResponse struct {
	InsumoID       string          `json:"insumo_id"`
	CostoAnterior  decimal.Decimal `json:"costo_anterior"`
	CostoNuevo     decimal.Decimal `json:"costo_nuevo"`
	CantidadCompra decimal.Decimal `json:"cantidad_compra"`
	CostoTotal     decimal.Decimal `json:"costo_total"`
	CreatedAt      string          `json:"created_at"`
}
