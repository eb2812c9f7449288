package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearProductoDirectoRequest sells one insumo unit as-is. Name and cost
// are snapshotted from the referenced insumo.
type CrearProductoDirectoRequest struct {
	InsumoID string          `json:"insumo_id" validate:"required,uuid"`
	Precio   decimal.Decimal `json:"precio"    validate:"min=0"`
}

// ItemRecetaRequest is one recipe-builder line: the insumo's current cost
// and unit are captured server-side when the line is added.
type ItemRecetaRequest struct {
	InsumoID      string          `json:"insumo_id"      validate:"required,uuid"`
	CantidadUsada decimal.Decimal `json:"cantidad_usada" validate:"required,gt=0"`
}

type CrearProductoRecetaRequest struct {
	Nombre string              `json:"nombre" validate:"required,min=2,max=120"`
	Precio decimal.Decimal     `json:"precio" validate:"min=0"`
	Receta []ItemRecetaRequest `json:"receta" validate:"required,min=1,dive"`
}

// ActualizarProductoRequest edits name/price, and for recipe products the
// full line-item list (cost is recomputed from the submitted lines).
type ActualizarProductoRequest struct {
	Nombre *string              `json:"nombre" validate:"omitempty,min=2,max=120"`
	Precio *decimal.Decimal     `json:"precio" validate:"omitempty,min=0"`
	Receta []ItemRecetaRequest  `json:"receta" validate:"omitempty,min=1,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemRecetaResponse struct {
	InsumoID      string          `json:"insumo_id"`
	Nombre        string          `json:"nombre"`
	Unidad        string          `json:"unidad"`
	CantidadUsada decimal.Decimal `json:"cantidad_usada"`
	Costo         decimal.Decimal `json:"costo"`
}

type ProductoResponse struct {
	ID       string               `json:"id"`
	Nombre   string               `json:"nombre"`
	Precio   decimal.Decimal      `json:"precio"`
	Costo    decimal.Decimal      `json:"costo"`
	Tipo     string               `json:"tipo"`
	InsumoID *string              `json:"insumo_id,omitempty"`
	Receta   []ItemRecetaResponse `json:"receta,omitempty"`
}
