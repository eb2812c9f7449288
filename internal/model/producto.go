package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TipoProducto distinguishes the two product shapes. Every switch over it
// must handle both constants and fail on anything else.
type TipoProducto string

const (
	TipoDirecto TipoProducto = "directo"
	TipoReceta  TipoProducto = "receta"
)

// Producto is a sellable catalog entry: either a direct resale of one
// insumo (InsumoID set, Receta empty) or a recipe over several insumos
// (InsumoID nil, Receta non-empty).
//
// Costo is the catalog-time snapshot: for directos, the insumo's cost per
// usage unit at creation; for recetas, the roll-up of the line-item cost
// snapshots. It is NOT refreshed when insumo costs change - the sale
// finalizer re-derives a live cost at commit time and stores both values
// on the Venta row.
type Producto struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string          `gorm:"index;not null"`
	Precio    decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Costo     decimal.Decimal `gorm:"type:decimal(14,6);not null"`
	Tipo      TipoProducto    `gorm:"type:varchar(10);not null"`
	InsumoID  *uuid.UUID      `gorm:"type:uuid;index"`
	UsuarioID uuid.UUID       `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Receta []RecetaItem `gorm:"foreignKey:ProductoID;constraint:OnDelete:CASCADE"`
}
