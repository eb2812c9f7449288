package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecetaItem is one ordered line of a recipe product: how much of which
// insumo one unit of the product consumes. Nombre, Unidad and Costo are
// snapshots taken when the line was added in the recipe builder - the
// finalizer never trusts them, it re-reads the live insumo.
type RecetaItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	InsumoID      uuid.UUID       `gorm:"type:uuid;not null"`
	Nombre        string          `gorm:"not null"`
	Unidad        string          `gorm:"not null"`
	CantidadUsada decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	Costo         decimal.Decimal `gorm:"type:decimal(14,6);not null"`
	Posicion      int             `gorm:"not null"`
}
