package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineaTicket is an ephemeral ticket line - a denormalized copy of a
// Producto plus the chosen quantity. It lives only in the session's ticket
// and is never persisted; on finalize it is re-resolved against the live
// ledger. Not a GORM model.
type LineaTicket struct {
	ProductoID    uuid.UUID       `json:"producto_id"`
	Nombre        string          `json:"nombre"`
	Cantidad      int             `json:"cantidad"`
	Precio        decimal.Decimal `json:"precio"`
	CostoCatalogo decimal.Decimal `json:"costo_catalogo"`
	Tipo          TipoProducto    `json:"tipo"`
	InsumoID      *uuid.UUID      `json:"insumo_id,omitempty"`
	Receta        []RecetaItem    `json:"receta,omitempty"`
}

// Subtotal is Precio × Cantidad for this line.
func (l *LineaTicket) Subtotal() decimal.Decimal {
	return l.Precio.Mul(decimal.NewFromInt(int64(l.Cantidad)))
}
