package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AgregarLineaRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
}

type QuitarLineaRequest struct {
	Indice int `json:"indice" validate:"min=0"`
}

// FinalizarTicketRequest commits the session's ticket.
type FinalizarTicketRequest struct {
	MetodoPago string `json:"metodo_pago" validate:"required,oneof=efectivo tarjeta"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LineaTicketResponse struct {
	ProductoID string          `json:"producto_id"`
	Nombre     string          `json:"nombre"`
	Cantidad   int             `json:"cantidad"`
	Precio     decimal.Decimal `json:"precio"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tipo       string          `json:"tipo"`
}

type TicketResponse struct {
	Lineas []LineaTicketResponse `json:"lineas"`
	Total  decimal.Decimal       `json:"total"`
}
