package dto

import "github.com/shopspring/decimal"

// ─── Filter ──────────────────────────────────────────────────────────────────

// VentaFilter is bound from the query string of GET /v1/ventas.
type VentaFilter struct {
	Fecha string `form:"fecha" validate:"omitempty,datetime=2006-01-02"` // empty = all
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VentaResponse struct {
	ID             string          `json:"id"`
	TicketID       int64           `json:"ticket_id"`
	ProductoID     string          `json:"producto_id"`
	ProductoNombre string          `json:"producto_nombre"`
	Cantidad       int             `json:"cantidad"`
	Precio         decimal.Decimal `json:"precio"`
	CostoCatalogo  decimal.Decimal `json:"costo_catalogo"`
	CostoVenta     decimal.Decimal `json:"costo_venta"`
	Ganancia       decimal.Decimal `json:"ganancia"`
	MetodoPago     string          `json:"metodo_pago"`
	Fecha          string          `json:"fecha"`
}

// TicketAgrupado is one receipt: all sale lines sharing a TicketID.
type TicketAgrupado struct {
	TicketID   int64           `json:"ticket_id"`
	MetodoPago string          `json:"metodo_pago"`
	Total      decimal.Decimal `json:"total"`
	Lineas     []VentaResponse `json:"lineas"`
}

// FinalizarResponse summarizes a committed ticket.
type FinalizarResponse struct {
	TicketID int64           `json:"ticket_id"`
	Total    decimal.Decimal `json:"total"`
	Ganancia decimal.Decimal `json:"ganancia"`
	Lineas   []VentaResponse `json:"lineas"`
}
