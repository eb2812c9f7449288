package dto

import "github.com/shopspring/decimal"

// ResumenResponse is the dashboard aggregate for one date (or all time).
type ResumenResponse struct {
	IngresoTotal       decimal.Decimal  `json:"ingreso_total"`
	GananciaTotal      decimal.Decimal  `json:"ganancia_total"`
	CantidadTickets    int              `json:"cantidad_tickets"`
	ProductoMasRentable string          `json:"producto_mas_rentable"`
	ValorInventario    decimal.Decimal  `json:"valor_inventario"`
	Tickets            []TicketAgrupado `json:"tickets"`
}

// SerieProductoResponse is one point of the per-product revenue chart.
type SerieProductoResponse struct {
	ProductoID string          `json:"producto_id"`
	Nombre     string          `json:"nombre"`
	Ingreso    decimal.Decimal `json:"ingreso"`
}
