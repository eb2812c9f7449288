package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovimientoInsumo registra cada cambio de stock de un insumo.
// Se crea automáticamente al vender, ajustar o reabastecer.
type MovimientoInsumo struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InsumoID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Tipo          string          `gorm:"not null"` // "venta" | "ajuste_manual" | "reabastecimiento"
	Cantidad      decimal.Decimal `gorm:"type:decimal(14,4);not null"` // positive = entrada, negative = salida
	StockAnterior decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	StockNuevo    decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	Motivo        string
	// TicketID links sale deductions back to the receipt; nil otherwise.
	TicketID  *int64
	CreatedAt time.Time
}

// TableName overrides GORM's default pluralization.
func (MovimientoInsumo) TableName() string { return "movimientos_insumo" }
