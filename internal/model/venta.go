package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Metodos de pago aceptados al finalizar un ticket.
const (
	PagoEfectivo = "efectivo"
	PagoTarjeta  = "tarjeta"
)

// Venta is one immutable sale record - one row per ticket line. All lines
// of a single finalize share TicketID (Unix milliseconds at commit), which
// groups them into a receipt.
//
// Two costs coexist on purpose: CostoCatalogo is what the catalog said
// when the line entered the ticket, CostoVenta is the live ledger cost at
// the moment of commit. Ganancia is always (Precio−CostoVenta)×Cantidad.
type Venta struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TicketID       int64           `gorm:"not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoNombre string          `gorm:"not null"`
	Cantidad       int             `gorm:"not null"`
	Precio         decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CostoCatalogo  decimal.Decimal `gorm:"type:decimal(14,6);not null"`
	CostoVenta     decimal.Decimal `gorm:"type:decimal(14,6);not null"`
	Ganancia       decimal.Decimal `gorm:"type:decimal(14,6);not null"`
	MetodoPago     string          `gorm:"type:varchar(10);not null"`
	Fecha          time.Time       `gorm:"not null;index"`
	UsuarioID      uuid.UUID       `gorm:"type:uuid;not null;index"`
}
