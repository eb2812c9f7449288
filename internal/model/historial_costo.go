package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistorialCosto keeps one row per replenishment with the cost before and
// after the weighted-average update, so cost drift across purchase batches
// can be audited.
type HistorialCosto struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InsumoID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	CostoAnterior  decimal.Decimal `gorm:"type:decimal(14,6);not null"`
	CostoNuevo     decimal.Decimal `gorm:"type:decimal(14,6);not null"`
	CantidadCompra decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	CostoTotal     decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CreatedAt      time.Time
}

func (HistorialCosto) TableName() string { return "historial_costos" }
