package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Insumo is a purchasable raw material. It is bought in UnidadCompra
// (e.g. kilogramo) and consumed by recipes in UnidadUso (e.g. gramo);
// FactorConversion is usage units per one purchase unit.
//
// CostoPorUnidadUso is recomputed as a stock-weighted average on every
// replenishment so margins stay accurate across batches bought at
// different prices. StockUnidadUso never goes below zero - enforced by
// the pre-checks in the services, not by a DB constraint.
type Insumo struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre            string    `gorm:"index;not null"`
	UnidadCompra      string    `gorm:"not null"`
	UnidadUso         string    `gorm:"not null"`
	FactorConversion  decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	CostoPorUnidadUso decimal.Decimal `gorm:"type:decimal(14,6);not null"`
	StockUnidadUso    decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	// UmbralAlerta: nil = no low-stock alerting for this insumo.
	UmbralAlerta *decimal.Decimal `gorm:"type:decimal(14,4)"`
	UsuarioID    uuid.UUID        `gorm:"type:uuid;not null;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StockBajo reports whether current stock is at or below the alert threshold.
func (i *Insumo) StockBajo() bool {
	return i.UmbralAlerta != nil && i.StockUnidadUso.LessThanOrEqual(*i.UmbralAlerta)
}
