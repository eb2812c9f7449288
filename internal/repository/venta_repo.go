package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hercules830/nexa-control-app-sub000/internal/model"
)

// VentaRepository persists immutable sale records. There is no update or
// delete path - a committed ticket can only be read back.
type VentaRepository interface {
	// CreateBatchTx inserts all lines of one ticket inside the caller's
	// transaction.
	CreateBatchTx(tx *gorm.DB, ventas []model.Venta) error
	List(ctx context.Context, usuarioID uuid.UUID) ([]model.Venta, error)
	ListByFecha(ctx context.Context, usuarioID uuid.UUID, fecha time.Time) ([]model.Venta, error)
	ListByTicketID(ctx context.Context, usuarioID uuid.UUID, ticketID int64) ([]model.Venta, error)
	DB() *gorm.DB
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) CreateBatchTx(tx *gorm.DB, ventas []model.Venta) error {
	return tx.Create(&ventas).Error
}

func (r *ventaRepo) List(ctx context.Context, usuarioID uuid.UUID) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Where("usuario_id = ?", usuarioID).
		Order("ticket_id DESC").
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) ListByFecha(ctx context.Context, usuarioID uuid.UUID, fecha time.Time) ([]model.Venta, error) {
	inicio := time.Date(fecha.Year(), fecha.Month(), fecha.Day(), 0, 0, 0, 0, fecha.Location())
	fin := inicio.AddDate(0, 0, 1)

	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND fecha >= ? AND fecha < ?", usuarioID, inicio, fin).
		Order("ticket_id DESC").
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) ListByTicketID(ctx context.Context, usuarioID uuid.UUID, ticketID int64) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND ticket_id = ?", usuarioID, ticketID).
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) DB() *gorm.DB { return r.db }
