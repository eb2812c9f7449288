package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hercules830/nexa-control-app-sub000/internal/model"
)

// InsumoRepository is the data access contract for raw materials.
// Services depend on this interface, not on the concrete GORM
// implementation, enabling unit testing via in-memory stubs.
type InsumoRepository interface {
	Create(ctx context.Context, i *model.Insumo) error
	FindByID(ctx context.Context, usuarioID, id uuid.UUID) (*model.Insumo, error)
	List(ctx context.Context, usuarioID uuid.UUID) ([]model.Insumo, error)
	Update(ctx context.Context, i *model.Insumo) error
	Delete(ctx context.Context, usuarioID, id uuid.UUID) error

	// DescontarStockTx conditionally deducts stock inside a transaction.
	// Returns gorm.ErrRecordNotFound when the row exists but holds less
	// stock than requested - the guard that keeps stock non-negative even
	// against a concurrent finalize.
	DescontarStockTx(tx *gorm.DB, id uuid.UUID, cantidad decimal.Decimal) error

	// ListStockBajo returns, across all accounts, every insumo sitting at
	// or below its alert threshold. Used by the alert sweeper.
	ListStockBajo(ctx context.Context, limit int) ([]model.Insumo, error)

	CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoInsumo) error
	CreateMovimiento(ctx context.Context, m *model.MovimientoInsumo) error
	ListMovimientos(ctx context.Context, insumoID uuid.UUID) ([]model.MovimientoInsumo, error)

	CreateHistorialCosto(ctx context.Context, h *model.HistorialCosto) error
	ListHistorialCosto(ctx context.Context, insumoID uuid.UUID) ([]model.HistorialCosto, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type insumoRepo struct{ db *gorm.DB }

func NewInsumoRepository(db *gorm.DB) InsumoRepository { return &insumoRepo{db: db} }

func (r *insumoRepo) Create(ctx context.Context, i *model.Insumo) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *insumoRepo) FindByID(ctx context.Context, usuarioID, id uuid.UUID) (*model.Insumo, error) {
	var i model.Insumo
	err := r.db.WithContext(ctx).
		Where("id = ? AND usuario_id = ?", id, usuarioID).
		First(&i).Error
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *insumoRepo) List(ctx context.Context, usuarioID uuid.UUID) ([]model.Insumo, error) {
	var insumos []model.Insumo
	err := r.db.WithContext(ctx).
		Where("usuario_id = ?", usuarioID).
		Order("nombre ASC").
		Find(&insumos).Error
	return insumos, err
}

func (r *insumoRepo) Update(ctx context.Context, i *model.Insumo) error {
	return r.db.WithContext(ctx).Save(i).Error
}

func (r *insumoRepo) Delete(ctx context.Context, usuarioID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND usuario_id = ?", id, usuarioID).
		Delete(&model.Insumo{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *insumoRepo) DescontarStockTx(tx *gorm.DB, id uuid.UUID, cantidad decimal.Decimal) error {
	res := tx.Model(&model.Insumo{}).
		Where("id = ? AND stock_unidad_uso >= ?", id, cantidad).
		Update("stock_unidad_uso", gorm.Expr("stock_unidad_uso - ?", cantidad))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *insumoRepo) ListStockBajo(ctx context.Context, limit int) ([]model.Insumo, error) {
	var insumos []model.Insumo
	err := r.db.WithContext(ctx).
		Where("umbral_alerta IS NOT NULL AND stock_unidad_uso <= umbral_alerta").
		Limit(limit).
		Find(&insumos).Error
	return insumos, err
}

func (r *insumoRepo) CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoInsumo) error {
	return tx.Create(m).Error
}

func (r *insumoRepo) CreateMovimiento(ctx context.Context, m *model.MovimientoInsumo) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *insumoRepo) ListMovimientos(ctx context.Context, insumoID uuid.UUID) ([]model.MovimientoInsumo, error) {
	var movs []model.MovimientoInsumo
	err := r.db.WithContext(ctx).
		Where("insumo_id = ?", insumoID).
		Order("created_at DESC").
		Find(&movs).Error
	return movs, err
}

func (r *insumoRepo) CreateHistorialCosto(ctx context.Context, h *model.HistorialCosto) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *insumoRepo) ListHistorialCosto(ctx context.Context, insumoID uuid.UUID) ([]model.HistorialCosto, error) {
	var hist []model.HistorialCosto
	err := r.db.WithContext(ctx).
		Where("insumo_id = ?", insumoID).
		Order("created_at DESC").
		Find(&hist).Error
	return hist, err
}

func (r *insumoRepo) DB() *gorm.DB { return r.db }
