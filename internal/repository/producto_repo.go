package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hercules830/nexa-control-app-sub000/internal/model"
)

// ProductoRepository is the data access contract for the sellable catalog.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, usuarioID, id uuid.UUID) (*model.Producto, error)
	List(ctx context.Context, usuarioID uuid.UUID) ([]model.Producto, error)
	Update(ctx context.Context, p *model.Producto) error
	ReplaceReceta(ctx context.Context, productoID uuid.UUID, items []model.RecetaItem) error
	Delete(ctx context.Context, usuarioID, id uuid.UUID) error
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, usuarioID, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).
		Preload("Receta", func(db *gorm.DB) *gorm.DB { return db.Order("posicion ASC") }).
		Where("id = ? AND usuario_id = ?", id, usuarioID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) List(ctx context.Context, usuarioID uuid.UUID) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Preload("Receta", func(db *gorm.DB) *gorm.DB { return db.Order("posicion ASC") }).
		Where("usuario_id = ?", usuarioID).
		Order("nombre ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Omit("Receta").Save(p).Error
}

// ReplaceReceta swaps a product's full line-item list in one transaction.
func (r *productoRepo) ReplaceReceta(ctx context.Context, productoID uuid.UUID, items []model.RecetaItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("producto_id = ?", productoID).Delete(&model.RecetaItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].ProductoID = productoID
		}
		return tx.Create(&items).Error
	})
}

func (r *productoRepo) Delete(ctx context.Context, usuarioID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND usuario_id = ?", id, usuarioID).
		Delete(&model.Producto{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
