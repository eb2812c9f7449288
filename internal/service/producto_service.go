package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hercules830/nexa-control-app-sub000/internal/dto"
	"github.com/hercules830/nexa-control-app-sub000/internal/infra"
	"github.com/hercules830/nexa-control-app-sub000/internal/model"
	"github.com/hercules830/nexa-control-app-sub000/internal/repository"
)

// ProductoService is the sellable catalog. A product is either a direct
// pass-through of one insumo (name and cost mirrored at creation) or a
// recipe whose catalog cost is the roll-up of its line-item snapshots.
type ProductoService interface {
	CrearDirecto(ctx context.Context, usuarioID uuid.UUID, req dto.CrearProductoDirectoRequest) (*dto.ProductoResponse, error)
	CrearReceta(ctx context.Context, usuarioID uuid.UUID, req dto.CrearProductoRecetaRequest) (*dto.ProductoResponse, error)
	Actualizar(ctx context.Context, usuarioID, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, usuarioID uuid.UUID) ([]dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, usuarioID, id uuid.UUID) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, usuarioID, id uuid.UUID) error
}

type productoService struct {
	repo       repository.ProductoRepository
	insumoRepo repository.InsumoRepository
	notifier   *infra.Notifier
}

func NewProductoService(repo repository.ProductoRepository, insumoRepo repository.InsumoRepository, notifier *infra.Notifier) ProductoService {
	return &productoService{repo: repo, insumoRepo: insumoRepo, notifier: notifier}
}

func (s *productoService) CrearDirecto(ctx context.Context, usuarioID uuid.UUID, req dto.CrearProductoDirectoRequest) (*dto.ProductoResponse, error) {
	if req.Precio.IsNegative() {
		return nil, validacion("precio no puede ser negativo")
	}
	insumoID, err := uuid.Parse(req.InsumoID)
	if err != nil {
		return nil, validacion("insumo_id inválido")
	}

	insumo, err := s.insumoRepo.FindByID(ctx, usuarioID, insumoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInsumoNoEncontrado
		}
		return nil, err
	}

	// Name and cost are forced to mirror the insumo at creation time.
	producto := &model.Producto{
		Nombre:    insumo.Nombre,
		Precio:    req.Precio,
		Costo:     insumo.CostoPorUnidadUso,
		Tipo:      model.TipoDirecto,
		InsumoID:  &insumo.ID,
		UsuarioID: usuarioID,
	}
	if err := s.repo.Create(ctx, producto); err != nil {
		return nil, fmt.Errorf("crear producto directo: %w", err)
	}

	s.publicar(ctx, usuarioID, producto.ID)
	return productoToResponse(producto), nil
}

func (s *productoService) CrearReceta(ctx context.Context, usuarioID uuid.UUID, req dto.CrearProductoRecetaRequest) (*dto.ProductoResponse, error) {
	if strings.TrimSpace(req.Nombre) == "" {
		return nil, validacion("nombre es obligatorio")
	}
	if req.Precio.IsNegative() {
		return nil, validacion("precio no puede ser negativo")
	}
	if len(req.Receta) == 0 {
		return nil, validacion("la receta debe tener al menos un insumo")
	}

	items, err := s.armarReceta(ctx, usuarioID, req.Receta)
	if err != nil {
		return nil, err
	}

	producto := &model.Producto{
		Nombre:    strings.TrimSpace(req.Nombre),
		Precio:    req.Precio,
		Costo:     CostoReceta(items),
		Tipo:      model.TipoReceta,
		UsuarioID: usuarioID,
		Receta:    items,
	}
	if err := s.repo.Create(ctx, producto); err != nil {
		return nil, fmt.Errorf("crear producto receta: %w", err)
	}

	s.publicar(ctx, usuarioID, producto.ID)
	return productoToResponse(producto), nil
}

// Actualizar edits name/price; for recipe products a submitted line-item
// list replaces the previous recipe and the catalog cost is recomputed
// from the fresh snapshots.
func (s *productoService) Actualizar(ctx context.Context, usuarioID, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	producto, err := s.buscar(ctx, usuarioID, id)
	if err != nil {
		return nil, err
	}

	if req.Nombre != nil {
		if strings.TrimSpace(*req.Nombre) == "" {
			return nil, validacion("nombre no puede quedar vacío")
		}
		if producto.Tipo == model.TipoDirecto {
			return nil, validacion("el nombre de un producto directo sigue al insumo")
		}
		producto.Nombre = strings.TrimSpace(*req.Nombre)
	}
	if req.Precio != nil {
		if req.Precio.IsNegative() {
			return nil, validacion("precio no puede ser negativo")
		}
		producto.Precio = *req.Precio
	}

	if len(req.Receta) > 0 {
		if producto.Tipo != model.TipoReceta {
			return nil, validacion("un producto directo no admite receta")
		}
		items, err := s.armarReceta(ctx, usuarioID, req.Receta)
		if err != nil {
			return nil, err
		}
		if err := s.repo.ReplaceReceta(ctx, producto.ID, items); err != nil {
			return nil, fmt.Errorf("actualizar receta: %w", err)
		}
		producto.Receta = items
		producto.Costo = CostoReceta(items)
	}

	if err := s.repo.Update(ctx, producto); err != nil {
		return nil, fmt.Errorf("actualizar producto: %w", err)
	}

	s.publicar(ctx, usuarioID, producto.ID)
	return productoToResponse(producto), nil
}

func (s *productoService) Listar(ctx context.Context, usuarioID uuid.UUID) ([]dto.ProductoResponse, error) {
	productos, err := s.repo.List(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		out = append(out, *productoToResponse(&productos[i]))
	}
	return out, nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, usuarioID, id uuid.UUID) (*dto.ProductoResponse, error) {
	producto, err := s.buscar(ctx, usuarioID, id)
	if err != nil {
		return nil, err
	}
	return productoToResponse(producto), nil
}

// Eliminar removes the catalog entry only - no cascade into ticket lines
// or sale history.
func (s *productoService) Eliminar(ctx context.Context, usuarioID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, usuarioID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductoNoEncontrado
		}
		return err
	}
	s.publicar(ctx, usuarioID, id)
	return nil
}

// armarReceta is the recipe builder: each submitted line looks up the
// live insumo and captures its current cost and usage unit as snapshots.
func (s *productoService) armarReceta(ctx context.Context, usuarioID uuid.UUID, req []dto.ItemRecetaRequest) ([]model.RecetaItem, error) {
	items := make([]model.RecetaItem, 0, len(req))
	for i, line := range req {
		if line.CantidadUsada.LessThanOrEqual(decimal.Zero) {
			return nil, validacion("cantidad_usada debe ser mayor a cero (línea %d)", i+1)
		}
		insumoID, err := uuid.Parse(line.InsumoID)
		if err != nil {
			return nil, validacion("insumo_id inválido (línea %d)", i+1)
		}
		insumo, err := s.insumoRepo.FindByID(ctx, usuarioID, insumoID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInsumoNoEncontrado
			}
			return nil, err
		}
		items = append(items, model.RecetaItem{
			InsumoID:      insumo.ID,
			Nombre:        insumo.Nombre,
			Unidad:        insumo.UnidadUso,
			CantidadUsada: line.CantidadUsada,
			Costo:         insumo.CostoPorUnidadUso,
			Posicion:      i,
		})
	}
	return items, nil
}

func (s *productoService) buscar(ctx context.Context, usuarioID, id uuid.UUID) (*model.Producto, error) {
	producto, err := s.repo.FindByID(ctx, usuarioID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductoNoEncontrado
		}
		return nil, err
	}
	return producto, nil
}

func (s *productoService) publicar(ctx context.Context, usuarioID, productoID uuid.UUID) {
	if s.notifier != nil {
		s.notifier.PublicarCambio(ctx, usuarioID, "producto", productoID.String())
	}
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	resp := &dto.ProductoResponse{
		ID:     p.ID.String(),
		Nombre: p.Nombre,
		Precio: p.Precio,
		Costo:  p.Costo,
		Tipo:   string(p.Tipo),
	}
	if p.InsumoID != nil {
		id := p.InsumoID.String()
		resp.InsumoID = &id
	}
	for _, it := range p.Receta {
		resp.Receta = append(resp.Receta, dto.ItemRecetaResponse{
			InsumoID:      it.InsumoID.String(),
			Nombre:        it.Nombre,
			Unidad:        it.Unidad,
			CantidadUsada: it.CantidadUsada,
			Costo:         it.Costo,
		})
	}
	return resp
}
