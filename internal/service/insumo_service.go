package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hercules830/nexa-control-app-sub000/internal/dto"
	"github.com/hercules830/nexa-control-app-sub000/internal/infra"
	"github.com/hercules830/nexa-control-app-sub000/internal/model"
	"github.com/hercules830/nexa-control-app-sub000/internal/repository"
)

// InsumoService is the raw-material ledger: creation from a first
// purchase, manual ±1 adjustments, weighted-average replenishment, and
// unconditional delete. Deleting an insumo referenced by products is
// allowed; consumers handle the resulting not-found defensively.
type InsumoService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearInsumoRequest) (*dto.InsumoResponse, error)
	Listar(ctx context.Context, usuarioID uuid.UUID) ([]dto.InsumoResponse, error)
	ObtenerPorID(ctx context.Context, usuarioID, id uuid.UUID) (*dto.InsumoResponse, error)
	AjustarStock(ctx context.Context, usuarioID, id uuid.UUID, delta int) (*dto.InsumoResponse, error)
	Reabastecer(ctx context.Context, usuarioID, id uuid.UUID, req dto.ReabastecerRequest) (*dto.InsumoResponse, error)
	Eliminar(ctx context.Context, usuarioID, id uuid.UUID) error
	ListarMovimientos(ctx context.Context, usuarioID, id uuid.UUID) ([]dto.MovimientoInsumoResponse, error)
	ListarHistorialCosto(ctx context.Context, usuarioID, id uuid.UUID) ([]dto.HistorialCostoResponse, error)
}

type insumoService struct {
	repo     repository.InsumoRepository
	notifier *infra.Notifier
}

func NewInsumoService(repo repository.InsumoRepository, notifier *infra.Notifier) InsumoService {
	return &insumoService{repo: repo, notifier: notifier}
}

func (s *insumoService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearInsumoRequest) (*dto.InsumoResponse, error) {
	if strings.TrimSpace(req.Nombre) == "" {
		return nil, validacion("nombre es obligatorio")
	}
	if strings.TrimSpace(req.UnidadCompra) == "" || strings.TrimSpace(req.UnidadUso) == "" {
		return nil, validacion("unidad_compra y unidad_uso son obligatorias")
	}
	if req.UmbralAlerta != nil && req.UmbralAlerta.IsNegative() {
		return nil, validacion("umbral_alerta no puede ser negativo")
	}

	costeo, err := CalcularCosteo(req.CantidadCompra, req.CostoTotal, req.FactorConversion)
	if err != nil {
		return nil, err
	}

	insumo := &model.Insumo{
		Nombre:            strings.TrimSpace(req.Nombre),
		UnidadCompra:      req.UnidadCompra,
		UnidadUso:         req.UnidadUso,
		FactorConversion:  req.FactorConversion,
		CostoPorUnidadUso: costeo.CostoPorUnidadUso,
		StockUnidadUso:    costeo.StockUnidadUso,
		UmbralAlerta:      req.UmbralAlerta,
		UsuarioID:         usuarioID,
	}
	if err := s.repo.Create(ctx, insumo); err != nil {
		return nil, fmt.Errorf("crear insumo: %w", err)
	}

	s.publicar(ctx, usuarioID, insumo.ID)
	return insumoToResponse(insumo), nil
}

func (s *insumoService) Listar(ctx context.Context, usuarioID uuid.UUID) ([]dto.InsumoResponse, error) {
	insumos, err := s.repo.List(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InsumoResponse, 0, len(insumos))
	for i := range insumos {
		out = append(out, *insumoToResponse(&insumos[i]))
	}
	return out, nil
}

func (s *insumoService) ObtenerPorID(ctx context.Context, usuarioID, id uuid.UUID) (*dto.InsumoResponse, error) {
	insumo, err := s.buscar(ctx, usuarioID, id)
	if err != nil {
		return nil, err
	}
	return insumoToResponse(insumo), nil
}

// AjustarStock is the manual ±1 path, independent of sales. Decrement on
// an empty insumo is a no-op rather than an error: the dashboard buttons
// stay responsive without driving stock negative.
func (s *insumoService) AjustarStock(ctx context.Context, usuarioID, id uuid.UUID, delta int) (*dto.InsumoResponse, error) {
	if delta != 1 && delta != -1 {
		return nil, validacion("delta debe ser 1 o -1")
	}
	insumo, err := s.buscar(ctx, usuarioID, id)
	if err != nil {
		return nil, err
	}

	d := decimal.NewFromInt(int64(delta))
	if delta < 0 && insumo.StockUnidadUso.LessThanOrEqual(decimal.Zero) {
		return insumoToResponse(insumo), nil
	}

	anterior := insumo.StockUnidadUso
	insumo.StockUnidadUso = insumo.StockUnidadUso.Add(d)
	if err := s.repo.Update(ctx, insumo); err != nil {
		return nil, fmt.Errorf("ajustar stock: %w", err)
	}

	mov := &model.MovimientoInsumo{
		InsumoID:      insumo.ID,
		Tipo:          "ajuste_manual",
		Cantidad:      d,
		StockAnterior: anterior,
		StockNuevo:    insumo.StockUnidadUso,
		Motivo:        "Ajuste manual desde el panel",
	}
	if err := s.repo.CreateMovimiento(ctx, mov); err != nil {
		return nil, err
	}

	s.publicar(ctx, usuarioID, insumo.ID)
	return insumoToResponse(insumo), nil
}

// Reabastecer adds stock purchased at a possibly different price and
// recomputes the cost as a stock-weighted average, so the cost history of
// the remaining stock is not silently discarded.
func (s *insumoService) Reabastecer(ctx context.Context, usuarioID, id uuid.UUID, req dto.ReabastecerRequest) (*dto.InsumoResponse, error) {
	if req.CantidadCompra.LessThanOrEqual(decimal.Zero) {
		return nil, validacion("cantidad_compra debe ser mayor a cero")
	}
	if req.CostoTotal.IsNegative() {
		return nil, validacion("costo_total no puede ser negativo")
	}

	insumo, err := s.buscar(ctx, usuarioID, id)
	if err != nil {
		return nil, err
	}

	agregado := req.CantidadCompra.Mul(insumo.FactorConversion)
	costoAnterior := insumo.CostoPorUnidadUso
	stockAnterior := insumo.StockUnidadUso

	insumo.CostoPorUnidadUso = CostoPromedioPonderado(stockAnterior, costoAnterior, agregado, req.CostoTotal)
	insumo.StockUnidadUso = stockAnterior.Add(agregado)

	if err := s.repo.Update(ctx, insumo); err != nil {
		return nil, fmt.Errorf("reabastecer insumo: %w", err)
	}

	mov := &model.MovimientoInsumo{
		InsumoID:      insumo.ID,
		Tipo:          "reabastecimiento",
		Cantidad:      agregado,
		StockAnterior: stockAnterior,
		StockNuevo:    insumo.StockUnidadUso,
		Motivo:        fmt.Sprintf("Compra de %s %s", req.CantidadCompra.String(), insumo.UnidadCompra),
	}
	if err := s.repo.CreateMovimiento(ctx, mov); err != nil {
		return nil, err
	}

	hist := &model.HistorialCosto{
		InsumoID:       insumo.ID,
		CostoAnterior:  costoAnterior,
		CostoNuevo:     insumo.CostoPorUnidadUso,
		CantidadCompra: req.CantidadCompra,
		CostoTotal:     req.CostoTotal,
	}
	if err := s.repo.CreateHistorialCosto(ctx, hist); err != nil {
		return nil, err
	}

	s.publicar(ctx, usuarioID, insumo.ID)
	return insumoToResponse(insumo), nil
}

// Eliminar removes the insumo unconditionally. Products that still
// reference it will fail with not-found at ticket/finalize time.
func (s *insumoService) Eliminar(ctx context.Context, usuarioID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, usuarioID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInsumoNoEncontrado
		}
		return err
	}
	s.publicar(ctx, usuarioID, id)
	return nil
}

func (s *insumoService) ListarMovimientos(ctx context.Context, usuarioID, id uuid.UUID) ([]dto.MovimientoInsumoResponse, error) {
	if _, err := s.buscar(ctx, usuarioID, id); err != nil {
		return nil, err
	}
	movs, err := s.repo.ListMovimientos(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovimientoInsumoResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.MovimientoInsumoResponse{
			InsumoID:      m.InsumoID.String(),
			Tipo:          m.Tipo,
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			Motivo:        m.Motivo,
			CreatedAt:     m.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out, nil
}

func (s *insumoService) ListarHistorialCosto(ctx context.Context, usuarioID, id uuid.UUID) ([]dto.HistorialCostoResponse, error) {
	if _, err := s.buscar(ctx, usuarioID, id); err != nil {
		return nil, err
	}
	hist, err := s.repo.ListHistorialCosto(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HistorialCostoResponse, 0, len(hist))
	for _, h := range hist {
		out = append(out, dto.HistorialCostoResponse{
			InsumoID:       h.InsumoID.String(),
			CostoAnterior:  h.CostoAnterior,
			CostoNuevo:     h.CostoNuevo,
			CantidadCompra: h.CantidadCompra,
			CostoTotal:     h.CostoTotal,
			CreatedAt:      h.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out, nil
}

func (s *insumoService) buscar(ctx context.Context, usuarioID, id uuid.UUID) (*model.Insumo, error) {
	insumo, err := s.repo.FindByID(ctx, usuarioID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInsumoNoEncontrado
		}
		return nil, err
	}
	return insumo, nil
}

func (s *insumoService) publicar(ctx context.Context, usuarioID, insumoID uuid.UUID) {
	if s.notifier != nil {
		s.notifier.PublicarCambio(ctx, usuarioID, "insumo", insumoID.String())
	}
}

func insumoToResponse(i *model.Insumo) *dto.InsumoResponse {
	return &dto.InsumoResponse{
		ID:                i.ID.String(),
		Nombre:            i.Nombre,
		UnidadCompra:      i.UnidadCompra,
		UnidadUso:         i.UnidadUso,
		FactorConversion:  i.FactorConversion,
		CostoPorUnidadUso: i.CostoPorUnidadUso,
		StockUnidadUso:    i.StockUnidadUso,
		UmbralAlerta:      i.UmbralAlerta,
		StockBajo:         i.StockBajo(),
	}
}
