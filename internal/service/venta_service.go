package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hercules830/nexa-control-app-sub000/internal/dto"
	"github.com/hercules830/nexa-control-app-sub000/internal/model"
	"github.com/hercules830/nexa-control-app-sub000/internal/repository"
	"github.com/hercules830/nexa-control-app-sub000/internal/worker"
)

// VentaService finalizes tickets and reads back sale history.
type VentaService interface {
	Finalizar(ctx context.Context, usuarioID uuid.UUID, req dto.FinalizarTicketRequest) (*dto.FinalizarResponse, error)
	Listar(ctx context.Context, usuarioID uuid.UUID, filter dto.VentaFilter) ([]dto.VentaResponse, error)
	ObtenerTicket(ctx context.Context, usuarioID uuid.UUID, ticketID int64) (*dto.TicketAgrupado, error)
}

type ventaService struct {
	repo       repository.VentaRepository
	insumoRepo repository.InsumoRepository
	store      *TicketStore
	dispatcher *worker.Dispatcher
}

func NewVentaService(
	repo repository.VentaRepository,
	insumoRepo repository.InsumoRepository,
	store *TicketStore,
	dispatcher *worker.Dispatcher,
) VentaService {
	return &ventaService{
		repo:       repo,
		insumoRepo: insumoRepo,
		store:      store,
		dispatcher: dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// requerimiento accumulates how much of one insumo the whole ticket
// consumes, across every line that touches it.
type requerimiento struct {
	insumo *model.Insumo
	total  decimal.Decimal
}

// ── Finalizar ────────────────────────────────────────────────────────────────
// The only multi-row atomic operation in the system:
//  1. Abort on empty ticket - no writes.
//  2. Re-read every referenced insumo and recompute each line's cost from
//     the LIVE ledger (a replenishment between "add to ticket" and now must
//     show up in the recorded profit).
//  3. Aggregate required deductions per insumo and pre-check sufficiency.
//  4. One DB transaction: sale rows + conditional stock deductions +
//     movement rows. The conditional UPDATE (stock >= required) re-checks
//     inside the transaction, so a concurrent finalize from another session
//     rolls this one back instead of driving stock negative.
//  5. Clear the ticket, reset payment method, enqueue low-stock alerts.

func (s *ventaService) Finalizar(ctx context.Context, usuarioID uuid.UUID, req dto.FinalizarTicketRequest) (*dto.FinalizarResponse, error) {
	if req.MetodoPago != model.PagoEfectivo && req.MetodoPago != model.PagoTarjeta {
		return nil, validacion("metodo_pago debe ser efectivo o tarjeta")
	}

	ticket := s.store.Obtener(usuarioID)
	if len(ticket.Lineas) == 0 {
		return nil, ErrTicketVacio
	}

	// 2+3. Live cost re-evaluation and per-insumo requirements - all reads
	// happen before any write.
	requerimientos := make(map[uuid.UUID]*requerimiento)
	costosVenta := make([]decimal.Decimal, len(ticket.Lineas))

	for i := range ticket.Lineas {
		linea := &ticket.Lineas[i]
		cantidad := decimal.NewFromInt(int64(linea.Cantidad))

		switch linea.Tipo {
		case model.TipoDirecto:
			if linea.InsumoID == nil {
				return nil, fmt.Errorf("línea %d: producto directo sin insumo", i+1)
			}
			insumo, err := s.cargarInsumo(ctx, usuarioID, *linea.InsumoID, requerimientos)
			if err != nil {
				return nil, err
			}
			costosVenta[i] = insumo.CostoPorUnidadUso
			requerimientos[insumo.ID].total = requerimientos[insumo.ID].total.Add(cantidad)

		case model.TipoReceta:
			costo := decimal.Zero
			for _, item := range linea.Receta {
				insumo, err := s.cargarInsumo(ctx, usuarioID, item.InsumoID, requerimientos)
				if err != nil {
					return nil, err
				}
				costo = costo.Add(item.CantidadUsada.Mul(insumo.CostoPorUnidadUso))
				requerimientos[insumo.ID].total = requerimientos[insumo.ID].total.Add(item.CantidadUsada.Mul(cantidad))
			}
			costosVenta[i] = costo

		default:
			return nil, fmt.Errorf("línea %d: tipo de producto desconocido %q", i+1, linea.Tipo)
		}
	}

	// Sufficiency pre-check - fail the WHOLE ticket before touching the DB.
	for _, r := range requerimientos {
		if r.insumo.StockUnidadUso.LessThan(r.total) {
			return nil, &StockInsuficienteError{
				Insumo:     r.insumo.Nombre,
				Disponible: r.insumo.StockUnidadUso,
				Requerido:  r.total,
			}
		}
	}

	// 4. Commit. A shared TicketID groups the lines into a receipt.
	ticketID := time.Now().UnixMilli()
	fecha := time.Now()

	ventas := make([]model.Venta, len(ticket.Lineas))
	for i := range ticket.Lineas {
		linea := &ticket.Lineas[i]
		cantidad := decimal.NewFromInt(int64(linea.Cantidad))
		ventas[i] = model.Venta{
			TicketID:       ticketID,
			ProductoID:     linea.ProductoID,
			ProductoNombre: linea.Nombre,
			Cantidad:       linea.Cantidad,
			Precio:         linea.Precio,
			CostoCatalogo:  linea.CostoCatalogo,
			CostoVenta:     costosVenta[i],
			Ganancia:       linea.Precio.Sub(costosVenta[i]).Mul(cantidad),
			MetodoPago:     req.MetodoPago,
			Fecha:          fecha,
			UsuarioID:      usuarioID,
		}
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateBatchTx(tx, ventas); err != nil {
			return fmt.Errorf("insertar ventas: %w", err)
		}
		for _, r := range requerimientos {
			if err := s.insumoRepo.DescontarStockTx(tx, r.insumo.ID, r.total); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					// Lost the race against a concurrent deduction.
					return &StockInsuficienteError{
						Insumo:     r.insumo.Nombre,
						Disponible: r.insumo.StockUnidadUso,
						Requerido:  r.total,
					}
				}
				return fmt.Errorf("descontar stock de %s: %w", r.insumo.Nombre, err)
			}
			mov := &model.MovimientoInsumo{
				InsumoID:      r.insumo.ID,
				Tipo:          "venta",
				Cantidad:      r.total.Neg(),
				StockAnterior: r.insumo.StockUnidadUso,
				StockNuevo:    r.insumo.StockUnidadUso.Sub(r.total),
				Motivo:        fmt.Sprintf("Ticket %d", ticketID),
				TicketID:      &ticketID,
			}
			if err := s.insumoRepo.CreateMovimientoTx(tx, mov); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		var insuf *StockInsuficienteError
		if !errors.As(txErr, &insuf) && !errors.Is(txErr, ErrValidacion) {
			// The transaction either fully rolled back or the driver failed
			// ambiguously; flag it apart from ordinary validation noise so
			// an operator can reconcile.
			log.Error().Int64("ticket_id", ticketID).Err(txErr).
				Msg("fallo al confirmar ticket - verificar consistencia ventas/stock")
		}
		return nil, txErr
	}

	// 5. Post-commit.
	s.store.Limpiar(usuarioID)
	s.encolarAlertas(ctx, requerimientos)

	resp := &dto.FinalizarResponse{TicketID: ticketID}
	total := decimal.Zero
	ganancia := decimal.Zero
	for i := range ventas {
		total = total.Add(ventas[i].Precio.Mul(decimal.NewFromInt(int64(ventas[i].Cantidad))))
		ganancia = ganancia.Add(ventas[i].Ganancia)
		resp.Lineas = append(resp.Lineas, ventaToResponse(&ventas[i]))
	}
	resp.Total = total
	resp.Ganancia = ganancia
	return resp, nil
}

// cargarInsumo fetches an insumo once per finalize, caching it in the
// requirements map. A deleted insumo surfaces as not-found and aborts the
// whole ticket.
func (s *ventaService) cargarInsumo(ctx context.Context, usuarioID, id uuid.UUID, reqs map[uuid.UUID]*requerimiento) (*model.Insumo, error) {
	if r, ok := reqs[id]; ok {
		return r.insumo, nil
	}
	insumo, err := s.insumoRepo.FindByID(ctx, usuarioID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInsumoNoEncontrado
		}
		return nil, err
	}
	reqs[id] = &requerimiento{insumo: insumo, total: decimal.Zero}
	return insumo, nil
}

// encolarAlertas queues a low-stock mail for every insumo the commit left
// at or below its alert threshold. Best effort - a full queue never fails
// the sale.
func (s *ventaService) encolarAlertas(ctx context.Context, reqs map[uuid.UUID]*requerimiento) {
	if s.dispatcher == nil {
		return
	}
	for _, r := range reqs {
		restante := r.insumo.StockUnidadUso.Sub(r.total)
		if r.insumo.UmbralAlerta == nil || restante.GreaterThan(*r.insumo.UmbralAlerta) {
			continue
		}
		payload := worker.AlertaStockPayload{
			InsumoID:  r.insumo.ID.String(),
			UsuarioID: r.insumo.UsuarioID.String(),
			Nombre:    r.insumo.Nombre,
			Stock:     restante.String(),
			Umbral:    r.insumo.UmbralAlerta.String(),
			UnidadUso: r.insumo.UnidadUso,
		}
		if err := s.dispatcher.EnqueueAlertaStock(ctx, payload); err != nil {
			log.Warn().Str("insumo", r.insumo.Nombre).Err(err).Msg("no se pudo encolar alerta de stock")
		}
	}
}

func (s *ventaService) Listar(ctx context.Context, usuarioID uuid.UUID, filter dto.VentaFilter) ([]dto.VentaResponse, error) {
	ventas, err := s.listar(ctx, usuarioID, filter.Fecha)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		out = append(out, ventaToResponse(&ventas[i]))
	}
	return out, nil
}

func (s *ventaService) ObtenerTicket(ctx context.Context, usuarioID uuid.UUID, ticketID int64) (*dto.TicketAgrupado, error) {
	ventas, err := s.repo.ListByTicketID(ctx, usuarioID, ticketID)
	if err != nil {
		return nil, err
	}
	if len(ventas) == 0 {
		return nil, ErrTicketNoEncontrado
	}
	grupo := &dto.TicketAgrupado{
		TicketID:   ticketID,
		MetodoPago: ventas[0].MetodoPago,
		Total:      decimal.Zero,
	}
	for i := range ventas {
		grupo.Total = grupo.Total.Add(ventas[i].Precio.Mul(decimal.NewFromInt(int64(ventas[i].Cantidad))))
		grupo.Lineas = append(grupo.Lineas, ventaToResponse(&ventas[i]))
	}
	return grupo, nil
}

func (s *ventaService) listar(ctx context.Context, usuarioID uuid.UUID, fecha string) ([]model.Venta, error) {
	if fecha == "" {
		return s.repo.List(ctx, usuarioID)
	}
	dia, err := time.Parse("2006-01-02", fecha)
	if err != nil {
		return nil, validacion("fecha inválida, formato esperado YYYY-MM-DD")
	}
	return s.repo.ListByFecha(ctx, usuarioID, dia)
}

func ventaToResponse(v *model.Venta) dto.VentaResponse {
	return dto.VentaResponse{
		ID:             v.ID.String(),
		TicketID:       v.TicketID,
		ProductoID:     v.ProductoID.String(),
		ProductoNombre: v.ProductoNombre,
		Cantidad:       v.Cantidad,
		Precio:         v.Precio,
		CostoCatalogo:  v.CostoCatalogo,
		CostoVenta:     v.CostoVenta,
		Ganancia:       v.Ganancia,
		MetodoPago:     v.MetodoPago,
		Fecha:          v.Fecha.UTC().Format(time.RFC3339),
	}
}
