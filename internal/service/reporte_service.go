package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/hercules830/nexa-control-app-sub000/internal/dto"
	"github.com/hercules830/nexa-control-app-sub000/internal/model"
	"github.com/hercules830/nexa-control-app-sub000/internal/repository"
)

const resumenCacheTTL = 30 * time.Second

// ReporteService derives dashboard figures from persisted sales and the
// current insumo ledger. Read-only: same records in, same numbers out,
// regardless of input ordering.
type ReporteService interface {
	Resumen(ctx context.Context, usuarioID uuid.UUID, fecha string) (*dto.ResumenResponse, error)
	SeriePorProducto(ctx context.Context, usuarioID uuid.UUID, fecha string) ([]dto.SerieProductoResponse, error)
}

type reporteService struct {
	ventaRepo  repository.VentaRepository
	insumoRepo repository.InsumoRepository
	rdb        *redis.Client
}

func NewReporteService(ventaRepo repository.VentaRepository, insumoRepo repository.InsumoRepository, rdb *redis.Client) ReporteService {
	return &reporteService{ventaRepo: ventaRepo, insumoRepo: insumoRepo, rdb: rdb}
}

func (s *reporteService) Resumen(ctx context.Context, usuarioID uuid.UUID, fecha string) (*dto.ResumenResponse, error) {
	cacheKey := "resumen:" + usuarioID.String() + ":" + fecha
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var resp dto.ResumenResponse
			if json.Unmarshal(cached, &resp) == nil {
				return &resp, nil
			}
		}
	}

	ventas, err := s.cargarVentas(ctx, usuarioID, fecha)
	if err != nil {
		return nil, err
	}
	insumos, err := s.insumoRepo.List(ctx, usuarioID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ResumenResponse{
		IngresoTotal:        decimal.Zero,
		GananciaTotal:       decimal.Zero,
		ProductoMasRentable: "N/A",
		ValorInventario:     valorInventario(insumos),
		Tickets:             agruparTickets(ventas),
	}
	resp.CantidadTickets = len(resp.Tickets)

	// Most profitable product: highest summed profit, first-encountered
	// wins ties.
	gananciaPorProducto := make(map[uuid.UUID]decimal.Decimal)
	var orden []uuid.UUID
	nombres := make(map[uuid.UUID]string)

	for i := range ventas {
		v := &ventas[i]
		cantidad := decimal.NewFromInt(int64(v.Cantidad))
		resp.IngresoTotal = resp.IngresoTotal.Add(v.Precio.Mul(cantidad))
		resp.GananciaTotal = resp.GananciaTotal.Add(v.Ganancia)

		if _, ok := gananciaPorProducto[v.ProductoID]; !ok {
			orden = append(orden, v.ProductoID)
			nombres[v.ProductoID] = v.ProductoNombre
		}
		gananciaPorProducto[v.ProductoID] = gananciaPorProducto[v.ProductoID].Add(v.Ganancia)
	}

	var mejor decimal.Decimal
	for i, id := range orden {
		g := gananciaPorProducto[id]
		if i == 0 || g.GreaterThan(mejor) {
			mejor = g
			resp.ProductoMasRentable = nombres[id]
		}
	}

	if s.rdb != nil {
		if b, err := json.Marshal(resp); err == nil {
			_ = s.rdb.Set(ctx, cacheKey, b, resumenCacheTTL).Err()
		}
	}
	return resp, nil
}

func (s *reporteService) SeriePorProducto(ctx context.Context, usuarioID uuid.UUID, fecha string) ([]dto.SerieProductoResponse, error) {
	ventas, err := s.cargarVentas(ctx, usuarioID, fecha)
	if err != nil {
		return nil, err
	}

	// Grouped by product id, reported by name, in first-encountered order.
	ingresos := make(map[uuid.UUID]decimal.Decimal)
	nombres := make(map[uuid.UUID]string)
	var orden []uuid.UUID

	for i := range ventas {
		v := &ventas[i]
		if _, ok := ingresos[v.ProductoID]; !ok {
			orden = append(orden, v.ProductoID)
			nombres[v.ProductoID] = v.ProductoNombre
		}
		ingresos[v.ProductoID] = ingresos[v.ProductoID].Add(v.Precio.Mul(decimal.NewFromInt(int64(v.Cantidad))))
	}

	out := make([]dto.SerieProductoResponse, 0, len(orden))
	for _, id := range orden {
		out = append(out, dto.SerieProductoResponse{
			ProductoID: id.String(),
			Nombre:     nombres[id],
			Ingreso:    ingresos[id],
		})
	}
	return out, nil
}

func (s *reporteService) cargarVentas(ctx context.Context, usuarioID uuid.UUID, fecha string) ([]model.Venta, error) {
	if fecha == "" {
		return s.ventaRepo.List(ctx, usuarioID)
	}
	dia, err := time.Parse("2006-01-02", fecha)
	if err != nil {
		return nil, validacion("fecha inválida, formato esperado YYYY-MM-DD")
	}
	return s.ventaRepo.ListByFecha(ctx, usuarioID, dia)
}

// agruparTickets groups sale lines by TicketID, newest ticket first. The
// payment method of the first line stands for the whole receipt.
func agruparTickets(ventas []model.Venta) []dto.TicketAgrupado {
	grupos := make(map[int64]*dto.TicketAgrupado)
	var orden []int64

	for i := range ventas {
		v := &ventas[i]
		g, ok := grupos[v.TicketID]
		if !ok {
			g = &dto.TicketAgrupado{
				TicketID:   v.TicketID,
				MetodoPago: v.MetodoPago,
				Total:      decimal.Zero,
			}
			grupos[v.TicketID] = g
			orden = append(orden, v.TicketID)
		}
		g.Total = g.Total.Add(v.Precio.Mul(decimal.NewFromInt(int64(v.Cantidad))))
		g.Lineas = append(g.Lineas, ventaToResponse(v))
	}

	// Descending TicketID = most recent first, independent of input order.
	out := make([]dto.TicketAgrupado, 0, len(orden))
	for _, id := range orden {
		out = append(out, *grupos[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TicketID > out[j].TicketID })
	return out
}

func valorInventario(insumos []model.Insumo) decimal.Decimal {
	total := decimal.Zero
	for i := range insumos {
		total = total.Add(insumos[i].CostoPorUnidadUso.Mul(insumos[i].StockUnidadUso))
	}
	return total
}
