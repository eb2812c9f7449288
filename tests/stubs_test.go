package tests

// stubs_test.go
// In-memory repository stubs shared by the service unit tests. All stubs
// return a nil *gorm.DB so services run their transactional closures
// directly against the maps.

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hercules830/nexa-control-app-sub000/internal/model"
	"github.com/hercules830/nexa-control-app-sub000/internal/repository"
)

// ── Insumos ──────────────────────────────────────────────────────────────────

type stubInsumoRepo struct {
	insumos     map[uuid.UUID]*model.Insumo
	movimientos []model.MovimientoInsumo
	historial   []model.HistorialCosto
}

func newStubInsumoRepo() *stubInsumoRepo {
	return &stubInsumoRepo{insumos: make(map[uuid.UUID]*model.Insumo)}
}

func (r *stubInsumoRepo) Create(_ context.Context, i *model.Insumo) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	cp := *i
	r.insumos[i.ID] = &cp
	return nil
}

func (r *stubInsumoRepo) FindByID(_ context.Context, usuarioID, id uuid.UUID) (*model.Insumo, error) {
	i, ok := r.insumos[id]
	if !ok || i.UsuarioID != usuarioID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *i
	return &cp, nil
}

func (r *stubInsumoRepo) List(_ context.Context, usuarioID uuid.UUID) ([]model.Insumo, error) {
	var out []model.Insumo
	for _, i := range r.insumos {
		if i.UsuarioID == usuarioID {
			out = append(out, *i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Nombre < out[b].Nombre })
	return out, nil
}

func (r *stubInsumoRepo) Update(_ context.Context, i *model.Insumo) error {
	if _, ok := r.insumos[i.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *i
	r.insumos[i.ID] = &cp
	return nil
}

func (r *stubInsumoRepo) Delete(_ context.Context, usuarioID, id uuid.UUID) error {
	i, ok := r.insumos[id]
	if !ok || i.UsuarioID != usuarioID {
		return gorm.ErrRecordNotFound
	}
	delete(r.insumos, id)
	return nil
}

func (r *stubInsumoRepo) ListStockBajo(_ context.Context, limit int) ([]model.Insumo, error) {
	var out []model.Insumo
	for _, i := range r.insumos {
		if i.StockBajo() {
			out = append(out, *i)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *stubInsumoRepo) DescontarStockTx(_ *gorm.DB, id uuid.UUID, cantidad decimal.Decimal) error {
	i, ok := r.insumos[id]
	if !ok || i.StockUnidadUso.LessThan(cantidad) {
		return gorm.ErrRecordNotFound
	}
	i.StockUnidadUso = i.StockUnidadUso.Sub(cantidad)
	return nil
}

func (r *stubInsumoRepo) CreateMovimientoTx(_ *gorm.DB, m *model.MovimientoInsumo) error {
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubInsumoRepo) CreateMovimiento(_ context.Context, m *model.MovimientoInsumo) error {
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubInsumoRepo) ListMovimientos(_ context.Context, insumoID uuid.UUID) ([]model.MovimientoInsumo, error) {
	var out []model.MovimientoInsumo
	for _, m := range r.movimientos {
		if m.InsumoID == insumoID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubInsumoRepo) CreateHistorialCosto(_ context.Context, h *model.HistorialCosto) error {
	r.historial = append(r.historial, *h)
	return nil
}

func (r *stubInsumoRepo) ListHistorialCosto(_ context.Context, insumoID uuid.UUID) ([]model.HistorialCosto, error) {
	var out []model.HistorialCosto
	for _, h := range r.historial {
		if h.InsumoID == insumoID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *stubInsumoRepo) DB() *gorm.DB { return nil }

var _ repository.InsumoRepository = (*stubInsumoRepo)(nil)

// ── Productos ────────────────────────────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
	findErr   error // when set, FindByID fails with it
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.productos[p.ID] = &cp
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, usuarioID, id uuid.UUID) (*model.Producto, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.productos[id]
	if !ok || p.UsuarioID != usuarioID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductoRepo) List(_ context.Context, usuarioID uuid.UUID) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.UsuarioID == usuarioID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Nombre < out[b].Nombre })
	return out, nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	if _, ok := r.productos[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *p
	r.productos[p.ID] = &cp
	return nil
}

func (r *stubProductoRepo) ReplaceReceta(_ context.Context, productoID uuid.UUID, items []model.RecetaItem) error {
	p, ok := r.productos[productoID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Receta = items
	return nil
}

func (r *stubProductoRepo) Delete(_ context.Context, usuarioID, id uuid.UUID) error {
	p, ok := r.productos[id]
	if !ok || p.UsuarioID != usuarioID {
		return gorm.ErrRecordNotFound
	}
	delete(r.productos, id)
	return nil
}

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// ── Ventas ───────────────────────────────────────────────────────────────────

type stubVentaRepo struct {
	ventas []model.Venta
}

func (r *stubVentaRepo) CreateBatchTx(_ *gorm.DB, ventas []model.Venta) error {
	for i := range ventas {
		if ventas[i].ID == uuid.Nil {
			ventas[i].ID = uuid.New()
		}
	}
	r.ventas = append(r.ventas, ventas...)
	return nil
}

func (r *stubVentaRepo) List(_ context.Context, usuarioID uuid.UUID) ([]model.Venta, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		if v.UsuarioID == usuarioID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].TicketID > out[b].TicketID })
	return out, nil
}

func (r *stubVentaRepo) ListByFecha(_ context.Context, usuarioID uuid.UUID, fecha time.Time) ([]model.Venta, error) {
	inicio := time.Date(fecha.Year(), fecha.Month(), fecha.Day(), 0, 0, 0, 0, fecha.Location())
	fin := inicio.AddDate(0, 0, 1)
	var out []model.Venta
	for _, v := range r.ventas {
		if v.UsuarioID == usuarioID && !v.Fecha.Before(inicio) && v.Fecha.Before(fin) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].TicketID > out[b].TicketID })
	return out, nil
}

func (r *stubVentaRepo) ListByTicketID(_ context.Context, usuarioID uuid.UUID, ticketID int64) ([]model.Venta, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		if v.UsuarioID == usuarioID && v.TicketID == ticketID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// ── Usuarios ─────────────────────────────────────────────────────────────────

type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	r.usuarios[u.ID] = &cp
	return nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username && u.Activo {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) List(_ context.Context, incluirInactivos bool) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if u.Activo || incluirInactivos {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Username < out[b].Username })
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	if _, ok := r.usuarios[u.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *u
	r.usuarios[u.ID] = &cp
	return nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

// ── Seed helpers ─────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedInsumo(r *stubInsumoRepo, usuarioID uuid.UUID, nombre, stock, costo string) *model.Insumo {
	i := &model.Insumo{
		ID:                uuid.New(),
		Nombre:            nombre,
		UnidadCompra:      "kg",
		UnidadUso:         "g",
		FactorConversion:  dec("1000"),
		CostoPorUnidadUso: dec(costo),
		StockUnidadUso:    dec(stock),
		UsuarioID:         usuarioID,
	}
	r.insumos[i.ID] = i
	return i
}
