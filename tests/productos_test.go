package tests

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hercules830/nexa-control-app-sub000/internal/dto"
	"github.com/hercules830/nexa-control-app-sub000/internal/model"
	"github.com/hercules830/nexa-control-app-sub000/internal/service"
)

func buildProductoSvc() (service.ProductoService, *stubProductoRepo, *stubInsumoRepo, uuid.UUID) {
	productoRepo := newStubProductoRepo()
	insumoRepo := newStubInsumoRepo()
	svc := service.NewProductoService(productoRepo, insumoRepo, nil)
	return svc, productoRepo, insumoRepo, uuid.New()
}

func TestCrearDirecto_CopiaNombreYCosto(t *testing.T) {
	svc, _, insumoRepo, uid := buildProductoSvc()
	ins := seedInsumo(insumoRepo, uid, "Medialuna", "50", "0.50")

	resp, err := svc.CrearDirecto(context.Background(), uid, dto.CrearProductoDirectoRequest{
		InsumoID: ins.ID.String(),
		Precio:   dec("1.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Medialuna", resp.Nombre)
	assert.True(t, resp.Costo.Equal(dec("0.50")))
	assert.Equal(t, string(model.TipoDirecto), resp.Tipo)
	require.NotNil(t, resp.InsumoID)
	assert.Equal(t, ins.ID.String(), *resp.InsumoID)
}

func TestCrearDirecto_InsumoInexistente(t *testing.T) {
	svc, _, _, uid := buildProductoSvc()

	_, err := svc.CrearDirecto(context.Background(), uid, dto.CrearProductoDirectoRequest{
		InsumoID: uuid.NewString(),
		Precio:   dec("1"),
	})
	assert.ErrorIs(t, err, service.ErrInsumoNoEncontrado)
}

func TestCrearReceta_CostoEsSumaDeSnapshots(t *testing.T) {
	svc, _, insumoRepo, uid := buildProductoSvc()
	harina := seedInsumoConUnidad(insumoRepo, uid, "Harina", "5000", "0.02", "g")
	huevo := seedInsumoConUnidad(insumoRepo, uid, "Huevo", "30", "0.50", "unidad")

	resp, err := svc.CrearReceta(context.Background(), uid, dto.CrearProductoRecetaRequest{
		Nombre: "Torta",
		Precio: dec("5.00"),
		Receta: []dto.ItemRecetaRequest{
			{InsumoID: harina.ID.String(), CantidadUsada: dec("2")},
			{InsumoID: huevo.ID.String(), CantidadUsada: dec("1")},
		},
	})
	require.NoError(t, err)
	// 2 × 0.02 + 1 × 0.50 = 0.54
	assert.True(t, resp.Costo.Equal(dec("0.54")), "costo: %s", resp.Costo)
	require.Len(t, resp.Receta, 2)
	assert.Equal(t, "g", resp.Receta[0].Unidad)
	assert.True(t, resp.Receta[0].Costo.Equal(dec("0.02")))
}

func TestCrearReceta_SinItems(t *testing.T) {
	svc, _, _, uid := buildProductoSvc()

	_, err := svc.CrearReceta(context.Background(), uid, dto.CrearProductoRecetaRequest{
		Nombre: "Vacio",
		Precio: dec("1"),
	})
	assert.ErrorIs(t, err, service.ErrValidacion)
}

func TestActualizar_NombreDeDirectoBloqueado(t *testing.T) {
	svc, _, insumoRepo, uid := buildProductoSvc()
	ins := seedInsumo(insumoRepo, uid, "Alfajor", "20", "0.80")
	creado, err := svc.CrearDirecto(context.Background(), uid, dto.CrearProductoDirectoRequest{
		InsumoID: ins.ID.String(),
		Precio:   dec("2"),
	})
	require.NoError(t, err)

	nombre := "Otro nombre"
	_, err = svc.Actualizar(context.Background(), uid, uuid.MustParse(creado.ID), dto.ActualizarProductoRequest{
		Nombre: &nombre,
	})
	assert.ErrorIs(t, err, service.ErrValidacion)
}

func TestActualizar_RecetaRecalculaCosto(t *testing.T) {
	svc, _, insumoRepo, uid := buildProductoSvc()
	harina := seedInsumoConUnidad(insumoRepo, uid, "Harina", "5000", "0.02", "g")

	creado, err := svc.CrearReceta(context.Background(), uid, dto.CrearProductoRecetaRequest{
		Nombre: "Pan",
		Precio: dec("3"),
		Receta: []dto.ItemRecetaRequest{
			{InsumoID: harina.ID.String(), CantidadUsada: dec("100")},
		},
	})
	require.NoError(t, err)
	assert.True(t, creado.Costo.Equal(dec("2")))

	// new recipe uses half the flour: cost follows the fresh snapshot
	resp, err := svc.Actualizar(context.Background(), uid, uuid.MustParse(creado.ID), dto.ActualizarProductoRequest{
		Receta: []dto.ItemRecetaRequest{
			{InsumoID: harina.ID.String(), CantidadUsada: dec("50")},
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.Costo.Equal(dec("1")), "costo: %s", resp.Costo)
	require.Len(t, resp.Receta, 1)
}

func TestActualizar_PrecioSolamente(t *testing.T) {
	svc, _, insumoRepo, uid := buildProductoSvc()
	ins := seedInsumo(insumoRepo, uid, "Cookie", "40", "0.25")
	creado, err := svc.CrearDirecto(context.Background(), uid, dto.CrearProductoDirectoRequest{
		InsumoID: ins.ID.String(),
		Precio:   dec("1"),
	})
	require.NoError(t, err)

	precio := dec("1.75")
	resp, err := svc.Actualizar(context.Background(), uid, uuid.MustParse(creado.ID), dto.ActualizarProductoRequest{
		Precio: &precio,
	})
	require.NoError(t, err)
	assert.True(t, resp.Precio.Equal(dec("1.75")))
	assert.True(t, resp.Costo.Equal(dec("0.25")), "el costo catalogado no cambia")
}

func TestEliminarProducto_NoEncontrado(t *testing.T) {
	svc, _, _, uid := buildProductoSvc()
	err := svc.Eliminar(context.Background(), uid, uuid.New())
	assert.ErrorIs(t, err, service.ErrProductoNoEncontrado)
}

// seedInsumoConUnidad seeds an insumo with an explicit usage unit.
func seedInsumoConUnidad(r *stubInsumoRepo, usuarioID uuid.UUID, nombre, stock, costo, unidadUso string) *model.Insumo {
	i := seedInsumo(r, usuarioID, nombre, stock, costo)
	i.UnidadUso = unidadUso
	return i
}
