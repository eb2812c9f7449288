package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hercules830/nexa-control-app-sub000/internal/dto"
	"github.com/hercules830/nexa-control-app-sub000/internal/middleware"
	"github.com/hercules830/nexa-control-app-sub000/internal/service"
)

type ProductosHandler struct{ svc service.ProductoService }

func NewProductosHandler(svc service.ProductoService) *ProductosHandler {
	return &ProductosHandler{svc: svc}
}

// CrearDirecto godoc
// @Summary      Crear producto directo
// @Description  Vende una unidad de uso de un insumo tal cual. Nombre y costo se copian del insumo.
// @Tags         productos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearProductoDirectoRequest true "Insumo y precio de venta"
// @Success      201  {object} dto.ProductoResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/productos/directo [post]
func (h *ProductosHandler) CrearDirecto(c *gin.Context) {
	var req dto.CrearProductoDirectoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.CrearDirecto(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CrearReceta godoc
// @Summary      Crear producto de receta
// @Description  El costo del producto es la suma de los costos snapshot de sus lineas de receta.
// @Tags         productos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearProductoRecetaRequest true "Nombre, precio y receta"
// @Success      201  {object} dto.ProductoResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/productos/receta [post]
func (h *ProductosHandler) CrearReceta(c *gin.Context) {
	var req dto.CrearProductoRecetaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.CrearReceta(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductosHandler) Listar(c *gin.Context) {
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Listar(c.Request.Context(), usuarioID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) Obtener(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.ObtenerPorID(c.Request.Context(), usuarioID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar edits name/price; for recipe products a submitted line list
// replaces the whole recipe and the catalog cost is recomputed.
func (h *ProductosHandler) Actualizar(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.ActualizarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Actualizar(c.Request.Context(), usuarioID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) Eliminar(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	if err := h.svc.Eliminar(c.Request.Context(), usuarioID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
