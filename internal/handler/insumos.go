package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hercules830/nexa-control-app-sub000/internal/apierror"
	"github.com/hercules830/nexa-control-app-sub000/internal/dto"
	"github.com/hercules830/nexa-control-app-sub000/internal/middleware"
	"github.com/hercules830/nexa-control-app-sub000/internal/service"
)

type InsumosHandler struct{ svc service.InsumoService }

func NewInsumosHandler(svc service.InsumoService) *InsumosHandler {
	return &InsumosHandler{svc: svc}
}

// Crear godoc
// @Summary      Registrar insumo
// @Description  Alta de materia prima: deriva costo por unidad de uso y stock inicial a partir de la primera compra.
// @Tags         insumos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearInsumoRequest true "Datos de la compra inicial"
// @Success      201  {object} dto.InsumoResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/insumos [post]
func (h *InsumosHandler) Crear(c *gin.Context) {
	var req dto.CrearInsumoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Crear(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar insumos
// @Tags         insumos
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.InsumoResponse
// @Router       /v1/insumos [get]
func (h *InsumosHandler) Listar(c *gin.Context) {
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Listar(c.Request.Context(), usuarioID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InsumosHandler) Obtener(c *gin.Context) {
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

// AjustarStock godoc
// @Summary      Ajuste manual de stock
// @Description  Suma o resta una unidad de uso. Decrementar en cero es un no-op.
// @Tags         insumos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                 true "UUID del insumo"
// @Param        body body dto.AjustarStockRequest true "Delta +1 / -1"
// @Success      200  {object} dto.InsumoResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/insumos/{id}/ajustar [post]
func (h *InsumosHandler) AjustarStock(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.AjustarStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.AjustarStock(c.Request.Context(), usuarioID, id, req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reabastecer godoc
// @Summary      Reabastecer insumo
// @Description  Suma stock a otro precio de compra; el costo almacenado pasa a ser el promedio ponderado por stock.
// @Tags         insumos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                true "UUID del insumo"
// @Param        body body dto.ReabastecerRequest true "Compra de reabastecimiento"
// @Success      200  {object} dto.InsumoResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/insumos/{id}/reabastecer [post]
func (h *InsumosHandler) Reabastecer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.ReabastecerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Reabastecer(c.Request.Context(), usuarioID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InsumosHandler) Eliminar(c *gin.Context) {
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

// Movimientos returns the audit trail of stock changes for one insumo.
func (h *InsumosHandler) Movimientos(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.ListarMovimientos(c.Request.Context(), usuarioID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HistorialCosto returns the weighted-average cost history for one insumo.
func (h *InsumosHandler) HistorialCosto(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.ListarHistorialCosto(c.Request.Context(), usuarioID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// pathID parses the :id path param, answering 400 on garbage.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}
