package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hercules830/nexa-control-app-sub000/internal/dto"
	"github.com/hercules830/nexa-control-app-sub000/internal/middleware"
	"github.com/hercules830/nexa-control-app-sub000/internal/service"
)

// TicketHandler operates on the caller's in-progress ticket. The ticket
// lives in memory keyed by user id; nothing here touches the database
// except product lookups when a line is added.
type TicketHandler struct {
	tickets service.TicketService
	ventas  service.VentaService
}

func NewTicketHandler(tickets service.TicketService, ventas service.VentaService) *TicketHandler {
	return &TicketHandler{tickets: tickets, ventas: ventas}
}

func (h *TicketHandler) Obtener(c *gin.Context) {
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)
	c.JSON(http.StatusOK, h.tickets.Obtener(c.Request.Context(), usuarioID))
}

// AgregarLinea godoc
// @Summary      Agregar linea al ticket
// @Description  Copia nombre, precio y costo actuales del producto a la linea. No valida stock: eso ocurre al finalizar.
// @Tags         ticket
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AgregarLineaRequest true "Producto y cantidad"
// @Success      200  {object} dto.TicketResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/ticket/lineas [post]
func (h *TicketHandler) AgregarLinea(c *gin.Context) {
	var req dto.AgregarLineaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.tickets.AgregarLinea(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TicketHandler) QuitarLinea(c *gin.Context) {
	var req dto.QuitarLineaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.tickets.QuitarLinea(c.Request.Context(), usuarioID, req.Indice)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TicketHandler) Limpiar(c *gin.Context) {
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)
	h.tickets.Limpiar(c.Request.Context(), usuarioID)
	c.Status(http.StatusNoContent)
}

// Finalizar godoc
// @Summary      Finalizar ticket
// @Description  Confirma la venta: re-evalua costos vivos, verifica stock agregado por insumo y descuenta todo en una transaccion. 409 con detalle del insumo si falta stock.
// @Tags         ticket
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.FinalizarTicketRequest true "Metodo de pago"
// @Success      201  {object} dto.FinalizarResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/ticket/finalizar [post]
func (h *TicketHandler) Finalizar(c *gin.Context) {
	var req dto.FinalizarTicketRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.ventas.Finalizar(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
