package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hercules830/nexa-control-app-sub000/internal/apierror"
	"github.com/hercules830/nexa-control-app-sub000/internal/dto"
	"github.com/hercules830/nexa-control-app-sub000/internal/infra"
	"github.com/hercules830/nexa-control-app-sub000/internal/middleware"
	"github.com/hercules830/nexa-control-app-sub000/internal/service"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler { return &VentasHandler{svc: svc} }

// Listar godoc
// @Summary      Listar ventas
// @Description  Lineas de venta confirmadas, mas recientes primero. Filtro opcional por fecha.
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        fecha query string false "Fecha YYYY-MM-DD"
// @Success      200   {array}  dto.VentaResponse
// @Failure      400   {object} apierror.APIError
// @Router       /v1/ventas [get]
func (h *VentasHandler) Listar(c *gin.Context) {
	var filter dto.VentaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if err := validate.Struct(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("fecha invalida, formato YYYY-MM-DD"))
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Listar(c.Request.Context(), usuarioID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerTicket returns one committed ticket with all its lines.
func (h *VentasHandler) ObtenerTicket(c *gin.Context) {
	ticketID, ok := pathTicketID(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.ObtenerTicket(c.Request.Context(), usuarioID, ticketID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DescargarTicketPDF godoc
// @Summary      Descargar comprobante PDF
// @Tags         ventas
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        ticket_id path int true "TicketID (epoch ms)"
// @Success      200 {file} binary
// @Failure      404 {object} apierror.APIError
// @Router       /v1/ventas/{ticket_id}/pdf [get]
func (h *VentasHandler) DescargarTicketPDF(c *gin.Context) {
	ticketID, ok := pathTicketID(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	ticket, err := h.svc.ObtenerTicket(c.Request.Context(), usuarioID, ticketID)
	if err != nil {
		respondError(c, err)
		return
	}
	pdf, err := infra.GenerarTicketPDF(ticket)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="ticket-%d.pdf"`, ticketID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func pathTicketID(c *gin.Context) (int64, bool) {
	ticketID, err := strconv.ParseInt(c.Param("ticket_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ticket_id invalido"))
		return 0, false
	}
	return ticketID, true
}
