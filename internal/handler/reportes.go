package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hercules830/nexa-control-app-sub000/internal/apierror"
	"github.com/hercules830/nexa-control-app-sub000/internal/middleware"
	"github.com/hercules830/nexa-control-app-sub000/internal/service"
)

type ReportesHandler struct{ svc service.ReporteService }

func NewReportesHandler(svc service.ReporteService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

// Resumen godoc
// @Summary      Resumen del dia
// @Description  Ingreso, ganancia, tickets agrupados, producto mas rentable y valor de inventario. Sin fecha devuelve el historico completo.
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Param        fecha query string false "Fecha YYYY-MM-DD"
// @Success      200   {object} dto.ResumenResponse
// @Failure      400   {object} apierror.APIError
// @Router       /v1/reportes/resumen [get]
func (h *ReportesHandler) Resumen(c *gin.Context) {
	fecha, ok := queryFecha(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Resumen(c.Request.Context(), usuarioID, fecha)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SeriePorProducto feeds the per-product revenue chart.
func (h *ReportesHandler) SeriePorProducto(c *gin.Context) {
	fecha, ok := queryFecha(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.SeriePorProducto(c.Request.Context(), usuarioID, fecha)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func queryFecha(c *gin.Context) (string, bool) {
	fecha := c.Query("fecha")
	if fecha == "" {
		return "", true
	}
	if _, err := time.Parse("2006-01-02", fecha); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("fecha invalida, formato YYYY-MM-DD"))
		return "", false
	}
	return fecha, true
}
