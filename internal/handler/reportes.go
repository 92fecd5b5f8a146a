package handler

import (
	"fmt"
	"net/http"

	"farmacierre/internal/apierror"
	"farmacierre/internal/dto"
	"farmacierre/internal/infra"
	"farmacierre/internal/reporte"
	"farmacierre/internal/repository"
	"farmacierre/internal/service"

	"github.com/gin-gonic/gin"
)

// OrigenManual tags report emails requested through the API.
const OrigenManual = "manual"

type ReportesHandler struct{ svc service.ReporteService }

func NewReportesHandler(svc service.ReporteService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

type tablaFunc func(*gin.Context, repository.RegistroFilter) (reporte.Tabla, error)

func (h *ReportesHandler) tabla(titulo, prefijo string, fn tablaFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, ok := filtro(c)
		if !ok {
			return
		}
		t, err := fn(c, f)
		if err != nil {
			_ = c.Error(err)
			return
		}
		renderTablas(c, titulo, f, prefijo, t)
	}
}

// Detalle godoc
// @Summary Reporte detallado (un renglón por cierre)
// @Tags reportes
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param fecha_inicio query string false "YYYY-MM-DD"
// @Param fecha_fin query string false "YYYY-MM-DD"
// @Param sucursal_id query int false "Sucursal"
// @Param formato query string false "xlsx | json | pdf"
// @Success 200 {file} binary
// @Router /v1/reportes/detalle [get]
func (h *ReportesHandler) Detalle() gin.HandlerFunc {
	return h.tabla("Reporte Detallado", "reporte_detallado", func(c *gin.Context, f repository.RegistroFilter) (reporte.Tabla, error) {
		return h.svc.Detalle(c.Request.Context(), f)
	})
}

// ResumenDiario godoc
// @Summary Resumen diario por sucursal
// @Tags reportes
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param fecha_inicio query string false "YYYY-MM-DD"
// @Param fecha_fin query string false "YYYY-MM-DD"
// @Param formato query string false "xlsx | json | pdf"
// @Success 200 {file} binary
// @Router /v1/reportes/resumen-diario [get]
func (h *ReportesHandler) ResumenDiario() gin.HandlerFunc {
	return h.tabla("Resumen Diario", "resumen_diario", func(c *gin.Context, f repository.RegistroFilter) (reporte.Tabla, error) {
		return h.svc.ResumenDiario(c.Request.Context(), f)
	})
}

// ResumenGlobal godoc
// @Summary Resumen global por sucursal con total general
// @Tags reportes
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param fecha_inicio query string false "YYYY-MM-DD"
// @Param fecha_fin query string false "YYYY-MM-DD"
// @Param por_fecha query bool false "Desglosar por fecha"
// @Param formato query string false "xlsx | json | pdf"
// @Success 200 {file} binary
// @Router /v1/reportes/resumen-global [get]
func (h *ReportesHandler) ResumenGlobal() gin.HandlerFunc {
	return h.tabla("Resumen Global", "resumen_global", func(c *gin.Context, f repository.RegistroFilter) (reporte.Tabla, error) {
		if c.Query("por_fecha") == "true" {
			return h.svc.ResumenGlobalDiario(c.Request.Context(), f)
		}
		return h.svc.ResumenGlobal(c.Request.Context(), f)
	})
}

// Depositos godoc
// @Summary Depósitos agrupados por cuenta
// @Tags reportes
// @Produce json
// @Param fecha_inicio query string false "YYYY-MM-DD"
// @Param fecha_fin query string false "YYYY-MM-DD"
// @Param sucursal_id query int false "Sucursal"
// @Success 200 {object} reporte.ReporteDepositos
// @Router /v1/reportes/depositos-cuenta [get]
func (h *ReportesHandler) Depositos(c *gin.Context) {
	f, ok := filtro(c)
	if !ok {
		return
	}
	rep, err := h.svc.Depositos(c.Request.Context(), f)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

// DepositosExcel godoc
// @Summary Depósitos por cuenta en Excel (resumen y detalle)
// @Tags reportes
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param fecha_inicio query string false "YYYY-MM-DD"
// @Param fecha_fin query string false "YYYY-MM-DD"
// @Success 200 {file} binary
// @Router /v1/reportes/depositos-cuenta/excel [get]
func (h *ReportesHandler) DepositosExcel(c *gin.Context) {
	f, ok := filtro(c)
	if !ok {
		return
	}
	rep, err := h.svc.Depositos(c.Request.Context(), f)
	if err != nil {
		_ = c.Error(err)
		return
	}
	data, err := infra.RenderExcelBytes(rep.Tablas()...)
	if err != nil {
		_ = c.Error(err)
		return
	}
	adjuntar(c, archivo("depositos_cuenta", f, FormatoXLSX), infra.XLSXContentType, data)
}

// Dashboard godoc
// @Summary Avance de ventas contra metas del mes con proyección
// @Tags reportes
// @Produce json
// @Param anio query int true "Año"
// @Param mes query int true "Mes"
// @Param sucursal_id query int false "Sucursal"
// @Param fecha_corte query string false "YYYY-MM-DD"
// @Param formato query string false "json | xlsx"
// @Success 200 {object} reporte.Dashboard
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/reportes/dashboard-ventas [get]
func (h *ReportesHandler) Dashboard(c *gin.Context) {
	var q dto.DashboardQuery
	if !bindQuery(c, &q) {
		return
	}
	d, err := h.svc.Dashboard(c.Request.Context(), q)
	if err != nil {
		_ = c.Error(err)
		return
	}
	switch formato := c.DefaultQuery("formato", FormatoJSON); formato {
	case FormatoJSON:
		c.JSON(http.StatusOK, d)
	case FormatoXLSX:
		data, err := infra.RenderExcelBytes(d.Tabla())
		if err != nil {
			_ = c.Error(err)
			return
		}
		adjuntar(c, fmt.Sprintf("dashboard_ventas_%04d-%02d.xlsx", q.Anio, q.Mes), infra.XLSXContentType, data)
	default:
		c.JSON(http.StatusBadRequest, apierror.New("formato no soportado: "+formato))
	}
}

// Enviar godoc
// @Summary Encola el envío por correo del resumen global
// @Tags reportes
// @Accept json
// @Produce json
// @Param body body dto.EnviarReporteRequest true "Rango y destinatarios"
// @Success 202 {object} dto.EnviarReporteResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/reportes/enviar [post]
func (h *ReportesHandler) Enviar(c *gin.Context) {
	var req dto.EnviarReporteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	id, err := h.svc.EncolarEnvio(c.Request.Context(), req, OrigenManual)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusAccepted, dto.EnviarReporteResponse{JobID: id, Mensaje: "Reporte encolado para envío"})
}
