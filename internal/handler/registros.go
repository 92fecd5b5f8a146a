package handler

import (
	"net/http"

	"farmacierre/internal/dto"
	"farmacierre/internal/infra"
	"farmacierre/internal/service"

	"github.com/gin-gonic/gin"
)

type RegistrosHandler struct {
	svc      service.RegistroService
	reportes service.ReporteService
}

func NewRegistrosHandler(svc service.RegistroService, reportes service.ReporteService) *RegistrosHandler {
	return &RegistrosHandler{svc: svc, reportes: reportes}
}

// Listar godoc
// @Summary Lista registros de cierre de turno
// @Tags registros
// @Produce json
// @Param fecha_inicio query string false "YYYY-MM-DD"
// @Param fecha_fin query string false "YYYY-MM-DD"
// @Param sucursal_id query int false "Sucursal"
// @Param turno_id query int false "Turno"
// @Param cuenta_id query int false "Cuenta"
// @Success 200 {array} dto.RegistroResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/registros [get]
func (h *RegistrosHandler) Listar(c *gin.Context) {
	f, ok := filtro(c)
	if !ok {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), f)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary Obtiene un registro
// @Tags registros
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} dto.RegistroResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/registros/{id} [get]
func (h *RegistrosHandler) Obtener(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Crear godoc
// @Summary Registra el cierre de un turno
// @Tags registros
// @Accept json
// @Produce json
// @Param body body dto.RegistroRequest true "Cierre"
// @Success 201 {object} dto.RegistroResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/registros [post]
func (h *RegistrosHandler) Crear(c *gin.Context) {
	var req dto.RegistroRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Actualizar godoc
// @Summary Actualiza un registro
// @Tags registros
// @Accept json
// @Produce json
// @Param id path int true "ID"
// @Param body body dto.RegistroRequest true "Cierre"
// @Success 200 {object} dto.RegistroResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/registros/{id} [put]
func (h *RegistrosHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.RegistroRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary Elimina un registro
// @Tags registros
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} dto.MensajeResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/registros/{id} [delete]
func (h *RegistrosHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.MensajeResponse{Mensaje: "Registro eliminado"})
}

// ResumenSucursal godoc
// @Summary Totales por sucursal con total general
// @Tags registros
// @Produce json
// @Param fecha_inicio query string false "YYYY-MM-DD"
// @Param fecha_fin query string false "YYYY-MM-DD"
// @Success 200 {object} dto.ResumenSucursalResponse
// @Router /v1/registros/resumen/sucursal [get]
func (h *RegistrosHandler) ResumenSucursal(c *gin.Context) {
	f, ok := filtro(c)
	if !ok {
		return
	}
	resp, err := h.reportes.ResumenSucursal(c.Request.Context(), f)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ResumenSucursalPDF godoc
// @Summary Resumen por sucursal en PDF
// @Tags registros
// @Produce application/pdf
// @Param fecha_inicio query string false "YYYY-MM-DD"
// @Param fecha_fin query string false "YYYY-MM-DD"
// @Success 200 {file} binary
// @Router /v1/registros/resumen/sucursal/pdf [get]
func (h *RegistrosHandler) ResumenSucursalPDF(c *gin.Context) {
	f, ok := filtro(c)
	if !ok {
		return
	}
	tabla, err := h.reportes.ResumenGlobal(c.Request.Context(), f)
	if err != nil {
		_ = c.Error(err)
		return
	}
	data, err := infra.RenderPDFBytes("Resumen por Sucursal", subtitulo(f), tabla)
	if err != nil {
		_ = c.Error(err)
		return
	}
	adjuntar(c, archivo("resumen_sucursal", f, FormatoPDF), pdfContentType, data)
}

// ResumenDiario godoc
// @Summary Totales por fecha y sucursal
// @Tags registros
// @Produce json
// @Param fecha_inicio query string false "YYYY-MM-DD"
// @Param fecha_fin query string false "YYYY-MM-DD"
// @Success 200 {object} reporte.Tabla
// @Router /v1/registros/resumen/diario [get]
func (h *RegistrosHandler) ResumenDiario(c *gin.Context) {
	f, ok := filtro(c)
	if !ok {
		return
	}
	tabla, err := h.reportes.ResumenGlobalDiario(c.Request.Context(), f)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, tabla)
}
