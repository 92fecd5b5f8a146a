package handler

import (
	"net/http"
	"strconv"

	"farmacierre/internal/apierror"
	"farmacierre/internal/dto"
	"farmacierre/internal/service"

	"github.com/gin-gonic/gin"
)

type MetasHandler struct{ svc service.MetaService }

func NewMetasHandler(svc service.MetaService) *MetasHandler { return &MetasHandler{svc: svc} }

// Listar godoc
// @Summary Lista metas mensuales
// @Tags metas
// @Produce json
// @Param anio query int false "Año"
// @Param mes query int false "Mes"
// @Param sucursal_id query int false "Sucursal"
// @Success 200 {array} dto.MetaResponse
// @Router /v1/metas [get]
func (h *MetasHandler) Listar(c *gin.Context) {
	var q dto.MetaQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), q)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary Meta de una sucursal para un mes
// @Tags metas
// @Produce json
// @Param sucursal_id path int true "Sucursal"
// @Param anio path int true "Año"
// @Param mes path int true "Mes"
// @Success 200 {object} dto.MetaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/metas/sucursal/{sucursal_id}/{anio}/{mes} [get]
func (h *MetasHandler) Obtener(c *gin.Context) {
	sucursalID, ok := parseID(c, "sucursal_id")
	if !ok {
		return
	}
	anio, err1 := strconv.Atoi(c.Param("anio"))
	mes, err2 := strconv.Atoi(c.Param("mes"))
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, apierror.New("anio y mes deben ser numericos"))
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), sucursalID, anio, mes)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Upsert godoc
// @Summary Crea o reemplaza la meta de una sucursal para un mes
// @Tags metas
// @Accept json
// @Produce json
// @Param body body dto.UpsertMetaRequest true "Meta"
// @Success 201 {object} dto.MetaResponse
// @Success 200 {object} dto.MetaResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/metas [post]
func (h *MetasHandler) Upsert(c *gin.Context) {
	var req dto.UpsertMetaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, creada, err := h.svc.Upsert(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	status := http.StatusOK
	if creada {
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}

// Actualizar godoc
// @Summary Cambia el monto de una meta
// @Tags metas
// @Accept json
// @Produce json
// @Param id path int true "ID"
// @Param body body dto.ActualizarMetaRequest true "Monto"
// @Success 200 {object} dto.MetaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/metas/{id} [put]
func (h *MetasHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarMetaRequest
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
// @Summary Elimina una meta
// @Tags metas
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} dto.MensajeResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/metas/{id} [delete]
func (h *MetasHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.MensajeResponse{Mensaje: "Meta eliminada"})
}
