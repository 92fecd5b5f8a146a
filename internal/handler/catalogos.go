package handler

import (
	"context"
	"net/http"

	"farmacierre/internal/dto"
	"farmacierre/internal/model"
	"farmacierre/internal/service"

	"github.com/gin-gonic/gin"
)

// ── Shared CRUD plumbing ─────────────────────────────────────────────────────

func obtener[M any](c *gin.Context, fn func(context.Context, uint) (*M, error)) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	m, err := fn(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func crear[R any, M any](c *gin.Context, fn func(context.Context, R) (*M, error)) {
	var req R
	if !bindAndValidate(c, &req) {
		return
	}
	m, err := fn(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func actualizar[R any, M any](c *gin.Context, fn func(context.Context, uint, R) (*M, error)) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req R
	if !bindAndValidate(c, &req) {
		return
	}
	m, err := fn(c.Request.Context(), id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func borrar(c *gin.Context, fn func(context.Context, uint) error, mensaje string) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := fn(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.MensajeResponse{Mensaje: mensaje})
}

func listar[M any](c *gin.Context, fn func(context.Context) ([]M, error)) {
	out, err := fn(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// ── Sucursales ───────────────────────────────────────────────────────────────

type SucursalesHandler struct{ svc service.SucursalService }

func NewSucursalesHandler(svc service.SucursalService) *SucursalesHandler {
	return &SucursalesHandler{svc: svc}
}

// Listar godoc
// @Summary Lista sucursales
// @Tags catalogos
// @Produce json
// @Param activos query bool false "Solo activas (default true)"
// @Success 200 {array} model.Sucursal
// @Router /v1/sucursales [get]
func (h *SucursalesHandler) Listar(c *gin.Context) {
	activas := soloActivos(c)
	listar(c, func(ctx context.Context) ([]model.Sucursal, error) { return h.svc.Listar(ctx, activas) })
}

// Obtener godoc
// @Summary Obtiene una sucursal
// @Tags catalogos
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} model.Sucursal
// @Failure 404 {object} apierror.APIError
// @Router /v1/sucursales/{id} [get]
func (h *SucursalesHandler) Obtener(c *gin.Context) { obtener(c, h.svc.ObtenerPorID) }

// Crear godoc
// @Summary Crea una sucursal
// @Tags catalogos
// @Accept json
// @Produce json
// @Param body body dto.SucursalRequest true "Sucursal"
// @Success 201 {object} model.Sucursal
// @Failure 409 {object} apierror.APIError
// @Router /v1/sucursales [post]
func (h *SucursalesHandler) Crear(c *gin.Context) { crear(c, h.svc.Crear) }

// Actualizar godoc
// @Summary Actualiza una sucursal
// @Tags catalogos
// @Accept json
// @Produce json
// @Param id path int true "ID"
// @Param body body dto.SucursalRequest true "Sucursal"
// @Success 200 {object} model.Sucursal
// @Router /v1/sucursales/{id} [put]
func (h *SucursalesHandler) Actualizar(c *gin.Context) { actualizar(c, h.svc.Actualizar) }

// Desactivar godoc
// @Summary Desactiva una sucursal
// @Tags catalogos
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} dto.MensajeResponse
// @Router /v1/sucursales/{id} [delete]
func (h *SucursalesHandler) Desactivar(c *gin.Context) {
	borrar(c, h.svc.Desactivar, "Sucursal desactivada")
}

// ── Turnos ───────────────────────────────────────────────────────────────────

type TurnosHandler struct{ svc service.TurnoService }

func NewTurnosHandler(svc service.TurnoService) *TurnosHandler { return &TurnosHandler{svc: svc} }

// @Summary Lista turnos
// @Tags catalogos
// @Router /v1/turnos [get]
func (h *TurnosHandler) Listar(c *gin.Context) {
	activos := soloActivos(c)
	listar(c, func(ctx context.Context) ([]model.Turno, error) { return h.svc.Listar(ctx, activos) })
}

func (h *TurnosHandler) Obtener(c *gin.Context)    { obtener(c, h.svc.ObtenerPorID) }
func (h *TurnosHandler) Crear(c *gin.Context)      { crear(c, h.svc.Crear) }
func (h *TurnosHandler) Actualizar(c *gin.Context) { actualizar(c, h.svc.Actualizar) }
func (h *TurnosHandler) Desactivar(c *gin.Context) { borrar(c, h.svc.Desactivar, "Turno desactivado") }

// ── Cuentas ──────────────────────────────────────────────────────────────────

type CuentasHandler struct{ svc service.CuentaService }

func NewCuentasHandler(svc service.CuentaService) *CuentasHandler { return &CuentasHandler{svc: svc} }

// @Summary Lista cuentas bancarias
// @Tags catalogos
// @Router /v1/cuentas [get]
func (h *CuentasHandler) Listar(c *gin.Context) {
	activas := soloActivos(c)
	listar(c, func(ctx context.Context) ([]model.Cuenta, error) { return h.svc.Listar(ctx, activas) })
}

func (h *CuentasHandler) Obtener(c *gin.Context)    { obtener(c, h.svc.ObtenerPorID) }
func (h *CuentasHandler) Crear(c *gin.Context)      { crear(c, h.svc.Crear) }
func (h *CuentasHandler) Actualizar(c *gin.Context) { actualizar(c, h.svc.Actualizar) }
func (h *CuentasHandler) Desactivar(c *gin.Context) {
	borrar(c, h.svc.Desactivar, "Cuenta desactivada")
}

// ── Distritos ────────────────────────────────────────────────────────────────

type DistritosHandler struct{ svc service.DistritoService }

func NewDistritosHandler(svc service.DistritoService) *DistritosHandler {
	return &DistritosHandler{svc: svc}
}

// @Summary Lista distritos
// @Tags catalogos
// @Router /v1/distritos [get]
func (h *DistritosHandler) Listar(c *gin.Context)     { listar(c, h.svc.Listar) }
func (h *DistritosHandler) Obtener(c *gin.Context)    { obtener(c, h.svc.ObtenerPorID) }
func (h *DistritosHandler) Crear(c *gin.Context)      { crear(c, h.svc.Crear) }
func (h *DistritosHandler) Actualizar(c *gin.Context) { actualizar(c, h.svc.Actualizar) }

// Eliminar removes the district; its branches lose the reference.
func (h *DistritosHandler) Eliminar(c *gin.Context) {
	borrar(c, h.svc.Eliminar, "Distrito eliminado")
}

// ── Usuarios ─────────────────────────────────────────────────────────────────

type UsuariosHandler struct{ svc service.UsuarioService }

func NewUsuariosHandler(svc service.UsuarioService) *UsuariosHandler {
	return &UsuariosHandler{svc: svc}
}

// @Summary Lista usuarios ordenados por nombre
// @Tags catalogos
// @Router /v1/usuarios [get]
func (h *UsuariosHandler) Listar(c *gin.Context)     { listar(c, h.svc.Listar) }
func (h *UsuariosHandler) Obtener(c *gin.Context)    { obtener(c, h.svc.ObtenerPorID) }
func (h *UsuariosHandler) Crear(c *gin.Context)      { crear(c, h.svc.Crear) }
func (h *UsuariosHandler) Actualizar(c *gin.Context) { actualizar(c, h.svc.Actualizar) }
func (h *UsuariosHandler) Eliminar(c *gin.Context)   { borrar(c, h.svc.Eliminar, "Usuario eliminado") }
