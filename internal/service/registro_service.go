package service

import (
	"context"
	"errors"
	"time"

	"farmacierre/internal/cuadre"
	"farmacierre/internal/dto"
	"farmacierre/internal/model"
	"farmacierre/internal/reporte"
	"farmacierre/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const msgRegistroDuplicado = "ya existe un registro para esa fecha, sucursal y turno"

// RegistroService closes shifts: validates input, recomputes the derived totals
// and enforces one record per (fecha, sucursal, turno).
type RegistroService interface {
	Listar(ctx context.Context, filtro repository.RegistroFilter) ([]dto.RegistroResponse, error)
	ObtenerPorID(ctx context.Context, id uint) (*dto.RegistroResponse, error)
	Crear(ctx context.Context, req dto.RegistroRequest) (*dto.RegistroResponse, error)
	Actualizar(ctx context.Context, id uint, req dto.RegistroRequest) (*dto.RegistroResponse, error)
	Eliminar(ctx context.Context, id uint) error
}

type registroService struct {
	repo       repository.RegistroRepository
	sucursales repository.SucursalRepository
	turnos     repository.TurnoRepository
	cuentas    repository.CuentaRepository
	cache      CacheReportes
}

func NewRegistroService(
	repo repository.RegistroRepository,
	sucursales repository.SucursalRepository,
	turnos repository.TurnoRepository,
	cuentas repository.CuentaRepository,
	cache CacheReportes,
) RegistroService {
	return &registroService{repo: repo, sucursales: sucursales, turnos: turnos, cuentas: cuentas, cache: cache}
}

// mapRegistro converts a model to a DTO response, adding the live faltante.
func mapRegistro(r model.RegistroTurno) dto.RegistroResponse {
	der := cuadre.Calcular(cuadre.MontosDe(&r))
	return dto.RegistroResponse{
		ID:                 r.ID,
		Fecha:              cuadre.Dia(r.Fecha).Format(reporte.LayoutFecha),
		SucursalID:         r.SucursalID,
		TurnoID:            r.TurnoID,
		CuentaID:           r.CuentaID,
		CorrelativoInicial: r.CorrelativoInicial,
		CorrelativoFinal:   r.CorrelativoFinal,
		MontoDepositado:    r.MontoDepositado,
		VentaTarjeta:       r.VentaTarjeta,
		TotalSistema:       r.TotalSistema,
		Gastos:             r.Gastos,
		Canjes:             r.Canjes,
		TotalVentas:        r.TotalVentas,
		TotalVendido:       r.TotalVendido,
		TotalFacturado:     r.TotalFacturado,
		TotalNoFacturado:   r.TotalNoFacturado,
		TotalMeta:          r.TotalMeta,
		Faltante:           der.Faltante,
		TieneFaltante:      der.TieneFaltante(),
		Observaciones:      r.Observaciones,
		Sucursal:           r.Sucursal,
		Turno:              r.Turno,
		Cuenta:             r.Cuenta,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func (s *registroService) Listar(ctx context.Context, filtro repository.RegistroFilter) ([]dto.RegistroResponse, error) {
	if filtro.Orden == "" {
		filtro.Orden = repository.OrdenDesc
	}
	list, err := s.repo.List(ctx, filtro)
	if err != nil {
		return nil, err
	}
	result := make([]dto.RegistroResponse, 0, len(list))
	for _, r := range list {
		result = append(result, mapRegistro(r))
	}
	return result, nil
}

func (s *registroService) ObtenerPorID(ctx context.Context, id uint) (*dto.RegistroResponse, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err, "registro no encontrado", msgRegistroDuplicado)
	}
	resp := mapRegistro(*r)
	return &resp, nil
}

func (s *registroService) Crear(ctx context.Context, req dto.RegistroRequest) (*dto.RegistroResponse, error) {
	r := &model.RegistroTurno{}
	cuenta, err := s.aplicarRequest(ctx, r, req)
	if err != nil {
		return nil, err
	}
	if err := s.verificarClave(ctx, r, 0); err != nil {
		return nil, err
	}

	cuadre.Aplicar(r, cuenta)
	if err := s.repo.Create(ctx, r); err != nil {
		// the unique index still catches a concurrent insert of the same triple
		return nil, traducir(err, "registro no encontrado", msgRegistroDuplicado)
	}
	s.invalidar(ctx)

	log.Info().
		Uint("registro_id", r.ID).
		Uint("sucursal_id", r.SucursalID).
		Uint("turno_id", r.TurnoID).
		Str("fecha", req.Fecha).
		Msg("registro de turno creado")
	return s.ObtenerPorID(ctx, r.ID)
}

func (s *registroService) Actualizar(ctx context.Context, id uint, req dto.RegistroRequest) (*dto.RegistroResponse, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err, "registro no encontrado", msgRegistroDuplicado)
	}
	cuenta, err := s.aplicarRequest(ctx, r, req)
	if err != nil {
		return nil, err
	}
	if err := s.verificarClave(ctx, r, id); err != nil {
		return nil, err
	}

	cuadre.Aplicar(r, cuenta)
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, traducir(err, "registro no encontrado", msgRegistroDuplicado)
	}
	s.invalidar(ctx)
	return s.ObtenerPorID(ctx, id)
}

func (s *registroService) Eliminar(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return traducir(err, "registro no encontrado", msgRegistroDuplicado)
	}
	s.invalidar(ctx)
	log.Info().Uint("registro_id", id).Msg("registro de turno eliminado")
	return nil
}

// aplicarRequest copies the editable fields of req into r after checking that
// the referenced branch, shift and account exist. It returns the resolved
// account (nil when none) for the no-facturado calculation.
func (s *registroService) aplicarRequest(ctx context.Context, r *model.RegistroTurno, req dto.RegistroRequest) (*model.Cuenta, error) {
	fecha, err := parseFecha(req.Fecha)
	if err != nil {
		return nil, validacion("fecha inválida: %s", req.Fecha)
	}
	if req.SucursalID == 0 || req.TurnoID == 0 {
		return nil, validacion("sucursal y turno son requeridos")
	}
	if _, err := s.sucursales.ObtenerPorID(ctx, req.SucursalID); err != nil {
		return nil, referencia(err, "la sucursal no existe")
	}
	if _, err := s.turnos.ObtenerPorID(ctx, req.TurnoID); err != nil {
		return nil, referencia(err, "el turno no existe")
	}
	var cuenta *model.Cuenta
	if req.CuentaID != nil {
		cuenta, err = s.cuentas.ObtenerPorID(ctx, *req.CuentaID)
		if err != nil {
			return nil, referencia(err, "la cuenta no existe")
		}
	}

	r.Fecha = fecha
	r.SucursalID = req.SucursalID
	r.TurnoID = req.TurnoID
	r.CuentaID = req.CuentaID
	r.CorrelativoInicial = req.CorrelativoInicial
	r.CorrelativoFinal = req.CorrelativoFinal
	r.MontoDepositado = req.MontoDepositado
	r.VentaTarjeta = req.VentaTarjeta
	r.TotalSistema = req.TotalSistema
	r.Gastos = req.Gastos
	r.Canjes = req.Canjes
	r.Observaciones = req.Observaciones
	// stale relations would otherwise be written back by Save
	r.Sucursal, r.Turno, r.Cuenta = nil, nil, nil
	return cuenta, nil
}

// verificarClave rejects a (fecha, sucursal, turno) already used by a record
// other than propio.
func (s *registroService) verificarClave(ctx context.Context, r *model.RegistroTurno, propio uint) error {
	existente, err := s.repo.FindByClave(ctx, r.Fecha, r.SucursalID, r.TurnoID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	case err != nil:
		return err
	case existente.ID != propio:
		return conflicto(msgRegistroDuplicado)
	}
	return nil
}

func (s *registroService) invalidar(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidar(ctx)
	}
}

// referencia turns a missing referenced row into a validation error.
func referencia(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return validacion("%s", msg)
	}
	return err
}

func parseFecha(s string) (time.Time, error) {
	return time.Parse(reporte.LayoutFecha, s)
}

// FiltroRegistros converts query parameters into a store filter. Both bounds are
// inclusive; an inverted range is a validation error.
func FiltroRegistros(q dto.RangoQuery) (repository.RegistroFilter, error) {
	f := repository.RegistroFilter{SucursalID: q.SucursalID, TurnoID: q.TurnoID, CuentaID: q.CuentaID}
	if q.FechaInicio != "" {
		t, err := parseFecha(q.FechaInicio)
		if err != nil {
			return f, validacion("fecha_inicio inválida: %s", q.FechaInicio)
		}
		f.FechaInicio = &t
	}
	if q.FechaFin != "" {
		t, err := parseFecha(q.FechaFin)
		if err != nil {
			return f, validacion("fecha_fin inválida: %s", q.FechaFin)
		}
		f.FechaFin = &t
	}
	if f.FechaInicio != nil && f.FechaFin != nil && f.FechaFin.Before(*f.FechaInicio) {
		return f, validacion("fecha_fin no puede ser anterior a fecha_inicio")
	}
	return f, nil
}
