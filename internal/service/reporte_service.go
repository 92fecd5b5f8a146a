package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"farmacierre/internal/cuadre"
	"farmacierre/internal/dto"
	"farmacierre/internal/model"
	"farmacierre/internal/reporte"
	"farmacierre/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ColaEnvios queues report emails for the worker pool.
type ColaEnvios interface {
	EncolarEnvio(ctx context.Context, job dto.EnvioReporteJob) error
}

// ReporteService fetches records from the store and hands them to the
// reconciliation engine. It never formats; renderers live in infra.
type ReporteService interface {
	ResumenSucursal(ctx context.Context, filtro repository.RegistroFilter) (*dto.ResumenSucursalResponse, error)
	Detalle(ctx context.Context, filtro repository.RegistroFilter) (reporte.Tabla, error)
	ResumenDiario(ctx context.Context, filtro repository.RegistroFilter) (reporte.Tabla, error)
	ResumenGlobal(ctx context.Context, filtro repository.RegistroFilter) (reporte.Tabla, error)
	ResumenGlobalDiario(ctx context.Context, filtro repository.RegistroFilter) (reporte.Tabla, error)
	Depositos(ctx context.Context, filtro repository.RegistroFilter) (reporte.ReporteDepositos, error)
	Dashboard(ctx context.Context, q dto.DashboardQuery) (*reporte.Dashboard, error)
	// EncolarEnvio queues the global summary for email delivery and returns the job id.
	EncolarEnvio(ctx context.Context, req dto.EnviarReporteRequest, origen string) (string, error)
}

type reporteService struct {
	registros     repository.RegistroRepository
	metas         repository.MetaRepository
	cache         CacheReportes
	cola          ColaEnvios
	destinatarios []string
}

func NewReporteService(
	registros repository.RegistroRepository,
	metas repository.MetaRepository,
	cache CacheReportes,
	cola ColaEnvios,
	destinatarios []string,
) ReporteService {
	return &reporteService{registros: registros, metas: metas, cache: cache, cola: cola, destinatarios: destinatarios}
}

func (s *reporteService) listar(ctx context.Context, filtro repository.RegistroFilter) ([]model.RegistroTurno, error) {
	filtro.Orden = repository.OrdenAsc
	return s.registros.List(ctx, filtro)
}

func (s *reporteService) ResumenSucursal(ctx context.Context, filtro repository.RegistroFilter) (*dto.ResumenSucursalResponse, error) {
	regs, err := s.listar(ctx, filtro)
	if err != nil {
		return nil, err
	}
	grupos := cuadre.PorSucursal(regs)
	resp := &dto.ResumenSucursalResponse{Sucursales: make([]dto.ResumenSucursalRow, 0, len(grupos))}
	total := 0
	for _, g := range grupos {
		resp.Sucursales = append(resp.Sucursales, filaResumen(g.SucursalID, g.Sucursal, g.Registros, g.Sumas))
		total += g.Registros
	}
	resp.TotalGeneral = filaResumen(0, reporte.EtiquetaTotal, total, cuadre.TotalSucursales(grupos))
	return resp, nil
}

func filaResumen(id uint, nombre string, n int, s cuadre.Sumas) dto.ResumenSucursalRow {
	der := s.Derivados()
	return dto.ResumenSucursalRow{
		SucursalID:       id,
		SucursalNombre:   nombre,
		Registros:        n,
		TotalDepositado:  s.Depositado,
		TotalTarjeta:     s.Tarjeta,
		TotalVentas:      der.TotalVentas,
		TotalSistema:     s.Sistema,
		TotalFacturado:   s.Facturado,
		TotalNoFacturado: s.NoFacturado,
		TotalGastos:      s.Gastos,
		TotalCanjes:      s.Canjes,
		TotalVendido:     der.TotalVendido,
		TotalMeta:        der.TotalMeta,
		Faltante:         der.Faltante,
	}
}

func (s *reporteService) Detalle(ctx context.Context, filtro repository.RegistroFilter) (reporte.Tabla, error) {
	regs, err := s.listar(ctx, filtro)
	if err != nil {
		return reporte.Tabla{}, err
	}
	return reporte.Detalle(regs), nil
}

func (s *reporteService) ResumenDiario(ctx context.Context, filtro repository.RegistroFilter) (reporte.Tabla, error) {
	regs, err := s.listar(ctx, filtro)
	if err != nil {
		return reporte.Tabla{}, err
	}
	return reporte.ResumenDiario(regs), nil
}

func (s *reporteService) ResumenGlobal(ctx context.Context, filtro repository.RegistroFilter) (reporte.Tabla, error) {
	regs, err := s.listar(ctx, filtro)
	if err != nil {
		return reporte.Tabla{}, err
	}
	return reporte.ResumenGlobal(regs), nil
}

func (s *reporteService) ResumenGlobalDiario(ctx context.Context, filtro repository.RegistroFilter) (reporte.Tabla, error) {
	regs, err := s.listar(ctx, filtro)
	if err != nil {
		return reporte.Tabla{}, err
	}
	return reporte.ResumenGlobalDiario(regs), nil
}

func (s *reporteService) Depositos(ctx context.Context, filtro repository.RegistroFilter) (reporte.ReporteDepositos, error) {
	filtro.ConCuenta = true
	filtro.DepositoPositivo = true
	regs, err := s.listar(ctx, filtro)
	if err != nil {
		return reporte.ReporteDepositos{}, err
	}
	return reporte.DepositosPorCuenta(regs), nil
}

func (s *reporteService) Dashboard(ctx context.Context, q dto.DashboardQuery) (*reporte.Dashboard, error) {
	if q.Mes < 1 || q.Mes > 12 {
		return nil, validacion("mes inválido: %d", q.Mes)
	}
	p := cuadre.Periodo{Anio: q.Anio, Mes: q.Mes}
	if q.FechaCorte != "" {
		corte, err := parseFecha(q.FechaCorte)
		if err != nil {
			return nil, validacion("fecha_corte inválida: %s", q.FechaCorte)
		}
		p.FechaCorte = &corte
	}

	key := s.claveDashboard(ctx, q)
	if s.cache != nil {
		if raw, ok := s.cache.Get(ctx, key); ok {
			var d reporte.Dashboard
			if err := json.Unmarshal(raw, &d); err == nil {
				return &d, nil
			}
		}
	}

	inicio, fin := p.Inicio(), p.Fin()
	regs, err := s.listar(ctx, repository.RegistroFilter{FechaInicio: &inicio, FechaFin: &fin, SucursalID: q.SucursalID})
	if err != nil {
		return nil, err
	}
	metas, err := s.metas.List(ctx, repository.MetaFilter{Anio: q.Anio, Mes: q.Mes, SucursalID: q.SucursalID})
	if err != nil {
		return nil, err
	}
	d := reporte.ArmarDashboard(p, regs, metas)

	if s.cache != nil {
		if raw, err := json.Marshal(d); err == nil {
			s.cache.Set(ctx, key, raw)
		}
	}
	return &d, nil
}

func (s *reporteService) claveDashboard(ctx context.Context, q dto.DashboardQuery) string {
	var v int64
	if s.cache != nil {
		v = s.cache.Version(ctx)
	}
	return fmt.Sprintf("dashboard:v%d:%04d-%02d:s%d:c%s", v, q.Anio, q.Mes, q.SucursalID, q.FechaCorte)
}

func (s *reporteService) EncolarEnvio(ctx context.Context, req dto.EnviarReporteRequest, origen string) (string, error) {
	if s.cola == nil {
		return "", fmt.Errorf("cola de envíos no configurada")
	}
	inicio, err := parseFecha(req.FechaInicio)
	if err != nil {
		return "", validacion("fecha_inicio inválida: %s", req.FechaInicio)
	}
	fin, err := parseFecha(req.FechaFin)
	if err != nil {
		return "", validacion("fecha_fin inválida: %s", req.FechaFin)
	}
	if fin.Before(inicio) {
		return "", validacion("fecha_fin no puede ser anterior a fecha_inicio")
	}
	destinatarios := req.Destinatarios
	if len(destinatarios) == 0 {
		destinatarios = s.destinatarios
	}
	if len(destinatarios) == 0 {
		return "", validacion("no hay destinatarios configurados")
	}

	job := dto.EnvioReporteJob{
		ID:            uuid.NewString(),
		FechaInicio:   req.FechaInicio,
		FechaFin:      req.FechaFin,
		Destinatarios: destinatarios,
		Origen:        origen,
	}
	if err := s.cola.EncolarEnvio(ctx, job); err != nil {
		return "", err
	}
	log.Info().
		Str("job_id", job.ID).
		Str("origen", origen).
		Strs("destinatarios", destinatarios).
		Msg("envío de reporte encolado")
	return job.ID, nil
}

// SemanaAnterior is the Monday-to-Sunday week before ahora, in ahora's location.
func SemanaAnterior(ahora time.Time) (inicio, fin time.Time) {
	y, m, d := ahora.Date()
	hoy := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	// days since Monday
	offset := (int(hoy.Weekday()) + 6) % 7
	lunes := hoy.AddDate(0, 0, -offset)
	return lunes.AddDate(0, 0, -7), lunes.AddDate(0, 0, -1)
}
