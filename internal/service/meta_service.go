package service

import (
	"context"

	"farmacierre/internal/dto"
	"farmacierre/internal/model"
	"farmacierre/internal/repository"

	"github.com/rs/zerolog/log"
)

const msgMetaDuplicada = "ya existe una meta para esa sucursal y mes"

// MetaService manages monthly sales goals.
type MetaService interface {
	Listar(ctx context.Context, q dto.MetaQuery) ([]dto.MetaResponse, error)
	Obtener(ctx context.Context, sucursalID uint, anio, mes int) (*dto.MetaResponse, error)
	// Upsert creates or replaces the goal; creada reports which one happened.
	Upsert(ctx context.Context, req dto.UpsertMetaRequest) (meta *dto.MetaResponse, creada bool, err error)
	Actualizar(ctx context.Context, id uint, req dto.ActualizarMetaRequest) (*dto.MetaResponse, error)
	Eliminar(ctx context.Context, id uint) error
}

type metaService struct {
	repo       repository.MetaRepository
	sucursales repository.SucursalRepository
	cache      CacheReportes
}

func NewMetaService(repo repository.MetaRepository, sucursales repository.SucursalRepository, cache CacheReportes) MetaService {
	return &metaService{repo: repo, sucursales: sucursales, cache: cache}
}

func mapMeta(m model.MetaMensual) dto.MetaResponse {
	resp := dto.MetaResponse{
		ID:         m.ID,
		SucursalID: m.SucursalID,
		Anio:       m.Anio,
		Mes:        m.Mes,
		Meta:       m.Meta,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.Sucursal != nil {
		resp.SucursalNombre = m.Sucursal.Nombre
	}
	return resp
}

func (s *metaService) Listar(ctx context.Context, q dto.MetaQuery) ([]dto.MetaResponse, error) {
	list, err := s.repo.List(ctx, repository.MetaFilter{Anio: q.Anio, Mes: q.Mes, SucursalID: q.SucursalID})
	if err != nil {
		return nil, err
	}
	result := make([]dto.MetaResponse, 0, len(list))
	for _, m := range list {
		result = append(result, mapMeta(m))
	}
	return result, nil
}

func (s *metaService) Obtener(ctx context.Context, sucursalID uint, anio, mes int) (*dto.MetaResponse, error) {
	m, err := s.repo.FindByClave(ctx, sucursalID, anio, mes)
	if err != nil {
		return nil, traducir(err, "meta no encontrada", msgMetaDuplicada)
	}
	resp := mapMeta(*m)
	return &resp, nil
}

func (s *metaService) Upsert(ctx context.Context, req dto.UpsertMetaRequest) (*dto.MetaResponse, bool, error) {
	if req.Mes < 1 || req.Mes > 12 {
		return nil, false, validacion("mes inválido: %d", req.Mes)
	}
	if req.Meta.IsNegative() {
		return nil, false, validacion("la meta no puede ser negativa")
	}
	suc, err := s.sucursales.ObtenerPorID(ctx, req.SucursalID)
	if err != nil {
		return nil, false, referencia(err, "la sucursal no existe")
	}

	m, creada, err := s.repo.Upsert(ctx, req.SucursalID, req.Anio, req.Mes, req.Meta.Round(2))
	if err != nil {
		return nil, false, traducir(err, "meta no encontrada", msgMetaDuplicada)
	}
	m.Sucursal = suc
	s.invalidar(ctx)

	log.Info().
		Uint("sucursal_id", req.SucursalID).
		Int("anio", req.Anio).
		Int("mes", req.Mes).
		Str("meta", m.Meta.StringFixed(2)).
		Bool("creada", creada).
		Msg("meta mensual guardada")
	resp := mapMeta(*m)
	return &resp, creada, nil
}

func (s *metaService) Actualizar(ctx context.Context, id uint, req dto.ActualizarMetaRequest) (*dto.MetaResponse, error) {
	if req.Meta.IsNegative() {
		return nil, validacion("la meta no puede ser negativa")
	}
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err, "meta no encontrada", msgMetaDuplicada)
	}
	m.Meta = req.Meta.Round(2)
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, traducir(err, "meta no encontrada", msgMetaDuplicada)
	}
	s.invalidar(ctx)
	resp := mapMeta(*m)
	return &resp, nil
}

func (s *metaService) Eliminar(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return traducir(err, "meta no encontrada", msgMetaDuplicada)
	}
	s.invalidar(ctx)
	return nil
}

func (s *metaService) invalidar(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidar(ctx)
	}
}
