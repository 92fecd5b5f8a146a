package worker

import (
	"context"
	"errors"
	"time"

	"farmacierre/internal/dto"
	"farmacierre/internal/reporte"
	"farmacierre/internal/service"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// OrigenProgramado tags jobs queued by the scheduler.
const OrigenProgramado = "programado"

// lockSemanaTTL outlives any clock skew between instances firing the same
// weekly job. The lock is never released, so a week is queued once.
const lockSemanaTTL = 24 * time.Hour

// Encolador queues a report email.
type Encolador interface {
	EncolarEnvio(ctx context.Context, req dto.EnviarReporteRequest, origen string) (string, error)
}

// Scheduler queues the weekly global summary email.
type Scheduler struct {
	cron  *cron.Cron
	spec  string
	cola  Encolador
	ahora func() time.Time
	loc   *time.Location
	lock  *redislock.Client
}

// NewScheduler builds a scheduler that fires on spec (standard 5-field cron)
// in loc.
func NewScheduler(spec string, loc *time.Location, cola Encolador) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:  cron.New(cron.WithLocation(loc)),
		spec:  spec,
		cola:  cola,
		ahora: time.Now,
		loc:   loc,
	}
}

// ConLock makes the weekly job take a per-week Redis lock so that only one
// server instance queues it.
func (s *Scheduler) ConLock(rdb *redis.Client) *Scheduler {
	if rdb != nil {
		s.lock = redislock.New(rdb)
	}
	return s
}

// Start registers the weekly job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.enviarSemanal); err != nil {
		return err
	}
	s.cron.Start()
	log.Info().Str("cron", s.spec).Str("tz", s.loc.String()).Msg("scheduler started")
	return nil
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) enviarSemanal() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	inicio, fin := service.SemanaAnterior(s.ahora().In(s.loc))
	req := dto.EnviarReporteRequest{
		FechaInicio: inicio.Format(reporte.LayoutFecha),
		FechaFin:    fin.Format(reporte.LayoutFecha),
	}
	if !s.tomarSemana(ctx, req.FechaInicio) {
		return
	}
	id, err := s.cola.EncolarEnvio(ctx, req, OrigenProgramado)
	if err != nil {
		log.Error().Err(err).Msg("scheduler: failed to queue weekly report")
		return
	}
	log.Info().Str("job_id", id).Str("desde", req.FechaInicio).Str("hasta", req.FechaFin).Msg("scheduler: weekly report queued")
}

// tomarSemana reports whether this instance owns the week starting at inicio.
// Redis failures fall through to queueing rather than skipping the report.
func (s *Scheduler) tomarSemana(ctx context.Context, inicio string) bool {
	if s.lock == nil {
		return true
	}
	_, err := s.lock.Obtain(ctx, "lock:reporte_semanal:"+inicio, lockSemanaTTL, nil)
	switch {
	case err == nil:
		return true
	case errors.Is(err, redislock.ErrNotObtained):
		log.Info().Str("desde", inicio).Msg("scheduler: weekly report already queued by another instance")
		return false
	default:
		log.Warn().Err(err).Msg("scheduler: redis lock unavailable; queueing anyway")
		return true
	}
}
