package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"farmacierre/internal/dto"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueReporteEmail = "jobs:reporte_email"

	JobReporteEmail = "reporte_email"

	// MaxIntentos is how many times a job runs before it is dead-lettered.
	MaxIntentos = 3

	// pausaError is how long a worker sleeps after a Redis failure.
	pausaError = time.Second
)

// Job is the generic envelope for all async tasks.
type Job struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// ErrPermanente marks a failure that retrying cannot fix; the job goes
// straight to the DLQ.
var ErrPermanente = errors.New("permanent job failure")

// Processor handles one job type. A returned error schedules a retry.
type Processor interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EncolarEnvio pushes a report email job to Redis.
func (d *Dispatcher) EncolarEnvio(ctx context.Context, job dto.EnvioReporteJob) error {
	return d.enqueue(ctx, QueueReporteEmail, JobReporteEmail, job.ID, job)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType, id string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{ID: id, Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	if err := d.rdb.LPush(ctx, queue, encoded).Err(); err != nil {
		return fmt.Errorf("enqueue %s: %w", jobType, err)
	}
	return nil
}

// Pool runs a fixed number of goroutines consuming the job queues.
type Pool struct {
	rdb        *redis.Client
	size       int
	processors map[string]Processor
	queues     []string
	pausa      time.Duration
	wg         sync.WaitGroup
}

func NewPool(rdb *redis.Client, size int) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{rdb: rdb, size: size, processors: map[string]Processor{}, pausa: pausaError}
}

// Register binds a job type and its queue to a processor.
func (p *Pool) Register(queue, jobType string, proc Processor) {
	p.processors[jobType] = proc
	for _, q := range p.queues {
		if q == queue {
			return
		}
	}
	p.queues = append(p.queues, queue)
}

// Start launches the workers plus the retry pump. Each worker blocks on
// BRPOP, zero CPU when idle.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			p.runWorker(ctx, id)
		}(i)
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		runRetryPump(ctx, p.rdb)
	}()
	log.Info().Int("workers", p.size).Strs("queues", p.queues).Msg("worker pool started")
}

// Wait blocks until every worker has returned after ctx is cancelled.
func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Int("worker", id).Msg("worker shutting down")
			return
		default:
			// Blocking pop: waits up to 5s, then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, p.queues...).Result()
			if errors.Is(err, redis.Nil) {
				continue // timeout
			}
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				log.Warn().Err(err).Int("worker", id).Msg("brpop failed")
				select {
				case <-ctx.Done():
				case <-time.After(p.pausa):
				}
				continue
			}
			if len(result) < 2 {
				continue
			}
			p.processJob(ctx, result[0], result[1])
		}
	}
}

func (p *Pool) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		quoted, _ := json.Marshal(raw)
		SendToDLQ(ctx, p.rdb, queue, Job{Payload: quoted}, "invalid envelope: "+err.Error())
		jobsProcessed.WithLabelValues(queue, "", accionDLQ.String()).Inc()
		return
	}

	d := p.decidir(ctx, &job)
	jobsProcessed.WithLabelValues(queue, job.Type, d.accion.String()).Inc()
	switch d.accion {
	case accionListo:
		log.Info().Str("job_id", job.ID).Str("type", job.Type).Int("attempts", job.Attempts).Msg("job done")
	case accionReintentar:
		if err := scheduleRetry(ctx, p.rdb, queue, job, d.espera); err != nil {
			log.Error().Err(err).Str("job_id", job.ID).Msg("failed to schedule retry")
			SendToDLQ(ctx, p.rdb, queue, job, d.motivo)
		}
	case accionDLQ:
		SendToDLQ(ctx, p.rdb, queue, job, d.motivo)
	}
}

type accion int

const (
	accionListo accion = iota
	accionReintentar
	accionDLQ
)

type decision struct {
	accion accion
	motivo string
	espera time.Duration
}

// decidir runs the job and says what to do with it next. It bumps
// job.Attempts.
func (p *Pool) decidir(ctx context.Context, job *Job) decision {
	proc, ok := p.processors[job.Type]
	if !ok {
		return decision{accion: accionDLQ, motivo: "unknown job type: " + job.Type}
	}
	job.Attempts++
	err := proc.Process(ctx, job.Payload)
	if err == nil {
		return decision{accion: accionListo}
	}
	if errors.Is(err, ErrPermanente) {
		return decision{accion: accionDLQ, motivo: err.Error()}
	}
	if job.Attempts >= MaxIntentos {
		return decision{
			accion: accionDLQ,
			motivo: fmt.Sprintf("max attempts (%d) exceeded: %s", MaxIntentos, err),
		}
	}
	log.Warn().
		Err(err).
		Str("job_id", job.ID).
		Int("attempts", job.Attempts).
		Msg("job failed, retry scheduled")
	return decision{accion: accionReintentar, motivo: err.Error(), espera: backoff(job.Attempts)}
}

// backoff is 1m, 4m, 9m...
func backoff(attempts int) time.Duration {
	return time.Duration(attempts*attempts) * time.Minute
}
