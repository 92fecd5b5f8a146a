package infra

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// ── Circuit Breaker ───────────────────────────────────────────────────────────
// Guards the SMTP relay. After FailureThreshold consecutive send errors the
// breaker opens and report emails fail fast with ErrCircuitOpen, so the worker
// pool schedules a retry instead of every job waiting out a dead server.
// After OpenTimeout one trial call is let through (half-open).

type CBState int

const (
	CBClosed CBState = iota
	CBOpen
	CBHalfOpen
)

func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

var ErrCircuitOpen = errors.New("circuit breaker is open")

var breakerState = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "farmacierre_circuit_breaker_state",
		Help: "Circuit breaker state by name: 0 closed, 1 open, 2 half-open.",
	},
	[]string{"breaker"},
)

// Collectors returns the infra metrics for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{breakerState}
}

type CircuitBreakerConfig struct {
	Name             string
	FailureThreshold int           // consecutive failures that open the breaker
	SuccessThreshold int           // half-open successes that close it again
	OpenTimeout      time.Duration // time spent open before probing
}

// DefaultCBConfig is the SMTP breaker: 3 failures, 2 minutes open.
func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             "smtp",
		FailureThreshold: 3,
		SuccessThreshold: 1,
		OpenTimeout:      2 * time.Minute,
	}
}

type CircuitBreaker struct {
	cfg CircuitBreakerConfig
	now func() time.Time

	mu        sync.Mutex
	state     CBState
	fallos    int
	exitos    int
	abiertoEn time.Time
}

// NewCircuitBreaker returns a closed breaker. Zero fields in cfg take the
// DefaultCBConfig values.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	def := DefaultCBConfig()
	if cfg.Name == "" {
		cfg.Name = def.Name
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	breakerState.WithLabelValues(cfg.Name).Set(float64(CBClosed))
	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.estado()
}

// EstadoBreaker is the breaker as shown by the health check.
type EstadoBreaker struct {
	Estado      string     `json:"estado"`
	Fallos      int        `json:"fallos"`
	ProbarDesde *time.Time `json:"probar_desde,omitempty"`
}

// Snapshot reports the state, the current failure streak and, while open,
// when the next trial call is allowed.
func (cb *CircuitBreaker) Snapshot() EstadoBreaker {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	e := EstadoBreaker{Estado: cb.estado().String(), Fallos: cb.fallos}
	if cb.state == CBOpen {
		t := cb.abiertoEn.Add(cb.cfg.OpenTimeout)
		e.ProbarDesde = &t
	}
	return e
}

// estado moves an expired open breaker to half-open. Caller holds mu.
func (cb *CircuitBreaker) estado() CBState {
	if cb.state == CBOpen && !cb.now().Before(cb.abiertoEn.Add(cb.cfg.OpenTimeout)) {
		cb.pasarA(CBHalfOpen)
	}
	return cb.state
}

// Execute runs fn unless the breaker is open, and records its outcome.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if cb.State() == CBOpen {
		return ErrCircuitOpen
	}
	err := fn()
	cb.registrar(err)
	return err
}

func (cb *CircuitBreaker) registrar(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.fallos++
		if cb.state == CBHalfOpen || cb.fallos >= cb.cfg.FailureThreshold {
			cb.abiertoEn = cb.now()
			cb.pasarA(CBOpen)
		}
		return
	}

	cb.fallos = 0
	if cb.state == CBHalfOpen {
		cb.exitos++
		if cb.exitos >= cb.cfg.SuccessThreshold {
			cb.pasarA(CBClosed)
		}
	}
}

func (cb *CircuitBreaker) pasarA(to CBState) {
	if cb.state == to {
		return
	}
	log.Warn().
		Str("breaker", cb.cfg.Name).
		Str("from", cb.state.String()).
		Str("to", to.String()).
		Int("fallos", cb.fallos).
		Msg("circuit breaker state change")
	cb.state = to
	cb.exitos = 0
	breakerState.WithLabelValues(cb.cfg.Name).Set(float64(to))
}
