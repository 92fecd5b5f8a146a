//go:build integration

package router_test

// integration_test.go
// Runs the HTTP API against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"farmacierre/internal/config"
	"farmacierre/internal/dto"
	"farmacierre/internal/infra"
	"farmacierre/internal/router"
	"farmacierre/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

type mailerCapturado struct {
	mu     sync.Mutex
	envios [][]string
	done   chan struct{}
}

func (m *mailerCapturado) SendReporte(to []string, _, _ string, adjuntos ...infra.Adjunto) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(adjuntos) != 1 || len(adjuntos[0].Datos) == 0 {
		return fmt.Errorf("missing attachment")
	}
	m.envios = append(m.envios, to)
	close(m.done)
	return nil
}

type entornoIntegracion struct {
	*api
	rdb    *redis.Client
	mailer *mailerCapturado
}

func setupIntegracion(t *testing.T) *entornoIntegracion {
	t.Helper()
	ctx := context.Background()
	gin.SetMode(gin.TestMode)

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("farmacierre_test"),
		tcPostgres.WithUsername("farmacierre"),
		tcPostgres.WithPassword("farmacierre"),
		testcontainers.WithWaitStrategy(tcPostgres.BasicWaitStrategies()...),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })
	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })
	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:                  "test",
		DatabaseURL:          pgURL,
		RedisURL:             rdURL,
		WorkerPoolSize:       1,
		CacheTTLSeconds:      60,
		ReporteDestinatarios: "gerencia@farmacia.gt",
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, false)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	runCtx, cancel := context.WithCancel(ctx)
	t.Cleanup(cancel)

	svcs := router.NewServices(cfg, db, infra.NewRedisCache(rdb, cfg.CacheTTL()), worker.NewDispatcher(rdb))
	mailer := &mailerCapturado{done: make(chan struct{})}
	pool := worker.NewPool(rdb, cfg.WorkerPoolSize)
	pool.Register(worker.QueueReporteEmail, worker.JobReporteEmail, worker.NewEmailWorker(svcs.Reportes, mailer, t.TempDir()))
	pool.Start(runCtx)

	r := router.New(runCtx, router.Deps{Config: cfg, Services: svcs, DB: db, RDB: rdb})
	return &entornoIntegracion{
		api:    &api{t: t, r: r},
		rdb:    rdb,
		mailer: mailer,
	}
}

func TestIntegration_UniqueKeyAndDerivedValues(t *testing.T) {
	e := setupIntegracion(t)
	c := e.catalogos()

	id := e.crear("/v1/registros", registro("2026-03-02", c.zacapa, c.am, &c.especial, "1000", "500", "1600", "50"))
	w := e.do(http.MethodPost, "/v1/registros", registro("2026-03-02", c.zacapa, c.am, nil, "1", "0", "1", "0"))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.do(http.MethodGet, fmt.Sprintf("/v1/registros/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[dto.RegistroResponse](t, w)
	assert.Equal(t, "1000", got.TotalNoFacturado.String())
	assert.Equal(t, "1550", got.TotalVendido.String())
}

func TestIntegration_DashboardCacheInvalidatedOnWrite(t *testing.T) {
	e := setupIntegracion(t)
	c := e.catalogos()
	e.do(http.MethodPost, "/v1/metas", gin.H{"sucursal_id": c.zacapa, "anio": 2026, "mes": 3, "meta": "1000"})

	url := "/v1/reportes/dashboard-ventas?anio=2026&mes=3&fecha_corte=2026-03-31"
	ventas := func() string {
		w := e.do(http.MethodGet, url, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var d struct {
			Totales struct {
				TotalVentas string `json:"total_ventas"`
			} `json:"totales"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
		return d.Totales.TotalVentas
	}

	assert.Equal(t, "0", ventas())
	keys, err := e.rdb.Keys(context.Background(), "cache:dashboard:*").Result()
	require.NoError(t, err)
	assert.Len(t, keys, 1)

	e.crear("/v1/registros", registro("2026-03-02", c.zacapa, c.am, nil, "400", "100", "500", "0"))
	assert.Equal(t, "500", ventas())
}

func TestIntegration_ReportEmailRoundTrip(t *testing.T) {
	e := setupIntegracion(t)
	c := e.catalogos()
	e.crear("/v1/registros", registro("2026-03-02", c.zacapa, c.am, &c.normal, "1000", "500", "1600", "50"))

	w := e.do(http.MethodPost, "/v1/reportes/enviar", gin.H{"fecha_inicio": "2026-03-02", "fecha_fin": "2026-03-08"})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	select {
	case <-e.mailer.done:
	case <-time.After(20 * time.Second):
		t.Fatal("report email was not sent")
	}
	e.mailer.mu.Lock()
	defer e.mailer.mu.Unlock()
	assert.Equal(t, [][]string{{"gerencia@farmacia.gt"}}, e.mailer.envios)
}

func TestIntegration_InvalidJobIsDeadLettered(t *testing.T) {
	e := setupIntegracion(t)
	ctx := context.Background()

	require.NoError(t, worker.NewDispatcher(e.rdb).EncolarEnvio(ctx, dto.EnvioReporteJob{
		ID: "roto", FechaInicio: "ayer", FechaFin: "hoy", Destinatarios: []string{"a@b.c"},
	}))

	require.Eventually(t, func() bool {
		n, err := worker.DLQLength(ctx, e.rdb, worker.QueueReporteEmail)
		return err == nil && n == 1
	}, 20*time.Second, 200*time.Millisecond)

	entries, err := worker.ListDLQ(ctx, e.rdb, worker.QueueReporteEmail, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "roto", entries[0].JobID)
	assert.Equal(t, 1, entries[0].Attempts)

	w := e.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"envios_fallidos":1`)

	w = e.do(http.MethodGet, "/v1/reportes/envios-fallidos", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"job_id":"roto"`)

	w = e.do(http.MethodPost, "/v1/reportes/envios-fallidos/reintentar", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"reencolados":1}`, w.Body.String())

	// The payload is still bad, so the job comes back with a fresh attempt count.
	require.Eventually(t, func() bool {
		entries, err := worker.ListDLQ(ctx, e.rdb, worker.QueueReporteEmail, 10)
		return err == nil && len(entries) == 1 && entries[0].Attempts == 1
	}, 20*time.Second, 200*time.Millisecond)
}
