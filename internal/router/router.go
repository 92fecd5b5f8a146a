package router

import (
	"context"
	"time"

	"farmacierre/internal/config"
	"farmacierre/internal/handler"
	"farmacierre/internal/infra"
	"farmacierre/internal/middleware"
	"farmacierre/internal/repository"
	"farmacierre/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Services groups the service layer so the server, the worker pool and the
// scheduler share one instance of each.
type Services struct {
	Registros  service.RegistroService
	Metas      service.MetaService
	Reportes   service.ReporteService
	Sucursales service.SucursalService
	Turnos     service.TurnoService
	Cuentas    service.CuentaService
	Distritos  service.DistritoService
	Usuarios   service.UsuarioService

	// Repositories needed outside HTTP (bootstrap).
	TurnoRepo   repository.TurnoRepository
	CuentaRepo  repository.CuentaRepository
	UsuarioRepo repository.UsuarioRepository
}

// NewServices wires Service ← Repository ← DB. cache and cola may be nil.
func NewServices(cfg *config.Config, db *gorm.DB, cache service.CacheReportes, cola service.ColaEnvios) *Services {
	// ── Repositories ─────────────────────────────────────────────────────────
	registroRepo := repository.NewRegistroRepository(db)
	metaRepo := repository.NewMetaRepository(db)
	sucursalRepo := repository.NewSucursalRepository(db)
	turnoRepo := repository.NewTurnoRepository(db)
	cuentaRepo := repository.NewCuentaRepository(db)
	distritoRepo := repository.NewDistritoRepository(db)
	usuarioRepo := repository.NewUsuarioRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	return &Services{
		Registros:   service.NewRegistroService(registroRepo, sucursalRepo, turnoRepo, cuentaRepo, cache),
		Metas:       service.NewMetaService(metaRepo, sucursalRepo, cache),
		Reportes:    service.NewReporteService(registroRepo, metaRepo, cache, cola, cfg.Destinatarios()),
		Sucursales:  service.NewSucursalService(sucursalRepo, distritoRepo, cache),
		Turnos:      service.NewTurnoService(turnoRepo),
		Cuentas:     service.NewCuentaService(cuentaRepo),
		Distritos:   service.NewDistritoService(distritoRepo),
		Usuarios:    service.NewUsuarioService(usuarioRepo),
		TurnoRepo:   turnoRepo,
		CuentaRepo:  cuentaRepo,
		UsuarioRepo: usuarioRepo,
	}
}

// Deps are the inputs of New. RDB feeds the health check and the failed
// email endpoints; SMTP only the health check.
type Deps struct {
	Config   *config.Config
	Services *Services
	DB       *gorm.DB
	RDB      *redis.Client
	SMTP     *infra.CircuitBreaker
}

// New returns a configured Gin engine. The rate limiter purge loop stops
// with ctx.
func New(ctx context.Context, d Deps) *gin.Engine {
	cfg := d.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	limiter.StartPurge(ctx)

	if err := middleware.RegisterMetrics(prometheus.DefaultRegisterer); err != nil {
		log.Error().Err(err).Msg("metrics registration failed")
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.Origenes()))
	r.Use(middleware.ErrorHandler())
	r.Use(limiter.Handler())

	// ── Handlers ─────────────────────────────────────────────────────────────
	svc := d.Services
	registrosH := handler.NewRegistrosHandler(svc.Registros, svc.Reportes)
	metasH := handler.NewMetasHandler(svc.Metas)
	reportesH := handler.NewReportesHandler(svc.Reportes)
	sucursalesH := handler.NewSucursalesHandler(svc.Sucursales)
	turnosH := handler.NewTurnosHandler(svc.Turnos)
	cuentasH := handler.NewCuentasHandler(svc.Cuentas)
	distritosH := handler.NewDistritosHandler(svc.Distritos)
	usuariosH := handler.NewUsuariosHandler(svc.Usuarios)
	enviosH := handler.NewEnviosHandler(d.RDB)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(d.DB, d.RDB, d.SMTP))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	{
		reg := v1.Group("/registros")
		{
			reg.GET("", registrosH.Listar)
			reg.POST("", registrosH.Crear)
			reg.GET("/resumen/sucursal", registrosH.ResumenSucursal)
			reg.GET("/resumen/sucursal/pdf", registrosH.ResumenSucursalPDF)
			reg.GET("/resumen/diario", registrosH.ResumenDiario)
			reg.GET("/:id", registrosH.Obtener)
			reg.PUT("/:id", registrosH.Actualizar)
			reg.DELETE("/:id", registrosH.Eliminar)
		}

		metas := v1.Group("/metas")
		{
			metas.GET("", metasH.Listar)
			metas.POST("", metasH.Upsert)
			metas.GET("/sucursal/:sucursal_id/:anio/:mes", metasH.Obtener)
			metas.PUT("/:id", metasH.Actualizar)
			metas.DELETE("/:id", metasH.Eliminar)
		}

		rep := v1.Group("/reportes")
		{
			rep.GET("/detalle", reportesH.Detalle())
			rep.GET("/resumen-diario", reportesH.ResumenDiario())
			rep.GET("/resumen-global", reportesH.ResumenGlobal())
			rep.GET("/depositos-cuenta", reportesH.Depositos)
			rep.GET("/depositos-cuenta/excel", reportesH.DepositosExcel)
			rep.GET("/dashboard-ventas", reportesH.Dashboard)
			rep.POST("/enviar", reportesH.Enviar)
			rep.GET("/envios-fallidos", enviosH.Fallidos)
			rep.POST("/envios-fallidos/reintentar", enviosH.Reintentar)
		}

		suc := v1.Group("/sucursales")
		{
			suc.GET("", sucursalesH.Listar)
			suc.POST("", sucursalesH.Crear)
			suc.GET("/:id", sucursalesH.Obtener)
			suc.PUT("/:id", sucursalesH.Actualizar)
			suc.DELETE("/:id", sucursalesH.Desactivar)
		}

		tur := v1.Group("/turnos")
		{
			tur.GET("", turnosH.Listar)
			tur.POST("", turnosH.Crear)
			tur.GET("/:id", turnosH.Obtener)
			tur.PUT("/:id", turnosH.Actualizar)
			tur.DELETE("/:id", turnosH.Desactivar)
		}

		cta := v1.Group("/cuentas")
		{
			cta.GET("", cuentasH.Listar)
			cta.POST("", cuentasH.Crear)
			cta.GET("/:id", cuentasH.Obtener)
			cta.PUT("/:id", cuentasH.Actualizar)
			cta.DELETE("/:id", cuentasH.Desactivar)
		}

		dis := v1.Group("/distritos")
		{
			dis.GET("", distritosH.Listar)
			dis.POST("", distritosH.Crear)
			dis.GET("/:id", distritosH.Obtener)
			dis.PUT("/:id", distritosH.Actualizar)
			dis.DELETE("/:id", distritosH.Eliminar)
		}

		usr := v1.Group("/usuarios")
		{
			usr.GET("", usuariosH.Listar)
			usr.POST("", usuariosH.Crear)
			usr.GET("/:id", usuariosH.Obtener)
			usr.PUT("/:id", usuariosH.Actualizar)
			usr.DELETE("/:id", usuariosH.Eliminar)
		}
	}

	// Swagger UI, only outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
