package service_test

import (
	"context"
	"testing"
	"time"

	"farmacierre/internal/dto"
	"farmacierre/internal/repository"
	"farmacierre/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sembrar(t *testing.T, e *entorno) {
	t.Helper()
	ctx := context.Background()
	reqs := []dto.RegistroRequest{
		{Fecha: "2024-04-01", SucursalID: 1, TurnoID: 1, CuentaID: cuenta(1), MontoDepositado: dec("200"), TotalSistema: dec("6000")},
		{Fecha: "2024-04-05", SucursalID: 1, TurnoID: 1, CuentaID: cuenta(4), MontoDepositado: dec("100"), TotalSistema: dec("4000")},
		{Fecha: "2024-04-02", SucursalID: 2, TurnoID: 2, MontoDepositado: dec("50"), TotalSistema: dec("5000"), Canjes: dec("500")},
		{Fecha: "2024-05-02", SucursalID: 2, TurnoID: 2, MontoDepositado: dec("50"), TotalSistema: dec("999")},
	}
	for _, r := range reqs {
		_, err := e.svc.Crear(ctx, r)
		require.NoError(t, err)
	}
}

func TestResumenSucursal(t *testing.T) {
	e := nuevoEntorno()
	sembrar(t, e)
	inicio, fin := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)

	resp, err := e.reportes.ResumenSucursal(context.Background(), repository.RegistroFilter{FechaInicio: &inicio, FechaFin: &fin})
	require.NoError(t, err)
	require.Len(t, resp.Sucursales, 2)
	assert.Equal(t, uint(1), resp.Sucursales[0].SucursalID)
	assert.True(t, resp.Sucursales[0].TotalNoFacturado.Equal(dec("100")))
	assert.True(t, resp.Sucursales[1].TotalMeta.Equal(dec("4500")))
	assert.True(t, resp.TotalGeneral.TotalSistema.Equal(dec("15000")))
	assert.True(t, resp.TotalGeneral.TotalDepositado.Equal(dec("350")))
	assert.Equal(t, 3, resp.TotalGeneral.Registros)
}

func TestDepositosFiltraSinCuenta(t *testing.T) {
	e := nuevoEntorno()
	sembrar(t, e)
	rep, err := e.reportes.Depositos(context.Background(), repository.RegistroFilter{})
	require.NoError(t, err)
	assert.Len(t, rep.Detalle, 2)
	assert.True(t, rep.Totales.TotalGeneral.Equal(dec("300")))
	assert.True(t, rep.Totales.TotalCuentasEspeciales.Equal(dec("100")))
}

func TestDashboardUsaCache(t *testing.T) {
	e := nuevoEntorno()
	sembrar(t, e)
	ctx := context.Background()
	_, _, err := e.metaSvc.Upsert(ctx, dto.UpsertMetaRequest{SucursalID: 1, Anio: 2024, Mes: 4, Meta: dec("40000")})
	require.NoError(t, err)

	q := dto.DashboardQuery{Anio: 2024, Mes: 4, FechaCorte: "2024-04-10"}
	d, err := e.reportes.Dashboard(ctx, q)
	require.NoError(t, err)
	require.Len(t, d.Sucursales, 2)
	assert.Equal(t, 10, d.DiasTranscurridos)

	centro := d.Sucursales[0]
	assert.Equal(t, uint(1), centro.SucursalID)
	assert.True(t, centro.Actual.Equal(dec("10000")))
	assert.True(t, centro.Proyeccion.Proyeccion.Equal(dec("30000")))
	assert.True(t, centro.PctActual.Equal(dec("0.25")))
	assert.True(t, centro.Desvio.Equal(dec("-10000")))
	assert.Equal(t, 0, e.cache.hits)

	again, err := e.reportes.Dashboard(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 1, e.cache.hits)
	assert.True(t, again.Sucursales[0].PctProyectado.Equal(dec("0.75")))

	// a write bumps the version, so the next read misses
	_, err = e.svc.Crear(ctx, dto.RegistroRequest{Fecha: "2024-04-06", SucursalID: 1, TurnoID: 2, TotalSistema: dec("1")})
	require.NoError(t, err)
	_, err = e.reportes.Dashboard(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 1, e.cache.hits)
}

func TestDashboardValidaParametros(t *testing.T) {
	e := nuevoEntorno()
	_, err := e.reportes.Dashboard(context.Background(), dto.DashboardQuery{Anio: 2024, Mes: 0})
	assert.ErrorIs(t, err, service.ErrValidacion)
	_, err = e.reportes.Dashboard(context.Background(), dto.DashboardQuery{Anio: 2024, Mes: 4, FechaCorte: "10-04-2024"})
	assert.ErrorIs(t, err, service.ErrValidacion)
}

func TestEncolarEnvio(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()

	id, err := e.reportes.EncolarEnvio(ctx, dto.EnviarReporteRequest{FechaInicio: "2024-04-01", FechaFin: "2024-04-07"}, "manual")
	require.NoError(t, err)
	require.Len(t, e.cola.jobs, 1)
	assert.Equal(t, id, e.cola.jobs[0].ID)
	assert.Equal(t, []string{"gerencia@farmacia.gt"}, e.cola.jobs[0].Destinatarios)

	_, err = e.reportes.EncolarEnvio(ctx, dto.EnviarReporteRequest{FechaInicio: "2024-04-07", FechaFin: "2024-04-01"}, "manual")
	assert.ErrorIs(t, err, service.ErrValidacion)
}

func TestSemanaAnterior(t *testing.T) {
	// Wednesday
	inicio, fin := service.SemanaAnterior(time.Date(2024, 4, 17, 15, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-04-08", inicio.Format("2006-01-02"))
	assert.Equal(t, "2024-04-14", fin.Format("2006-01-02"))

	// Monday morning reports the week that just ended
	inicio, fin = service.SemanaAnterior(time.Date(2024, 4, 15, 7, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-04-08", inicio.Format("2006-01-02"))
	assert.Equal(t, "2024-04-14", fin.Format("2006-01-02"))
}
