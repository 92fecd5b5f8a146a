package infra

import (
	"bytes"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"farmacierre/internal/config"
	"farmacierre/internal/reporte"

	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func tablaMuestra() reporte.Tabla {
	return reporte.Tabla{
		Titulo: "Resumen Global",
		Columnas: []reporte.Columna{
			{Clave: "sucursal", Titulo: "Sucursal", Tipo: reporte.Texto, Ancho: 20},
			{Clave: "total", Titulo: "Total", Tipo: reporte.Moneda, Ancho: 14},
			{Clave: "faltante", Titulo: "Faltante", Tipo: reporte.Moneda, Ancho: 14,
				Alerta: func(v any) bool { d, ok := v.(decimal.Decimal); return ok && d.IsNegative() }},
		},
		Filas: []reporte.Fila{
			{"sucursal": "Zacapa", "total": decimal.RequireFromString("1500.50"), "faltante": decimal.Zero},
			{"sucursal": "Centro", "total": decimal.RequireFromString("900"), "faltante": decimal.RequireFromString("-25")},
		},
		Total: reporte.Fila{"sucursal": reporte.EtiquetaTotal, "total": decimal.RequireFromString("2400.50"), "faltante": decimal.RequireFromString("-25")},
	}
}

// ── Excel ────────────────────────────────────────────────────────────────────

func TestRenderExcel_WritesValuesAndTotals(t *testing.T) {
	data, err := RenderExcelBytes(tablaMuestra())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Resumen Global"}, f.GetSheetList())

	rows, err := f.GetRows("Resumen Global", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Sucursal", "Total", "Faltante"}, rows[0])
	assert.Equal(t, "Zacapa", rows[1][0])
	assert.Equal(t, "1500.5", rows[1][1])
	assert.Equal(t, reporte.EtiquetaTotal, rows[3][0])
	assert.Equal(t, "-25", rows[3][2])
}

func TestRenderExcel_OneSheetPerTable(t *testing.T) {
	a := tablaMuestra()
	b := tablaMuestra()
	b.Titulo = "Detalle: depósitos / cuentas"

	data, err := RenderExcelBytes(a, b, tablaMuestra())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Resumen Global", "Detalle- depósitos - cuentas", "Resumen Global (2)"}, f.GetSheetList())
}

func TestNombreHoja_TruncatesLongTitles(t *testing.T) {
	usadas := map[string]bool{}
	nombre := nombreHoja("Un título de reporte demasiado largo para Excel", 0, usadas)
	assert.LessOrEqual(t, len([]rune(nombre)), maxNombreHoja)
	assert.Equal(t, "Hoja 2", nombreHoja("  ", 1, usadas))
}

// ── PDF ──────────────────────────────────────────────────────────────────────

func TestRenderPDF_ProducesDocument(t *testing.T) {
	data, err := RenderPDFBytes("Reporte Detallado", "01/03/2026 al 07/03/2026", tablaMuestra())
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestRenderPDF_PaginatesLongTables(t *testing.T) {
	tabla := tablaMuestra()
	for i := 0; i < 200; i++ {
		tabla.Filas = append(tabla.Filas, reporte.Fila{"sucursal": "Norte", "total": decimal.NewFromInt(int64(i))})
	}
	data, err := RenderPDFBytes("Largo", "", tabla)
	require.NoError(t, err)
	paginas := bytes.Count(data, []byte("/Type /Page")) - bytes.Count(data, []byte("/Type /Pages"))
	assert.Greater(t, paginas, 1)
}

// ── Circuit breaker ──────────────────────────────────────────────────────────

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2, OpenTimeout: time.Minute})
	boom := errors.New("boom")

	assert.ErrorIs(t, cb.Execute(func() error { return boom }), boom)
	assert.Equal(t, CBClosed, cb.State())
	assert.ErrorIs(t, cb.Execute(func() error { return boom }), boom)
	assert.Equal(t, CBOpen, cb.State())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_HalfOpenRecovers(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: time.Minute})
	ahora := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	cb.now = func() time.Time { return ahora }

	_ = cb.Execute(func() error { return errors.New("down") })
	require.Equal(t, CBOpen, cb.State())

	ahora = ahora.Add(2 * time.Minute)
	assert.Equal(t, CBHalfOpen, cb.State())
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: time.Second})
	ahora := time.Now()
	cb.now = func() time.Time { return ahora }

	_ = cb.Execute(func() error { return errors.New("down") })
	ahora = ahora.Add(2 * time.Second)
	_ = cb.Execute(func() error { return errors.New("still down") })
	assert.Equal(t, CBOpen, cb.State())
}

func TestCircuitBreaker_Snapshot(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2, OpenTimeout: time.Minute})
	ahora := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	cb.now = func() time.Time { return ahora }

	_ = cb.Execute(func() error { return errors.New("down") })
	e := cb.Snapshot()
	assert.Equal(t, "closed", e.Estado)
	assert.Equal(t, 1, e.Fallos)
	assert.Nil(t, e.ProbarDesde)

	_ = cb.Execute(func() error { return errors.New("down") })
	e = cb.Snapshot()
	assert.Equal(t, "open", e.Estado)
	require.NotNil(t, e.ProbarDesde)
	assert.Equal(t, ahora.Add(time.Minute), *e.ProbarDesde)
}

// ── Mailer ───────────────────────────────────────────────────────────────────

func TestMailer_SendReporte(t *testing.T) {
	cfg := &config.Config{SMTPHost: "smtp.local", SMTPPort: 587, SMTPUser: "reportes@farmacia.gt"}
	m := NewMailer(cfg, nil)

	var enviado *email.Email
	var addr string
	m.send = func(e *email.Email, a string, _ smtp.Auth) error {
		enviado, addr = e, a
		return nil
	}

	err := m.SendReporte([]string{"gerencia@farmacia.gt"}, "Reporte semanal", "Adjunto",
		Adjunto{Nombre: "reporte.xlsx", ContentType: XLSXContentType, Datos: []byte("xlsx")})
	require.NoError(t, err)
	require.NotNil(t, enviado)
	assert.Equal(t, "smtp.local:587", addr)
	assert.Equal(t, []string{"gerencia@farmacia.gt"}, enviado.To)
	require.Len(t, enviado.Attachments, 1)
	assert.Equal(t, "reporte.xlsx", enviado.Attachments[0].Filename)
}

func TestMailer_NotConfigured(t *testing.T) {
	m := NewMailer(&config.Config{}, nil)
	err := m.SendReporte([]string{"a@b.c"}, "s", "b")
	assert.ErrorIs(t, err, ErrSMTPNoConfigurado)
}

func TestMailer_FailuresTripBreaker(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2, OpenTimeout: time.Minute})
	m := NewMailer(&config.Config{SMTPHost: "smtp.local", SMTPPort: 25}, cb)
	m.send = func(*email.Email, string, smtp.Auth) error { return errors.New("connection refused") }

	for i := 0; i < 2; i++ {
		assert.Error(t, m.SendReporte([]string{"a@b.c"}, "s", "b"))
	}
	assert.ErrorIs(t, m.SendReporte([]string{"a@b.c"}, "s", "b"), ErrCircuitOpen)
	assert.Equal(t, CBOpen, m.Breaker().State())
}
