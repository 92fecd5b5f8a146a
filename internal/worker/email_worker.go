package worker

// email_worker.go
// Processes QueueReporteEmail jobs: builds the global summary workbook for the
// requested range and mails it to the recipients.

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"farmacierre/internal/dto"
	"farmacierre/internal/infra"
	"farmacierre/internal/reporte"
	"farmacierre/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ErrPayloadInvalido marks a job that can never succeed.
var ErrPayloadInvalido = fmt.Errorf("email_worker: invalid payload: %w", ErrPermanente)

// Reportes is the slice of the report service the worker needs.
type Reportes interface {
	ResumenGlobal(ctx context.Context, filtro repository.RegistroFilter) (reporte.Tabla, error)
	ResumenGlobalDiario(ctx context.Context, filtro repository.RegistroFilter) (reporte.Tabla, error)
	Depositos(ctx context.Context, filtro repository.RegistroFilter) (reporte.ReporteDepositos, error)
}

// Enviador sends an email with attachments.
type Enviador interface {
	SendReporte(to []string, subject, body string, adjuntos ...infra.Adjunto) error
}

// EmailWorker processes report email jobs.
type EmailWorker struct {
	reportes Reportes
	mailer   Enviador
	archivo  string
}

// NewEmailWorker creates an EmailWorker with the provided SMTP mailer. When
// archivo is set every workbook sent is also kept there as {job_id}.xlsx.
func NewEmailWorker(reportes Reportes, mailer Enviador, archivo string) *EmailWorker {
	return &EmailWorker{reportes: reportes, mailer: mailer, archivo: archivo}
}

// Process renders the workbook and sends it. Returned errors are retried by
// the pool, except ErrPayloadInvalido.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var job dto.EnvioReporteJob
	if err := json.Unmarshal(raw, &job); err != nil {
		return fmt.Errorf("%w: %v", ErrPayloadInvalido, err)
	}
	if len(job.Destinatarios) == 0 {
		log.Warn().Str("job_id", job.ID).Msg("email_worker: no recipients, skipping")
		return nil
	}
	inicio, err := parseDia(job.FechaInicio)
	if err != nil {
		return fmt.Errorf("%w: fecha_inicio: %v", ErrPayloadInvalido, err)
	}
	fin, err := parseDia(job.FechaFin)
	if err != nil {
		return fmt.Errorf("%w: fecha_fin: %v", ErrPayloadInvalido, err)
	}
	filtro := repository.RegistroFilter{FechaInicio: &inicio, FechaFin: &fin, Orden: repository.OrdenAsc}

	global, err := w.reportes.ResumenGlobal(ctx, filtro)
	if err != nil {
		return fmt.Errorf("email_worker: resumen global: %w", err)
	}
	diario, err := w.reportes.ResumenGlobalDiario(ctx, filtro)
	if err != nil {
		return fmt.Errorf("email_worker: resumen diario: %w", err)
	}
	depositos, err := w.reportes.Depositos(ctx, filtro)
	if err != nil {
		return fmt.Errorf("email_worker: depositos: %w", err)
	}

	tablas := append([]reporte.Tabla{global, diario}, depositos.Tablas()...)
	libro, err := infra.RenderExcelBytes(tablas...)
	if err != nil {
		return fmt.Errorf("email_worker: render: %w", err)
	}

	periodo := fmt.Sprintf("%s al %s", reporte.FormatoFecha(inicio), reporte.FormatoFecha(fin))
	asunto := "Resumen global de cierres " + periodo
	cuerpo := fmt.Sprintf(
		"Adjunto el resumen global de cierres de turno del %s.\n\nSucursales: %d\nTotal ventas: %s\n",
		periodo, len(global.Filas), totalVentas(global),
	)
	adjunto := infra.Adjunto{
		Nombre:      fmt.Sprintf("resumen_global_%s_%s.xlsx", job.FechaInicio, job.FechaFin),
		ContentType: infra.XLSXContentType,
		Datos:       libro,
	}
	if err := w.mailer.SendReporte(job.Destinatarios, asunto, cuerpo, adjunto); err != nil {
		return fmt.Errorf("email_worker: send: %w", err)
	}
	w.archivar(job.ID, libro)

	log.Info().
		Str("job_id", job.ID).
		Str("origen", job.Origen).
		Strs("to", job.Destinatarios).
		Msg("email_worker: reporte sent successfully")
	return nil
}

// totalVentas reads the TOTAL GENERAL row; an empty period reports Q 0.00.
func totalVentas(t reporte.Tabla) string {
	v, ok := t.Total["total_ventas"].(decimal.Decimal)
	if !ok {
		v = decimal.Zero
	}
	return reporte.FormatoMoneda(v)
}

func (w *EmailWorker) archivar(id string, libro []byte) {
	if w.archivo == "" || id == "" {
		return
	}
	if err := os.MkdirAll(w.archivo, 0o755); err != nil {
		log.Warn().Err(err).Str("dir", w.archivo).Msg("email_worker: cannot create archive dir")
		return
	}
	path := filepath.Join(w.archivo, id+".xlsx")
	if err := os.WriteFile(path, libro, 0o644); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("email_worker: archive failed")
	}
}

func parseDia(s string) (time.Time, error) {
	return time.ParseInLocation(reporte.LayoutFecha, s, time.UTC)
}
