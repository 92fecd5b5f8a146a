package dto

// DashboardQuery selects the month of the sales dashboard.
type DashboardQuery struct {
	Anio       int    `form:"anio"        validate:"required,min=2000,max=2100"`
	Mes        int    `form:"mes"         validate:"required,min=1,max=12"`
	SucursalID uint   `form:"sucursal_id"`
	FechaCorte string `form:"fecha_corte" validate:"omitempty,datetime=2006-01-02"`
}

// EnviarReporteRequest queues the global summary for email delivery.
type EnviarReporteRequest struct {
	FechaInicio   string   `json:"fecha_inicio"   validate:"required,datetime=2006-01-02"`
	FechaFin      string   `json:"fecha_fin"      validate:"required,datetime=2006-01-02"`
	Destinatarios []string `json:"destinatarios"  validate:"omitempty,dive,email"`
}

type EnviarReporteResponse struct {
	JobID   string `json:"job_id"`
	Mensaje string `json:"mensaje"`
}

// EnvioReporteJob is the payload queued for the report email worker.
type EnvioReporteJob struct {
	ID            string   `json:"id"`
	FechaInicio   string   `json:"fecha_inicio"`
	FechaFin      string   `json:"fecha_fin"`
	Destinatarios []string `json:"destinatarios"`
	Origen        string   `json:"origen"` // manual | programado
}
