package dto

// ── Sucursales ────────────────────────────────────────────────────────────────

type SucursalRequest struct {
	Nombre       string `json:"nombre"        validate:"required,min=2,max=100"`
	Direccion    string `json:"direccion"     validate:"max=255"`
	DistritoID   *uint  `json:"distrito_id"   validate:"omitempty,min=1"`
	DiasAtencion string `json:"dias_atencion" validate:"omitempty,dias_atencion"`
	Activo       *bool  `json:"activo"`
}

// ── Turnos ────────────────────────────────────────────────────────────────────

type TurnoRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2,max=50"`
	Orden  int    `json:"orden"  validate:"min=0"`
	Activo *bool  `json:"activo"`
}

// ── Cuentas ───────────────────────────────────────────────────────────────────

type CuentaRequest struct {
	Numero     string `json:"numero"      validate:"required,max=50"`
	Nombre     string `json:"nombre"      validate:"required,max=100"`
	Banco      string `json:"banco"       validate:"required,max=100"`
	EsEspecial bool   `json:"es_especial"`
	Activo     *bool  `json:"activo"`
}

// ── Distritos ─────────────────────────────────────────────────────────────────

type DistritoRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2,max=100"`
}

// ── Usuarios ──────────────────────────────────────────────────────────────────

type UsuarioRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Nombre   string `json:"nombre"   validate:"required,min=2,max=100"`
}

// MensajeResponse acknowledges a delete.
type MensajeResponse struct {
	Mensaje string `json:"mensaje"`
}
