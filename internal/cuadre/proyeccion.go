package cuadre

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal thresholds for the dashboard traffic light, as fractions of the goal.
var (
	UmbralVerde    = decimal.NewFromInt(1)
	UmbralAmarillo = decimal.RequireFromString("0.95")
	UmbralAzul     = decimal.RequireFromString("0.90")
)

// Semaforo buckets a goal ratio: "verde" | "amarillo" | "azul" | "rojo".
func Semaforo(pct decimal.Decimal) string {
	switch {
	case pct.GreaterThanOrEqual(UmbralVerde):
		return "verde"
	case pct.GreaterThanOrEqual(UmbralAmarillo):
		return "amarillo"
	case pct.GreaterThanOrEqual(UmbralAzul):
		return "azul"
	default:
		return "rojo"
	}
}

// Periodo is a target month with an optional cutoff date.
type Periodo struct {
	Anio       int
	Mes        int
	FechaCorte *time.Time
}

// Inicio is the first day of the month.
func (p Periodo) Inicio() time.Time {
	return time.Date(p.Anio, time.Month(p.Mes), 1, 0, 0, 0, 0, time.UTC)
}

// Fin is the last day of the month.
func (p Periodo) Fin() time.Time {
	return p.Inicio().AddDate(0, 1, -1)
}

// DiasMes is the number of calendar days in the month.
func (p Periodo) DiasMes() int {
	return p.Fin().Day()
}

// DiasTranscurridos is the cutoff's day of month when the cutoff falls inside
// the month; otherwise the whole month is taken as elapsed.
func (p Periodo) DiasTranscurridos() int {
	if p.FechaCorte == nil {
		return p.DiasMes()
	}
	corte := Dia(*p.FechaCorte)
	if corte.Before(p.Inicio()) || corte.After(p.Fin()) {
		return p.DiasMes()
	}
	return corte.Day()
}

// Proyeccion compares a branch's month-to-date sales against its goal.
type Proyeccion struct {
	DiasMes           int             `json:"dias_mes"`
	DiasTranscurridos int             `json:"dias_transcurridos"`
	Actual            decimal.Decimal `json:"total_ventas"`
	Meta              decimal.Decimal `json:"meta"`
	PctActual         decimal.Decimal `json:"pct_actual"`
	Proyeccion        decimal.Decimal `json:"proyeccion"`
	PctProyectado     decimal.Decimal `json:"pct_proyectado"`
	Desvio            decimal.Decimal `json:"desvio"`

	// unrounded ratios; the traffic light is bucketed on these
	pctActual     decimal.Decimal
	pctProyectado decimal.Decimal
}

// Nivel is the traffic light of the month-to-date ratio.
func (p Proyeccion) Nivel() string { return Semaforo(p.pctActual) }

// NivelProyectado is the traffic light of the projected ratio.
func (p Proyeccion) NivelProyectado() string { return Semaforo(p.pctProyectado) }

// Proyectar runs the linear day-rate projection:
//
//	proyeccion     = actual / dias_transcurridos * dias_mes
//	pct_actual     = actual / meta
//	pct_proyectado = proyeccion / meta
//	desvio         = proyeccion - meta
//
// Every division by zero yields zero.
func Proyectar(p Periodo, actual, meta decimal.Decimal) Proyeccion {
	res := Proyeccion{
		DiasMes:           p.DiasMes(),
		DiasTranscurridos: p.DiasTranscurridos(),
		Actual:            actual.Round(2),
		Meta:              meta.Round(2),
	}
	proyeccion := decimal.Zero
	if res.DiasTranscurridos > 0 {
		proyeccion = actual.
			Mul(decimal.NewFromInt(int64(res.DiasMes))).
			Div(decimal.NewFromInt(int64(res.DiasTranscurridos)))
	}
	res.pctActual = RatioExacto(actual, meta)
	res.pctProyectado = RatioExacto(proyeccion, meta)

	res.Proyeccion = proyeccion.Round(2)
	res.PctActual = res.pctActual.Round(4)
	res.PctProyectado = res.pctProyectado.Round(4)
	res.Desvio = proyeccion.Sub(meta).Round(2)
	return res
}

// Ratio is num/den rounded to 4 places, or zero when den is zero.
func Ratio(num, den decimal.Decimal) decimal.Decimal {
	return RatioExacto(num, den).Round(4)
}

// RatioExacto is num/den at full division precision, or zero when den is
// zero. Classify on this, display Ratio.
func RatioExacto(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den)
}
