// Package cuadre holds the shift reconciliation arithmetic: derived totals of a
// single shift record, grouped sums across records, and the monthly goal
// projection. Everything here is pure and total; no function returns an error.
package cuadre

import (
	"farmacierre/internal/model"

	"github.com/shopspring/decimal"
)

// Montos are the raw amounts captured when a shift is closed. A zero-value
// decimal stands for a missing input.
type Montos struct {
	MontoDepositado decimal.Decimal
	VentaTarjeta    decimal.Decimal
	TotalSistema    decimal.Decimal
	Gastos          decimal.Decimal
	Canjes          decimal.Decimal
}

// Derivados are the values computed from Montos.
type Derivados struct {
	TotalVentas    decimal.Decimal
	TotalVendido   decimal.Decimal
	TotalFacturado decimal.Decimal
	TotalMeta      decimal.Decimal
	// Faltante is not persisted. Negative means the system expected more than was collected.
	Faltante decimal.Decimal
}

// TieneFaltante reports a shortage.
func (d Derivados) TieneFaltante() bool { return d.Faltante.IsNegative() }

// Calcular applies the shift formulas:
//
//	total_ventas    = depositado + tarjeta
//	total_vendido   = sistema - gastos - canjes
//	total_facturado = total_ventas
//	total_meta      = total_vendido + gastos
//	faltante        = sistema - (depositado + tarjeta + gastos)
//
// Canjes never enters faltante.
func Calcular(m Montos) Derivados {
	ventas := m.MontoDepositado.Add(m.VentaTarjeta)
	vendido := m.TotalSistema.Sub(m.Gastos).Sub(m.Canjes)
	return Derivados{
		TotalVentas:    ventas.Round(2),
		TotalVendido:   vendido.Round(2),
		TotalFacturado: ventas.Round(2),
		TotalMeta:      vendido.Add(m.Gastos).Round(2),
		Faltante:       Faltante(m.TotalSistema, m.MontoDepositado, m.VentaTarjeta, m.Gastos),
	}
}

// Faltante is sistema - (depositado + tarjeta + gastos).
func Faltante(sistema, depositado, tarjeta, gastos decimal.Decimal) decimal.Decimal {
	return sistema.Sub(depositado.Add(tarjeta).Add(gastos)).Round(2)
}

// NoFacturado returns the deposit when it went to a special account, else zero.
// A record without an account contributes zero.
func NoFacturado(monto decimal.Decimal, cuenta *model.Cuenta) decimal.Decimal {
	if cuenta == nil || !cuenta.EsEspecial {
		return decimal.Zero
	}
	return monto.Round(2)
}

// MontosDe extracts the raw amounts of a stored record.
func MontosDe(r *model.RegistroTurno) Montos {
	return Montos{
		MontoDepositado: r.MontoDepositado,
		VentaTarjeta:    r.VentaTarjeta,
		TotalSistema:    r.TotalSistema,
		Gastos:          r.Gastos,
		Canjes:          r.Canjes,
	}
}

// Aplicar overwrites the persisted derived columns of r. cuenta is the
// resolved account referenced by r.CuentaID (nil when none).
func Aplicar(r *model.RegistroTurno, cuenta *model.Cuenta) Derivados {
	d := Calcular(MontosDe(r))
	r.TotalVentas = d.TotalVentas
	r.TotalVendido = d.TotalVendido
	r.TotalFacturado = d.TotalFacturado
	r.TotalMeta = d.TotalMeta
	r.TotalNoFacturado = NoFacturado(r.MontoDepositado, cuenta)
	return d
}
