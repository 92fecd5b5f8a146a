package reporte

import (
	"farmacierre/internal/cuadre"
	"farmacierre/internal/model"

	"github.com/shopspring/decimal"
)

// DetalleDeposito is one deposit in the flat listing.
type DetalleDeposito struct {
	ID              uint            `json:"id"`
	Fecha           string          `json:"fecha"`
	SucursalNombre  string          `json:"sucursal_nombre"`
	TurnoNombre     string          `json:"turno_nombre"`
	CuentaNumero    string          `json:"cuenta_numero"`
	CuentaNombre    string          `json:"cuenta_nombre"`
	Banco           string          `json:"banco"`
	MontoDepositado decimal.Decimal `json:"monto_depositado"`
	EsEspecial      bool            `json:"es_especial"`
}

// TotalesDepositos splits the grand total between normal and special accounts.
type TotalesDepositos struct {
	TotalGeneral           decimal.Decimal `json:"total_general"`
	TotalCuentasNormales   decimal.Decimal `json:"total_cuentas_normales"`
	TotalCuentasEspeciales decimal.Decimal `json:"total_cuentas_especiales"`
}

// ReporteDepositos is the deposits-by-account report.
type ReporteDepositos struct {
	ResumenPorCuenta []cuadre.GrupoCuenta `json:"resumen_por_cuenta"`
	Detalle          []DetalleDeposito    `json:"detalle"`
	Totales          TotalesDepositos     `json:"totales"`
}

// DepositosPorCuenta builds the account summary and the per-deposit listing.
// Records without an account or with a non-positive deposit are left out of both.
func DepositosPorCuenta(registros []model.RegistroTurno) ReporteDepositos {
	res := cuadre.PorCuenta(registros)

	regs := make([]model.RegistroTurno, 0, len(registros))
	for i := range registros {
		if cuadre.EsDeposito(&registros[i]) {
			regs = append(regs, registros[i])
		}
	}
	OrdenarRegistros(regs)

	detalle := make([]DetalleDeposito, 0, len(regs))
	for i := range regs {
		r := &regs[i]
		d := DetalleDeposito{
			ID:              r.ID,
			Fecha:           cuadre.Dia(r.Fecha).Format(LayoutFecha),
			SucursalNombre:  nombreSucursal(r.Sucursal),
			TurnoNombre:     nombreTurno(r.Turno),
			MontoDepositado: r.MontoDepositado,
		}
		if r.Cuenta != nil {
			d.CuentaNumero = r.Cuenta.Numero
			d.CuentaNombre = r.Cuenta.Nombre
			d.Banco = r.Cuenta.Banco
			d.EsEspecial = r.Cuenta.EsEspecial
		}
		detalle = append(detalle, d)
	}

	return ReporteDepositos{
		ResumenPorCuenta: res.Cuentas,
		Detalle:          detalle,
		Totales: TotalesDepositos{
			TotalGeneral:           res.TotalGeneral,
			TotalCuentasNormales:   res.TotalNormales,
			TotalCuentasEspeciales: res.TotalEspeciales,
		},
	}
}

var columnasResumenCuentas = []Columna{
	texto("cuenta_numero", "Número de Cuenta", 18),
	texto("cuenta_nombre", "Nombre", 28),
	texto("banco", "Banco", 15),
	texto("tipo", "Tipo", 12),
	{Clave: "cantidad_depositos", Titulo: "Depósitos", Tipo: Entero, Ancho: 12},
	moneda("total_depositado", "Total Depositado", 18),
}

var columnasDetalleDepositos = []Columna{
	texto("fecha", "Fecha", 12),
	texto("sucursal", "Sucursal", 22),
	texto("turno", "Turno", 14),
	texto("cuenta_numero", "Cuenta", 16),
	texto("cuenta_nombre", "Nombre", 26),
	texto("banco", "Banco", 14),
	moneda("monto_depositado", "Monto", 15),
	texto("tipo", "Tipo", 12),
}

// Tablas renders the report as two tables: the summary with its TOTAL GENERAL
// row, and the flat detail.
func (r ReporteDepositos) Tablas() []Tabla {
	resumen := Tabla{Titulo: "Resumen por Cuenta", Columnas: columnasResumenCuentas, Filas: make([]Fila, 0, len(r.ResumenPorCuenta))}
	var cantidad int
	for _, c := range r.ResumenPorCuenta {
		cantidad += c.CantidadDepositos
		resumen.Filas = append(resumen.Filas, Fila{
			"cuenta_numero":      c.Numero,
			"cuenta_nombre":      c.Nombre,
			"banco":              c.Banco,
			"tipo":               tipoCuenta(c.EsEspecial),
			"cantidad_depositos": c.CantidadDepositos,
			"total_depositado":   c.TotalDepositado,
		})
	}
	resumen.Total = Fila{
		"cuenta_numero":      EtiquetaTotal,
		"cantidad_depositos": cantidad,
		"total_depositado":   r.Totales.TotalGeneral,
	}

	detalle := Tabla{Titulo: "Detalle de Depósitos", Columnas: columnasDetalleDepositos, Filas: make([]Fila, 0, len(r.Detalle))}
	for _, d := range r.Detalle {
		detalle.Filas = append(detalle.Filas, Fila{
			"fecha":            d.Fecha,
			"sucursal":         d.SucursalNombre,
			"turno":            d.TurnoNombre,
			"cuenta_numero":    d.CuentaNumero,
			"cuenta_nombre":    d.CuentaNombre,
			"banco":            d.Banco,
			"monto_depositado": d.MontoDepositado,
			"tipo":             tipoCuenta(d.EsEspecial),
		})
	}
	return []Tabla{resumen, detalle}
}

func tipoCuenta(especial bool) string {
	if especial {
		return "Especial"
	}
	return "Normal"
}
