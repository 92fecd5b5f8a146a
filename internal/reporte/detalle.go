package reporte

import (
	"sort"

	"farmacierre/internal/cuadre"
	"farmacierre/internal/model"
)

// LayoutFecha is the ISO day layout used in report rows.
const LayoutFecha = "2006-01-02"

var columnasDetalle = []Columna{
	texto("fecha", "Fecha", 12),
	texto("sucursal", "Sucursal", 20),
	texto("turno", "Turno", 15),
	texto("correlativo_inicial", "Correlativo Inicial", 15),
	texto("correlativo_final", "Correlativo Final", 15),
	texto("cuenta", "Cuenta", 25),
	moneda("monto_depositado", "Monto Depositado", 18),
	moneda("venta_tarjeta", "Venta Tarjeta", 15),
	moneda("total_ventas", "Total Ventas", 15),
	moneda("total_sistema", "Total Sistema", 15),
	moneda("gastos", "Gastos", 12),
	moneda("canjes", "Canjes", 12),
	moneda("total_vendido", "Total Vendido", 15),
	moneda("total_facturado", "Total Facturado", 17),
	moneda("total_no_facturado", "Total No Facturado", 19),
	moneda("total_meta", "Total Meta", 15),
	{Clave: "faltante", Titulo: "Faltante", Tipo: Moneda, Ancho: 12, Alerta: negativo},
	texto("observaciones", "Observaciones", 30),
}

// OrdenarRegistros sorts records by date, branch and shift order, ascending.
func OrdenarRegistros(registros []model.RegistroTurno) {
	sort.SliceStable(registros, func(i, j int) bool {
		a, b := &registros[i], &registros[j]
		fa, fb := cuadre.Dia(a.Fecha), cuadre.Dia(b.Fecha)
		if !fa.Equal(fb) {
			return fa.Before(fb)
		}
		if a.SucursalID != b.SucursalID {
			return a.SucursalID < b.SucursalID
		}
		oa, ob := ordenTurno(a), ordenTurno(b)
		if oa != ob {
			return oa < ob
		}
		return a.TurnoID < b.TurnoID
	})
}

// Detalle lists one row per shift record with its derived values and faltante.
func Detalle(registros []model.RegistroTurno) Tabla {
	regs := make([]model.RegistroTurno, len(registros))
	copy(regs, registros)
	OrdenarRegistros(regs)

	t := Tabla{Titulo: "Detalle por Turno", Columnas: columnasDetalle, Filas: make([]Fila, 0, len(regs))}
	var sumas cuadre.Sumas
	for i := range regs {
		r := &regs[i]
		der := cuadre.Calcular(cuadre.MontosDe(r))
		sumas.Agregar(r)
		t.Filas = append(t.Filas, Fila{
			"id":                  r.ID,
			"fecha":               cuadre.Dia(r.Fecha).Format(LayoutFecha),
			"sucursal":            nombreSucursal(r.Sucursal),
			"turno":               nombreTurno(r.Turno),
			"correlativo_inicial": r.CorrelativoInicial,
			"correlativo_final":   r.CorrelativoFinal,
			"cuenta":              EtiquetaCuenta(r.Cuenta),
			"monto_depositado":    r.MontoDepositado,
			"venta_tarjeta":       r.VentaTarjeta,
			"total_ventas":        der.TotalVentas,
			"total_sistema":       r.TotalSistema,
			"gastos":              r.Gastos,
			"canjes":              r.Canjes,
			"total_vendido":       der.TotalVendido,
			"total_facturado":     der.TotalFacturado,
			"total_no_facturado":  cuadre.NoFacturado(r.MontoDepositado, r.Cuenta),
			"total_meta":          der.TotalMeta,
			"faltante":            der.Faltante,
			"observaciones":       r.Observaciones,
		})
	}

	der := sumas.Derivados()
	t.Total = Fila{
		"fecha":              EtiquetaTotal,
		"monto_depositado":   sumas.Depositado,
		"venta_tarjeta":      sumas.Tarjeta,
		"total_ventas":       der.TotalVentas,
		"total_sistema":      sumas.Sistema,
		"gastos":             sumas.Gastos,
		"canjes":             sumas.Canjes,
		"total_vendido":      der.TotalVendido,
		"total_facturado":    sumas.Facturado,
		"total_no_facturado": sumas.NoFacturado,
		"total_meta":         der.TotalMeta,
		"faltante":           der.Faltante,
	}
	return t
}

// EtiquetaCuenta renders "numero - nombre", or "" without account.
func EtiquetaCuenta(c *model.Cuenta) string {
	if c == nil {
		return ""
	}
	return c.Numero + " - " + c.Nombre
}

func nombreSucursal(s *model.Sucursal) string {
	if s == nil {
		return "Sin sucursal"
	}
	return s.Nombre
}

func nombreTurno(t *model.Turno) string {
	if t == nil {
		return ""
	}
	return t.Nombre
}

func ordenTurno(r *model.RegistroTurno) int {
	if r.Turno == nil {
		return 0
	}
	return r.Turno.Orden
}
