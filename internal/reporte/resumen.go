package reporte

import (
	"farmacierre/internal/cuadre"
	"farmacierre/internal/model"
)

var columnasResumenDiario = []Columna{
	texto("fecha", "Fecha", 12),
	texto("sucursal", "Sucursal", 25),
	moneda("total_depositado", "Total Depositado", 18),
	moneda("total_tarjeta", "Total Tarjeta", 15),
	moneda("total_ventas", "Total Ventas", 15),
	moneda("total_sistema", "Total Sistema", 15),
	moneda("total_facturado", "Total Facturado", 17),
	{Clave: "faltante", Titulo: "Faltante", Tipo: Moneda, Ancho: 12, Alerta: negativo},
	{Clave: "tiene_faltante", Titulo: "¿Faltante?", Tipo: Texto, Ancho: 12, Alerta: marcado},
}

var columnasGlobal = []Columna{
	texto("sucursal", "Sucursal", 25),
	moneda("total_depositado", "Total Depositado", 18),
	moneda("total_tarjeta", "Total Tarjeta", 15),
	moneda("total_ventas", "Total Ventas", 15),
	moneda("total_sistema", "Total Sistema", 15),
	moneda("total_facturado", "Total Facturado", 17),
	moneda("total_no_facturado", "Total No Facturado", 19),
	moneda("total_gastos", "Total Gastos", 14),
	moneda("total_canjes", "Total Canjes", 14),
	moneda("total_vendido", "Total Vendido", 15),
	moneda("total_meta", "Total Meta", 15),
}

// ResumenDiario has one row per (day, branch) with the shortage flag.
func ResumenDiario(registros []model.RegistroTurno) Tabla {
	grupos := cuadre.PorFechaSucursal(registros)
	t := Tabla{Titulo: "Resumen Diario", Columnas: columnasResumenDiario, Filas: make([]Fila, 0, len(grupos))}
	for _, g := range grupos {
		der := g.Derivados()
		t.Filas = append(t.Filas, Fila{
			"fecha":            g.Fecha.Format(LayoutFecha),
			"sucursal_id":      g.SucursalID,
			"sucursal":         g.Sucursal,
			"total_depositado": g.Depositado,
			"total_tarjeta":    g.Tarjeta,
			"total_ventas":     der.TotalVentas,
			"total_sistema":    g.Sistema,
			"total_facturado":  g.Facturado,
			"faltante":         der.Faltante,
			"tiene_faltante":   siNo(der.TieneFaltante()),
		})
	}
	return t
}

// ResumenGlobal has one row per branch, alphabetically, and a TOTAL GENERAL row
// summed from those rows.
func ResumenGlobal(registros []model.RegistroTurno) Tabla {
	grupos := cuadre.PorSucursal(registros)
	cuadre.OrdenarPorNombre(grupos)

	t := Tabla{Titulo: "Resumen Global", Columnas: columnasGlobal, Filas: make([]Fila, 0, len(grupos))}
	for _, g := range grupos {
		f := filaSumas(g.Sumas)
		f["sucursal_id"] = g.SucursalID
		f["sucursal"] = g.Sucursal
		t.Filas = append(t.Filas, f)
	}
	t.Total = filaSumas(cuadre.TotalSucursales(grupos))
	t.Total["sucursal"] = EtiquetaTotal
	return t
}

// ResumenGlobalDiario breaks the global summary out by (day, branch). The
// TOTAL GENERAL row is summed from the daily rows.
func ResumenGlobalDiario(registros []model.RegistroTurno) Tabla {
	grupos := cuadre.PorFechaSucursal(registros)
	cols := append([]Columna{texto("fecha", "Fecha", 12)}, columnasGlobal...)

	t := Tabla{Titulo: "Resumen Global Diario", Columnas: cols, Filas: make([]Fila, 0, len(grupos))}
	for _, g := range grupos {
		f := filaSumas(g.Sumas)
		f["fecha"] = g.Fecha.Format(LayoutFecha)
		f["sucursal_id"] = g.SucursalID
		f["sucursal"] = g.Sucursal
		t.Filas = append(t.Filas, f)
	}
	t.Total = filaSumas(cuadre.TotalDiario(grupos))
	t.Total["fecha"] = EtiquetaTotal
	return t
}

func filaSumas(s cuadre.Sumas) Fila {
	der := s.Derivados()
	return Fila{
		"total_depositado":   s.Depositado,
		"total_tarjeta":      s.Tarjeta,
		"total_ventas":       der.TotalVentas,
		"total_sistema":      s.Sistema,
		"total_facturado":    s.Facturado,
		"total_no_facturado": s.NoFacturado,
		"total_gastos":       s.Gastos,
		"total_canjes":       s.Canjes,
		"total_vendido":      der.TotalVendido,
		"total_meta":         der.TotalMeta,
	}
}
