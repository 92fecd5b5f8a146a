package reporte

import (
	"sort"

	"farmacierre/internal/cuadre"
	"farmacierre/internal/model"

	"github.com/shopspring/decimal"
)

// FilaDashboard is one branch's progress against its monthly goal.
type FilaDashboard struct {
	SucursalID     uint   `json:"sucursal_id"`
	SucursalNombre string `json:"sucursal_nombre"`
	cuadre.Proyeccion
	DiasConVentas      int    `json:"dias_con_ventas"`
	Semaforo           string `json:"semaforo"`
	SemaforoProyectado string `json:"semaforo_proyectado"`
}

// TotalesDashboard sums the dashboard rows.
type TotalesDashboard struct {
	TotalVentas     decimal.Decimal `json:"total_ventas"`
	TotalMeta       decimal.Decimal `json:"total_meta"`
	TotalProyeccion decimal.Decimal `json:"total_proyeccion"`
	PctAlcanzado    decimal.Decimal `json:"pct_alcanzado"`
	Semaforo        string          `json:"semaforo"`
}

// Dashboard is the sales-vs-goal view of one month.
type Dashboard struct {
	Anio              int              `json:"anio"`
	Mes               int              `json:"mes"`
	DiasMes           int              `json:"dias_mes"`
	DiasTranscurridos int              `json:"dias_transcurridos"`
	Sucursales        []FilaDashboard  `json:"sucursales"`
	Totales           TotalesDashboard `json:"totales"`
}

// ArmarDashboard compares each branch's total_meta for the period against its
// goal. Branches with a goal but no records appear with zero sales. Rows are
// ordered by pct_actual descending, then by name.
func ArmarDashboard(p cuadre.Periodo, registros []model.RegistroTurno, metas []model.MetaMensual) Dashboard {
	type acumulado struct {
		nombre string
		ventas decimal.Decimal
		dias   int
		meta   decimal.Decimal
	}
	por := make(map[uint]*acumulado)
	get := func(id uint, nombre string) *acumulado {
		a, ok := por[id]
		if !ok {
			a = &acumulado{nombre: nombre}
			por[id] = a
		}
		return a
	}

	for _, g := range cuadre.PorSucursal(registros) {
		a := get(g.SucursalID, g.Sucursal)
		a.ventas = g.Derivados().TotalMeta
		a.dias = g.DiasConVentas
	}
	for _, m := range metas {
		a := get(m.SucursalID, nombreSucursal(m.Sucursal))
		a.meta = a.meta.Add(m.Meta)
	}

	d := Dashboard{
		Anio:              p.Anio,
		Mes:               p.Mes,
		DiasMes:           p.DiasMes(),
		DiasTranscurridos: p.DiasTranscurridos(),
		Sucursales:        make([]FilaDashboard, 0, len(por)),
	}
	for id, a := range por {
		proy := cuadre.Proyectar(p, a.ventas, a.meta)
		d.Sucursales = append(d.Sucursales, FilaDashboard{
			SucursalID:         id,
			SucursalNombre:     a.nombre,
			Proyeccion:         proy,
			DiasConVentas:      a.dias,
			Semaforo:           proy.Nivel(),
			SemaforoProyectado: proy.NivelProyectado(),
		})
		d.Totales.TotalVentas = d.Totales.TotalVentas.Add(proy.Actual)
		d.Totales.TotalMeta = d.Totales.TotalMeta.Add(proy.Meta)
		d.Totales.TotalProyeccion = d.Totales.TotalProyeccion.Add(proy.Proyeccion)
	}
	sort.Slice(d.Sucursales, func(i, j int) bool {
		a, b := d.Sucursales[i], d.Sucursales[j]
		if !a.PctActual.Equal(b.PctActual) {
			return a.PctActual.GreaterThan(b.PctActual)
		}
		if a.SucursalNombre != b.SucursalNombre {
			return a.SucursalNombre < b.SucursalNombre
		}
		return a.SucursalID < b.SucursalID
	})
	d.Totales.PctAlcanzado = cuadre.Ratio(d.Totales.TotalVentas, d.Totales.TotalMeta)
	d.Totales.Semaforo = cuadre.Semaforo(cuadre.RatioExacto(d.Totales.TotalVentas, d.Totales.TotalMeta))
	return d
}

var columnasDashboard = []Columna{
	texto("sucursal", "Sucursal", 25),
	moneda("total_ventas", "Ventas", 15),
	moneda("meta", "Meta", 15),
	{Clave: "pct_actual", Titulo: "% Alcanzado", Tipo: Porcentaje, Ancho: 12},
	moneda("proyeccion", "Proyección", 15),
	{Clave: "pct_proyectado", Titulo: "% Proyectado", Tipo: Porcentaje, Ancho: 12},
	{Clave: "desvio", Titulo: "Desvío", Tipo: Moneda, Ancho: 15, Alerta: negativo},
	{Clave: "dias_con_ventas", Titulo: "Días con ventas", Tipo: Entero, Ancho: 12},
}

// Tabla renders the dashboard rows for export.
func (d Dashboard) Tabla() Tabla {
	t := Tabla{Titulo: "Dashboard de Ventas", Columnas: columnasDashboard, Filas: make([]Fila, 0, len(d.Sucursales))}
	for _, s := range d.Sucursales {
		t.Filas = append(t.Filas, Fila{
			"sucursal":        s.SucursalNombre,
			"total_ventas":    s.Actual,
			"meta":            s.Meta,
			"pct_actual":      s.PctActual,
			"proyeccion":      s.Proyeccion.Proyeccion,
			"pct_proyectado":  s.PctProyectado,
			"desvio":          s.Desvio,
			"dias_con_ventas": s.DiasConVentas,
		})
	}
	t.Total = Fila{
		"sucursal":     EtiquetaTotal,
		"total_ventas": d.Totales.TotalVentas,
		"meta":         d.Totales.TotalMeta,
		"pct_actual":   d.Totales.PctAlcanzado,
		"proyeccion":   d.Totales.TotalProyeccion,
		"desvio":       d.Totales.TotalProyeccion.Sub(d.Totales.TotalMeta),
	}
	return t
}
