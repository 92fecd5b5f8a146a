// Package reporte assembles presentation-ready tables from shift records. It
// owns row selection, ordering and totals; currency symbols, fonts and file
// formats belong to the renderers in internal/infra.
package reporte

import "github.com/shopspring/decimal"

// Tipo tells a renderer how to format a column.
type Tipo string

const (
	Texto      Tipo = "texto"
	Moneda     Tipo = "moneda"
	Entero     Tipo = "entero"
	Porcentaje Tipo = "porcentaje"
)

// EtiquetaTotal labels the grand-total row.
const EtiquetaTotal = "TOTAL GENERAL"

// Columna describes one column of a Tabla.
type Columna struct {
	Clave  string  `json:"clave"`
	Titulo string  `json:"titulo"`
	Tipo   Tipo    `json:"tipo"`
	Ancho  float64 `json:"-"`
	// Alerta marks a cell that must be highlighted (shortages).
	Alerta func(v any) bool `json:"-"`
}

// Fila maps a column key to its value. Money values are decimal.Decimal.
type Fila map[string]any

// Tabla is an ordered set of rows plus an optional totals row.
type Tabla struct {
	Titulo   string    `json:"titulo"`
	Columnas []Columna `json:"columnas"`
	Filas    []Fila    `json:"filas"`
	Total    Fila      `json:"total,omitempty"`
}

// Resaltada reports whether any cell of f is flagged by its column's Alerta.
func (t Tabla) Resaltada(f Fila) bool {
	for _, c := range t.Columnas {
		if c.Alerta != nil && c.Alerta(f[c.Clave]) {
			return true
		}
	}
	return false
}

func negativo(v any) bool {
	dec, ok := v.(decimal.Decimal)
	return ok && dec.IsNegative()
}

func marcado(v any) bool {
	s, ok := v.(string)
	return ok && s == Si
}

// Si / No are the shortage flag values.
const (
	Si = "SÍ"
	No = "NO"
)

func siNo(b bool) string {
	if b {
		return Si
	}
	return No
}

func moneda(clave, titulo string, ancho float64) Columna {
	return Columna{Clave: clave, Titulo: titulo, Tipo: Moneda, Ancho: ancho}
}

func texto(clave, titulo string, ancho float64) Columna {
	return Columna{Clave: clave, Titulo: titulo, Tipo: Texto, Ancho: ancho}
}
