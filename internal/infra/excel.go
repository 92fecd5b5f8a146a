package infra

// excel.go: report workbooks using excelize.
// One sheet per reporte.Tabla. Money columns are written as numbers with a
// quetzal number format so totals stay editable in the spreadsheet.

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"farmacierre/internal/reporte"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	formatoQuetzal    = `"Q"#,##0.00`
	formatoPorcentaje = "0.0%"
	maxNombreHoja     = 31
)

type estilosExcel struct {
	encabezado int
	texto      int
	moneda     int
	porcentaje int
	entero     int
	// alerta variants are indexed by the same column type keys.
	alerta map[reporte.Tipo]int
	total  map[reporte.Tipo]int
}

// RenderExcel writes tablas as a workbook to w.
func RenderExcel(w io.Writer, tablas ...reporte.Tabla) error {
	f := excelize.NewFile()
	defer f.Close()

	est, err := nuevosEstilos(f)
	if err != nil {
		return fmt.Errorf("excel: styles: %w", err)
	}

	usadas := map[string]bool{}
	for i, t := range tablas {
		hoja := nombreHoja(t.Titulo, i, usadas)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", hoja); err != nil {
				return fmt.Errorf("excel: rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(hoja); err != nil {
			return fmt.Errorf("excel: new sheet: %w", err)
		}
		if err := escribirHoja(f, hoja, t, est); err != nil {
			return fmt.Errorf("excel: sheet %q: %w", hoja, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("excel: write: %w", err)
	}
	return nil
}

// RenderExcelBytes is RenderExcel into memory, for email attachments.
func RenderExcelBytes(tablas ...reporte.Tabla) ([]byte, error) {
	var buf bytes.Buffer
	if err := RenderExcel(&buf, tablas...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func escribirHoja(f *excelize.File, hoja string, t reporte.Tabla, est estilosExcel) error {
	for i, c := range t.Columnas {
		celda, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(hoja, celda, c.Titulo); err != nil {
			return err
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		ancho := c.Ancho
		if ancho <= 0 {
			ancho = 12
		}
		if err := f.SetColWidth(hoja, col, col, ancho); err != nil {
			return err
		}
	}
	if len(t.Columnas) > 0 {
		ultima, _ := excelize.CoordinatesToCellName(len(t.Columnas), 1)
		if err := f.SetCellStyle(hoja, "A1", ultima, est.encabezado); err != nil {
			return err
		}
	}

	fila := 2
	escribir := func(r reporte.Fila, total bool) error {
		for i, c := range t.Columnas {
			celda, _ := excelize.CoordinatesToCellName(i+1, fila)
			v := r[c.Clave]
			if err := f.SetCellValue(hoja, celda, valorCelda(c, v)); err != nil {
				return err
			}
			estilo := est.base(c.Tipo)
			switch {
			case c.Alerta != nil && c.Alerta(v):
				estilo = est.alerta[c.Tipo]
			case total:
				estilo = est.total[c.Tipo]
			}
			if err := f.SetCellStyle(hoja, celda, celda, estilo); err != nil {
				return err
			}
		}
		fila++
		return nil
	}

	for _, r := range t.Filas {
		if err := escribir(r, false); err != nil {
			return err
		}
	}
	if t.Total != nil {
		if err := escribir(t.Total, true); err != nil {
			return err
		}
	}
	return f.SetPanes(hoja, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func valorCelda(c reporte.Columna, v any) any {
	switch val := v.(type) {
	case nil:
		return ""
	case decimal.Decimal:
		return val.InexactFloat64()
	case string, int, int64, float64, bool:
		return val
	default:
		return reporte.Formatear(c, v)
	}
}

func (e estilosExcel) base(t reporte.Tipo) int {
	switch t {
	case reporte.Moneda:
		return e.moneda
	case reporte.Porcentaje:
		return e.porcentaje
	case reporte.Entero:
		return e.entero
	default:
		return e.texto
	}
}

func nuevosEstilos(f *excelize.File) (estilosExcel, error) {
	borde := []excelize.Border{
		{Type: "left", Color: "BFBFBF", Style: 1},
		{Type: "right", Color: "BFBFBF", Style: 1},
		{Type: "top", Color: "BFBFBF", Style: 1},
		{Type: "bottom", Color: "BFBFBF", Style: 1},
	}
	quetzal := formatoQuetzal
	pct := formatoPorcentaje

	nuevo := func(s *excelize.Style) (int, error) {
		s.Border = borde
		return f.NewStyle(s)
	}
	variante := func(font *excelize.Font, fill excelize.Fill) (map[reporte.Tipo]int, error) {
		out := map[reporte.Tipo]int{}
		for _, t := range []reporte.Tipo{reporte.Texto, reporte.Moneda, reporte.Porcentaje, reporte.Entero} {
			s := &excelize.Style{Font: font, Fill: fill}
			switch t {
			case reporte.Moneda:
				s.CustomNumFmt = &quetzal
			case reporte.Porcentaje:
				s.CustomNumFmt = &pct
			case reporte.Entero:
				s.NumFmt = 3
			}
			id, err := nuevo(s)
			if err != nil {
				return nil, err
			}
			out[t] = id
		}
		return out, nil
	}

	var est estilosExcel
	var err error
	if est.encabezado, err = nuevo(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	}); err != nil {
		return est, err
	}

	normales, err := variante(nil, excelize.Fill{})
	if err != nil {
		return est, err
	}
	est.texto = normales[reporte.Texto]
	est.moneda = normales[reporte.Moneda]
	est.porcentaje = normales[reporte.Porcentaje]
	est.entero = normales[reporte.Entero]

	if est.alerta, err = variante(
		&excelize.Font{Bold: true, Color: "C00000"},
		excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
	); err != nil {
		return est, err
	}
	if est.total, err = variante(
		&excelize.Font{Bold: true},
		excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
	); err != nil {
		return est, err
	}
	return est, nil
}

// nombreHoja makes a valid, unique sheet name from a table title.
func nombreHoja(titulo string, i int, usadas map[string]bool) string {
	limpio := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(titulo))
	if limpio == "" {
		limpio = fmt.Sprintf("Hoja %d", i+1)
	}
	if r := []rune(limpio); len(r) > maxNombreHoja {
		limpio = string(r[:maxNombreHoja])
	}
	nombre := limpio
	for n := 2; usadas[nombre]; n++ {
		suf := fmt.Sprintf(" (%d)", n)
		r := []rune(limpio)
		if len(r)+len(suf) > maxNombreHoja {
			r = r[:maxNombreHoja-len(suf)]
		}
		nombre = string(r) + suf
	}
	usadas[nombre] = true
	return nombre
}
