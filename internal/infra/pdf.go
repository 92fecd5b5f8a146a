package infra

// pdf.go: report PDFs using go-pdf/fpdf.
// Landscape Letter pages with:
//   - Title and subtitle (period, generation date)
//   - One block per reporte.Tabla: header row, body rows, bold totals
//   - Rows carrying a shortage printed in red
//
// Column widths come from Columna.Ancho, scaled to the printable width.

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"farmacierre/internal/reporte"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargen  = 10.0
	pdfAltoFil = 6.0
)

// RenderPDF writes tablas as a single PDF document to w.
func RenderPDF(w io.Writer, titulo, subtitulo string, tablas ...reporte.Tabla) error {
	pdf := fpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(pdfMargen, pdfMargen, pdfMargen)
	pdf.SetAutoPageBreak(true, pdfMargen)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 2*pdfMargen

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, tr(titulo), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	if subtitulo != "" {
		pdf.CellFormat(contentW, 5, tr(subtitulo), "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(contentW, 5, tr("Generado: "+time.Now().Format("02/01/2006 15:04")), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	for i, t := range tablas {
		if i > 0 {
			pdf.Ln(5)
		}
		tablaPDF(pdf, tr, t, contentW)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: write: %w", err)
	}
	return nil
}

// RenderPDFBytes is RenderPDF into memory.
func RenderPDFBytes(titulo, subtitulo string, tablas ...reporte.Tabla) ([]byte, error) {
	var buf bytes.Buffer
	if err := RenderPDF(&buf, titulo, subtitulo, tablas...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func tablaPDF(pdf *fpdf.Fpdf, tr func(string) string, t reporte.Tabla, contentW float64) {
	anchos := escalarAnchos(t.Columnas, contentW)

	if t.Titulo != "" {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(contentW, 7, tr(t.Titulo), "", 1, "L", false, 0, "")
	}

	encabezado := func() {
		pdf.SetFont("Helvetica", "B", 7)
		pdf.SetFillColor(68, 114, 196)
		pdf.SetTextColor(255, 255, 255)
		for i, c := range t.Columnas {
			pdf.CellFormat(anchos[i], pdfAltoFil, tr(c.Titulo), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
	}
	encabezado()

	_, pageH := pdf.GetPageSize()
	fila := func(f reporte.Fila, estilo string) {
		if pdf.GetY()+pdfAltoFil > pageH-pdfMargen {
			pdf.AddPage()
			encabezado()
		}
		pdf.SetFont("Helvetica", estilo, 7)
		if t.Resaltada(f) {
			pdf.SetTextColor(192, 0, 0)
		}
		for i, c := range t.Columnas {
			pdf.CellFormat(anchos[i], pdfAltoFil, tr(reporte.Formatear(c, f[c.Clave])), "1", 0, alineacion(c), false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
	}

	for _, f := range t.Filas {
		fila(f, "")
	}
	if t.Total != nil {
		fila(t.Total, "B")
	}
}

func escalarAnchos(cols []reporte.Columna, total float64) []float64 {
	suma := 0.0
	for _, c := range cols {
		suma += anchoColumna(c)
	}
	out := make([]float64, len(cols))
	for i, c := range cols {
		out[i] = anchoColumna(c) * total / suma
	}
	return out
}

func anchoColumna(c reporte.Columna) float64 {
	if c.Ancho > 0 {
		return c.Ancho
	}
	return 12
}

func alineacion(c reporte.Columna) string {
	if c.Tipo == reporte.Texto {
		return "L"
	}
	return "R"
}
