package reporte_test

import (
	"testing"

	"farmacierre/internal/reporte"

	"github.com/stretchr/testify/assert"
)

func TestFormatoMoneda(t *testing.T) {
	cases := map[string]string{
		"1234.5":  "Q 1,234.50",
		"0":       "Q 0.00",
		"-50":     "Q -50.00",
		"1000000": "Q 1,000,000.00",
		"12.345":  "Q 12.35",
		"-0.001":  "Q 0.00",
		"-1234.5": "Q -1,234.50",

		"90071992547409.93":     "Q 90,071,992,547,409.93",
		"123456789012345678.91": "Q 123,456,789,012,345,678.91",
	}
	for in, want := range cases {
		assert.Equal(t, want, reporte.FormatoMoneda(d(in)), in)
	}
}

func TestFormatear(t *testing.T) {
	pct := reporte.Columna{Tipo: reporte.Porcentaje}
	mon := reporte.Columna{Tipo: reporte.Moneda}
	assert.Equal(t, "25.0%", reporte.Formatear(pct, d("0.25")))
	assert.Equal(t, "Q 10.00", reporte.Formatear(mon, d("10")))
	assert.Equal(t, "01/03/2024", reporte.Formatear(mon, fecha("2024-03-01")))
	assert.Equal(t, "1,500", reporte.Formatear(reporte.Columna{Tipo: reporte.Entero}, 1500))
	assert.Equal(t, "", reporte.Formatear(mon, nil))
}
