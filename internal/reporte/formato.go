package reporte

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// SimboloMoneda is the Guatemalan quetzal.
const SimboloMoneda = "Q"

// FormatoMoneda renders an amount as "Q 1,234.56". Grouping works on the
// decimal digits, so large amounts keep every cent.
func FormatoMoneda(v decimal.Decimal) string {
	signo := ""
	if v.Round(2).IsNegative() {
		signo = "-"
	}
	ent, frac, _ := strings.Cut(v.Abs().StringFixed(2), ".")
	n, _ := new(big.Int).SetString(ent, 10)
	return SimboloMoneda + " " + signo + humanize.BigComma(n) + "." + frac
}

// FormatoPorcentaje renders a ratio as "25.0%".
func FormatoPorcentaje(v decimal.Decimal) string {
	return v.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}

// FormatoFecha renders a day as DD/MM/YYYY.
func FormatoFecha(t time.Time) string {
	return t.Format("02/01/2006")
}

// Formatear renders any cell value according to its column type.
func Formatear(c Columna, v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case decimal.Decimal:
		if c.Tipo == Porcentaje {
			return FormatoPorcentaje(val)
		}
		return FormatoMoneda(val)
	case time.Time:
		return FormatoFecha(val)
	case string:
		return val
	case int:
		return humanize.Comma(int64(val))
	default:
		return fmt.Sprint(val)
	}
}
