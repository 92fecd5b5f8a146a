package cuadre

import (
	"sort"
	"time"

	"farmacierre/internal/model"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sumas accumulates the raw components of a set of records. Derived values of a
// group are always computed from the sums, never summed from per-record values.
type Sumas struct {
	Depositado  decimal.Decimal `json:"total_depositado"`
	Tarjeta     decimal.Decimal `json:"total_tarjeta"`
	Sistema     decimal.Decimal `json:"total_sistema"`
	Facturado   decimal.Decimal `json:"total_facturado"`
	NoFacturado decimal.Decimal `json:"total_no_facturado"`
	Gastos      decimal.Decimal `json:"total_gastos"`
	Canjes      decimal.Decimal `json:"total_canjes"`
}

// Agregar adds one record.
func (s *Sumas) Agregar(r *model.RegistroTurno) {
	d := Calcular(MontosDe(r))
	s.Depositado = s.Depositado.Add(r.MontoDepositado)
	s.Tarjeta = s.Tarjeta.Add(r.VentaTarjeta)
	s.Sistema = s.Sistema.Add(r.TotalSistema)
	s.Facturado = s.Facturado.Add(d.TotalFacturado)
	s.NoFacturado = s.NoFacturado.Add(NoFacturado(r.MontoDepositado, r.Cuenta))
	s.Gastos = s.Gastos.Add(r.Gastos)
	s.Canjes = s.Canjes.Add(r.Canjes)
}

// Mas returns the field-wise sum of s and o.
func (s Sumas) Mas(o Sumas) Sumas {
	return Sumas{
		Depositado:  s.Depositado.Add(o.Depositado),
		Tarjeta:     s.Tarjeta.Add(o.Tarjeta),
		Sistema:     s.Sistema.Add(o.Sistema),
		Facturado:   s.Facturado.Add(o.Facturado),
		NoFacturado: s.NoFacturado.Add(o.NoFacturado),
		Gastos:      s.Gastos.Add(o.Gastos),
		Canjes:      s.Canjes.Add(o.Canjes),
	}
}

// Derivados applies the shift formulas to the summed components.
func (s Sumas) Derivados() Derivados {
	return Calcular(Montos{
		MontoDepositado: s.Depositado,
		VentaTarjeta:    s.Tarjeta,
		TotalSistema:    s.Sistema,
		Gastos:          s.Gastos,
		Canjes:          s.Canjes,
	})
}

// Dia truncates t to its calendar day in UTC.
func Dia(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ── Por sucursal ─────────────────────────────────────────────────────────────

// GrupoSucursal is the sum of all records of one branch.
type GrupoSucursal struct {
	SucursalID uint
	Sucursal   string
	Registros  int
	// DiasConVentas counts distinct dates with at least one record.
	DiasConVentas int
	Sumas
}

// PorSucursal groups records by branch, ordered by branch id.
func PorSucursal(registros []model.RegistroTurno) []GrupoSucursal {
	grupos := make(map[uint]*GrupoSucursal)
	dias := make(map[uint]map[time.Time]struct{})
	for i := range registros {
		r := &registros[i]
		g, ok := grupos[r.SucursalID]
		if !ok {
			g = &GrupoSucursal{SucursalID: r.SucursalID, Sucursal: nombreSucursal(r)}
			grupos[r.SucursalID] = g
			dias[r.SucursalID] = make(map[time.Time]struct{})
		}
		g.Registros++
		g.Agregar(r)
		dias[r.SucursalID][Dia(r.Fecha)] = struct{}{}
	}

	out := make([]GrupoSucursal, 0, len(grupos))
	for id, g := range grupos {
		g.DiasConVentas = len(dias[id])
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SucursalID < out[j].SucursalID })
	return out
}

// OrdenarPorNombre sorts branch groups by name using Spanish collation
// (accents and case ignored at the primary level), falling back to id.
func OrdenarPorNombre(grupos []GrupoSucursal) {
	col := collate.New(language.Spanish, collate.IgnoreCase, collate.IgnoreDiacritics)
	sort.SliceStable(grupos, func(i, j int) bool {
		if c := col.CompareString(grupos[i].Sucursal, grupos[j].Sucursal); c != 0 {
			return c < 0
		}
		return grupos[i].SucursalID < grupos[j].SucursalID
	})
}

// TotalSucursales sums the group rows. It never rescans records, so the grand
// total always equals the sum of the displayed rows.
func TotalSucursales(grupos []GrupoSucursal) Sumas {
	var total Sumas
	for _, g := range grupos {
		total = total.Mas(g.Sumas)
	}
	return total
}

// ── Por fecha y sucursal ─────────────────────────────────────────────────────

// ClaveDiaria identifies one branch on one day.
type ClaveDiaria struct {
	Fecha      time.Time
	SucursalID uint
}

func (k ClaveDiaria) antes(o ClaveDiaria) bool {
	if !k.Fecha.Equal(o.Fecha) {
		return k.Fecha.Before(o.Fecha)
	}
	return k.SucursalID < o.SucursalID
}

// GrupoDiario is the sum of the shifts of one branch on one day.
type GrupoDiario struct {
	ClaveDiaria
	Sucursal  string
	Registros int
	Sumas
}

// Faltante of the grouped sums.
func (g GrupoDiario) Faltante() decimal.Decimal { return g.Derivados().Faltante }

// TieneFaltante reports a shortage for the day.
func (g GrupoDiario) TieneFaltante() bool { return g.Faltante().IsNegative() }

// PorFechaSucursal groups records by (day, branch), ordered by date then branch id.
func PorFechaSucursal(registros []model.RegistroTurno) []GrupoDiario {
	grupos := make(map[ClaveDiaria]*GrupoDiario)
	for i := range registros {
		r := &registros[i]
		k := ClaveDiaria{Fecha: Dia(r.Fecha), SucursalID: r.SucursalID}
		g, ok := grupos[k]
		if !ok {
			g = &GrupoDiario{ClaveDiaria: k, Sucursal: nombreSucursal(r)}
			grupos[k] = g
		}
		g.Registros++
		g.Agregar(r)
	}

	out := make([]GrupoDiario, 0, len(grupos))
	for _, g := range grupos {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].antes(out[j].ClaveDiaria) })
	return out
}

// TotalDiario sums daily group rows.
func TotalDiario(grupos []GrupoDiario) Sumas {
	var total Sumas
	for _, g := range grupos {
		total = total.Mas(g.Sumas)
	}
	return total
}

// ── Por cuenta ───────────────────────────────────────────────────────────────

// GrupoCuenta is the deposit total of one account.
type GrupoCuenta struct {
	CuentaID          uint            `json:"cuenta_id"`
	Numero            string          `json:"cuenta_numero"`
	Nombre            string          `json:"cuenta_nombre"`
	Banco             string          `json:"banco"`
	EsEspecial        bool            `json:"es_especial"`
	TotalDepositado   decimal.Decimal `json:"total_depositado"`
	CantidadDepositos int             `json:"cantidad_depositos"`
}

// ResumenCuentas holds the per-account rows and the running totals.
type ResumenCuentas struct {
	Cuentas         []GrupoCuenta
	TotalGeneral    decimal.Decimal
	TotalNormales   decimal.Decimal
	TotalEspeciales decimal.Decimal
}

// EsDeposito reports whether a record belongs in deposit reports: it must have
// an account and a positive deposit.
func EsDeposito(r *model.RegistroTurno) bool {
	return r.CuentaID != nil && r.MontoDepositado.IsPositive()
}

// PorCuenta groups deposits by account, ordered by account id. Records without
// an account or with a non-positive deposit are skipped.
func PorCuenta(registros []model.RegistroTurno) ResumenCuentas {
	grupos := make(map[uint]*GrupoCuenta)
	for i := range registros {
		r := &registros[i]
		if !EsDeposito(r) {
			continue
		}
		g, ok := grupos[*r.CuentaID]
		if !ok {
			g = &GrupoCuenta{CuentaID: *r.CuentaID}
			if r.Cuenta != nil {
				g.Numero = r.Cuenta.Numero
				g.Nombre = r.Cuenta.Nombre
				g.Banco = r.Cuenta.Banco
				g.EsEspecial = r.Cuenta.EsEspecial
			}
			grupos[*r.CuentaID] = g
		}
		g.TotalDepositado = g.TotalDepositado.Add(r.MontoDepositado)
		g.CantidadDepositos++
	}

	res := ResumenCuentas{Cuentas: make([]GrupoCuenta, 0, len(grupos))}
	for _, g := range grupos {
		res.Cuentas = append(res.Cuentas, *g)
	}
	sort.Slice(res.Cuentas, func(i, j int) bool { return res.Cuentas[i].CuentaID < res.Cuentas[j].CuentaID })

	for _, g := range res.Cuentas {
		res.TotalGeneral = res.TotalGeneral.Add(g.TotalDepositado)
		if g.EsEspecial {
			res.TotalEspeciales = res.TotalEspeciales.Add(g.TotalDepositado)
		} else {
			res.TotalNormales = res.TotalNormales.Add(g.TotalDepositado)
		}
	}
	return res
}

func nombreSucursal(r *model.RegistroTurno) string {
	if r.Sucursal == nil {
		return "Sin sucursal"
	}
	return r.Sucursal.Nombre
}
