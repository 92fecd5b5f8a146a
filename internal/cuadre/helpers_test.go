package cuadre_test

import (
	"testing"
	"time"

	"farmacierre/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

func fecha(s string) time.Time {
	f, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return f
}

var (
	cuentaNormal   = &model.Cuenta{ID: 1, Numero: "7100717710", Nombre: "Grupo de negocios Tel", Banco: "Interbanco"}
	cuentaEspecial = &model.Cuenta{ID: 2, Numero: "OFICINA", Nombre: "Oficina", Banco: "Cuenta Especial", EsEspecial: true}
	centro         = &model.Sucursal{ID: 1, Nombre: "Centro"}
	zona10         = &model.Sucursal{ID: 2, Nombre: "Alameda"}
)

type reg struct {
	fecha                                      string
	sucursal                                   *model.Sucursal
	turno                                      uint
	cuenta                                     *model.Cuenta
	deposito, tarjeta, sistema, gastos, canjes string
}

func (r reg) build() model.RegistroTurno {
	m := model.RegistroTurno{
		Fecha:           fecha(r.fecha),
		SucursalID:      r.sucursal.ID,
		Sucursal:        r.sucursal,
		TurnoID:         r.turno,
		MontoDepositado: dz(r.deposito),
		VentaTarjeta:    dz(r.tarjeta),
		TotalSistema:    dz(r.sistema),
		Gastos:          dz(r.gastos),
		Canjes:          dz(r.canjes),
	}
	if r.cuenta != nil {
		id := r.cuenta.ID
		m.CuentaID = &id
		m.Cuenta = r.cuenta
	}
	return m
}

func dz(s string) decimal.Decimal {
	if s == "" {
		return decimal.Decimal{}
	}
	return d(s)
}
