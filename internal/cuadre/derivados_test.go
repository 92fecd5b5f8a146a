package cuadre_test

import (
	"testing"

	"farmacierre/internal/cuadre"
	"farmacierre/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalcularRegistroCompleto(t *testing.T) {
	got := cuadre.Calcular(cuadre.Montos{
		MontoDepositado: d("500"),
		VentaTarjeta:    d("300"),
		TotalSistema:    d("900"),
		Gastos:          d("50"),
		Canjes:          d("20"),
	})

	assertDec(t, "800", got.TotalVentas)
	assertDec(t, "830", got.TotalVendido)
	assertDec(t, "800", got.TotalFacturado)
	assertDec(t, "880", got.TotalMeta)
	assertDec(t, "50", got.Faltante)
	assert.False(t, got.TieneFaltante())
}

func TestCalcularMontosVacios(t *testing.T) {
	got := cuadre.Calcular(cuadre.Montos{})
	assert.True(t, got.TotalVentas.IsZero())
	assert.True(t, got.TotalVendido.IsZero())
	assert.True(t, got.TotalMeta.IsZero())
	assert.True(t, got.Faltante.IsZero())
}

func TestFaltanteIgnoraCanjes(t *testing.T) {
	base := cuadre.Montos{
		MontoDepositado: d("400.25"),
		VentaTarjeta:    d("120.10"),
		TotalSistema:    d("600"),
		Gastos:          d("15.65"),
	}
	want := cuadre.Calcular(base).Faltante

	for _, canjes := range []string{"0", "0.01", "35.50", "1000"} {
		m := base
		m.Canjes = d(canjes)
		assert.Truef(t, want.Equal(cuadre.Calcular(m).Faltante), "canjes=%s changed faltante", canjes)
	}
	assertDec(t, "64", want)
}

func TestFaltanteNegativoEsFaltante(t *testing.T) {
	got := cuadre.Calcular(cuadre.Montos{
		MontoDepositado: d("100"),
		TotalSistema:    d("250"),
		Gastos:          d("20"),
	})
	assertDec(t, "130", got.Faltante)

	got = cuadre.Calcular(cuadre.Montos{
		MontoDepositado: d("300"),
		TotalSistema:    d("250"),
	})
	assertDec(t, "-50", got.Faltante)
	assert.True(t, got.TieneFaltante())
}

func TestNoFacturado(t *testing.T) {
	monto := d("1500")
	assertDec(t, "1500", cuadre.NoFacturado(monto, cuentaEspecial))
	assert.True(t, cuadre.NoFacturado(monto, cuentaNormal).IsZero())
	assert.True(t, cuadre.NoFacturado(monto, nil).IsZero())
}

func TestAplicarSobrescribeDerivados(t *testing.T) {
	r := &model.RegistroTurno{
		MontoDepositado:  d("200"),
		VentaTarjeta:     d("50"),
		TotalSistema:     d("260"),
		TotalVentas:      d("99999"),
		TotalNoFacturado: d("12"),
	}
	cuadre.Aplicar(r, cuentaEspecial)
	assertDec(t, "250", r.TotalVentas)
	assertDec(t, "250", r.TotalFacturado)
	assertDec(t, "260", r.TotalVendido)
	assertDec(t, "260", r.TotalMeta)
	assertDec(t, "200", r.TotalNoFacturado)

	cuadre.Aplicar(r, nil)
	assert.True(t, r.TotalNoFacturado.Equal(decimal.Zero))
}
