package service

import (
	"context"
	"fmt"

	"farmacierre/internal/model"
	"farmacierre/internal/repository"

	"github.com/rs/zerolog/log"
)

// TurnosIniciales are created on first boot.
var TurnosIniciales = []model.Turno{
	{Nombre: "Diurno AM", Orden: 1, Activo: true},
	{Nombre: "Diurno PM", Orden: 2, Activo: true},
	{Nombre: "Nocturno", Orden: 3, Activo: true},
}

// CuentasIniciales are created on first boot.
var CuentasIniciales = []model.Cuenta{
	{Numero: "7100717710", Nombre: "Grupo de negocios Tel", Banco: "Interbanco", Activo: true},
	{Numero: "3285010891", Nombre: "SELVIN GIAN TELLO", Banco: "BANRURAL", EsEspecial: true, Activo: true},
	{Numero: "ALDO", Nombre: "ALDO IVAN TELLO", Banco: "BANRURAL", EsEspecial: true, Activo: true},
	{Numero: "OFICINA", Nombre: "Oficina", Banco: "Cuenta Especial", EsEspecial: true, Activo: true},
}

// UsuarioInicial is created when no user exists.
var UsuarioInicial = model.Usuario{Username: "admin", Nombre: "Administrador"}

// Bootstrap seeds the reference catalogs. Each catalog is seeded only when its
// table is empty, so running it on every start is safe.
func Bootstrap(ctx context.Context, turnos repository.TurnoRepository, cuentas repository.CuentaRepository, usuarios repository.UsuarioRepository) error {
	n, err := turnos.Contar(ctx)
	if err != nil {
		return fmt.Errorf("contar turnos: %w", err)
	}
	if n == 0 {
		for _, t := range TurnosIniciales {
			t := t
			if err := turnos.Crear(ctx, &t); err != nil {
				return fmt.Errorf("crear turno %s: %w", t.Nombre, err)
			}
		}
		log.Info().Int("cantidad", len(TurnosIniciales)).Msg("bootstrap: turnos creados")
	}

	n, err = cuentas.Contar(ctx)
	if err != nil {
		return fmt.Errorf("contar cuentas: %w", err)
	}
	if n == 0 {
		for _, c := range CuentasIniciales {
			c := c
			if err := cuentas.Crear(ctx, &c); err != nil {
				return fmt.Errorf("crear cuenta %s: %w", c.Numero, err)
			}
		}
		log.Info().Int("cantidad", len(CuentasIniciales)).Msg("bootstrap: cuentas creadas")
	}

	n, err = usuarios.Contar(ctx)
	if err != nil {
		return fmt.Errorf("contar usuarios: %w", err)
	}
	if n == 0 {
		u := UsuarioInicial
		if err := usuarios.Crear(ctx, &u); err != nil {
			return fmt.Errorf("crear usuario %s: %w", u.Username, err)
		}
		log.Info().Str("username", u.Username).Msg("bootstrap: usuario admin creado")
	}
	return nil
}
