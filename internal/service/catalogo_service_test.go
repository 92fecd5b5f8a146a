package service_test

import (
	"context"
	"testing"

	"farmacierre/internal/dto"
	"farmacierre/internal/model"
	"farmacierre/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiasAtencion(t *testing.T) {
	assert.True(t, service.DiasAtencionValidos("L,M,X,J,V,S"))
	assert.True(t, service.DiasAtencionValidos("d, l"))
	assert.False(t, service.DiasAtencionValidos("L,L"))
	assert.False(t, service.DiasAtencionValidos("Lunes"))
	assert.False(t, service.DiasAtencionValidos(""))
	assert.Equal(t, "L,V,D", service.NormalizarDias("d,V, l"))
}

func TestSucursalService(t *testing.T) {
	cat := newFakeCatalogo()
	cache := newFakeCache()
	svc := service.NewSucursalService(fakeSucursalRepo{cat}, fakeDistritoRepo{cat}, cache)
	ctx := context.Background()

	s, err := svc.Crear(ctx, dto.SucursalRequest{Nombre: " Chiquimula "})
	require.NoError(t, err)
	assert.Equal(t, "Chiquimula", s.Nombre)
	assert.Equal(t, model.DiasAtencionDefault, s.DiasAtencion)
	assert.True(t, s.Activo)

	_, err = svc.Crear(ctx, dto.SucursalRequest{Nombre: "Centro"})
	assert.ErrorIs(t, err, service.ErrConflicto)

	_, err = svc.Crear(ctx, dto.SucursalRequest{Nombre: "Esquipulas", DistritoID: cuenta(7)})
	assert.ErrorIs(t, err, service.ErrValidacion)

	upd, err := svc.Actualizar(ctx, s.ID, dto.SucursalRequest{Nombre: "Chiquimula", DiasAtencion: "S,D"})
	require.NoError(t, err)
	assert.Equal(t, "S,D", upd.DiasAtencion)
	assert.Equal(t, int64(1), cache.version)

	require.NoError(t, svc.Desactivar(ctx, s.ID))
	assert.ErrorIs(t, svc.Desactivar(ctx, 404), service.ErrNoEncontrado)
}

func TestBootstrapIdempotente(t *testing.T) {
	cat := newFakeCatalogo()
	cat.turnos = map[uint]*model.Turno{}
	cat.cuentas = map[uint]*model.Cuenta{}
	ctx := context.Background()

	require.NoError(t, service.Bootstrap(ctx, fakeTurnoRepo{cat}, fakeCuentaRepo{cat}, fakeUsuarioRepo{cat}))
	assert.Len(t, cat.turnos, 3)
	assert.Len(t, cat.cuentas, 4)
	require.Len(t, cat.usuarios, 1)
	assert.Equal(t, "admin", cat.usuarios[1].Username)
	assert.Equal(t, "Administrador", cat.usuarios[1].Nombre)

	especiales := 0
	for _, c := range cat.cuentas {
		if c.EsEspecial {
			especiales++
		}
	}
	assert.Equal(t, 3, especiales)

	require.NoError(t, service.Bootstrap(ctx, fakeTurnoRepo{cat}, fakeCuentaRepo{cat}, fakeUsuarioRepo{cat}))
	assert.Len(t, cat.turnos, 3)
	assert.Len(t, cat.cuentas, 4)
	assert.Len(t, cat.usuarios, 1)
}

func TestBootstrapNoSiembraAdminSiHayUsuarios(t *testing.T) {
	cat := newFakeCatalogo()
	cat.usuarios[1] = &model.Usuario{ID: 1, Username: "gerencia", Nombre: "Gerencia"}

	require.NoError(t, service.Bootstrap(context.Background(), fakeTurnoRepo{cat}, fakeCuentaRepo{cat}, fakeUsuarioRepo{cat}))
	require.Len(t, cat.usuarios, 1)
	assert.Equal(t, "gerencia", cat.usuarios[1].Username)
}

func TestUsuarioService(t *testing.T) {
	cat := newFakeCatalogo()
	svc := service.NewUsuarioService(fakeUsuarioRepo{cat})
	ctx := context.Background()

	u, err := svc.Crear(ctx, dto.UsuarioRequest{Username: " Cajero1 ", Nombre: " Cajero Uno "})
	require.NoError(t, err)
	assert.Equal(t, "cajero1", u.Username)
	assert.Equal(t, "Cajero Uno", u.Nombre)

	_, err = svc.Crear(ctx, dto.UsuarioRequest{Username: "CAJERO1", Nombre: "Otro"})
	assert.ErrorIs(t, err, service.ErrConflicto)
	_, err = svc.Crear(ctx, dto.UsuarioRequest{Username: "caja uno", Nombre: "Caja"})
	assert.ErrorIs(t, err, service.ErrValidacion)
	_, err = svc.Crear(ctx, dto.UsuarioRequest{Username: "caja", Nombre: "  "})
	assert.ErrorIs(t, err, service.ErrValidacion)

	upd, err := svc.Actualizar(ctx, u.ID, dto.UsuarioRequest{Username: "cajero1", Nombre: "Cajera Uno"})
	require.NoError(t, err)
	assert.Equal(t, "Cajera Uno", upd.Nombre)
	_, err = svc.Actualizar(ctx, 404, dto.UsuarioRequest{Username: "x", Nombre: "y"})
	assert.ErrorIs(t, err, service.ErrNoEncontrado)

	require.NoError(t, svc.Eliminar(ctx, u.ID))
	assert.ErrorIs(t, svc.Eliminar(ctx, u.ID), service.ErrNoEncontrado)
}
