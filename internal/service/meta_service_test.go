package service_test

import (
	"context"
	"testing"

	"farmacierre/internal/dto"
	"farmacierre/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertMeta(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()

	m, creada, err := e.metaSvc.Upsert(ctx, dto.UpsertMetaRequest{SucursalID: 1, Anio: 2024, Mes: 3, Meta: dec("40000")})
	require.NoError(t, err)
	assert.True(t, creada)
	assert.Equal(t, "Centro", m.SucursalNombre)

	m2, creada, err := e.metaSvc.Upsert(ctx, dto.UpsertMetaRequest{SucursalID: 1, Anio: 2024, Mes: 3, Meta: dec("45000.456")})
	require.NoError(t, err)
	assert.False(t, creada)
	assert.Equal(t, m.ID, m2.ID)
	assert.True(t, m2.Meta.Equal(dec("45000.46")))
	assert.Len(t, e.metas.metas, 1)
}

func TestUpsertMetaValidacion(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()

	_, _, err := e.metaSvc.Upsert(ctx, dto.UpsertMetaRequest{SucursalID: 99, Anio: 2024, Mes: 3, Meta: dec("1")})
	assert.ErrorIs(t, err, service.ErrValidacion)

	_, _, err = e.metaSvc.Upsert(ctx, dto.UpsertMetaRequest{SucursalID: 1, Anio: 2024, Mes: 13, Meta: dec("1")})
	assert.ErrorIs(t, err, service.ErrValidacion)

	_, _, err = e.metaSvc.Upsert(ctx, dto.UpsertMetaRequest{SucursalID: 1, Anio: 2024, Mes: 1, Meta: dec("-1")})
	assert.ErrorIs(t, err, service.ErrValidacion)
}

func TestObtenerActualizarEliminarMeta(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()

	_, err := e.metaSvc.Obtener(ctx, 1, 2024, 3)
	assert.ErrorIs(t, err, service.ErrNoEncontrado)

	m, _, err := e.metaSvc.Upsert(ctx, dto.UpsertMetaRequest{SucursalID: 2, Anio: 2024, Mes: 3, Meta: dec("100")})
	require.NoError(t, err)

	got, err := e.metaSvc.Obtener(ctx, 2, 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)

	upd, err := e.metaSvc.Actualizar(ctx, m.ID, dto.ActualizarMetaRequest{Meta: dec("250")})
	require.NoError(t, err)
	assert.True(t, upd.Meta.Equal(dec("250")))

	list, err := e.metaSvc.Listar(ctx, dto.MetaQuery{Anio: 2024, Mes: 3})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, e.metaSvc.Eliminar(ctx, m.ID))
	assert.ErrorIs(t, e.metaSvc.Eliminar(ctx, m.ID), service.ErrNoEncontrado)
	assert.Equal(t, int64(3), e.cache.version)
}
