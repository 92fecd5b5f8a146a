package repository

import (
	"context"

	"farmacierre/internal/model"

	"gorm.io/gorm"
)

// CuentaRepository defines CRUD operations for deposit accounts.
type CuentaRepository interface {
	Crear(ctx context.Context, c *model.Cuenta) error
	Listar(ctx context.Context, soloActivas bool) ([]model.Cuenta, error)
	ObtenerPorID(ctx context.Context, id uint) (*model.Cuenta, error)
	Actualizar(ctx context.Context, c *model.Cuenta) error
	Desactivar(ctx context.Context, id uint) error
	Contar(ctx context.Context) (int64, error)
}

type cuentaRepository struct{ db *gorm.DB }

func NewCuentaRepository(db *gorm.DB) CuentaRepository {
	return &cuentaRepository{db: db}
}

func (r *cuentaRepository) Crear(ctx context.Context, c *model.Cuenta) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cuentaRepository) Listar(ctx context.Context, soloActivas bool) ([]model.Cuenta, error) {
	var list []model.Cuenta
	q := r.db.WithContext(ctx)
	if soloActivas {
		q = q.Where("activo = ?", true)
	}
	err := q.Order("es_especial asc").Order("nombre asc").Find(&list).Error
	return list, err
}

func (r *cuentaRepository) ObtenerPorID(ctx context.Context, id uint) (*model.Cuenta, error) {
	var c model.Cuenta
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cuentaRepository) Actualizar(ctx context.Context, c *model.Cuenta) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *cuentaRepository) Desactivar(ctx context.Context, id uint) error {
	return desactivar(ctx, r.db, &model.Cuenta{}, id)
}

func (r *cuentaRepository) Contar(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Cuenta{}).Count(&n).Error
	return n, err
}
