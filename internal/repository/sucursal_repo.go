package repository

import (
	"context"

	"farmacierre/internal/model"

	"gorm.io/gorm"
)

// SucursalRepository defines CRUD operations for branches. Branches are only
// deactivated, never deleted.
type SucursalRepository interface {
	Crear(ctx context.Context, s *model.Sucursal) error
	Listar(ctx context.Context, soloActivas bool) ([]model.Sucursal, error)
	ObtenerPorID(ctx context.Context, id uint) (*model.Sucursal, error)
	Actualizar(ctx context.Context, s *model.Sucursal) error
	Desactivar(ctx context.Context, id uint) error
}

type sucursalRepository struct{ db *gorm.DB }

func NewSucursalRepository(db *gorm.DB) SucursalRepository {
	return &sucursalRepository{db: db}
}

func (r *sucursalRepository) Crear(ctx context.Context, s *model.Sucursal) error {
	return r.db.WithContext(ctx).Omit("Distrito").Create(s).Error
}

func (r *sucursalRepository) Listar(ctx context.Context, soloActivas bool) ([]model.Sucursal, error) {
	var list []model.Sucursal
	q := r.db.WithContext(ctx).Preload("Distrito")
	if soloActivas {
		q = q.Where("activo = ?", true)
	}
	err := q.Order("nombre asc").Find(&list).Error
	return list, err
}

func (r *sucursalRepository) ObtenerPorID(ctx context.Context, id uint) (*model.Sucursal, error) {
	var s model.Sucursal
	if err := r.db.WithContext(ctx).Preload("Distrito").First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sucursalRepository) Actualizar(ctx context.Context, s *model.Sucursal) error {
	return r.db.WithContext(ctx).Omit("Distrito").Save(s).Error
}

func (r *sucursalRepository) Desactivar(ctx context.Context, id uint) error {
	return desactivar(ctx, r.db, &model.Sucursal{}, id)
}

// desactivar flips activo to false, reporting gorm.ErrRecordNotFound when no row matched.
func desactivar(ctx context.Context, db *gorm.DB, m any, id uint) error {
	res := db.WithContext(ctx).Model(m).Where("id = ?", id).Update("activo", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
