package repository

import (
	"context"

	"farmacierre/internal/model"

	"gorm.io/gorm"
)

// DistritoRepository defines CRUD operations for districts.
type DistritoRepository interface {
	Crear(ctx context.Context, d *model.Distrito) error
	Listar(ctx context.Context) ([]model.Distrito, error)
	ObtenerPorID(ctx context.Context, id uint) (*model.Distrito, error)
	Actualizar(ctx context.Context, d *model.Distrito) error
	// Eliminar removes the district and detaches its branches.
	Eliminar(ctx context.Context, id uint) error
}

type distritoRepository struct{ db *gorm.DB }

func NewDistritoRepository(db *gorm.DB) DistritoRepository {
	return &distritoRepository{db: db}
}

func (r *distritoRepository) Crear(ctx context.Context, d *model.Distrito) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *distritoRepository) Listar(ctx context.Context) ([]model.Distrito, error) {
	var list []model.Distrito
	err := r.db.WithContext(ctx).Order("nombre asc").Find(&list).Error
	return list, err
}

func (r *distritoRepository) ObtenerPorID(ctx context.Context, id uint) (*model.Distrito, error) {
	var d model.Distrito
	if err := r.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *distritoRepository) Actualizar(ctx context.Context, d *model.Distrito) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *distritoRepository) Eliminar(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Sucursal{}).Where("distrito_id = ?", id).Update("distrito_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Distrito{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
