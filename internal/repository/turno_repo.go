package repository

import (
	"context"

	"farmacierre/internal/model"

	"gorm.io/gorm"
)

// TurnoRepository defines CRUD operations for shift types.
type TurnoRepository interface {
	Crear(ctx context.Context, t *model.Turno) error
	Listar(ctx context.Context, soloActivos bool) ([]model.Turno, error)
	ObtenerPorID(ctx context.Context, id uint) (*model.Turno, error)
	Actualizar(ctx context.Context, t *model.Turno) error
	Desactivar(ctx context.Context, id uint) error
	Contar(ctx context.Context) (int64, error)
}

type turnoRepository struct{ db *gorm.DB }

func NewTurnoRepository(db *gorm.DB) TurnoRepository {
	return &turnoRepository{db: db}
}

func (r *turnoRepository) Crear(ctx context.Context, t *model.Turno) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *turnoRepository) Listar(ctx context.Context, soloActivos bool) ([]model.Turno, error) {
	var list []model.Turno
	q := r.db.WithContext(ctx)
	if soloActivos {
		q = q.Where("activo = ?", true)
	}
	err := q.Order("orden asc").Order("id asc").Find(&list).Error
	return list, err
}

func (r *turnoRepository) ObtenerPorID(ctx context.Context, id uint) (*model.Turno, error) {
	var t model.Turno
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *turnoRepository) Actualizar(ctx context.Context, t *model.Turno) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *turnoRepository) Desactivar(ctx context.Context, id uint) error {
	return desactivar(ctx, r.db, &model.Turno{}, id)
}

func (r *turnoRepository) Contar(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Turno{}).Count(&n).Error
	return n, err
}
