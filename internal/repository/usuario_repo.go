package repository

import (
	"context"

	"farmacierre/internal/model"

	"gorm.io/gorm"
)

// UsuarioRepository defines CRUD operations for users.
type UsuarioRepository interface {
	Crear(ctx context.Context, u *model.Usuario) error
	Listar(ctx context.Context) ([]model.Usuario, error)
	ObtenerPorID(ctx context.Context, id uint) (*model.Usuario, error)
	Actualizar(ctx context.Context, u *model.Usuario) error
	Eliminar(ctx context.Context, id uint) error
	Contar(ctx context.Context) (int64, error)
}

type usuarioRepository struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository {
	return &usuarioRepository{db: db}
}

func (r *usuarioRepository) Crear(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *usuarioRepository) Listar(ctx context.Context) ([]model.Usuario, error) {
	var list []model.Usuario
	err := r.db.WithContext(ctx).Order("nombre asc").Order("id asc").Find(&list).Error
	return list, err
}

func (r *usuarioRepository) ObtenerPorID(ctx context.Context, id uint) (*model.Usuario, error) {
	var u model.Usuario
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepository) Actualizar(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *usuarioRepository) Eliminar(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Usuario{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *usuarioRepository) Contar(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Usuario{}).Count(&n).Error
	return n, err
}
