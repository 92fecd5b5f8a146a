package repository

import (
	"context"

	"farmacierre/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MetaFilter selects monthly goals. Zero values mean "any".
type MetaFilter struct {
	Anio       int
	Mes        int
	SucursalID uint
}

// MetaRepository stores monthly sales goals, unique per (sucursal, anio, mes).
type MetaRepository interface {
	List(ctx context.Context, filter MetaFilter) ([]model.MetaMensual, error)
	FindByID(ctx context.Context, id uint) (*model.MetaMensual, error)
	FindByClave(ctx context.Context, sucursalID uint, anio, mes int) (*model.MetaMensual, error)
	// Upsert creates the goal or replaces its amount. creada is true when a new row was inserted.
	Upsert(ctx context.Context, sucursalID uint, anio, mes int, monto decimal.Decimal) (meta *model.MetaMensual, creada bool, err error)
	Update(ctx context.Context, m *model.MetaMensual) error
	Delete(ctx context.Context, id uint) error
}

type metaRepo struct{ db *gorm.DB }

func NewMetaRepository(db *gorm.DB) MetaRepository { return &metaRepo{db: db} }

func (r *metaRepo) List(ctx context.Context, f MetaFilter) ([]model.MetaMensual, error) {
	var metas []model.MetaMensual
	q := r.db.WithContext(ctx).Preload("Sucursal")
	if f.Anio != 0 {
		q = q.Where("anio = ?", f.Anio)
	}
	if f.Mes != 0 {
		q = q.Where("mes = ?", f.Mes)
	}
	if f.SucursalID != 0 {
		q = q.Where("sucursal_id = ?", f.SucursalID)
	}
	err := q.Order("anio DESC").Order("mes DESC").Order("sucursal_id ASC").Find(&metas).Error
	return metas, err
}

func (r *metaRepo) FindByID(ctx context.Context, id uint) (*model.MetaMensual, error) {
	var m model.MetaMensual
	if err := r.db.WithContext(ctx).Preload("Sucursal").First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *metaRepo) FindByClave(ctx context.Context, sucursalID uint, anio, mes int) (*model.MetaMensual, error) {
	var m model.MetaMensual
	err := r.db.WithContext(ctx).Preload("Sucursal").
		Where("sucursal_id = ? AND anio = ? AND mes = ?", sucursalID, anio, mes).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Upsert inserts with ON CONFLICT DO NOTHING so concurrent first writes never
// collide on the unique key; the loser falls through to the update.
func (r *metaRepo) Upsert(ctx context.Context, sucursalID uint, anio, mes int, monto decimal.Decimal) (*model.MetaMensual, bool, error) {
	db := r.db.WithContext(ctx)
	m := model.MetaMensual{SucursalID: sucursalID, Anio: anio, Mes: mes, Meta: monto}
	res := db.Omit("Sucursal").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sucursal_id"}, {Name: "anio"}, {Name: "mes"}},
		DoNothing: true,
	}).Create(&m)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return &m, true, nil
	}

	clave := db.Where("sucursal_id = ? AND anio = ? AND mes = ?", sucursalID, anio, mes)
	if err := clave.Session(&gorm.Session{}).Model(&model.MetaMensual{}).Update("meta", monto).Error; err != nil {
		return nil, false, err
	}
	var actual model.MetaMensual
	if err := clave.Session(&gorm.Session{}).First(&actual).Error; err != nil {
		return nil, false, err
	}
	return &actual, false, nil
}

func (r *metaRepo) Update(ctx context.Context, m *model.MetaMensual) error {
	return r.db.WithContext(ctx).Omit("Sucursal").Save(m).Error
}

func (r *metaRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.MetaMensual{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
