package repository

import (
	"context"
	"time"

	"farmacierre/internal/model"

	"gorm.io/gorm"
)

// Orden of a record listing by date.
type Orden string

const (
	OrdenAsc  Orden = "asc"
	OrdenDesc Orden = "desc"
)

// RegistroFilter narrows a record query. Zero values mean "no filter".
// Date bounds are inclusive calendar days.
type RegistroFilter struct {
	FechaInicio      *time.Time
	FechaFin         *time.Time
	SucursalID       uint
	TurnoID          uint
	CuentaID         uint
	ConCuenta        bool
	DepositoPositivo bool
	Orden            Orden
}

// RegistroRepository is the record store consumed by the reconciliation engine.
// Every record it returns has Sucursal, Turno and Cuenta resolved.
type RegistroRepository interface {
	Create(ctx context.Context, r *model.RegistroTurno) error
	FindByID(ctx context.Context, id uint) (*model.RegistroTurno, error)
	// FindByClave looks up the record of one branch and shift on one day.
	FindByClave(ctx context.Context, fecha time.Time, sucursalID, turnoID uint) (*model.RegistroTurno, error)
	List(ctx context.Context, filter RegistroFilter) ([]model.RegistroTurno, error)
	Update(ctx context.Context, r *model.RegistroTurno) error
	Delete(ctx context.Context, id uint) error
}

type registroRepo struct{ db *gorm.DB }

func NewRegistroRepository(db *gorm.DB) RegistroRepository { return &registroRepo{db: db} }

func (r *registroRepo) conRelaciones(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Sucursal").
		Preload("Turno").
		Preload("Cuenta")
}

func (r *registroRepo) Create(ctx context.Context, reg *model.RegistroTurno) error {
	return r.db.WithContext(ctx).Omit("Sucursal", "Turno", "Cuenta").Create(reg).Error
}

func (r *registroRepo) FindByID(ctx context.Context, id uint) (*model.RegistroTurno, error) {
	var reg model.RegistroTurno
	if err := r.conRelaciones(ctx).First(&reg, id).Error; err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registroRepo) FindByClave(ctx context.Context, fecha time.Time, sucursalID, turnoID uint) (*model.RegistroTurno, error) {
	var reg model.RegistroTurno
	err := r.db.WithContext(ctx).
		Where("fecha = ? AND sucursal_id = ? AND turno_id = ?", fecha, sucursalID, turnoID).
		First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registroRepo) List(ctx context.Context, f RegistroFilter) ([]model.RegistroTurno, error) {
	var registros []model.RegistroTurno
	q := r.conRelaciones(ctx).Model(&model.RegistroTurno{})

	if f.FechaInicio != nil {
		q = q.Where("fecha >= ?", *f.FechaInicio)
	}
	if f.FechaFin != nil {
		q = q.Where("fecha <= ?", *f.FechaFin)
	}
	if f.SucursalID != 0 {
		q = q.Where("sucursal_id = ?", f.SucursalID)
	}
	if f.TurnoID != 0 {
		q = q.Where("turno_id = ?", f.TurnoID)
	}
	if f.CuentaID != 0 {
		q = q.Where("cuenta_id = ?", f.CuentaID)
	}
	if f.ConCuenta {
		q = q.Where("cuenta_id IS NOT NULL")
	}
	if f.DepositoPositivo {
		q = q.Where("monto_depositado > 0")
	}

	if f.Orden == OrdenDesc {
		q = q.Order("fecha DESC").Order("sucursal_id ASC").Order("turno_id ASC")
	} else {
		q = q.Order("fecha ASC").Order("sucursal_id ASC").Order("turno_id ASC")
	}
	err := q.Find(&registros).Error
	return registros, err
}

func (r *registroRepo) Update(ctx context.Context, reg *model.RegistroTurno) error {
	return r.db.WithContext(ctx).Omit("Sucursal", "Turno", "Cuenta").Save(reg).Error
}

func (r *registroRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.RegistroTurno{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
