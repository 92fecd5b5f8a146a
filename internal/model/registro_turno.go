package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegistroTurno is the closing record of one shift at one branch on one day.
// (Fecha, SucursalID, TurnoID) is unique. The Total* columns are derived and
// recomputed by the service on every write; they are never taken from input.
type RegistroTurno struct {
	ID                 uint      `gorm:"primaryKey"`
	Fecha              time.Time `gorm:"type:date;not null;uniqueIndex:idx_registro_clave,priority:1;index"`
	SucursalID         uint      `gorm:"not null;uniqueIndex:idx_registro_clave,priority:2"`
	TurnoID            uint      `gorm:"not null;uniqueIndex:idx_registro_clave,priority:3"`
	CorrelativoInicial string    `gorm:"type:text"`
	CorrelativoFinal   string    `gorm:"type:text"`
	CuentaID           *uint     `gorm:"index"`

	MontoDepositado decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	VentaTarjeta    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalSistema    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Gastos          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// Canjes is informational; it never reduces faltante.
	Canjes decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	TotalVentas      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalVendido     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalFacturado   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalNoFacturado decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalMeta        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	Observaciones string `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Sucursal *Sucursal `gorm:"foreignKey:SucursalID"`
	Turno    *Turno    `gorm:"foreignKey:TurnoID"`
	Cuenta   *Cuenta   `gorm:"foreignKey:CuentaID"`
}

func (RegistroTurno) TableName() string { return "registros_turno" }
