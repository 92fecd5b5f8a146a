package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MetaMensual is the sales goal of a branch for one calendar month.
// Unique per (SucursalID, Anio, Mes); written through upsert.
type MetaMensual struct {
	ID         uint            `gorm:"primaryKey"`
	SucursalID uint            `gorm:"not null;uniqueIndex:idx_meta_clave,priority:1"`
	Anio       int             `gorm:"not null;uniqueIndex:idx_meta_clave,priority:2"`
	Mes        int             `gorm:"not null;uniqueIndex:idx_meta_clave,priority:3"`
	Meta       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Sucursal *Sucursal `gorm:"foreignKey:SucursalID"`
}

func (MetaMensual) TableName() string { return "metas_mensuales" }
