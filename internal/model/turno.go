package model

import "time"

// Turno is a shift type (Diurno AM, Diurno PM, Nocturno). Orden drives listing order.
type Turno struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Nombre    string    `gorm:"uniqueIndex;not null" json:"nombre"`
	Orden     int       `gorm:"not null;default:0" json:"orden"`
	Activo    bool      `gorm:"not null;default:true" json:"activo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Turno) TableName() string { return "turnos" }
