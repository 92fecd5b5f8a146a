package model

import "time"

// Cuenta is a bank account receiving shift deposits.
// EsEspecial marks informal/internal accounts: deposits to them are "no facturado".
type Cuenta struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Numero     string    `gorm:"uniqueIndex;not null" json:"numero"`
	Nombre     string    `gorm:"not null" json:"nombre"`
	Banco      string    `gorm:"not null" json:"banco"`
	EsEspecial bool      `gorm:"not null;default:false" json:"es_especial"`
	Activo     bool      `gorm:"not null;default:true" json:"activo"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Cuenta) TableName() string { return "cuentas" }
