package model

import "time"

// DiasAtencionDefault is Monday through Saturday.
const DiasAtencionDefault = "L,M,X,J,V,S"

// Sucursal is a pharmacy branch. Branches are never deleted; Activo=false hides them.
type Sucursal struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Nombre       string    `gorm:"uniqueIndex;not null" json:"nombre"`
	Direccion    string    `json:"direccion"`
	DistritoID   *uint     `gorm:"index" json:"distrito_id"`
	Distrito     *Distrito `json:"distrito,omitempty"`
	DiasAtencion string    `gorm:"type:varchar(20);not null;default:'L,M,X,J,V,S'" json:"dias_atencion"`
	Activo       bool      `gorm:"not null;default:true" json:"activo"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (Sucursal) TableName() string { return "sucursales" }
