package model

import "time"

// Distrito groups branches geographically.
type Distrito struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Nombre    string    `gorm:"uniqueIndex;not null" json:"nombre"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Distrito) TableName() string { return "distritos" }
