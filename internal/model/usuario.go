package model

import "time"

// Usuario is an operator of the back office. It carries no credentials.
type Usuario struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Nombre    string    `gorm:"not null" json:"nombre"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Usuario) TableName() string { return "usuarios" }
