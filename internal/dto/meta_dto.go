package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Request DTOs ──────────────────────────────────────────────────────────────

type UpsertMetaRequest struct {
	SucursalID uint            `json:"sucursal_id" validate:"required,min=1"`
	Anio       int             `json:"anio"        validate:"required,min=2000,max=2100"`
	Mes        int             `json:"mes"         validate:"required,min=1,max=12"`
	Meta       decimal.Decimal `json:"meta"        validate:"min=0"`
}

type ActualizarMetaRequest struct {
	Meta decimal.Decimal `json:"meta" validate:"min=0"`
}

type MetaQuery struct {
	Anio       int  `form:"anio"        validate:"omitempty,min=2000,max=2100"`
	Mes        int  `form:"mes"         validate:"omitempty,min=1,max=12"`
	SucursalID uint `form:"sucursal_id"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type MetaResponse struct {
	ID             uint            `json:"id"`
	SucursalID     uint            `json:"sucursal_id"`
	SucursalNombre string          `json:"sucursal_nombre,omitempty"`
	Anio           int             `json:"anio"`
	Mes            int             `json:"mes"`
	Meta           decimal.Decimal `json:"meta"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
