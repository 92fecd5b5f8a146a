package dto

import (
	"time"

	"farmacierre/internal/model"

	"github.com/shopspring/decimal"
)

// ── Request DTOs ──────────────────────────────────────────────────────────────

// RegistroRequest is the body of create and update. Missing amounts count as zero;
// derived totals are never accepted from the client.
type RegistroRequest struct {
	Fecha              string          `json:"fecha"               validate:"required,datetime=2006-01-02"`
	SucursalID         uint            `json:"sucursal_id"         validate:"required,min=1"`
	TurnoID            uint            `json:"turno_id"            validate:"required,min=1"`
	CorrelativoInicial string          `json:"correlativo_inicial" validate:"max=100"`
	CorrelativoFinal   string          `json:"correlativo_final"   validate:"max=100"`
	CuentaID           *uint           `json:"cuenta_id"           validate:"omitempty,min=1"`
	MontoDepositado    decimal.Decimal `json:"monto_depositado"`
	VentaTarjeta       decimal.Decimal `json:"venta_tarjeta"`
	TotalSistema       decimal.Decimal `json:"total_sistema"`
	Gastos             decimal.Decimal `json:"gastos"`
	Canjes             decimal.Decimal `json:"canjes"`
	Observaciones      string          `json:"observaciones"`
}

// RangoQuery carries the date-range and branch filters shared by listings and reports.
type RangoQuery struct {
	FechaInicio string `form:"fecha_inicio" validate:"omitempty,datetime=2006-01-02"`
	FechaFin    string `form:"fecha_fin"    validate:"omitempty,datetime=2006-01-02"`
	SucursalID  uint   `form:"sucursal_id"`
	TurnoID     uint   `form:"turno_id"`
	CuentaID    uint   `form:"cuenta_id"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type RegistroResponse struct {
	ID                 uint            `json:"id"`
	Fecha              string          `json:"fecha"`
	SucursalID         uint            `json:"sucursal_id"`
	TurnoID            uint            `json:"turno_id"`
	CuentaID           *uint           `json:"cuenta_id"`
	CorrelativoInicial string          `json:"correlativo_inicial"`
	CorrelativoFinal   string          `json:"correlativo_final"`
	MontoDepositado    decimal.Decimal `json:"monto_depositado"`
	VentaTarjeta       decimal.Decimal `json:"venta_tarjeta"`
	TotalSistema       decimal.Decimal `json:"total_sistema"`
	Gastos             decimal.Decimal `json:"gastos"`
	Canjes             decimal.Decimal `json:"canjes"`
	TotalVentas        decimal.Decimal `json:"total_ventas"`
	TotalVendido       decimal.Decimal `json:"total_vendido"`
	TotalFacturado     decimal.Decimal `json:"total_facturado"`
	TotalNoFacturado   decimal.Decimal `json:"total_no_facturado"`
	TotalMeta          decimal.Decimal `json:"total_meta"`
	Faltante           decimal.Decimal `json:"faltante"`
	TieneFaltante      bool            `json:"tiene_faltante"`
	Observaciones      string          `json:"observaciones"`
	Sucursal           *model.Sucursal `json:"sucursal,omitempty"`
	Turno              *model.Turno    `json:"turno,omitempty"`
	Cuenta             *model.Cuenta   `json:"cuenta,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type ResumenSucursalRow struct {
	SucursalID       uint            `json:"sucursal_id"`
	SucursalNombre   string          `json:"sucursal_nombre"`
	Registros        int             `json:"registros"`
	TotalDepositado  decimal.Decimal `json:"total_depositado"`
	TotalTarjeta     decimal.Decimal `json:"total_tarjeta"`
	TotalVentas      decimal.Decimal `json:"total_ventas"`
	TotalSistema     decimal.Decimal `json:"total_sistema"`
	TotalFacturado   decimal.Decimal `json:"total_facturado"`
	TotalNoFacturado decimal.Decimal `json:"total_no_facturado"`
	TotalGastos      decimal.Decimal `json:"total_gastos"`
	TotalCanjes      decimal.Decimal `json:"total_canjes"`
	TotalVendido     decimal.Decimal `json:"total_vendido"`
	TotalMeta        decimal.Decimal `json:"total_meta"`
	Faltante         decimal.Decimal `json:"faltante"`
}

type ResumenSucursalResponse struct {
	Sucursales   []ResumenSucursalRow `json:"sucursales"`
	TotalGeneral ResumenSucursalRow   `json:"total_general"`
}
