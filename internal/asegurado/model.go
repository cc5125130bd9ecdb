package asegurado

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound         = errors.New("asegurado no encontrado")
	ErrDatosInvalidos   = errors.New("datos inválidos")
	ErrInvalidTipo      = errors.New("tipo de seguro inválido")
	ErrInvalidEstado    = errors.New("estado de vencimiento inválido")
	ErrTelefonoInvalido = errors.New("el teléfono debe tener 9 u 11 dígitos")
	ErrCuotasInvalidas  = errors.New("las cuotas deben ser no negativas y el total al menos 1")
)

const (
	TipoMoto      = "Moto"
	TipoCamioneta = "Camioneta"
	TipoAlquiler  = "Alquiler"
	TipoAutomovil = "Automóvil"
)

var validTipos = map[string]struct{}{
	TipoMoto:      {},
	TipoCamioneta: {},
	TipoAlquiler:  {},
	TipoAutomovil: {},
}

// Asegurado representa la póliza de un asegurado tal como se persiste.
type Asegurado struct {
	ID                int64     `json:"id"`
	NumeroCliente     string    `json:"numero_cliente"`
	Nombre            string    `json:"asegurado"`
	Telefono          string    `json:"telefono"`
	Poliza            string    `json:"poliza"`
	TipoSeguro        string    `json:"tipo_seguro"`
	MarcaVehiculo     string    `json:"marca_vehiculo"`
	Matricula         string    `json:"matricula"`
	CuotasPagadas     int       `json:"cuotas_pagadas"`
	CuotasPorPagar    int       `json:"cuotas_por_pagar"`
	VencimientoCuotas time.Time `json:"vencimiento_cuotas"`
	VigenteDesde      time.Time `json:"vigente_desde"`
	VigenteHasta      time.Time `json:"vigente_hasta"`
	EstadoVencimiento string    `json:"estado_vencimiento"`
	CreadoEn          time.Time `json:"creado_en"`
	ActualizadoEn     time.Time `json:"actualizado_en"`
}

// Pagado indica si todas las cuotas fueron abonadas.
func (a Asegurado) Pagado() bool {
	return a.CuotasPagadas == a.CuotasPorPagar
}

// CreateInput encapsula los campos para alta de un asegurado.
// El teléfono llega tal como lo tipeó el operador; el servicio lo canoniza.
type CreateInput struct {
	NumeroCliente     string
	Nombre            string
	Telefono          string
	Poliza            string
	TipoSeguro        string
	MarcaVehiculo     string
	Matricula         string
	CuotasPagadas     int
	CuotasPorPagar    int
	VencimientoCuotas time.Time
	VigenteDesde      time.Time
	VigenteHasta      time.Time
	EstadoVencimiento string
}

// UpdateInput permite actualización parcial de un asegurado.
type UpdateInput struct {
	ID                int64
	NumeroCliente     *string
	Nombre            *string
	Telefono          *string
	Poliza            *string
	TipoSeguro        *string
	MarcaVehiculo     *string
	Matricula         *string
	CuotasPagadas     *int
	CuotasPorPagar    *int
	VencimientoCuotas *time.Time
	VigenteDesde      *time.Time
	VigenteHasta      *time.Time
	EstadoVencimiento *string
}

// IsValidTipo indica si el tipo de seguro pertenece al conjunto cerrado.
func IsValidTipo(tipo string) bool {
	_, ok := validTipos[strings.TrimSpace(tipo)]
	return ok
}
