package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/segurosdelplata/backoffice/internal/asegurado"
	"github.com/segurosdelplata/backoffice/internal/export"
)

type aseguradoPayload struct {
	NumeroCliente     *string `json:"numero_cliente"`
	Asegurado         *string `json:"asegurado"`
	Telefono          *string `json:"telefono"`
	Poliza            *string `json:"poliza"`
	TipoSeguro        *string `json:"tipo_seguro"`
	MarcaVehiculo     *string `json:"marca_vehiculo"`
	Matricula         *string `json:"matricula"`
	CuotasPagadas     *int    `json:"cuotas_pagadas"`
	CuotasPorPagar    *int    `json:"cuotas_por_pagar"`
	VencimientoCuotas *string `json:"vencimiento_cuotas"`
	VigenteDesde      *string `json:"vigente_desde"`
	VigenteHasta      *string `json:"vigente_hasta"`
	EstadoVencimiento *string `json:"estado_vencimiento"`
}

// ListAsegurados devuelve una página de la cartera filtrada.
func (h *Handler) ListAsegurados(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := asegurado.ListParams{
		Filtro: filtroDeQuery(q),
	}
	if v := q.Get("pagina"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "VALIDATION", "pagina inválida", nil)
			return
		}
		params.Pagina = n
	}
	if v := q.Get("tamano"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "VALIDATION", "tamano inválido", nil)
			return
		}
		params.Tamano = n
	}

	listado, err := h.asegurados.Listar(r.Context(), params)
	if err != nil {
		h.handleAseguradoError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, listado)
}

// GetAsegurado recupera un asegurado por id.
func (h *Handler) GetAsegurado(w http.ResponseWriter, r *http.Request) {
	id, err := aseguradoID(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	vista, err := h.asegurados.Obtener(r.Context(), id)
	if err != nil {
		h.handleAseguradoError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, vista)
}

// CreateAsegurado da de alta una póliza.
func (h *Handler) CreateAsegurado(w http.ResponseWriter, r *http.Request) {
	var payload aseguradoPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	input := asegurado.CreateInput{
		NumeroCliente:     deref(payload.NumeroCliente),
		Nombre:            deref(payload.Asegurado),
		Telefono:          deref(payload.Telefono),
		Poliza:            deref(payload.Poliza),
		TipoSeguro:        deref(payload.TipoSeguro),
		MarcaVehiculo:     deref(payload.MarcaVehiculo),
		Matricula:         deref(payload.Matricula),
		EstadoVencimiento: deref(payload.EstadoVencimiento),
	}
	if payload.CuotasPagadas != nil {
		input.CuotasPagadas = *payload.CuotasPagadas
	}
	if payload.CuotasPorPagar != nil {
		input.CuotasPorPagar = *payload.CuotasPorPagar
	}

	fechas := []struct {
		valor   *string
		destino *time.Time
		nombre  string
	}{
		{payload.VencimientoCuotas, &input.VencimientoCuotas, "vencimiento_cuotas"},
		{payload.VigenteDesde, &input.VigenteDesde, "vigente_desde"},
		{payload.VigenteHasta, &input.VigenteHasta, "vigente_hasta"},
	}
	for _, f := range fechas {
		if f.valor == nil || strings.TrimSpace(*f.valor) == "" {
			WriteError(w, http.StatusBadRequest, "VALIDATION", f.nombre+" es obligatorio", nil)
			return
		}
		ts, err := parseFecha(*f.valor)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "VALIDATION", f.nombre+" inválido", nil)
			return
		}
		*f.destino = ts
	}

	vista, err := h.asegurados.Crear(r.Context(), input)
	if err != nil {
		h.handleAseguradoError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, vista)
}

// UpdateAsegurado aplica una edición parcial.
func (h *Handler) UpdateAsegurado(w http.ResponseWriter, r *http.Request) {
	id, err := aseguradoID(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	var payload aseguradoPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	input := asegurado.UpdateInput{
		ID:                id,
		NumeroCliente:     payload.NumeroCliente,
		Nombre:            payload.Asegurado,
		Telefono:          payload.Telefono,
		Poliza:            payload.Poliza,
		TipoSeguro:        payload.TipoSeguro,
		MarcaVehiculo:     payload.MarcaVehiculo,
		Matricula:         payload.Matricula,
		CuotasPagadas:     payload.CuotasPagadas,
		CuotasPorPagar:    payload.CuotasPorPagar,
		EstadoVencimiento: payload.EstadoVencimiento,
	}

	fechas := []struct {
		valor   *string
		destino **time.Time
		nombre  string
	}{
		{payload.VencimientoCuotas, &input.VencimientoCuotas, "vencimiento_cuotas"},
		{payload.VigenteDesde, &input.VigenteDesde, "vigente_desde"},
		{payload.VigenteHasta, &input.VigenteHasta, "vigente_hasta"},
	}
	for _, f := range fechas {
		if f.valor == nil {
			continue
		}
		ts, err := parseFecha(*f.valor)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "VALIDATION", f.nombre+" inválido", nil)
			return
		}
		*f.destino = &ts
	}

	vista, err := h.asegurados.Actualizar(r.Context(), input)
	if err != nil {
		h.handleAseguradoError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, vista)
}

// DeleteAsegurado borra definitivamente una póliza.
func (h *Handler) DeleteAsegurado(w http.ResponseWriter, r *http.Request) {
	id, err := aseguradoID(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	if err := h.asegurados.Eliminar(r.Context(), id); err != nil {
		h.handleAseguradoError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ExportAseguradosExcel descarga el conjunto filtrado completo en .xlsx.
func (h *Handler) ExportAseguradosExcel(w http.ResponseWriter, r *http.Request) {
	archivo, err := h.exportaciones.Excel(r.Context(), filtroDeQuery(r.URL.Query()))
	if err != nil {
		h.handleAseguradoError(w, err)
		return
	}
	writeArchivo(w, archivo)
}

// ExportAseguradosPDF descarga el conjunto filtrado completo en .pdf.
func (h *Handler) ExportAseguradosPDF(w http.ResponseWriter, r *http.Request) {
	archivo, err := h.exportaciones.PDF(r.Context(), filtroDeQuery(r.URL.Query()))
	if err != nil {
		h.handleAseguradoError(w, err)
		return
	}
	writeArchivo(w, archivo)
}

func writeArchivo(w http.ResponseWriter, archivo *export.Archivo) {
	w.Header().Set("Content-Type", archivo.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", archivo.Nombre))
	w.Header().Set("Content-Length", strconv.Itoa(len(archivo.Contenido)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archivo.Contenido)
}

func (h *Handler) handleAseguradoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, asegurado.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, asegurado.ErrDatosInvalidos),
		errors.Is(err, asegurado.ErrInvalidTipo),
		errors.Is(err, asegurado.ErrInvalidEstado),
		errors.Is(err, asegurado.ErrTelefonoInvalido),
		errors.Is(err, asegurado.ErrCuotasInvalidas):
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
	default:
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "error interno", nil)
	}
}

func filtroDeQuery(q url.Values) asegurado.Filtro {
	return asegurado.Filtro{
		Campo: q.Get("campo"),
		Valor: q.Get("valor"),
	}
}

func aseguradoID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func parseFecha(valor string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(valor))
}

func deref(valor *string) string {
	if valor == nil {
		return ""
	}
	return *valor
}
