package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/segurosdelplata/backoffice/internal/usuario"
)

type usuarioPayload struct {
	NombreUsuario *string `json:"nombre_usuario"`
	Correo        *string `json:"correo"`
	Contrasena    *string `json:"contrasena"`
	Rol           *string `json:"rol"`
}

// ListUsuarios devuelve las cuentas del personal.
func (h *Handler) ListUsuarios(w http.ResponseWriter, r *http.Request) {
	cuentas, err := h.usuarios.Listar(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "no se pudieron listar las cuentas", nil)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"usuarios": cuentas})
}

// GetUsuario recupera una cuenta por id.
func (h *Handler) GetUsuario(w http.ResponseWriter, r *http.Request) {
	id, err := usuarioID(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	cuenta, err := h.usuarios.Obtener(r.Context(), id)
	if err != nil {
		h.handleUsuarioError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, cuenta)
}

// CreateUsuario da de alta una cuenta. Solo administradores llegan acá.
func (h *Handler) CreateUsuario(w http.ResponseWriter, r *http.Request) {
	var payload usuarioPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	cuenta, err := h.usuarios.Crear(r.Context(), usuario.CreateInput{
		NombreUsuario: deref(payload.NombreUsuario),
		Correo:        deref(payload.Correo),
		Contrasena:    deref(payload.Contrasena),
		Rol:           deref(payload.Rol),
	})
	if err != nil {
		h.handleUsuarioError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, cuenta)
}

// UpdateUsuario aplica una edición parcial de la cuenta.
func (h *Handler) UpdateUsuario(w http.ResponseWriter, r *http.Request) {
	id, err := usuarioID(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	var payload usuarioPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	cuenta, err := h.usuarios.Actualizar(r.Context(), usuario.UpdateInput{
		ID:            id,
		NombreUsuario: payload.NombreUsuario,
		Correo:        payload.Correo,
		Contrasena:    payload.Contrasena,
		Rol:           payload.Rol,
	})
	if err != nil {
		h.handleUsuarioError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, cuenta)
}

// DeleteUsuario borra definitivamente la cuenta.
func (h *Handler) DeleteUsuario(w http.ResponseWriter, r *http.Request) {
	id, err := usuarioID(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	if err := h.usuarios.Eliminar(r.Context(), id); err != nil {
		h.handleUsuarioError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) handleUsuarioError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usuario.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, usuario.ErrCorreoEnUso):
		WriteError(w, http.StatusConflict, "VALIDATION", err.Error(), nil)
	case errors.Is(err, usuario.ErrDatosInvalidos), errors.Is(err, usuario.ErrInvalidRol):
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
	default:
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "error interno", nil)
	}
}

func usuarioID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}
