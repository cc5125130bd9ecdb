package usuario

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("usuario no encontrado")
	ErrDatosInvalidos = errors.New("datos inválidos")
	ErrInvalidRol     = errors.New("rol inválido")
	ErrCorreoEnUso    = errors.New("el correo ya está registrado")
)

const (
	RolEmpleado      = "empleado"
	RolAdministrador = "administrador"
)

var validRoles = map[string]struct{}{
	RolEmpleado:      {},
	RolAdministrador: {},
}

// Usuario representa una cuenta del personal. El hash de la contraseña
// nunca se serializa ni sale del paquete de servicio.
type Usuario struct {
	ID             uuid.UUID `json:"id"`
	NombreUsuario  string    `json:"nombre_usuario"`
	Correo         string    `json:"correo"`
	ContrasenaHash string    `json:"-"`
	Rol            string    `json:"rol"`
	CreadoEn       time.Time `json:"creado_en"`
}

// CreateInput encapsula el alta de una cuenta; Contrasena llega en claro y
// el servicio la hashea antes de tocar el repositorio.
type CreateInput struct {
	NombreUsuario string
	Correo        string
	Contrasena    string
	Rol           string
}

// UpdateInput permite edición parcial; una Contrasena presente se rehashea.
type UpdateInput struct {
	ID            uuid.UUID
	NombreUsuario *string
	Correo        *string
	Contrasena    *string
	Rol           *string
}

// NormalizeRol lleva el rol a minúsculas sin espacios.
func NormalizeRol(rol string) string {
	return strings.ToLower(strings.TrimSpace(rol))
}

// IsValidRol indica si el rol pertenece al conjunto cerrado de dos valores.
func IsValidRol(rol string) bool {
	_, ok := validRoles[rol]
	return ok
}
