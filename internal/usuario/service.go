package usuario

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/segurosdelplata/backoffice/internal/auth"
)

type repositorio interface {
	List(ctx context.Context) ([]Usuario, error)
	Get(ctx context.Context, id uuid.UUID) (*Usuario, error)
	GetByCorreo(ctx context.Context, correo string) (*Usuario, error)
	Create(ctx context.Context, nombreUsuario, correo, contrasenaHash, rol string) (*Usuario, error)
	Update(ctx context.Context, id uuid.UUID, nombreUsuario, correo, contrasenaHash, rol *string) (*Usuario, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service centraliza los casos de uso sobre cuentas del personal.
type Service struct {
	repo repositorio
}

// NewService crea una nueva instancia del servicio.
func NewService(repo repositorio) *Service {
	return &Service{repo: repo}
}

// Listar devuelve las cuentas registradas.
func (s *Service) Listar(ctx context.Context) ([]Usuario, error) {
	return s.repo.List(ctx)
}

// Obtener recupera una cuenta por id.
func (s *Service) Obtener(ctx context.Context, id uuid.UUID) (*Usuario, error) {
	return s.repo.Get(ctx, id)
}

// ObtenerPorCorreo recupera una cuenta por correo.
func (s *Service) ObtenerPorCorreo(ctx context.Context, correo string) (*Usuario, error) {
	return s.repo.GetByCorreo(ctx, strings.ToLower(strings.TrimSpace(correo)))
}

// Crear da de alta una cuenta. La contraseña en claro se hashea con
// Argon2id acá mismo: el repositorio nunca ve el secreto recuperable.
func (s *Service) Crear(ctx context.Context, input CreateInput) (*Usuario, error) {
	nombre := strings.TrimSpace(input.NombreUsuario)
	if nombre == "" {
		return nil, fmt.Errorf("%w: nombre de usuario obligatorio", ErrDatosInvalidos)
	}

	correo, err := normalizarCorreo(input.Correo)
	if err != nil {
		return nil, err
	}

	if err := validarContrasena(input.Contrasena); err != nil {
		return nil, err
	}

	rol := NormalizeRol(input.Rol)
	if !IsValidRol(rol) {
		return nil, ErrInvalidRol
	}

	hash, err := auth.Hash(input.Contrasena)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, nombre, correo, hash, rol)
}

// Actualizar aplica una edición parcial de la cuenta.
func (s *Service) Actualizar(ctx context.Context, input UpdateInput) (*Usuario, error) {
	if input.NombreUsuario != nil && strings.TrimSpace(*input.NombreUsuario) == "" {
		return nil, fmt.Errorf("%w: nombre de usuario obligatorio", ErrDatosInvalidos)
	}

	var correo *string
	if input.Correo != nil {
		normalizado, err := normalizarCorreo(*input.Correo)
		if err != nil {
			return nil, err
		}
		correo = &normalizado
	}

	var hash *string
	if input.Contrasena != nil {
		if err := validarContrasena(*input.Contrasena); err != nil {
			return nil, err
		}
		h, err := auth.Hash(*input.Contrasena)
		if err != nil {
			return nil, err
		}
		hash = &h
	}

	var rol *string
	if input.Rol != nil {
		normalizado := NormalizeRol(*input.Rol)
		if !IsValidRol(normalizado) {
			return nil, ErrInvalidRol
		}
		rol = &normalizado
	}

	return s.repo.Update(ctx, input.ID, input.NombreUsuario, correo, hash, rol)
}

// Eliminar borra definitivamente la cuenta.
func (s *Service) Eliminar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func normalizarCorreo(correo string) (string, error) {
	correo = strings.ToLower(strings.TrimSpace(correo))
	if correo == "" {
		return "", fmt.Errorf("%w: correo obligatorio", ErrDatosInvalidos)
	}
	if _, err := mail.ParseAddress(correo); err != nil {
		return "", fmt.Errorf("%w: correo inválido", ErrDatosInvalidos)
	}
	return correo, nil
}

func validarContrasena(contrasena string) error {
	if len(contrasena) < 8 {
		return fmt.Errorf("%w: la contraseña debe tener al menos 8 caracteres", ErrDatosInvalidos)
	}
	return nil
}
