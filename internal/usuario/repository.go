package usuario

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const columnasUsuario = `id, nombre_usuario, correo, contrasena_hash, rol, creado_en`

// Repository provee acceso a la tabla de usuarios.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository crea una instancia del repositorio.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List devuelve las cuentas ordenadas por nombre de usuario.
func (r *Repository) List(ctx context.Context) ([]Usuario, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM usuarios
        ORDER BY nombre_usuario ASC
    `, columnasUsuario)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usuarios []Usuario
	for rows.Next() {
		u, err := scanUsuario(rows)
		if err != nil {
			return nil, err
		}
		usuarios = append(usuarios, *u)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return usuarios, nil
}

// Get busca una cuenta por id.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*Usuario, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM usuarios
        WHERE id = $1
    `, columnasUsuario)

	row := r.pool.QueryRow(ctx, query, id)
	return scanUsuario(row)
}

// GetByCorreo busca una cuenta por correo (ya normalizado a minúsculas).
func (r *Repository) GetByCorreo(ctx context.Context, correo string) (*Usuario, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM usuarios
        WHERE correo = $1
    `, columnasUsuario)

	row := r.pool.QueryRow(ctx, query, correo)
	return scanUsuario(row)
}

// Create inserta una cuenta nueva.
func (r *Repository) Create(ctx context.Context, nombreUsuario, correo, contrasenaHash, rol string) (*Usuario, error) {
	query := fmt.Sprintf(`
        INSERT INTO usuarios (id, nombre_usuario, correo, contrasena_hash, rol)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING %s
    `, columnasUsuario)

	row := r.pool.QueryRow(ctx, query, uuid.New(), nombreUsuario, correo, contrasenaHash, rol)
	u, err := scanUsuario(row)
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return u, nil
}

// Update aplica una edición parcial y devuelve la fila resultante.
// ContrasenaHash viene ya hasheada desde el servicio.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, nombreUsuario, correo, contrasenaHash, rol *string) (*Usuario, error) {
	setParts := []string{}
	args := []any{}
	idx := 1

	set := func(col string, val any) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, val)
		idx++
	}

	if nombreUsuario != nil {
		set("nombre_usuario", strings.TrimSpace(*nombreUsuario))
	}
	if correo != nil {
		set("correo", *correo)
	}
	if contrasenaHash != nil {
		set("contrasena_hash", *contrasenaHash)
	}
	if rol != nil {
		set("rol", *rol)
	}

	if len(setParts) == 0 {
		return r.Get(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`
        UPDATE usuarios
        SET %s
        WHERE id = $%d
        RETURNING %s
    `, strings.Join(setParts, ", "), idx, columnasUsuario)

	row := r.pool.QueryRow(ctx, query, args...)
	u, err := scanUsuario(row)
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return u, nil
}

// Delete elimina una cuenta por id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM usuarios WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUsuario(row pgx.Row) (*Usuario, error) {
	var u Usuario
	if err := row.Scan(&u.ID, &u.NombreUsuario, &u.Correo, &u.ContrasenaHash, &u.Rol, &u.CreadoEn); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrCorreoEnUso
	}
	return err
}
