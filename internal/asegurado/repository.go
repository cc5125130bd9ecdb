package asegurado

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const columnasAsegurado = `id, numero_cliente, asegurado, telefono, poliza, tipo_seguro, marca_vehiculo, matricula,
        cuotas_pagadas, cuotas_por_pagar, vencimiento_cuotas, vigente_desde, vigente_hasta, estado_vencimiento,
        creado_en, actualizado_en`

// Repository provee acceso a la tabla de asegurados.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository crea una instancia del repositorio.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List devuelve la cartera completa ordenada por número de cliente.
// El filtrado y la paginación se aplican en memoria sobre este resultado.
func (r *Repository) List(ctx context.Context) ([]Asegurado, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM asegurados
        ORDER BY numero_cliente ASC
    `, columnasAsegurado)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var registros []Asegurado
	for rows.Next() {
		a, err := scanAsegurado(rows)
		if err != nil {
			return nil, err
		}
		registros = append(registros, *a)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return registros, nil
}

// Get busca un asegurado por id.
func (r *Repository) Get(ctx context.Context, id int64) (*Asegurado, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM asegurados
        WHERE id = $1
    `, columnasAsegurado)

	row := r.pool.QueryRow(ctx, query, id)
	return scanAsegurado(row)
}

// Create inserta un asegurado nuevo y devuelve la fila creada.
func (r *Repository) Create(ctx context.Context, input CreateInput) (*Asegurado, error) {
	query := fmt.Sprintf(`
        INSERT INTO asegurados (numero_cliente, asegurado, telefono, poliza, tipo_seguro, marca_vehiculo, matricula,
            cuotas_pagadas, cuotas_por_pagar, vencimiento_cuotas, vigente_desde, vigente_hasta, estado_vencimiento)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING %s
    `, columnasAsegurado)

	row := r.pool.QueryRow(ctx, query,
		strings.TrimSpace(input.NumeroCliente),
		strings.TrimSpace(input.Nombre),
		input.Telefono,
		strings.TrimSpace(input.Poliza),
		strings.TrimSpace(input.TipoSeguro),
		strings.TrimSpace(input.MarcaVehiculo),
		strings.TrimSpace(input.Matricula),
		input.CuotasPagadas,
		input.CuotasPorPagar,
		input.VencimientoCuotas,
		input.VigenteDesde,
		input.VigenteHasta,
		input.EstadoVencimiento,
	)

	return scanAsegurado(row)
}

// Update aplica una actualización parcial y devuelve la fila resultante.
func (r *Repository) Update(ctx context.Context, input UpdateInput) (*Asegurado, error) {
	setParts := []string{}
	args := []any{}
	idx := 1

	set := func(col string, val any) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, val)
		idx++
	}

	if input.NumeroCliente != nil {
		set("numero_cliente", strings.TrimSpace(*input.NumeroCliente))
	}
	if input.Nombre != nil {
		set("asegurado", strings.TrimSpace(*input.Nombre))
	}
	if input.Telefono != nil {
		set("telefono", *input.Telefono)
	}
	if input.Poliza != nil {
		set("poliza", strings.TrimSpace(*input.Poliza))
	}
	if input.TipoSeguro != nil {
		set("tipo_seguro", strings.TrimSpace(*input.TipoSeguro))
	}
	if input.MarcaVehiculo != nil {
		set("marca_vehiculo", strings.TrimSpace(*input.MarcaVehiculo))
	}
	if input.Matricula != nil {
		set("matricula", strings.TrimSpace(*input.Matricula))
	}
	if input.CuotasPagadas != nil {
		set("cuotas_pagadas", *input.CuotasPagadas)
	}
	if input.CuotasPorPagar != nil {
		set("cuotas_por_pagar", *input.CuotasPorPagar)
	}
	if input.VencimientoCuotas != nil {
		set("vencimiento_cuotas", *input.VencimientoCuotas)
	}
	if input.VigenteDesde != nil {
		set("vigente_desde", *input.VigenteDesde)
	}
	if input.VigenteHasta != nil {
		set("vigente_hasta", *input.VigenteHasta)
	}
	if input.EstadoVencimiento != nil {
		set("estado_vencimiento", *input.EstadoVencimiento)
	}

	if len(setParts) == 0 {
		return r.Get(ctx, input.ID)
	}

	setParts = append(setParts, "actualizado_en = now()")

	args = append(args, input.ID)
	query := fmt.Sprintf(`
        UPDATE asegurados
        SET %s
        WHERE id = $%d
        RETURNING %s
    `, strings.Join(setParts, ", "), idx, columnasAsegurado)

	row := r.pool.QueryRow(ctx, query, args...)
	return scanAsegurado(row)
}

// Delete elimina un asegurado por id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM asegurados WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAsegurado(row pgx.Row) (*Asegurado, error) {
	var a Asegurado
	if err := row.Scan(
		&a.ID, &a.NumeroCliente, &a.Nombre, &a.Telefono, &a.Poliza, &a.TipoSeguro, &a.MarcaVehiculo, &a.Matricula,
		&a.CuotasPagadas, &a.CuotasPorPagar, &a.VencimientoCuotas, &a.VigenteDesde, &a.VigenteHasta, &a.EstadoVencimiento,
		&a.CreadoEn, &a.ActualizadoEn,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
