package asegurado

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type repositorio interface {
	List(ctx context.Context) ([]Asegurado, error)
	Get(ctx context.Context, id int64) (*Asegurado, error)
	Create(ctx context.Context, input CreateInput) (*Asegurado, error)
	Update(ctx context.Context, input UpdateInput) (*Asegurado, error)
	Delete(ctx context.Context, id int64) error
}

// Service reúne las reglas de negocio sobre la cartera de asegurados.
type Service struct {
	repo repositorio
	now  func() time.Time
}

// NewService crea una nueva instancia del servicio.
func NewService(repo repositorio) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Vista es un asegurado junto con sus valores derivados al momento de leer.
// El código almacenado y la frescura calculada viajan juntos: pueden
// discrepar y esa discrepancia llega a la vista sin mediar corrección.
type Vista struct {
	Asegurado
	DiasVencimiento int    `json:"dias_vencimiento"`
	DiasRenovacion  int    `json:"dias_renovacion"`
	Pago            string `json:"pago"`
	Estado          Estado `json:"estado"`
}

// Listado es una página del listado filtrado.
type Listado struct {
	Items        []Vista `json:"items"`
	Total        int     `json:"total"`
	Pagina       int     `json:"pagina"`
	TotalPaginas int     `json:"total_paginas"`
	Tamano       int     `json:"tamano"`
}

// ListParams describe la consulta de listado.
type ListParams struct {
	Filtro Filtro
	Pagina int
	Tamano int
}

// Listar trae la cartera, aplica filtro y paginación en memoria y arma la
// vista derivada de cada fila.
func (s *Service) Listar(ctx context.Context, params ListParams) (*Listado, error) {
	if !IsValidCampo(params.Filtro.Campo) {
		return nil, fmt.Errorf("%w: campo de filtro desconocido", ErrDatosInvalidos)
	}

	registros, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	filtrados := Filtrar(registros, params.Filtro)

	tamano := NormalizarTamano(params.Tamano)
	totalPaginas := TotalPaginas(len(filtrados), tamano)
	pagina := AjustarPagina(params.Pagina, totalPaginas)
	porcion := Paginar(filtrados, pagina, tamano)

	ahora := s.now()
	items := make([]Vista, 0, len(porcion))
	for _, a := range porcion {
		items = append(items, s.vista(a, ahora))
	}

	return &Listado{
		Items:        items,
		Total:        len(filtrados),
		Pagina:       pagina,
		TotalPaginas: totalPaginas,
		Tamano:       tamano,
	}, nil
}

// ListarFiltrados devuelve el conjunto filtrado completo, sin paginar.
// Es la entrada de las exportaciones: exportan lo filtrado, no la página.
func (s *Service) ListarFiltrados(ctx context.Context, filtro Filtro) ([]Vista, error) {
	if !IsValidCampo(filtro.Campo) {
		return nil, fmt.Errorf("%w: campo de filtro desconocido", ErrDatosInvalidos)
	}

	registros, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	filtrados := Filtrar(registros, filtro)
	ahora := s.now()
	items := make([]Vista, 0, len(filtrados))
	for _, a := range filtrados {
		items = append(items, s.vista(a, ahora))
	}
	return items, nil
}

// Obtener recupera un asegurado con su vista derivada.
func (s *Service) Obtener(ctx context.Context, id int64) (*Vista, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	v := s.vista(*a, s.now())
	return &v, nil
}

// Crear valida y da de alta un asegurado. El teléfono se canoniza antes de
// escribir; si su forma es inválida no se intenta la inserción.
func (s *Service) Crear(ctx context.Context, input CreateInput) (*Vista, error) {
	if err := validarCampos(input); err != nil {
		return nil, err
	}

	telefono, err := NormalizarTelefono(input.Telefono)
	if err != nil {
		return nil, err
	}
	input.Telefono = telefono

	a, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	v := s.vista(*a, s.now())
	return &v, nil
}

// Actualizar aplica una edición parcial con las mismas validaciones del alta.
func (s *Service) Actualizar(ctx context.Context, input UpdateInput) (*Vista, error) {
	if input.Telefono != nil {
		telefono, err := NormalizarTelefono(*input.Telefono)
		if err != nil {
			return nil, err
		}
		input.Telefono = &telefono
	}
	if input.TipoSeguro != nil && !IsValidTipo(*input.TipoSeguro) {
		return nil, ErrInvalidTipo
	}
	if input.EstadoVencimiento != nil && !IsValidEstado(*input.EstadoVencimiento) {
		return nil, ErrInvalidEstado
	}
	if input.CuotasPagadas != nil && *input.CuotasPagadas < 0 {
		return nil, ErrCuotasInvalidas
	}
	if input.CuotasPorPagar != nil && *input.CuotasPorPagar < 1 {
		return nil, ErrCuotasInvalidas
	}

	a, err := s.repo.Update(ctx, input)
	if err != nil {
		return nil, err
	}
	v := s.vista(*a, s.now())
	return &v, nil
}

// Eliminar borra un asegurado. La confirmación en dos pasos vive en la
// pantalla; acá el borrado es definitivo.
func (s *Service) Eliminar(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) vista(a Asegurado, ahora time.Time) Vista {
	pago := "NO"
	if a.Pagado() {
		pago = "SI"
	}
	return Vista{
		Asegurado:       a,
		DiasVencimiento: DiasHasta(a.VencimientoCuotas, ahora),
		DiasRenovacion:  DiasHasta(a.VigenteHasta, ahora),
		Pago:            pago,
		Estado:          ClasificarEstado(a.EstadoVencimiento),
	}
}

func validarCampos(input CreateInput) error {
	requeridos := []struct {
		valor  string
		nombre string
	}{
		{input.NumeroCliente, "número de cliente"},
		{input.Nombre, "nombre del asegurado"},
		{input.Poliza, "póliza"},
		{input.MarcaVehiculo, "marca del vehículo"},
		{input.Matricula, "matrícula"},
	}
	for _, campo := range requeridos {
		if strings.TrimSpace(campo.valor) == "" {
			return fmt.Errorf("%w: %s obligatorio", ErrDatosInvalidos, campo.nombre)
		}
	}

	if !IsValidTipo(input.TipoSeguro) {
		return ErrInvalidTipo
	}
	if !IsValidEstado(input.EstadoVencimiento) {
		return ErrInvalidEstado
	}
	if input.CuotasPagadas < 0 || input.CuotasPorPagar < 1 {
		return ErrCuotasInvalidas
	}
	return nil
}
