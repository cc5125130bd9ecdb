package asegurado

import "strings"

// Campos de filtro disponibles en el listado. "pago" y "estado" no son
// búsquedas por subcadena: comparan un predicado derivado y el código
// almacenado respectivamente.
const (
	CampoNombre        = "asegurado"
	CampoNumeroCliente = "numero_cliente"
	CampoPoliza        = "poliza"
	CampoTipoSeguro    = "tipo_seguro"
	CampoMarcaVehiculo = "marca_vehiculo"
	CampoMatricula     = "matricula"
	CampoPago          = "pago"
	CampoEstado        = "estado"
	CampoNinguno       = ""
)

var camposFiltro = map[string]struct{}{
	CampoNombre:        {},
	CampoNumeroCliente: {},
	CampoPoliza:        {},
	CampoTipoSeguro:    {},
	CampoMarcaVehiculo: {},
	CampoMatricula:     {},
	CampoPago:          {},
	CampoEstado:        {},
	CampoNinguno:       {},
}

// Filtro representa el filtro activo de un listado: un campo y su valor.
type Filtro struct {
	Campo string
	Valor string
}

// CambiarCampo cambia la dimensión de filtrado y limpia el valor anterior.
// Limpiar al cambiar de campo es parte del contrato de interacción, no un
// efecto incidental: el valor tipeado para un campo no aplica a otro.
func (f *Filtro) CambiarCampo(campo string) {
	if f.Campo == campo {
		return
	}
	f.Campo = campo
	f.Valor = ""
}

// IsValidCampo indica si el selector pertenece al conjunto de nueve campos.
func IsValidCampo(campo string) bool {
	_, ok := camposFiltro[campo]
	return ok
}

// Filtrar devuelve el subconjunto que satisface el filtro, preservando el
// orden relativo original. Con valor vacío es la transformación identidad.
func Filtrar(registros []Asegurado, f Filtro) []Asegurado {
	if f.Valor == "" || f.Campo == CampoNinguno {
		return registros
	}

	filtrados := make([]Asegurado, 0, len(registros))
	switch f.Campo {
	case CampoPago:
		pagado := f.Valor == "SI"
		for _, a := range registros {
			if pagado && a.CuotasPagadas == a.CuotasPorPagar {
				filtrados = append(filtrados, a)
			} else if !pagado && a.CuotasPagadas < a.CuotasPorPagar {
				filtrados = append(filtrados, a)
			}
		}
	case CampoEstado:
		for _, a := range registros {
			if a.EstadoVencimiento == f.Valor {
				filtrados = append(filtrados, a)
			}
		}
	default:
		valor := strings.ToLower(f.Valor)
		for _, a := range registros {
			if strings.Contains(strings.ToLower(valorCampo(a, f.Campo)), valor) {
				filtrados = append(filtrados, a)
			}
		}
	}

	return filtrados
}

func valorCampo(a Asegurado, campo string) string {
	switch campo {
	case CampoNombre:
		return a.Nombre
	case CampoNumeroCliente:
		return a.NumeroCliente
	case CampoPoliza:
		return a.Poliza
	case CampoTipoSeguro:
		return a.TipoSeguro
	case CampoMarcaVehiculo:
		return a.MarcaVehiculo
	case CampoMatricula:
		return a.Matricula
	default:
		return ""
	}
}
