package asegurado

// Tamaños de página seleccionables en el listado.
var tamanosPagina = map[int]struct{}{10: {}, 20: {}, 50: {}}

const tamanoPaginaDefault = 10

// NormalizarTamano reduce cualquier tamaño pedido al conjunto {10, 20, 50}.
func NormalizarTamano(tamano int) int {
	if _, ok := tamanosPagina[tamano]; ok {
		return tamano
	}
	return tamanoPaginaDefault
}

// TotalPaginas calcula la cantidad de páginas por exceso, mínimo 1.
func TotalPaginas(total, tamano int) int {
	if total <= 0 {
		return 1
	}
	return (total + tamano - 1) / tamano
}

// AjustarPagina valida la página pedida contra el total vigente. Una página
// fuera de rango vuelve a 1: al cambiar filtro o tamaño la vista nunca queda
// apuntando más allá del final.
func AjustarPagina(pagina, totalPaginas int) int {
	if pagina < 1 || pagina > totalPaginas {
		return 1
	}
	return pagina
}

// Paginar corta la porción [(pagina-1)*tamano, pagina*tamano) acotada a los
// límites de la lista.
func Paginar(registros []Asegurado, pagina, tamano int) []Asegurado {
	inicio := (pagina - 1) * tamano
	if inicio < 0 || inicio >= len(registros) {
		return nil
	}
	fin := inicio + tamano
	if fin > len(registros) {
		fin = len(registros)
	}
	return registros[inicio:fin]
}
