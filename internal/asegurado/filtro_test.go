package asegurado

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func cartera() []Asegurado {
	return []Asegurado{
		{ID: 1, NumeroCliente: "1001", Nombre: "Ana García", Poliza: "P-100", TipoSeguro: TipoMoto, MarcaVehiculo: "Yamaha FZ", Matricula: "SAA1234", CuotasPagadas: 3, CuotasPorPagar: 3, EstadoVencimiento: "+30"},
		{ID: 2, NumeroCliente: "1002", Nombre: "Bruno Silva", Poliza: "P-200", TipoSeguro: TipoAutomovil, MarcaVehiculo: "Chevrolet Onix", Matricula: "SBB5678", CuotasPagadas: 2, CuotasPorPagar: 3, EstadoVencimiento: "0-5"},
		{ID: 3, NumeroCliente: "1003", Nombre: "Carla Núñez", Poliza: "P-300", TipoSeguro: TipoCamioneta, MarcaVehiculo: "Toyota Hilux", Matricula: "SCC9012", CuotasPagadas: 5, CuotasPorPagar: 5, EstadoVencimiento: "Hoy"},
		{ID: 4, NumeroCliente: "1004", Nombre: "Diego Garrido", Poliza: "P-400", TipoSeguro: TipoAlquiler, MarcaVehiculo: "Fiat Cronos", Matricula: "SDD3456", CuotasPagadas: 1, CuotasPorPagar: 2, EstadoVencimiento: "0-5"},
	}
}

func idsDe(registros []Asegurado) []int64 {
	ids := make([]int64, 0, len(registros))
	for _, a := range registros {
		ids = append(ids, a.ID)
	}
	return ids
}

func TestFiltrarValorVacioEsIdentidad(t *testing.T) {
	registros := cartera()
	assert.Equal(t, registros, Filtrar(registros, Filtro{Campo: CampoNombre, Valor: ""}))
	assert.Equal(t, registros, Filtrar(registros, Filtro{Campo: CampoNinguno, Valor: "algo"}))
}

func TestFiltrarPago(t *testing.T) {
	registros := cartera()

	pagados := Filtrar(registros, Filtro{Campo: CampoPago, Valor: "SI"})
	assert.Equal(t, []int64{1, 3}, idsDe(pagados))

	pendientes := Filtrar(registros, Filtro{Campo: CampoPago, Valor: "NO"})
	assert.Equal(t, []int64{2, 4}, idsDe(pendientes))

	assert.Len(t, pagados, len(registros)-len(pendientes))
}

func TestFiltrarEstadoEsExacto(t *testing.T) {
	registros := cartera()

	assert.Equal(t, []int64{2, 4}, idsDe(Filtrar(registros, Filtro{Campo: CampoEstado, Valor: "0-5"})))
	assert.Empty(t, Filtrar(registros, Filtro{Campo: CampoEstado, Valor: "0"}))
	assert.Equal(t, []int64{3}, idsDe(Filtrar(registros, Filtro{Campo: CampoEstado, Valor: "Hoy"})))
}

func TestFiltrarSubcadenaSinDistinguirMayusculas(t *testing.T) {
	registros := cartera()

	assert.Equal(t, []int64{1, 4}, idsDe(Filtrar(registros, Filtro{Campo: CampoNombre, Valor: "gar"})))
	assert.Equal(t, []int64{1, 4}, idsDe(Filtrar(registros, Filtro{Campo: CampoNombre, Valor: "GAR"})))
	assert.Equal(t, []int64{3}, idsDe(Filtrar(registros, Filtro{Campo: CampoMarcaVehiculo, Valor: "hilux"})))
	assert.Empty(t, Filtrar(registros, Filtro{Campo: CampoMatricula, Valor: "ZZZ"}))
}

func TestFiltrarEsIdempotenteYPreservaOrden(t *testing.T) {
	registros := cartera()
	f := Filtro{Campo: CampoEstado, Valor: "0-5"}

	una := Filtrar(registros, f)
	dos := Filtrar(una, f)
	assert.Equal(t, una, dos)
	assert.Equal(t, []int64{2, 4}, idsDe(una))
}

func TestCambiarCampoLimpiaValor(t *testing.T) {
	f := Filtro{Campo: CampoNombre, Valor: "gar"}

	f.CambiarCampo(CampoNombre)
	assert.Equal(t, "gar", f.Valor)

	f.CambiarCampo(CampoPoliza)
	assert.Equal(t, CampoPoliza, f.Campo)
	assert.Equal(t, "", f.Valor)
}

func TestIsValidCampo(t *testing.T) {
	for _, campo := range []string{CampoNombre, CampoNumeroCliente, CampoPoliza, CampoTipoSeguro, CampoMarcaVehiculo, CampoMatricula, CampoPago, CampoEstado, CampoNinguno} {
		assert.True(t, IsValidCampo(campo), campo)
	}
	assert.False(t, IsValidCampo("telefono"))
}
