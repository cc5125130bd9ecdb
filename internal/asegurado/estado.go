package asegurado

import (
	"math"
	"time"
)

// Severidad clasifica un estado de vencimiento para su coloreado en pantalla.
type Severidad string

const (
	SeveridadSegura        Severidad = "segura"
	SeveridadSeguraSuave   Severidad = "segura-suave"
	SeveridadAdvertencia   Severidad = "advertencia"
	SeveridadAdvertenciaF  Severidad = "advertencia-fuerte"
	SeveridadPeligro       Severidad = "peligro"
	SeveridadPeligroFuerte Severidad = "peligro-fuerte"
	SeveridadVencido       Severidad = "vencido"
	SeveridadVencidoFuerte Severidad = "vencido-fuerte"
	SeveridadNeutral       Severidad = "neutral"
)

// Estado es la lectura para mostrar de un código de estado de vencimiento.
type Estado struct {
	Codigo    string    `json:"codigo"`
	Etiqueta  string    `json:"etiqueta"`
	Severidad Severidad `json:"severidad"`
}

var estados = map[string]Estado{
	"+30":    {Codigo: "+30", Etiqueta: "+30 días", Severidad: SeveridadSegura},
	"15-30":  {Codigo: "15-30", Etiqueta: "15 a 30 días", Severidad: SeveridadSeguraSuave},
	"10-15":  {Codigo: "10-15", Etiqueta: "10 a 15 días", Severidad: SeveridadAdvertencia},
	"5-10":   {Codigo: "5-10", Etiqueta: "5 a 10 días", Severidad: SeveridadAdvertenciaF},
	"0-5":    {Codigo: "0-5", Etiqueta: "0 a 5 días", Severidad: SeveridadPeligro},
	"Hoy":    {Codigo: "Hoy", Etiqueta: "Hoy", Severidad: SeveridadPeligroFuerte},
	"-1-5":   {Codigo: "-1-5", Etiqueta: "1 a 5 días vencido", Severidad: SeveridadVencido},
	"-5-10":  {Codigo: "-5-10", Etiqueta: "5 a 10 días vencido", Severidad: SeveridadVencido},
	"-10-15": {Codigo: "-10-15", Etiqueta: "10 a 15 días vencido", Severidad: SeveridadVencido},
	"-15-30": {Codigo: "-15-30", Etiqueta: "15 a 30 días vencido", Severidad: SeveridadVencido},
	"-30":    {Codigo: "-30", Etiqueta: "+30 días vencido", Severidad: SeveridadVencidoFuerte},
}

// CodigosEstado devuelve los once códigos conocidos en el orden del formulario.
func CodigosEstado() []string {
	return []string{"+30", "15-30", "10-15", "5-10", "0-5", "Hoy", "-1-5", "-5-10", "-10-15", "-15-30", "-30"}
}

// ClasificarEstado resuelve etiqueta y severidad para un código almacenado.
// Es una función total: un código desconocido se muestra textual con
// severidad neutral, nunca se rechaza.
func ClasificarEstado(codigo string) Estado {
	if e, ok := estados[codigo]; ok {
		return e
	}
	return Estado{Codigo: codigo, Etiqueta: codigo, Severidad: SeveridadNeutral}
}

// IsValidEstado indica si el código pertenece al conjunto cerrado de once.
func IsValidEstado(codigo string) bool {
	_, ok := estados[codigo]
	return ok
}

// DiasHasta calcula los días enteros hasta la fecha objetivo, redondeando
// hacia arriba. Se deriva siempre al momento de leer y nunca se usa para
// corregir el código almacenado: ambos valores viajan juntos a la vista.
func DiasHasta(fecha, ahora time.Time) int {
	diff := fecha.Sub(ahora)
	return int(math.Ceil(diff.Hours() / 24))
}
