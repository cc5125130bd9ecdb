package asegurado

import "strings"

// Prefijo internacional que se antepone a los números locales.
const prefijoPais = "598"

const maxDigitosTelefono = 11

// SoloDigitos descarta todo carácter no numérico y acota a 11 dígitos.
// Es la misma máscara que aplica el formulario en cada tecla, de modo que
// el valor siempre sea representable por la regla de canonización.
func SoloDigitos(entrada string) string {
	var b strings.Builder
	for _, r := range entrada {
		if r < '0' || r > '9' {
			continue
		}
		b.WriteRune(r)
		if b.Len() == maxDigitosTelefono {
			break
		}
	}
	return b.String()
}

// NormalizarTelefono canoniza un teléfono tipeado por el operador.
// Nueve dígitos se interpretan como número local con dígito troncal: se
// quita el primero y se antepone el prefijo de país, quedando 11 dígitos.
// Once dígitos pasan sin cambios. Cualquier otra longitud se rechaza antes
// de intentar escritura alguna.
func NormalizarTelefono(entrada string) (string, error) {
	digitos := quitarNoDigitos(entrada)
	switch len(digitos) {
	case 9:
		return prefijoPais + digitos[1:], nil
	case 11:
		return digitos, nil
	default:
		return "", ErrTelefonoInvalido
	}
}

func quitarNoDigitos(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
