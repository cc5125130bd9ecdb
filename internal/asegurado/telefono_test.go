package asegurado

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizarTelefono(t *testing.T) {
	tests := []struct {
		nombre  string
		entrada string
		salida  string
		falla   bool
	}{
		{"local de nueve digitos", "097464651", "59897464651", false},
		{"nueve digitos con separadores", "097 464-651", "59897464651", false},
		{"ya canonico de once digitos", "59897464651", "59897464651", false},
		{"ocho digitos", "97464651", "", true},
		{"diez digitos", "0974646511", "", true},
		{"vacio", "", "", true},
		{"solo letras", "telefono", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.nombre, func(t *testing.T) {
			salida, err := NormalizarTelefono(tc.entrada)
			if tc.falla {
				require.ErrorIs(t, err, ErrTelefonoInvalido)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.salida, salida)
		})
	}
}

func TestSoloDigitos(t *testing.T) {
	assert.Equal(t, "097464651", SoloDigitos("(097) 464-651"))
	assert.Equal(t, "", SoloDigitos("sin numeros"))
	assert.Equal(t, "12345678901", SoloDigitos("123456789012345"))
}
