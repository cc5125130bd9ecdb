package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/segurosdelplata/backoffice/internal/asegurado"
)

// HojaAsegurados es el nombre de la hoja generada.
const HojaAsegurados = "Asegurados"

const formatoFecha = "02/01/2006"

var encabezadosExcel = []string{
	"N° Cliente",
	"Asegurado",
	"Teléfono",
	"Póliza",
	"Tipo",
	"Marca/Modelo",
	"Matrícula",
	"Cuotas Pagadas",
	"Total Cuotas",
	"Vencimiento",
	"Días para Vencimiento",
	"Estado de Pago",
	"Vigencia Desde",
	"Vigencia Hasta",
	"Días para Renovación",
	"Estado",
}

// Excel genera el libro con el conjunto filtrado completo, una fila por
// asegurado y las columnas en el orden del listado.
func Excel(items []asegurado.Vista) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", HojaAsegurados); err != nil {
		return nil, fmt.Errorf("export: renombrar hoja: %w", err)
	}

	estiloEncabezado, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDDDDD"}},
	})
	if err != nil {
		return nil, fmt.Errorf("export: estilo de encabezado: %w", err)
	}

	for i, titulo := range encabezadosExcel {
		celda, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(HojaAsegurados, celda, titulo); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(HojaAsegurados, celda, celda, estiloEncabezado); err != nil {
			return nil, err
		}
	}

	for fila, item := range items {
		valores := filaExcel(item)
		for col, valor := range valores {
			celda, err := excelize.CoordinatesToCellName(col+1, fila+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(HojaAsegurados, celda, valor); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetColWidth(HojaAsegurados, "A", "P", 18); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

func filaExcel(v asegurado.Vista) []interface{} {
	return []interface{}{
		v.NumeroCliente,
		v.Nombre,
		v.Telefono,
		v.Poliza,
		v.TipoSeguro,
		v.MarcaVehiculo,
		v.Matricula,
		v.CuotasPagadas,
		v.CuotasPorPagar,
		v.VencimientoCuotas.Format(formatoFecha),
		v.DiasVencimiento,
		v.Pago,
		v.VigenteDesde.Format(formatoFecha),
		v.VigenteHasta.Format(formatoFecha),
		v.DiasRenovacion,
		v.Estado.Etiqueta,
	}
}
