package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/segurosdelplata/backoffice/internal/asegurado"
)

// TituloPDF encabeza el reporte impreso.
const TituloPDF = "Lista de Asegurados"

type columnaPDF struct {
	titulo string
	ancho  float64
}

var columnasPDF = []columnaPDF{
	{"N° Cliente", 18},
	{"Asegurado", 32},
	{"Teléfono", 22},
	{"Póliza", 18},
	{"Tipo", 18},
	{"Marca/Modelo", 26},
	{"Matrícula", 18},
	{"Cuotas", 14},
	{"Vence", 18},
	{"Días", 10},
	{"Pago", 10},
	{"Desde", 18},
	{"Hasta", 18},
	{"Días Ren.", 14},
	{"Estado", 23},
}

// PDF genera el reporte apaisado con el conjunto filtrado completo.
// Las cuotas se imprimen como "pagadas/total".
func PDF(items []asegurado.Vista) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr(TituloPDF), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	encabezadoPDF(pdf, tr)

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range items {
		if pdf.GetY() > 185 {
			pdf.AddPage()
			encabezadoPDF(pdf, tr)
			pdf.SetFont("Helvetica", "", 7)
		}
		for i, valor := range filaPDF(item) {
			pdf.CellFormat(columnasPDF[i].ancho, 6, tr(valor), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("export: escribir pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func encabezadoPDF(pdf *fpdf.Fpdf, tr func(string) string) {
	pdf.SetFont("Helvetica", "B", 7)
	pdf.SetFillColor(221, 221, 221)
	for _, col := range columnasPDF {
		pdf.CellFormat(col.ancho, 7, tr(col.titulo), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

func filaPDF(v asegurado.Vista) []string {
	return []string{
		v.NumeroCliente,
		v.Nombre,
		v.Telefono,
		v.Poliza,
		v.TipoSeguro,
		v.MarcaVehiculo,
		v.Matricula,
		fmt.Sprintf("%d/%d", v.CuotasPagadas, v.CuotasPorPagar),
		v.VencimientoCuotas.Format(formatoFecha),
		fmt.Sprintf("%d", v.DiasVencimiento),
		v.Pago,
		v.VigenteDesde.Format(formatoFecha),
		v.VigenteHasta.Format(formatoFecha),
		fmt.Sprintf("%d", v.DiasRenovacion),
		v.Estado.Etiqueta,
	}
}
