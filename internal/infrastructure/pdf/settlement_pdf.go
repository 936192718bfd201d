// Package pdf genera el reporte PDF de la liquidación diaria de un centro de acopio.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Liquidación diaria + centro │ Fecha                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Concepto | Kg | Valor                                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DISCREPANCIAS: entrada / salida con su lectura             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: huella de entradas + QR                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/acopio-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 34, Green: 98, Blue: 52}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa el generador de reportes de liquidación con Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// SettlementPDF genera el PDF y devuelve sus bytes. centerName vacío = consolidado de la empresa.
func (g *MarotoPDFGenerator) SettlementPDF(s *entity.DailySettlement, centerName string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Liquidación diaria "+entity.DateKey(s.Date), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(s, centerName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(flowRows(s)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(discrepancyRows(s)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(s)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + centro (izq) y fecha (der).
func headerRow(s *entity.DailySettlement, centerName string) core.Row {
	scope := "Consolidado de la empresa"
	if !s.CompanyWide() {
		scope = "Centro de acopio: " + nonEmpty(centerName, s.CenterKey())
	}
	return row.New(18).Add(
		col.New(8).Add(
			text.New("LIQUIDACIÓN DIARIA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(scope, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Fecha", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(s.Date.Format("02/01/2006"), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Concepto", 6, align.Left),
		h("Kg", 3, align.Right),
		h("Valor", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// flowRows: una fila por flujo; los otros canales no tienen valor.
func flowRows(s *entity.DailySettlement) []core.Row {
	otherIn := s.TotalInKg.Sub(s.TotalWholesaleInKg)
	otherOut := s.TotalOutKg.Sub(s.TotalRetailOutKg)
	lines := []struct {
		label string
		kg    decimal.Decimal
		price *decimal.Decimal
		bold  bool
	}{
		{"Entrada mayorista", s.TotalWholesaleInKg, &s.TotalWholesaleInPrice, false},
		{"Otras entradas", otherIn, nil, false},
		{"Total entradas", s.TotalInKg, nil, true},
		{"Salida minorista", s.TotalRetailOutKg, &s.TotalRetailOutPrice, false},
		{"Otras salidas", otherOut, nil, false},
		{"Total salidas", s.TotalOutKg, nil, true},
	}
	rows := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		style := fontstyle.Normal
		if l.bold {
			style = fontstyle.Bold
		}
		price := "-"
		if l.price != nil {
			price = "$" + formatMoney(l.price.StringFixed(0))
		}
		rows = append(rows, row.New(7).Add(
			col.New(6).Add(text.New(l.label, props.Text{Size: 8, Style: style, Top: 1, Left: 1})),
			col.New(3).Add(text.New(formatKg(l.kg), props.Text{Size: 8, Style: style, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(price, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

// discrepancyRows: discrepancias con su lectura (positiva = pérdida, negativa = sobrante).
func discrepancyRows(s *entity.DailySettlement) []core.Row {
	entry := func(label string, d decimal.Decimal) core.Row {
		color := colorGray
		reading := "sin diferencia"
		switch {
		case d.IsPositive():
			color, reading = colorAlert, "pérdida"
		case d.IsNegative():
			color, reading = colorAlert, "sobrante"
		}
		return row.New(7).Add(
			col.New(6).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 9, Top: 1, Left: 1})),
			col.New(3).Add(text.New(formatKg(d), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1, Right: 1, Color: color})),
			col.New(3).Add(text.New(reading, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Color: color})),
		)
	}
	return []core.Row{
		entry("Discrepancia de entrada", s.DiscrepancyInKg),
		entry("Discrepancia de salida", s.DiscrepancyOutKg),
	}
}

// footerRows: huella de entradas para contrastar el reporte con el registro guardado.
func footerRows(s *entity.DailySettlement) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("Huella de entradas (BLAKE2b-256):", props.Text{Style: fontstyle.Bold, Size: 7, Top: 1}),
		)),
	}
	for _, chunk := range splitEvery(s.InputsDigest, 64) {
		rows = append(rows, row.New(4).Add(col.New(12).Add(
			text.New(chunk, props.Text{Size: 6.5, Color: colorGray, Top: 0.5, Left: 2}),
		)))
	}
	if s.InputsDigest != "" {
		rows = append(rows, row.New(30).Add(
			col.New(3).Add(code.NewQr(s.InputsDigest, props.Rect{Percent: 95, Center: true})),
			col.New(9).Add(text.New(
				"La liquidación se recalcula cuando cambian los snapshots o los movimientos "+
					"valorizados del día; una huella distinta indica un reporte desactualizado.",
				props.Text{Size: 7, Top: 4, Left: 3, Color: colorGray},
			)),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatKg dos decimales con separador de miles; conserva el signo.
func formatKg(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")
	return formatMoney(intPart) + "," + frac
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "-1000000" → "-1.000.000"
func formatMoney(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}

// splitEvery divide s en trozos de max n caracteres.
func splitEvery(s string, n int) []string {
	var parts []string
	for len(s) > n {
		parts = append(parts, s[:n])
		s = s[n:]
	}
	if s != "" {
		parts = append(parts, s)
	}
	return parts
}
