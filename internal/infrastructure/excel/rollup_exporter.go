// Package excel exporta el consolidado de inventario a planillas .xlsx.
package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/acopio-api/internal/application/dto"
)

// RollupExporter genera la planilla "Consolidado": una fila por (cultivo, calidad), columna de
// total y una columna por centro.
type RollupExporter struct{}

// NewRollupExporter construye el exportador.
func NewRollupExporter() *RollupExporter {
	return &RollupExporter{}
}

// RollupXLSX devuelve el archivo en memoria.
func (e *RollupExporter) RollupXLSX(r *dto.RollupResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := "Consolidado " + r.Date
	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheet); err != nil {
		return nil, fmt.Errorf("nombre de hoja: %w", err)
	}

	header := []interface{}{"Cultivo", "Calidad", "Total (kg)", "Centros con stock"}
	for _, c := range r.Centers {
		header = append(header, c.Name)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("encabezado: %w", err)
	}

	row := 2
	for _, b := range r.Rows {
		line := []interface{}{b.CropName, b.QualityGrade, b.TotalQuantity.InexactFloat64(), b.SourceCenterCount}
		for _, c := range r.Centers {
			line = append(line, b.CenterBreakdown[c.ID].InexactFloat64())
		}
		if err := setRow(f, sheet, row, line); err != nil {
			return nil, err
		}
		row++
	}

	total := []interface{}{"Total", "", r.TotalQuantity.InexactFloat64()}
	if err := setRow(f, sheet, row, total); err != nil {
		return nil, err
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		_ = f.SetCellStyle(sheet, "A1", last, style)
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("escribir planilla: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("celda fila %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("fila %d: %w", row, err)
	}
	return nil
}
