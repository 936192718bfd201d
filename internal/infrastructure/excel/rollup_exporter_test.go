package excel_test

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/acopio-api/internal/application/dto"
	"github.com/jhoicas/acopio-api/internal/infrastructure/excel"
)

func TestRollupXLSX(t *testing.T) {
	r := &dto.RollupResponse{
		Date:    "2024-06-01",
		Centers: []dto.CenterColumnDTO{{ID: "1", Name: "Norte"}, {ID: "2", Name: "Sur"}},
		Rows: []dto.BucketDTO{
			{CropName: "apple", QualityGrade: "A", TotalQuantity: decimal.NewFromInt(150), SourceCenterCount: 2,
				CenterBreakdown: map[string]decimal.Decimal{"1": decimal.NewFromInt(100), "2": decimal.NewFromInt(50)}},
			{CropName: "pear", QualityGrade: "B", TotalQuantity: decimal.RequireFromString("40.5"), SourceCenterCount: 1,
				CenterBreakdown: map[string]decimal.Decimal{"1": decimal.RequireFromString("40.5"), "2": decimal.Zero}},
		},
		TotalQuantity: decimal.RequireFromString("190.5"),
	}

	raw, err := excel.NewRollupExporter().RollupXLSX(r)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Consolidado 2024-06-01")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Cultivo", "Calidad", "Total (kg)", "Centros con stock", "Norte", "Sur"}, rows[0])
	assert.Equal(t, []string{"apple", "A", "150", "2", "100", "50"}, rows[1])
	assert.Equal(t, []string{"pear", "B", "40.5", "1", "40.5", "0"}, rows[2])
	assert.Equal(t, "190.5", rows[3][2])
}
