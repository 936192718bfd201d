package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/acopio-api/internal/domain"
	"github.com/jhoicas/acopio-api/internal/domain/entity"
)

func TestParseQualityGrade(t *testing.T) {
	tests := []struct {
		in      string
		want    entity.QualityGrade
		wantErr bool
	}{
		{"A", entity.GradeA, false},
		{" b ", entity.GradeB, false},
		{"c", entity.GradeC, false},
		{"D", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := entity.ParseQualityGrade(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, domain.ErrInvalidInput, "entrada %q", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestQualityGrade_Orden(t *testing.T) {
	assert.Equal(t, []entity.QualityGrade{entity.GradeA, entity.GradeB, entity.GradeC}, entity.QualityGrades())
	assert.Less(t, entity.GradeA.Rank(), entity.GradeB.Rank())
	assert.Less(t, entity.GradeC.Rank(), entity.QualityGrade("Z").Rank())
}

func TestInventoryItem_HasStock(t *testing.T) {
	zero := entity.InventoryItem{CropName: "apple", QualityGrade: entity.GradeA, Quantity: decimal.Zero}
	assert.NoError(t, zero.Validate(), "una línea en cero es válida")
	assert.False(t, zero.HasStock())

	some := zero
	some.Quantity = decimal.NewFromInt(3)
	assert.True(t, some.HasStock())
}

func TestInventorySnapshot_Correct(t *testing.T) {
	created := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	s := entity.InventorySnapshot{
		ID: "s1", Date: created, CenterID: "1", CreatedAt: created, UpdatedAt: created,
		Items: []entity.InventoryItem{{ID: "i1", CropName: "apple", QualityGrade: entity.GradeA, Quantity: decimal.NewFromInt(10)}},
	}
	now := created.Add(2 * time.Hour)

	require.NoError(t, s.Correct("i1", decimal.NewFromInt(7), now))
	assert.True(t, s.Items[0].Quantity.Equal(decimal.NewFromInt(7)))
	assert.Equal(t, now, s.UpdatedAt, "la corrección actualiza updated_at")
	assert.Equal(t, created, s.CreatedAt)

	assert.ErrorIs(t, s.Correct("i1", decimal.NewFromInt(-1), now), domain.ErrInvalidInput)
	assert.ErrorIs(t, s.Correct("no-existe", decimal.NewFromInt(1), now), domain.ErrNotFound)
	assert.True(t, s.TotalQuantity().Equal(decimal.NewFromInt(7)))
}

func TestInventoryItem_ValidaEscalaYNombre(t *testing.T) {
	it := entity.InventoryItem{CropName: "apple", QualityGrade: entity.GradeA, Quantity: decimal.RequireFromString("1.234")}
	require.NoError(t, it.Validate())

	it.Quantity = decimal.RequireFromString("1.2345")
	ve, ok := domain.IsValidation(it.Validate())
	require.True(t, ok)
	assert.Equal(t, "quantity", ve.Field)

	it.Quantity = decimal.NewFromInt(1)
	it.CropName = "a\x1fb"
	ve, ok = domain.IsValidation(it.Validate())
	require.True(t, ok)
	assert.Equal(t, "crop_name", ve.Field)
}

func TestInventorySnapshot_ValidaCentroYEscalaDeCorreccion(t *testing.T) {
	s := entity.InventorySnapshot{
		ID: "s1", Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), CenterID: "b\x1fz",
		Items: []entity.InventoryItem{{ID: "i1", CropName: "apple", QualityGrade: entity.GradeA, Quantity: decimal.NewFromInt(10)}},
	}
	ve, ok := domain.IsValidation(s.Validate())
	require.True(t, ok)
	assert.Equal(t, "center_id", ve.Field)

	s.CenterID = "1"
	require.NoError(t, s.Validate())
	assert.ErrorIs(t, s.Correct("i1", decimal.RequireFromString("0.0001"), time.Now()), domain.ErrInvalidInput)
	assert.True(t, s.Items[0].Quantity.Equal(decimal.NewFromInt(10)))
}

func TestCheckScale(t *testing.T) {
	assert.NoError(t, entity.CheckScale("price", decimal.RequireFromString("12.30"), entity.PriceDecimals))
	assert.NoError(t, entity.CheckScale("price", decimal.RequireFromString("12.300"), entity.PriceDecimals), "ceros a la derecha no cuentan")
	assert.ErrorIs(t, entity.CheckScale("price", decimal.RequireFromString("12.305"), entity.PriceDecimals), domain.ErrInvalidInput)
}

func TestDailySettlement_CheckTotals(t *testing.T) {
	s := entity.DailySettlement{
		TotalWholesaleInKg: decimal.NewFromInt(10),
		TotalInKg:          decimal.NewFromInt(9),
	}
	assert.ErrorIs(t, s.CheckTotals(), domain.ErrInvalidInput)

	s.TotalInKg = decimal.NewFromInt(10)
	assert.NoError(t, s.CheckTotals())
}

func TestDates(t *testing.T) {
	a := time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC)
	b := time.Date(2024, 6, 1, 0, 1, 0, 0, time.UTC)
	assert.True(t, entity.SameDay(a, b))
	assert.Equal(t, "2024-06-01", entity.DateKey(entity.NormalizeDate(a)))

	_, err := entity.ParseDate("date", "01/06/2024")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	d, err := entity.ParseDate("date", "2024-06-01")
	require.NoError(t, err)
	assert.True(t, entity.SameDay(d, a))
}
