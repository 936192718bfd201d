package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/jhoicas/acopio-api/internal/domain"
	"github.com/jhoicas/acopio-api/internal/domain/entity"
	"github.com/jhoicas/acopio-api/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var (
	junio1 = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	junio2 = time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
)

func item(crop string, grade entity.QualityGrade, qty string) entity.InventoryItem {
	return entity.InventoryItem{
		ID:           crop + "-" + string(grade) + "-" + qty,
		CropName:     crop,
		QualityGrade: grade,
		Quantity:     decimal.RequireFromString(qty),
	}
}

func snap(id string, date time.Time, center string, items ...entity.InventoryItem) entity.InventorySnapshot {
	return entity.InventorySnapshot{
		ID:        id,
		Date:      date,
		CenterID:  center,
		CompanyID: "empresa-1",
		Items:     items,
	}
}

// scenarioA: tres centros con manzana A el 2024-06-01 (1000/1200/900 kg).
func scenarioA() []entity.InventorySnapshot {
	return []entity.InventorySnapshot{
		snap("s1", junio1, "1", item("apple", entity.GradeA, "1000")),
		snap("s2", junio1, "2", item("apple", entity.GradeA, "1200")),
		snap("s3", junio1, "3", item("apple", entity.GradeA, "900")),
	}
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got),
		append([]interface{}{"esperado %s, obtenido %s", want, got.String()}, msgAndArgs...)...)
}

// totalsByCropGrade reduce buckets a cultivo|calidad → total.
func totalsByCropGrade(buckets []inventory.AggregatedBucket) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, b := range buckets {
		k := b.Key.CropName + "|" + string(b.Key.QualityGrade)
		out[k] = out[k].Add(b.TotalQuantity)
	}
	return out
}

var cropGrade = inventory.NewGroupBy(inventory.DimCropName, inventory.DimQualityGrade)

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios
// ──────────────────────────────────────────────────────────────────────────────

func TestRollupByCropGrade_EscenarioA(t *testing.T) {
	buckets, err := inventory.RollupByCropGrade(scenarioA())
	require.NoError(t, err)
	require.Len(t, buckets, 1)

	b := buckets[0]
	assert.Equal(t, "apple", b.Key.CropName)
	assert.Equal(t, entity.GradeA, b.Key.QualityGrade)
	assertDec(t, "3100", b.TotalQuantity)
	assert.Equal(t, 3, b.SourceCenterCount)
	require.Len(t, b.CenterBreakdown, 3)
	assertDec(t, "1000", b.CenterBreakdown["1"])
	assertDec(t, "1200", b.CenterBreakdown["2"])
	assertDec(t, "900", b.CenterBreakdown["3"])
}

func TestAggregate_EscenarioC_FiltroPorCentro(t *testing.T) {
	buckets, err := inventory.Aggregate(scenarioA(), cropGrade, inventory.FilterCriteria{CenterID: "2"})
	require.NoError(t, err)
	require.Len(t, buckets, 1)

	assertDec(t, "1200", buckets[0].TotalQuantity)
	assert.Equal(t, 1, buckets[0].SourceCenterCount)
	assert.Len(t, buckets[0].CenterBreakdown, 1)
	assertDec(t, "1200", buckets[0].CenterBreakdown["2"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades
// ──────────────────────────────────────────────────────────────────────────────

// TestAggregate_InvarianzaDeSuma partir las líneas de un snapshot en dos mitades y sumar las
// agregaciones de cada mitad da lo mismo que agregar el todo.
func TestAggregate_InvarianzaDeSuma(t *testing.T) {
	items := []entity.InventoryItem{
		item("apple", entity.GradeA, "100.5"),
		item("apple", entity.GradeB, "40"),
		item("pear", entity.GradeA, "12.25"),
		item("apple", entity.GradeA, "9.5"),
		item("pear", entity.GradeC, "0"),
		item("grape", entity.GradeB, "3"),
	}
	whole := []entity.InventorySnapshot{snap("s", junio1, "1", items...)}
	left := []entity.InventorySnapshot{snap("s", junio1, "1", items[:3]...)}
	right := []entity.InventorySnapshot{snap("s", junio1, "1", items[3:]...)}

	all, err := inventory.Aggregate(whole, cropGrade, inventory.FilterCriteria{})
	require.NoError(t, err)
	l, err := inventory.Aggregate(left, cropGrade, inventory.FilterCriteria{})
	require.NoError(t, err)
	r, err := inventory.Aggregate(right, cropGrade, inventory.FilterCriteria{})
	require.NoError(t, err)

	want := totalsByCropGrade(all)
	got := totalsByCropGrade(append(l, r...))
	require.Len(t, got, len(want))
	for k, v := range want {
		assert.True(t, v.Equal(got[k]), "cultivo|calidad %s: %s != %s", k, v, got[k])
	}
	assertDec(t, "165.25", inventory.SumTotals(all))
}

func TestFilter_Idempotente(t *testing.T) {
	snaps := append(scenarioA(), snap("s4", junio2, "2", item("pear", entity.GradeB, "50")))
	d := junio1
	criterios := []inventory.FilterCriteria{
		{},
		{CenterID: "2"},
		{Date: &d},
		{Date: &d, CenterID: "3"},
		{CenterID: "no-existe"},
	}
	for _, c := range criterios {
		once := inventory.Filter(snaps, c)
		twice := inventory.Filter(once, c)
		assert.Equal(t, once, twice)
	}
}

// TestAggregate_RefinamientoDeAgrupacion agrupar por (cultivo, calidad, centro) y luego sumar
// los centros da los mismos totales que agrupar directamente por (cultivo, calidad).
func TestAggregate_RefinamientoDeAgrupacion(t *testing.T) {
	snaps := append(scenarioA(),
		snap("s4", junio1, "1", item("pear", entity.GradeB, "50"), item("apple", entity.GradeA, "5")),
		snap("s5", junio1, "3", item("pear", entity.GradeB, "7.75")),
	)
	fine, err := inventory.Aggregate(snaps,
		inventory.NewGroupBy(inventory.DimCropName, inventory.DimQualityGrade, inventory.DimCenterID),
		inventory.FilterCriteria{})
	require.NoError(t, err)
	coarse, err := inventory.Aggregate(snaps, cropGrade, inventory.FilterCriteria{})
	require.NoError(t, err)

	want := totalsByCropGrade(coarse)
	got := totalsByCropGrade(fine)
	require.Len(t, got, len(want))
	for k, v := range want {
		assert.True(t, v.Equal(got[k]), "cultivo|calidad %s", k)
	}
}

func TestAggregationKey_EncodeSinColisiones(t *testing.T) {
	g := inventory.NewGroupBy(inventory.DimCropName, inventory.DimCenterID)
	pares := [][2]inventory.AggregationKey{
		{{Fields: g, CropName: "a", CenterID: "b\x1f\x1fz"}, {Fields: g, CropName: "a\x1f\x1fb", CenterID: "z"}},
		{{Fields: g, CropName: "a", CenterID: "1:b;3:z"}, {Fields: g, CropName: "a;1:b", CenterID: "z"}},
		{{Fields: g, CropName: "", CenterID: "x"}, {Fields: inventory.NewGroupBy(inventory.DimCenterID), CenterID: "x"}},
	}
	for _, p := range pares {
		assert.NotEqual(t, p[0].Encode(), p[1].Encode(), "%+v vs %+v", p[0], p[1])
	}
}

// Nombres con los caracteres del formato de la llave no se mezclan en un mismo bucket.
func TestAggregate_NombresConSeparadoresNoColisionan(t *testing.T) {
	snaps := []entity.InventorySnapshot{
		snap("s1", junio1, "b;1:z", item("a", entity.GradeA, "1")),
		snap("s2", junio1, "z", item("a;1:b", entity.GradeA, "2")),
	}
	buckets, err := inventory.Aggregate(snaps,
		inventory.NewGroupBy(inventory.DimCropName, inventory.DimCenterID), inventory.FilterCriteria{})
	require.NoError(t, err)
	assert.Len(t, buckets, 2)
}

func TestAggregate_CaracteresDeControlSeRechazan(t *testing.T) {
	casos := map[string]entity.InventorySnapshot{
		"cultivo": snap("s1", junio1, "1", item("a\x1f\x1fb", entity.GradeA, "1")),
		"centro":  snap("s2", junio1, "b\x1f\x1fz", item("a", entity.GradeA, "1")),
	}
	for name, sn := range casos {
		t.Run(name, func(t *testing.T) {
			_, err := inventory.Aggregate([]entity.InventorySnapshot{sn},
				inventory.NewGroupBy(inventory.DimCropName, inventory.DimCenterID), inventory.FilterCriteria{})
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Semántica de buckets
// ──────────────────────────────────────────────────────────────────────────────

func TestAggregate_LineasDuplicadasSeSuman(t *testing.T) {
	snaps := []entity.InventorySnapshot{
		snap("s1", junio1, "1", item("apple", entity.GradeA, "10"), item("apple", entity.GradeA, "15")),
	}
	buckets, err := inventory.Aggregate(snaps, cropGrade, inventory.FilterCriteria{})
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assertDec(t, "25", buckets[0].TotalQuantity)
}

func TestAggregate_CentroConSoloCeroNoCuentaComoStock(t *testing.T) {
	snaps := []entity.InventorySnapshot{
		snap("s1", junio1, "1", item("apple", entity.GradeA, "0")),
		snap("s2", junio1, "2", item("apple", entity.GradeA, "0"), item("apple", entity.GradeA, "30")),
	}
	buckets, err := inventory.Aggregate(snaps, cropGrade, inventory.FilterCriteria{})
	require.NoError(t, err)
	require.Len(t, buckets, 1)

	assert.Equal(t, 1, buckets[0].SourceCenterCount, "solo el centro 2 tiene stock")
	assertDec(t, "0", buckets[0].CenterBreakdown["1"])
	assertDec(t, "30", buckets[0].CenterBreakdown["2"])
}

func TestAggregate_BucketSoloConCeros(t *testing.T) {
	snaps := []entity.InventorySnapshot{snap("s1", junio1, "1", item("apple", entity.GradeC, "0"))}
	buckets, err := inventory.Aggregate(snaps, cropGrade, inventory.FilterCriteria{})
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assertDec(t, "0", buckets[0].TotalQuantity)
	assert.Equal(t, 0, buckets[0].SourceCenterCount)
}

func TestAggregate_EntradaVaciaNoEsError(t *testing.T) {
	buckets, err := inventory.Aggregate(nil, cropGrade, inventory.FilterCriteria{})
	require.NoError(t, err)
	assert.NotNil(t, buckets)
	assert.Empty(t, buckets)

	buckets, err = inventory.Aggregate(scenarioA(), cropGrade, inventory.FilterCriteria{CropName: "kiwi"})
	require.NoError(t, err)
	assert.Empty(t, buckets, "un filtro sin coincidencias devuelve vacío")
}

func TestAggregate_SinDimensionesBucketGlobal(t *testing.T) {
	snaps := append(scenarioA(), snap("s4", junio2, "4", item("pear", entity.GradeB, "50")))
	buckets, err := inventory.Aggregate(snaps, inventory.NewGroupBy(), inventory.FilterCriteria{})
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assertDec(t, "3150", buckets[0].TotalQuantity)
	assert.Equal(t, 4, buckets[0].SourceCenterCount)
}

func TestAggregate_DesgloseAunqueCentroNoSeaDimension(t *testing.T) {
	buckets, err := inventory.Aggregate(scenarioA(), inventory.NewGroupBy(inventory.DimCropName), inventory.FilterCriteria{})
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Len(t, buckets[0].CenterBreakdown, 3)
	assert.Empty(t, buckets[0].Key.CenterID, "el centro es comodín en la llave")
}

func TestAggregate_FiltroDeLineasPorCultivoYCalidad(t *testing.T) {
	snaps := []entity.InventorySnapshot{
		snap("s1", junio1, "1",
			item("apple", entity.GradeA, "10"),
			item("apple", entity.GradeB, "20"),
			item("pear", entity.GradeA, "30")),
	}
	buckets, err := inventory.Aggregate(snaps, cropGrade,
		inventory.FilterCriteria{CropName: "apple", QualityGrade: entity.GradeB})
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assertDec(t, "20", buckets[0].TotalQuantity)
}

func TestAggregate_AgrupaPorFechaDeCalendario(t *testing.T) {
	manana := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)
	tarde := time.Date(2024, 6, 1, 17, 45, 0, 0, time.UTC)
	snaps := []entity.InventorySnapshot{
		snap("s1", manana, "1", item("apple", entity.GradeA, "1")),
		snap("s2", tarde, "1", item("apple", entity.GradeA, "2")),
		snap("s3", junio2, "1", item("apple", entity.GradeA, "4")),
	}
	buckets, err := inventory.Aggregate(snaps, inventory.NewGroupBy(inventory.DimDate), inventory.FilterCriteria{})
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, "2024-06-01", entity.DateKey(buckets[0].Key.Date))
	assertDec(t, "3", buckets[0].TotalQuantity)
	assert.Equal(t, "2024-06-02", entity.DateKey(buckets[1].Key.Date))

	d := time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC)
	filtered, err := inventory.Aggregate(snaps, inventory.NewGroupBy(), inventory.FilterCriteria{Date: &d})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assertDec(t, "3", filtered[0].TotalQuantity, "el filtro por fecha ignora la hora")
}

// ──────────────────────────────────────────────────────────────────────────────
// Orden
// ──────────────────────────────────────────────────────────────────────────────

func TestAggregate_OrdenDeterministaYSensibleAlIdioma(t *testing.T) {
	snaps := []entity.InventorySnapshot{
		snap("s1", junio1, "10",
			item("zanahoria", entity.GradeA, "1"),
			item("ñame", entity.GradeC, "1"),
			item("ñame", entity.GradeA, "1")),
		snap("s2", junio1, "2",
			item("naranja", entity.GradeB, "1"),
			item("ñame", entity.GradeA, "1")),
	}
	groupBy := inventory.NewGroupBy(inventory.DimCropName, inventory.DimQualityGrade, inventory.DimCenterID)
	buckets, err := inventory.Aggregate(snaps, groupBy, inventory.FilterCriteria{})
	require.NoError(t, err)

	got := make([]string, 0, len(buckets))
	for _, b := range buckets {
		got = append(got, b.Key.CropName+"/"+string(b.Key.QualityGrade)+"/"+b.Key.CenterID)
	}
	assert.Equal(t, []string{
		"naranja/B/2",
		"ñame/A/2",
		"ñame/A/10",
		"ñame/C/10",
		"zanahoria/A/10",
	}, got)

	// Mismo resultado con la entrada invertida.
	reversed := []entity.InventorySnapshot{snaps[1], snaps[0]}
	again, err := inventory.NewEngine(language.Spanish).Aggregate(reversed, groupBy, inventory.FilterCriteria{})
	require.NoError(t, err)
	assert.Equal(t, buckets, again)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación
// ──────────────────────────────────────────────────────────────────────────────

func TestAggregate_CantidadNegativaEsErrorDeValidacion(t *testing.T) {
	snaps := append(scenarioA(), snap("s4", junio1, "4", item("apple", entity.GradeA, "-1")))
	buckets, err := inventory.Aggregate(snaps, cropGrade, inventory.FilterCriteria{CenterID: "1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, buckets, "no se devuelven buckets parciales")

	ve, ok := domain.IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "quantity", ve.Field)
}

func TestAggregate_EntradasMalFormadas(t *testing.T) {
	casos := map[string]entity.InventorySnapshot{
		"calidad desconocida": snap("x", junio1, "1", item("apple", entity.QualityGrade("Z"), "1")),
		"cultivo vacío":       snap("x", junio1, "1", item(" ", entity.GradeA, "1")),
		"sin centro":          snap("x", junio1, "", item("apple", entity.GradeA, "1")),
		"sin fecha":           snap("x", time.Time{}, "1", item("apple", entity.GradeA, "1")),
	}
	for name, s := range casos {
		t.Run(name, func(t *testing.T) {
			_, err := inventory.Aggregate([]entity.InventorySnapshot{s}, cropGrade, inventory.FilterCriteria{})
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	_, err := inventory.Aggregate(scenarioA(), cropGrade, inventory.FilterCriteria{QualityGrade: "Z"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "criterio con calidad desconocida")
}

func TestAggregate_NoModificaLaEntrada(t *testing.T) {
	snaps := scenarioA()
	before := make([]entity.InventorySnapshot, len(snaps))
	for i, s := range snaps {
		before[i] = s
		before[i].Items = append([]entity.InventoryItem(nil), s.Items...)
	}

	filtered := inventory.Filter(snaps, inventory.FilterCriteria{CenterID: "1"})
	filtered[0].Items[0].Quantity = decimal.NewFromInt(1)

	_, err := inventory.RollupByCropGrade(snaps)
	require.NoError(t, err)
	assert.Equal(t, before, snaps)
}
