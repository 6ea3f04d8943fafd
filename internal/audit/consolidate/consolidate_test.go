package consolidate

import (
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oscarvines/unificacionsistemas/internal/logger"
)

func testLogger() *logger.Logger {
	return &logger.Logger{MinLevel: logger.LevelError}
}

func withholdingFrame() dataframe.DataFrame {
	return dataframe.LoadRecords([][]string{
		{"NIF", "Nombre", "Clave", "Dinerarias No IL", "Especie No IL", "Dinerarias IL", "Especie IL", "Retenciones"},
		{"16095080W", "GARCIA LOPEZ, MARIA", "A", "30000.0", "500.0", "1000.0", "0.0", "4000.0"},
		{"016.095.080-w", "GARCIA LOPEZ, MARIA", "A", "2000.0", "0.0", "0.0", "0.0", "300.0"},
		{"X1234567L", "PEREZ RUIZ, JUAN", "B", "15000.0", "0.0", "0.0", "0.0", "1500.0"},
		{"", "SIN IDENTIFICAR", "A", "100.0", "0.0", "0.0", "0.0", "0.0"},
	})
}

func auditFrame() dataframe.DataFrame {
	return dataframe.LoadRecords([][]string{
		{"Nombre", "DNI", "Horas Efectivas", "Tipo Total"},
		{"GARCIA LOPEZ, MARIA", "016.095.080-w", "1750.0", "31.77"},
	})
}

func basesFrame() dataframe.DataFrame {
	return dataframe.LoadRecords([][]string{
		{"DNI", "Base CC Anual"},
		{"16095080W", "50000.0"},
	})
}

func rowByKey(t *testing.T, df dataframe.DataFrame, key string) dataframe.DataFrame {
	t.Helper()
	row := df.Filter(dataframe.F{Colname: ColUnifiedID, Comparator: series.Eq, Comparando: key})
	require.Equal(t, 1, row.Nrow(), "expected exactly one row for key %s", key)
	return row
}

func floatAt(t *testing.T, df dataframe.DataFrame, col string) float64 {
	t.Helper()
	require.Contains(t, df.Names(), col)
	return df.Col(col).Float()[0]
}

func TestConsolidateDriverAndAggregation(t *testing.T) {
	result, err := Consolidate(Datasets{
		Audit:       auditFrame(),
		Withholding: withholdingFrame(),
		Bases:       basesFrame(),
	}, Options{}, testLogger())
	require.NoError(t, err)

	// Four driver rows collapse to three unified identifiers; the
	// output never exceeds the filtered driver's row count.
	assert.Equal(t, 3, result.Nrow())
	assert.Contains(t, result.Names(), ColUnifiedID)
	assert.NotContains(t, result.Names(), "DNI")
	assert.NotContains(t, result.Names(), "NIF")
	assert.NotContains(t, result.Names(), ColJoinKey)

	maria := rowByKey(t, result, "16095080W")
	assert.InDelta(t, 32000.0, floatAt(t, maria, "Dinerarias No IL"), 0.001)
	assert.InDelta(t, 4300.0, floatAt(t, maria, "Retenciones"), 0.001)
}

func TestConsolidateCollisionSuffixes(t *testing.T) {
	result, err := Consolidate(Datasets{
		Audit:       auditFrame(),
		Withholding: withholdingFrame(),
	}, Options{}, testLogger())
	require.NoError(t, err)

	// The driver keeps the canonical column name; the colliding audit
	// column gets the source suffix.
	assert.Contains(t, result.Names(), "Nombre")
	assert.Contains(t, result.Names(), "Nombre_IDC")
}

func TestConsolidateDerivedMetrics(t *testing.T) {
	result, err := Consolidate(Datasets{
		Audit:       auditFrame(),
		Withholding: withholdingFrame(),
		Bases:       basesFrame(),
	}, Options{}, testLogger())
	require.NoError(t, err)

	maria := rowByKey(t, result, "16095080W")
	assert.InDelta(t, 33500.0, floatAt(t, maria, ColGrossPerceptions), 0.001)
	assert.InDelta(t, 15885.0, floatAt(t, maria, ColSSCost), 0.001)
	assert.InDelta(t, 19.14, floatAt(t, maria, ColHourlyCost), 0.001)
	assert.InDelta(t, 27.93, floatAt(t, maria, ColRealHourlyCost), 0.001)
}

func TestConsolidateUnmatchedDriverRows(t *testing.T) {
	result, err := Consolidate(Datasets{
		Audit:       auditFrame(),
		Withholding: withholdingFrame(),
		Bases:       basesFrame(),
	}, Options{}, testLogger())
	require.NoError(t, err)

	// The keyless driver row surfaces unmatched instead of silently
	// pairing with other keyless rows.
	noKey := rowByKey(t, result, "SINNIF")
	assert.True(t, math.IsNaN(floatAt(t, noKey, "Horas Efectivas")))
	assert.True(t, math.IsNaN(floatAt(t, noKey, ColHourlyCost)))

	// Juan appears in no enrichment source but keeps his driver data.
	juan := rowByKey(t, result, "X1234567L")
	assert.InDelta(t, 15000.0, floatAt(t, juan, "Dinerarias No IL"), 0.001)
	assert.True(t, math.IsNaN(floatAt(t, juan, ColSSCost)))
}

func TestConsolidateClaveFilter(t *testing.T) {
	result, err := Consolidate(Datasets{
		Withholding: withholdingFrame(),
	}, Options{Claves: []string{"A"}}, testLogger())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Nrow())
	for _, key := range result.Col(ColUnifiedID).Records() {
		assert.NotEqual(t, "X1234567L", key)
	}
}

func TestConsolidateWorkerFilter(t *testing.T) {
	result, err := Consolidate(Datasets{
		Withholding: withholdingFrame(),
	}, Options{Workers: []string{"PEREZ RUIZ, JUAN"}}, testLogger())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Nrow())
	assert.Equal(t, "X1234567L", result.Col(ColUnifiedID).Records()[0])
}

func TestConsolidateColumnSelection(t *testing.T) {
	result, err := Consolidate(Datasets{
		Withholding: withholdingFrame(),
	}, Options{Columns: []string{"Nombre", "Retenciones", "No Existe"}}, testLogger())
	require.NoError(t, err)

	// The unified identifier is always kept; unknown requests are
	// ignored.
	assert.ElementsMatch(t, []string{ColUnifiedID, "Nombre", "Retenciones"}, result.Names())
}

func TestConsolidateNothingToReport(t *testing.T) {
	_, err := Consolidate(Datasets{}, Options{}, testLogger())
	assert.ErrorIs(t, err, ErrNothingToReport)

	_, err = Consolidate(Datasets{
		Withholding: withholdingFrame(),
	}, Options{Claves: []string{"Z"}}, testLogger())
	assert.ErrorIs(t, err, ErrNothingToReport)
}
