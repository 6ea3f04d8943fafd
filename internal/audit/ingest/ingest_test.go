package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oscarvines/unificacionsistemas/internal/audit/types"
	"github.com/oscarvines/unificacionsistemas/internal/logger"
)

func testLogger() *logger.Logger {
	return &logger.Logger{MinLevel: logger.LevelError}
}

func TestOpenFileAndDecodeWindows1252(t *testing.T) {
	// "GARCÍA" with Í encoded as 0xCD, the Windows-1252 byte the
	// upstream extractors emit.
	content := []byte("Nombre;DNI\nGARC\xcdA LOPEZ, MARIA;16095080W\n")
	path := filepath.Join(t.TempDir(), "periodos_idc.csv")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	df, err := OpenFileAndDecode(path)
	require.NoError(t, err)

	require.Equal(t, 1, df.Nrow())
	assert.Equal(t, "GARCÍA LOPEZ, MARIA", df.Col("Nombre").Records()[0])
	assert.Equal(t, "16095080W", df.Col("DNI").Records()[0])
}

func TestOpenFileAndDecodeEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vacio.csv")
	require.NoError(t, os.WriteFile(path, []byte("Nombre;DNI\n"), 0o644))

	_, err := OpenFileAndDecode(path)
	assert.Error(t, err)
}

func TestLoadSourceMissing(t *testing.T) {
	files := BuildSourceFiles("", "", "", "")
	assert.Empty(t, files)

	_, ok := LoadSource(files, types.SourcePeriods, testLogger())
	assert.False(t, ok)

	files = BuildSourceFiles("/no/such/file.csv", "", "", "")
	_, ok = LoadSource(files, types.SourcePeriods, testLogger())
	assert.False(t, ok)
}

func TestLoadSourceCleansMoneyColumns(t *testing.T) {
	content := []byte("DNI;A\xf1o;Base CC Anual\n16095080W;2024;50.000,25\n")
	path := filepath.Join(t.TempDir(), "bases_rnt.csv")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	df, ok := LoadSource(BuildSourceFiles("", "", "", path), types.SourceBases, testLogger())
	require.True(t, ok)

	require.Contains(t, df.Names(), "Año")
	assert.Equal(t, series.Float, df.Col("Base CC Anual").Type())
	assert.InDelta(t, 50000.25, df.Col("Base CC Anual").Float()[0], 0.001)
}

func TestCleanMoneyColumns(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"Salario", "Aportacion Empresa"},
		{"1.234,56", "300,10"},
		{"invalido", "0,00"},
	}, dataframe.DetectTypes(false))

	cleaned := CleanMoneyColumns(df, []string{"Salario", "Aportacion Empresa", "No Existe"})

	assert.Equal(t, series.Float, cleaned.Col("Salario").Type())
	values := cleaned.Col("Salario").Float()
	assert.InDelta(t, 1234.56, values[0], 0.001)
	// Unparseable cells default to zero rather than poisoning the run.
	assert.InDelta(t, 0.0, values[1], 0.001)
	assert.InDelta(t, 300.10, cleaned.Col("Aportacion Empresa").Float()[0], 0.001)
}

func TestCleanMoneyColumnsLeavesNumericAlone(t *testing.T) {
	df := dataframe.New(series.New([]float64{1234.56}, series.Float, "Salario"))

	cleaned := CleanMoneyColumns(df, []string{"Salario"})
	assert.InDelta(t, 1234.56, cleaned.Col("Salario").Float()[0], 0.001)
}

func periodRecords() [][]string {
	return [][]string{
		{"Nombre", "DNI", "NIF Empresa", "Empresa", "CTP", "Autonomo", "Codigo Contrato", "Desde Info", "Hasta Info", "Inicio Contrato", "Alta", "Baja", "Tramos IT"},
		{"GARCIA LOPEZ, MARIA", "016.095.080-w", "B12345678", "ACME SL", "0", "No", "100", "01-01-2024", "31-05-2024", "01-06-2021", "01-01-2021", "", "01-03-2024/10-03-2024"},
		{"GARCIA LOPEZ, MARIA", "016.095.080-w", "B12345678", "ACME SL", "500", "No", "200", "01-06-2024", "", "01-06-2020", "01-06-2020", "15-11-2024", ""},
		{"PEREZ RUIZ, JUAN", "X1234567L", "", "", "0", "Si", "", "01-01-2024", "", "01-01-2024", "01-01-2024", "", ""},
	}
}

func TestDfRowToPeriod(t *testing.T) {
	df := dataframe.LoadRecords(periodRecords(), dataframe.DetectTypes(false))
	df = df.Mutate(series.New([]int{0, 500, 0}, series.Int, "CTP"))

	p := DfRowToPeriod(df, 0)
	assert.Equal(t, "GARCIA LOPEZ, MARIA", p.WorkerName)
	assert.Equal(t, "016.095.080-w", p.WorkerID)
	assert.Equal(t, "100", p.ContractCode)
	assert.False(t, p.SelfEmployed)
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), p.ValidFrom)
	assert.Equal(t, time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC), p.ValidTo)
	assert.Equal(t, time.Date(2021, time.June, 1, 0, 0, 0, 0, time.UTC), p.ContractStart)
	assert.Equal(t, "01-01-2021", p.RegistrationStart)
	// Missing Baja means the registration is still open.
	assert.Equal(t, types.RegistrationActive, p.RegistrationEnd)
	require.Len(t, p.Incapacity, 1)

	p = DfRowToPeriod(df, 1)
	// Missing Hasta Info means the document is still the latest word.
	assert.Equal(t, types.OpenEnd(), p.ValidTo)
	assert.Equal(t, 500, p.PartTimeFactor)
	assert.Equal(t, "15-11-2024", p.RegistrationEnd)

	p = DfRowToPeriod(df, 2)
	assert.True(t, p.SelfEmployed)
}

func TestTimelinesFromFrame(t *testing.T) {
	df := dataframe.LoadRecords(periodRecords(), dataframe.DetectTypes(false))
	df = df.Mutate(series.New([]int{0, 500, 0}, series.Int, "CTP"))

	timelines := TimelinesFromFrame(df)
	require.Len(t, timelines, 2)

	maria := timelines["GARCIA LOPEZ, MARIA"]
	require.Len(t, maria, 2)
	// The earliest contract inception spreads to every period of the
	// worker.
	for _, p := range maria {
		assert.Equal(t, time.Date(2020, time.June, 1, 0, 0, 0, 0, time.UTC), p.ContractStart)
	}

	require.Len(t, timelines["PEREZ RUIZ, JUAN"], 1)
}
