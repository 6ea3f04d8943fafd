package ingest

import (
	"fmt"
	"os"

	"github.com/go-gota/gota/dataframe"
	"golang.org/x/text/encoding/charmap"

	"github.com/oscarvines/unificacionsistemas/internal/audit/types"
	"github.com/oscarvines/unificacionsistemas/internal/logger"
)

// SourceFiles maps each data source to the CSV extract the upstream
// document extractors produced for it. A missing entry (or missing
// file) means that source contributes nothing to the run.
type SourceFiles map[types.DataSource]string

func BuildSourceFiles(periods, withholding, payroll, bases string) SourceFiles {
	files := make(SourceFiles, 4)
	if periods != "" {
		files[types.SourcePeriods] = periods
	}
	if withholding != "" {
		files[types.SourceWithholding] = withholding
	}
	if payroll != "" {
		files[types.SourcePayroll] = payroll
	}
	if bases != "" {
		files[types.SourceBases] = bases
	}
	return files
}

// OpenFileAndDecode reads one extract. The upstream tooling writes
// Windows-1252 CSVs with ';' delimiters, the convention of Spanish
// payroll software exports.
func OpenFileAndDecode(path string) (dataframe.DataFrame, error) {
	file, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open file %s: %v", path, err)
	}
	defer file.Close()

	decoded := charmap.Windows1252.NewDecoder().Reader(file)
	df := dataframe.ReadCSV(decoded, dataframe.WithDelimiter(';'), dataframe.WithLazyQuotes(true))
	if df.Error() != nil {
		return dataframe.DataFrame{}, df.Error()
	}
	if df.Nrow() == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("dataframe is empty")
	}

	return df, nil
}

// LoadSource opens one source's extract, tolerating its absence: a
// source that was never uploaded yields an empty frame and false.
// Money columns arriving as decimal-comma text are converted to
// numeric series here, so everything downstream sees true numbers.
func LoadSource(files SourceFiles, src types.DataSource, appLogger *logger.Logger) (dataframe.DataFrame, bool) {
	const component = "Ingestor"

	path, ok := files[src]
	if !ok {
		appLogger.Debug(component, "Source not provided: source=%s", types.SourceNames[src])
		return dataframe.DataFrame{}, false
	}

	df, err := OpenFileAndDecode(path)
	if err != nil {
		appLogger.Warn(component, "Source unreadable, contributing nothing: source=%s path=%s error=%v", types.SourceNames[src], path, err)
		return dataframe.DataFrame{}, false
	}

	if cols := types.MoneyColumnsForSource[src]; len(cols) > 0 {
		df = CleanMoneyColumns(df, cols)
	}

	appLogger.Info(component, "Source loaded: source=%s rows=%d columns=%d", types.SourceNames[src], df.Nrow(), df.Ncol())
	return df, true
}
