package export

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"

	"github.com/oscarvines/unificacionsistemas/internal/logger"
)

// decimalCommaColumns are rendered as Spanish decimal-comma text in the
// workbook, matching what the downstream reviewers paste into their
// tooling. Everything else numeric stays a native number cell.
var decimalCommaColumns = map[string]bool{
	"Aportacion Empresa": true,
}

// Sheet pairs a worksheet name with the table written into it.
type Sheet struct {
	Name  string
	Frame dataframe.DataFrame
}

// WriteWorkbook writes one xlsx workbook with a sheet per non-empty
// table. Headers go on row 1; NaN cells are left blank.
func WriteWorkbook(path string, sheets []Sheet, appLogger *logger.Logger) error {
	const component = "Exporter"

	f := excelize.NewFile()
	defer f.Close()

	written := 0
	for _, sheet := range sheets {
		if sheet.Frame.Nrow() == 0 || sheet.Frame.Ncol() == 0 {
			appLogger.Debug(component, "Skipping empty sheet: sheet=%s", sheet.Name)
			continue
		}
		if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %v", sheet.Name, err)
		}
		if err := writeFrame(f, sheet.Name, sheet.Frame); err != nil {
			return fmt.Errorf("failed to write sheet %s: %v", sheet.Name, err)
		}
		appLogger.Debug(component, "Sheet written: sheet=%s rows=%d", sheet.Name, sheet.Frame.Nrow())
		written++
	}
	if written == 0 {
		return fmt.Errorf("no sheets to write")
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %v", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %v", path, err)
	}

	appLogger.Info(component, "Workbook saved: path=%s sheets=%d", path, written)
	return nil
}

func writeFrame(f *excelize.File, sheetName string, df dataframe.DataFrame) error {
	names := df.Names()
	colTypes := df.Types()

	for ci, name := range names {
		cell, err := excelize.CoordinatesToCellName(ci+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return err
		}
	}

	for ci, name := range names {
		records := df.Col(name).Records()
		for ri, rec := range records {
			cell, err := excelize.CoordinatesToCellName(ci+1, ri+2)
			if err != nil {
				return err
			}
			if err := setCell(f, sheetName, cell, name, colTypes[ci], rec); err != nil {
				return err
			}
		}
	}
	return nil
}

func setCell(f *excelize.File, sheetName, cell, column string, colType series.Type, rec string) error {
	switch colType {
	case series.Float:
		v, err := strconv.ParseFloat(rec, 64)
		if err != nil || math.IsNaN(v) {
			return nil
		}
		if decimalCommaColumns[column] {
			return f.SetCellValue(sheetName, cell, decimalComma(v))
		}
		return f.SetCellValue(sheetName, cell, v)
	case series.Int:
		v, err := strconv.Atoi(rec)
		if err != nil {
			return nil
		}
		return f.SetCellValue(sheetName, cell, v)
	case series.Bool:
		v, err := strconv.ParseBool(rec)
		if err != nil {
			return nil
		}
		return f.SetCellValue(sheetName, cell, v)
	default:
		if rec == "" || rec == "NaN" {
			return nil
		}
		return f.SetCellValue(sheetName, cell, rec)
	}
}

func decimalComma(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', 2, 64), ".", ",", 1)
}
