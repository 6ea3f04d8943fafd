package utils

import "github.com/go-gota/gota/dataframe"

func containsString(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}

// HasColumn reports whether the dataframe carries the named column.
func HasColumn(df *dataframe.DataFrame, col string) bool {
	if df == nil {
		return false
	}
	return containsString(df.Names(), col)
}

func GetStr(col string, rowIdx int, df *dataframe.DataFrame) string {
	if !HasColumn(df, col) {
		return ""
	}
	return df.Col(col).Elem(rowIdx).String()
}

func GetInt(col string, rowIdx int, df *dataframe.DataFrame) int {
	if !HasColumn(df, col) {
		return 0
	}
	val, err := df.Col(col).Elem(rowIdx).Int()
	if err != nil {
		return 0
	}
	return val
}

func GetFloat(col string, rowIdx int, df *dataframe.DataFrame) float64 {
	if !HasColumn(df, col) {
		return 0.0
	}
	return df.Col(col).Elem(rowIdx).Float()
}

func GetBool(col string, rowIdx int, df *dataframe.DataFrame) bool {
	if !HasColumn(df, col) {
		return false
	}
	val, err := df.Col(col).Elem(rowIdx).Bool()
	if err != nil {
		return false
	}
	return val
}
